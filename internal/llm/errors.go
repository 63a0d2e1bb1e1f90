package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Kind classifies provider failures for retry decisions.
type Kind int

const (
	KindUnavailable Kind = iota
	KindRateLimited
	KindInvalid
	KindTruncated
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate limited"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "response truncated"
	default:
		return "provider unavailable"
	}
}

// Error is returned by every provider adapter.
type Error struct {
	Kind Kind

	// RetryAfter is the server's requested wait, when it sent one.
	RetryAfter time.Duration

	// Content is the offending output for KindInvalid and KindTruncated.
	Content json.RawMessage

	Err error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf reports the Kind of err, if it is or wraps an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// httpError classifies an SDK error by HTTP status. Anything that is not
// a rate limit counts as the provider being unavailable.
func httpError(status int, header http.Header, err error) error {
	if status == http.StatusTooManyRequests {
		return &Error{Kind: KindRateLimited, RetryAfter: retryAfter(header), Err: err}
	}
	return &Error{Kind: KindUnavailable, Err: err}
}

func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
