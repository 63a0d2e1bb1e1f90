package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is one scripted Mock result.
type Reply struct {
	Content string
	Usage   Usage
	Err     error
}

// Mock replays scripted replies in order and records each request. When
// Respond is set it answers instead of the script. Out of replies, it
// fails as unavailable.
type Mock struct {
	Respond func(Request) (string, error)

	mu       sync.Mutex
	replies  []Reply
	requests []Request
}

// NewMock returns a Mock that replays replies.
func NewMock(replies ...Reply) *Mock {
	return &Mock{replies: replies}
}

func (m *Mock) Name() string  { return "mock" }
func (m *Mock) Model() string { return "mock" }

func (m *Mock) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	var next Reply
	switch {
	case m.Respond != nil:
		next.Content, next.Err = m.Respond(req)
	case len(m.replies) > 0:
		next, m.replies = m.replies[0], m.replies[1:]
	default:
		next.Err = &Error{Kind: KindUnavailable}
	}
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: json.RawMessage(next.Content), Usage: next.Usage, Model: "mock"}, nil
}

// Requests returns the requests seen so far.
func (m *Mock) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.requests...)
}
