package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

func TestRetry(t *testing.T) {
	down := &Error{Kind: KindUnavailable, Err: errors.New("down")}
	limited := &Error{Kind: KindRateLimited, RetryAfter: time.Millisecond}
	invalid := &Error{Kind: KindInvalid}
	truncated := &Error{Kind: KindTruncated}
	ok := Reply{Content: `{"ok":true}`}

	tests := []struct {
		name      string
		replies   []Reply
		wantErr   error
		wantCalls int
	}{
		{"first attempt", []Reply{ok}, nil, 1},
		{"transient then success", []Reply{{Err: down}, {Err: limited}, ok}, nil, 3},
		{"gives up", []Reply{{Err: down}, {Err: down}, {Err: down}, ok}, down, 3},
		{"invalid retried once", []Reply{{Err: invalid}, ok}, nil, 2},
		{"invalid twice", []Reply{{Err: invalid}, {Err: invalid}, ok}, invalid, 2},
		{"truncated not retried", []Reply{{Err: truncated}, ok}, truncated, 1},
		{"cancelled not retried", []Reply{{Err: context.Canceled}, ok}, context.Canceled, 1},
		{"untyped error retried", []Reply{{Err: errors.New("reset")}, ok}, nil, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMock(tt.replies...)
			resp, err := Retry(mock, fastRetry()).Generate(context.Background(), Request{})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil || string(resp.Content) != `{"ok":true}` {
				t.Fatalf("Generate = %v, %v", resp, err)
			}
			if got := len(mock.Requests()); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetry_ContextCancelledDuringWait(t *testing.T) {
	mock := NewMock(Reply{Err: &Error{Kind: KindUnavailable}}, Reply{Content: `{}`})
	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Retry(mock, cfg).Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
	if got := len(mock.Requests()); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
}

func TestRetry_Timeout(t *testing.T) {
	slow := &Mock{Respond: func(Request) (string, error) { return "", &Error{Kind: KindUnavailable} }}
	cfg := fastRetry()
	cfg.MaxAttempts = 100
	cfg.InitialWait = 10 * time.Millisecond
	cfg.MaxWait = 10 * time.Millisecond
	cfg.Timeout = 30 * time.Millisecond

	_, err := Retry(slow, cfg).Generate(context.Background(), Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}

func TestRetry_Wait(t *testing.T) {
	r := &retrying{cfg: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: 300 * time.Millisecond, Multiplier: 2}}

	for attempt, base := range []time.Duration{100, 200, 300, 300} {
		base *= time.Millisecond
		got := r.wait(attempt, errors.New("x"))
		lo, hi := base*8/10, base*12/10
		if got < lo || got > hi {
			t.Errorf("wait(%d) = %v, want within [%v, %v]", attempt, got, lo, hi)
		}
	}

	if got := r.wait(0, &Error{Kind: KindRateLimited, RetryAfter: 7 * time.Second}); got != 7*time.Second {
		t.Errorf("wait with Retry-After = %v", got)
	}
}

func TestRetry_Delegates(t *testing.T) {
	p := Retry(NewMock(), fastRetry())
	if p.Name() != "mock" || p.Model() != "mock" {
		t.Errorf("Name/Model = %q/%q", p.Name(), p.Model())
	}
}
