// Package llm asks hosted language models for structured JSON. Each
// provider adapter speaks one SDK; Retry and Record wrap any of them.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured response per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Name is the provider key, e.g. "gemini".
	Name() string

	// Model is the model ID requests are sent to.
	Model() string
}

// Request is a single-turn generation call.
type Request struct {
	System string
	Prompt string

	// Schema, when set, asks the provider for JSON output and the
	// response is validated against it.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Response is what a provider returned.
type Response struct {
	Content json.RawMessage
	Usage   Usage

	// Model is the model that served the request, which may be more
	// specific than the one asked for.
	Model string

	// Truncated reports that generation stopped at MaxTokens.
	Truncated bool
}

// Usage counts tokens for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

func (u Usage) Total() int { return u.InputTokens + u.OutputTokens }

// complete turns raw provider output into a Response, rejecting output
// that was cut short or does not match the request schema.
func complete(req Request, text, model string, usage Usage, truncated bool) (*Response, error) {
	content := json.RawMessage(text)
	if req.Schema != nil {
		if truncated {
			return nil, &Error{Kind: KindTruncated, Content: content}
		}
		if err := req.Schema.Validate(content); err != nil {
			return nil, err
		}
	}
	return &Response{Content: content, Usage: usage, Model: model, Truncated: truncated}, nil
}

type purposeKey struct{}

// WithPurpose labels calls made with ctx in the request log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
