package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"
)

// fakeAPI serves status and body for every request and keeps the last
// request body.
type fakeAPI struct {
	status  int
	header  map[string]string
	body    any

	mu      sync.Mutex
	lastReq string
	path    string
}

func (f *fakeAPI) last() (body, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastReq, f.path
}

func (f *fakeAPI) start(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.lastReq, f.path = string(b), r.URL.Path
		f.mu.Unlock()
		for k, v := range f.header {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		json.NewEncoder(w).Encode(f.body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

var cardReq = Request{
	System:    "You write flashcards.",
	Prompt:    "One card about Peru.",
	Schema:    cardSchema,
	MaxTokens: 256,
}

const cardJSON = `{"question":"Capital of Peru?","answer":"Lima"}`

func wantKind(t *testing.T, err error, want Kind) {
	t.Helper()
	got, ok := KindOf(err)
	if !ok || got != want {
		t.Fatalf("err = %v, want %s", err, want)
	}
}

func anthropicReply(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_1",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func newTestAnthropic(t *testing.T, api *fakeAPI) *Anthropic {
	t.Helper()
	p, err := NewAnthropic("test-key", "claude-haiku", option.WithBaseURL(api.start(t)))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestAnthropic(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, body: anthropicReply(cardJSON, "end_turn")}
	p := newTestAnthropic(t, api)

	resp, err := p.Generate(context.Background(), cardReq)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != cardJSON || resp.Usage.Total() != 80 || resp.Model != "claude-haiku-4-5-20251001" {
		t.Errorf("resp = %+v", resp)
	}
	sent, _ := api.last()
	for _, want := range []string{"You write flashcards.", "One card about Peru.", "claude-haiku-4-5-20251001"} {
		if !strings.Contains(sent, want) {
			t.Errorf("request missing %q: %s", want, sent)
		}
	}
}

func TestAnthropic_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		body   any
		want   Kind
	}{
		{"rate limit", http.StatusTooManyRequests, map[string]string{"Retry-After": "3"},
			map[string]any{"type": "error", "error": map[string]any{"type": "rate_limit_error", "message": "slow down"}}, KindRateLimited},
		{"server error", http.StatusInternalServerError, nil,
			map[string]any{"type": "error", "error": map[string]any{"type": "api_error", "message": "oops"}}, KindUnavailable},
		{"schema mismatch", http.StatusOK, nil, anthropicReply(`{"question":"q"}`, "end_turn"), KindInvalid},
		{"truncated", http.StatusOK, nil, anthropicReply(`{"question":"q`, "max_tokens"), KindTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestAnthropic(t, &fakeAPI{status: tt.status, header: tt.header, body: tt.body})
			_, err := p.Generate(context.Background(), cardReq)
			wantKind(t, err, tt.want)
			if tt.want == KindRateLimited {
				if e := err.(*Error); e.RetryAfter != 3*time.Second {
					t.Errorf("RetryAfter = %v, want 3s", e.RetryAfter)
				}
			}
		})
	}
}

func openAIReply(text, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"model":   "gpt-4o-mini-2024-07-18",
		"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": text}, "finish_reason": finish}},
		"usage":   map[string]any{"prompt_tokens": 20, "completion_tokens": 10, "total_tokens": 30},
	}
}

func newTestOpenAI(t *testing.T, api *fakeAPI) *OpenAI {
	t.Helper()
	p, err := NewOpenAI("test-key", "gpt-4o-mini", api.start(t)+"/v1")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestOpenAI(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, body: openAIReply(cardJSON, "stop")}
	p := newTestOpenAI(t, api)

	resp, err := p.Generate(context.Background(), cardReq)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != cardJSON || resp.Usage.InputTokens != 20 || resp.Model != "gpt-4o-mini-2024-07-18" {
		t.Errorf("resp = %+v", resp)
	}

	var sent struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string         `json:"name"`
				Schema map[string]any `json:"schema"`
				Strict bool           `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	body, _ := api.last()
	if err := json.Unmarshal([]byte(body), &sent); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if len(sent.Messages) != 2 || sent.Messages[0].Role != "system" || sent.Messages[1].Content != "One card about Peru." {
		t.Errorf("messages = %+v", sent.Messages)
	}
	rf := sent.ResponseFormat
	if rf.Type != "json_schema" || rf.JSONSchema.Name != "card" || !rf.JSONSchema.Strict || rf.JSONSchema.Schema["type"] != "object" {
		t.Errorf("response_format = %+v", rf)
	}
}

func TestOpenAI_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   Kind
	}{
		{"rate limit", http.StatusTooManyRequests,
			map[string]any{"error": map[string]any{"type": "tokens", "message": "slow down", "code": "rate_limit_exceeded"}}, KindRateLimited},
		{"server error", http.StatusInternalServerError,
			map[string]any{"error": map[string]any{"type": "server_error", "message": "oops"}}, KindUnavailable},
		{"no choices", http.StatusOK, map[string]any{"id": "x", "model": "gpt-4o-mini", "choices": []any{}}, KindInvalid},
		{"truncated", http.StatusOK, openAIReply(`{"question":`, "length"), KindTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAI(t, &fakeAPI{status: tt.status, body: tt.body})
			_, err := p.Generate(context.Background(), cardReq)
			wantKind(t, err, tt.want)
		})
	}
}

func TestOpenRouter(t *testing.T) {
	p, err := NewOpenRouter("k", "meta/llama", "")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "openrouter" || p.Model() != "meta/llama" {
		t.Errorf("OpenRouter = %s/%s", p.Name(), p.Model())
	}
	if _, err := NewOpenRouter("", "m", ""); err == nil {
		t.Error("missing key accepted")
	}
}

func newTestGemini(t *testing.T, api *fakeAPI) *Gemini {
	t.Helper()
	p, err := newGemini(context.Background(), &genai.ClientConfig{
		APIKey:      "test-key",
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: api.start(t)},
	}, "gemini-flash")
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func geminiReply(text, finish string) map[string]any {
	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
			"finishReason": finish,
		}},
		"usageMetadata": map[string]any{"promptTokenCount": 7, "candidatesTokenCount": 3, "totalTokenCount": 10},
		"modelVersion":  "gemini-2.0-flash-001",
	}
}

func TestGemini(t *testing.T) {
	api := &fakeAPI{status: http.StatusOK, body: geminiReply(cardJSON, "STOP")}
	p := newTestGemini(t, api)

	resp, err := p.Generate(context.Background(), cardReq)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != cardJSON || resp.Usage.Total() != 10 || resp.Model != "gemini-2.0-flash-001" {
		t.Errorf("resp = %+v", resp)
	}
	sent, path := api.last()
	if !strings.HasSuffix(path, "gemini-2.0-flash:generateContent") {
		t.Errorf("path = %s", path)
	}
	for _, want := range []string{"responseJsonSchema", "application/json", "One card about Peru."} {
		if !strings.Contains(sent, want) {
			t.Errorf("request missing %q: %s", want, sent)
		}
	}
}

func TestGemini_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   Kind
	}{
		{"rate limit", http.StatusTooManyRequests,
			map[string]any{"error": map[string]any{"code": 429, "message": "quota", "status": "RESOURCE_EXHAUSTED"}}, KindRateLimited},
		{"server error", http.StatusServiceUnavailable,
			map[string]any{"error": map[string]any{"code": 503, "message": "busy", "status": "UNAVAILABLE"}}, KindUnavailable},
		{"truncated", http.StatusOK, geminiReply(`{"question":`, "MAX_TOKENS"), KindTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestGemini(t, &fakeAPI{status: tt.status, body: tt.body})
			_, err := p.Generate(context.Background(), cardReq)
			wantKind(t, err, tt.want)
		})
	}
}

func TestAliases(t *testing.T) {
	tests := []struct {
		name    string
		aliases map[string]string
		want    string
	}{
		{"claude-sonnet", anthropicAliases, "claude-sonnet-4-20250514"},
		{"gemini-pro", geminiAliases, "gemini-2.0-pro"},
		{"gemini-2.5-flash", geminiAliases, "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.name, tt.aliases); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
