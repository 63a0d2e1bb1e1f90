package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/abhisek/vulcan/internal/store"
)

type recording struct {
	Provider
	repo store.EventRepo
}

// Record wraps p so that every call is appended to the event log with
// its prompt, reply, token counts and latency. A failed write is logged
// and never fails the call.
func Record(p Provider, repo store.EventRepo) Provider {
	return &recording{Provider: p, repo: repo}
}

func (r *recording) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := r.Provider.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:    r.Name(),
		Model:       r.Model(),
		Purpose:     PurposeFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		ev.InputTokens, ev.OutputTokens = resp.Usage.InputTokens, resp.Usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	if werr := r.repo.AppendLLMRequest(ctx, ev); werr != nil {
		slog.Warn("record llm request", "purpose", ev.Purpose, "error", werr)
	}
	slog.Debug("llm request", "provider", ev.Provider, "model", ev.Model, "purpose", ev.Purpose,
		"latency_ms", ev.LatencyMs, "tokens", ev.InputTokens+ev.OutputTokens, "success", ev.Success)
	return resp, err
}

// transcript renders req for the request log.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		b.WriteString("[system]\n" + req.System + "\n\n")
	}
	b.WriteString("[user]\n" + req.Prompt + "\n")
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			b.WriteString("\n[schema " + req.Schema.Name + "]\n")
			b.Write(def)
			b.WriteString("\n")
		}
	}
	return b.String()
}
