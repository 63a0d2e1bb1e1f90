package cmd

import (
	"strings"
	"testing"

	"github.com/abhisek/vulcan/internal/store"
)

func TestUsageBy(t *testing.T) {
	rec := func(purpose string, in, out int, ms int64) store.LLMRequestRecord {
		var r store.LLMRequestRecord
		r.Purpose, r.InputTokens, r.OutputTokens, r.LatencyMs = purpose, in, out, ms
		return r
	}
	got := usageBy([]store.LLMRequestRecord{
		rec("flashcard-batch", 100, 50, 300),
		rec("deck-name", 10, 5, 100),
		rec("flashcard-batch", 200, 70, 500),
	}, func(r store.LLMRequestRecord) string { return r.Purpose })

	if len(got) != 2 || got[0].Key != "deck-name" || got[1].Key != "flashcard-batch" {
		t.Fatalf("keys = %+v", got)
	}
	fb := got[1]
	if fb.Calls != 2 || fb.InputTokens != 300 || fb.OutputTokens != 120 || fb.AvgLatencyMs() != 400 {
		t.Errorf("flashcard-batch = %+v", fb)
	}
}

func TestCostTableFlagsUnknownModels(t *testing.T) {
	out := costTable([]usage{
		{Key: "gemini-2.0-flash", Calls: 1, InputTokens: 1_000_000, OutputTokens: 1_000_000},
		{Key: "homegrown-7b", Calls: 1, InputTokens: 10},
	})
	for _, want := range []string{"$0.50", "total (known prices)", "No price for: homegrown-7b"} {
		if !strings.Contains(out, want) {
			t.Errorf("cost table missing %q:\n%s", want, out)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"overflowing", 5, "over…"},
		{"héllo wörld", 4, "hél…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}
