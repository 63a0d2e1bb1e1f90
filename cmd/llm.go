package cmd

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/vulcan/internal/llm"
	"github.com/abhisek/vulcan/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the most recent LLM calls",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.EventRepo().QueryLLMRequests(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("load llm calls: %w", err)
		}

		t := grid("#", "When", "Purpose", "Model", "In", "Out", "ms", "")
		rows := 0
		for _, r := range recs {
			if purpose != "" && r.Purpose != purpose {
				continue
			}
			t.Row(
				strconv.FormatInt(r.Sequence, 10),
				r.Timestamp.Local().Format(timeLayout),
				r.Purpose,
				truncate(r.Model, 28),
				strconv.Itoa(r.InputTokens),
				strconv.Itoa(r.OutputTokens),
				strconv.FormatInt(r.LatencyMs, 10),
				mark(r.Success),
			)
			rows++
		}

		out := cmd.OutOrStdout()
		if rows == 0 {
			fmt.Fprintln(out, "Nothing recorded.")
			return nil
		}
		fmt.Fprintln(out, t.Render())
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <seq>",
	Short: "Print one LLM call with its prompt and reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seq, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%q is not a sequence number", args[0])
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		r, err := st.EventRepo().GetLLMRequest(cmd.Context(), seq)
		if err != nil {
			return fmt.Errorf("load llm call %d: %w", seq, err)
		}
		if r == nil {
			return fmt.Errorf("no llm call with sequence %d", seq)
		}
		printCall(cmd.OutOrStdout(), r)
		return nil
	},
}

func printCall(w io.Writer, r *store.LLMRequestRecord) {
	label := lipgloss.NewStyle().Bold(true).Width(10)
	heading := lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1)

	field := func(name, value string) {
		fmt.Fprintln(w, label.Render(name)+value)
	}
	field("Seq", strconv.FormatInt(r.Sequence, 10))
	field("When", r.Timestamp.Local().Format(timeLayout))
	field("Provider", r.Provider)
	field("Model", r.Model)
	field("Purpose", r.Purpose)
	field("Tokens", fmt.Sprintf("%d in, %d out", r.InputTokens, r.OutputTokens))
	field("Latency", fmt.Sprintf("%dms", r.LatencyMs))
	field("OK", mark(r.Success))
	if r.ErrorMessage != "" {
		field("Error", r.ErrorMessage)
	}

	for _, part := range []struct{ name, body string }{
		{"Prompt", r.RequestBody},
		{"Reply", r.ResponseBody},
	} {
		fmt.Fprintln(w, heading.Render(part.name))
		if part.body == "" {
			fmt.Fprintln(w, "(empty)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise token use and estimated spend",
	RunE: func(cmd *cobra.Command, _ []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		recs, err := st.EventRepo().QueryLLMRequests(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("load llm calls: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(recs) == 0 {
			fmt.Fprintln(out, "Nothing recorded.")
			return nil
		}
		fmt.Fprintln(out, purposeTable(usageBy(recs, func(r store.LLMRequestRecord) string { return r.Purpose })))
		fmt.Fprintln(out)
		fmt.Fprintln(out, costTable(usageBy(recs, func(r store.LLMRequestRecord) string { return r.Model })))
		return nil
	},
}

func purposeTable(rows []usage) string {
	t := grid("Purpose", "Calls", "In", "Out", "Avg ms")
	var sum usage
	for _, u := range rows {
		t.Row(u.Key, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs(), 10))
		sum.add(u)
	}
	t.Row("all", strconv.Itoa(sum.Calls), strconv.Itoa(sum.InputTokens), strconv.Itoa(sum.OutputTokens), strconv.FormatInt(sum.AvgLatencyMs(), 10))
	return t.Render()
}

// costTable prices each model's usage. Models without a known price
// show "?" and are left out of the total.
func costTable(rows []usage) string {
	t := grid("Model", "Calls", "In", "Out", "USD")
	var (
		total   float64
		unknown []string
	)
	for _, u := range rows {
		cost := "?"
		if p, ok := llm.LookupPrice(u.Key); ok {
			c := p.Cost(llm.Usage{InputTokens: u.InputTokens, OutputTokens: u.OutputTokens})
			total += c
			cost = formatCost(c)
		} else {
			unknown = append(unknown, u.Key)
		}
		t.Row(truncate(u.Key, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), cost)
	}
	name := "total"
	if len(unknown) > 0 {
		name = "total (known prices)"
	}
	t.Row(name, "", "", "", formatCost(total))

	s := t.Render()
	if len(unknown) > 0 {
		s += "\nNo price for: " + strings.Join(unknown, ", ")
	}
	return s
}

// grid is a plain bordered table with bold headers.
func grid(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				s = s.Bold(true)
			}
			return s
		})
}

func mark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

// usage totals the calls sharing one key.
type usage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
}

func (u *usage) add(o usage) {
	u.Calls += o.Calls
	u.InputTokens += o.InputTokens
	u.OutputTokens += o.OutputTokens
	u.LatencyMs += o.LatencyMs
}

func (u usage) AvgLatencyMs() int64 {
	if u.Calls == 0 {
		return 0
	}
	return u.LatencyMs / int64(u.Calls)
}

// usageBy groups recs by key, sorted by key.
func usageBy(recs []store.LLMRequestRecord, key func(store.LLMRequestRecord) string) []usage {
	idx := map[string]int{}
	var out []usage
	for _, r := range recs {
		k := key(r)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, usage{Key: k})
		}
		out[i].add(usage{Calls: 1, InputTokens: r.InputTokens, OutputTokens: r.OutputTokens, LatencyMs: r.LatencyMs})
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Key < out[b].Key })
	return out
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "How many calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only calls made for this purpose, e.g. flashcard-batch")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
