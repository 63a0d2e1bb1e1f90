// Package history lists past quizzes and per-deck accuracy.
package history

import (
	"context"
	"fmt"
	"strconv"

	"charm.land/bubbles/v2/table"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	lgtable "charm.land/lipgloss/v2/table"

	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screen"
	"github.com/abhisek/vulcan/internal/store"
	"github.com/abhisek/vulcan/internal/ui/layout"
	"github.com/abhisek/vulcan/internal/ui/theme"
)

const (
	sessionLimit = 50
	missedLimit  = 5
)

var columns = []table.Column{
	{Title: "When", Width: 13},
	{Title: "Deck", Width: 22},
	{Title: "Mode", Width: 12},
	{Title: "Time", Width: 6},
	{Title: "Asked", Width: 6},
	{Title: "Right", Width: 6},
	{Title: "Points", Width: 9},
}

// loaded carries everything the screen shows, read in one go.
type loaded struct {
	sessions []store.SessionSummaryRecord
	decks    []store.DeckAccuracy
	missed   []store.MissedCard
	err      error
}

// HistoryScreen shows recent quizzes in a scrollable table. Enter flips
// to accuracy per deck and the most missed cards.
type HistoryScreen struct {
	events store.EventRepo
	data   *loaded
	table  table.Model
	decks  bool
}

var (
	_ screen.Screen          = (*HistoryScreen)(nil)
	_ screen.KeyHintProvider = (*HistoryScreen)(nil)
)

func New(events store.EventRepo) *HistoryScreen {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(theme.TextDim)
	styles.Cell = styles.Cell.Foreground(theme.Text)
	styles.Selected = theme.Selected

	return &HistoryScreen{
		events: events,
		table: table.New(
			table.WithColumns(columns),
			table.WithFocused(true),
			table.WithStyles(styles),
		),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.events
	return func() tea.Msg {
		ctx := context.Background()
		var l loaded
		if l.sessions, l.err = repo.QuerySessionSummaries(ctx, store.QueryOpts{Limit: sessionLimit}); l.err != nil {
			return l
		}
		if l.decks, l.err = repo.DeckAccuracy(ctx); l.err != nil {
			return l
		}
		l.missed, l.err = repo.MostMissed(ctx, missedLimit)
		return l
	}
}

func (s *HistoryScreen) Title() string { return "History" }

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	flip := "By deck"
	if s.decks {
		flip = "Sessions"
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: flip},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loaded:
		s.data = &msg
		rows := make([]table.Row, len(msg.sessions))
		for i, r := range msg.sessions {
			rows[i] = sessionRow(r)
		}
		s.table.SetRows(rows)
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			s.decks = !s.decks
			return s, nil
		}
		if !s.decks {
			var cmd tea.Cmd
			s.table, cmd = s.table.Update(msg)
			return s, cmd
		}
	}
	return s, nil
}

func sessionRow(r store.SessionSummaryRecord) table.Row {
	pct := 0
	if r.QuestionsAnswered > 0 {
		pct = r.CorrectAnswers * 100 / r.QuestionsAnswered
	}
	return table.Row{
		r.Timestamp.Local().Format("Jan 02 15:04"),
		r.DeckName,
		r.Mode,
		fmt.Sprintf("%d:%02d", r.DurationSecs/60, r.DurationSecs%60),
		strconv.Itoa(r.QuestionsAnswered),
		fmt.Sprintf("%d%%", pct),
		fmt.Sprintf("%+d pts", r.Points),
	}
}

func (s *HistoryScreen) View(width, height int) string {
	centre := func(text string, fg lipgloss.Style) string {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, fg.Render(text))
	}
	switch {
	case s.data == nil:
		return centre("Loading history...", lipgloss.NewStyle().Foreground(theme.TextDim))
	case s.data.err != nil:
		return centre("Error: "+s.data.err.Error(), lipgloss.NewStyle().Foreground(theme.Error))
	case len(s.data.sessions) == 0:
		return centre("No quizzes yet. Load a deck and start!", theme.Hint)
	case s.decks:
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, s.deckView())
	}

	t := s.table
	t.SetHeight(max(height-2, 3))
	return "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, t.View())
}

// deckView stacks the accuracy table over the most missed cards.
func (s *HistoryScreen) deckView() string {
	acc := lgtable.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers("Deck", "Answered", "Accuracy")
	for _, d := range s.data.decks {
		acc.Row(d.DeckName, strconv.Itoa(d.Answered), fmt.Sprintf("%.0f%%", d.Accuracy()*100))
	}

	parts := []string{theme.Hint.Render("Accuracy by deck"), acc.Render()}
	if len(s.data.missed) > 0 {
		miss := lgtable.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == lgtable.HeaderRow {
					return lipgloss.NewStyle()
				}
				return lipgloss.NewStyle().Foreground(theme.Error)
			}).
			Headers("Most missed", "Deck", "Misses")
		for _, m := range s.data.missed {
			miss.Row(m.Question, m.DeckName, "x"+strconv.Itoa(m.Misses))
		}
		parts = append(parts, "", miss.Render())
	}
	return "\n" + lipgloss.JoinVertical(lipgloss.Center, parts...)
}
