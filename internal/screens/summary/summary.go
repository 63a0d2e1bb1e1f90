// Package summary shows the results of a finished quiz.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screen"
	"github.com/abhisek/vulcan/internal/session"
	"github.com/abhisek/vulcan/internal/ui/layout"
	"github.com/abhisek/vulcan/internal/ui/theme"
)

// SummaryScreen displays the quiz summary.
type SummaryScreen struct {
	summary *session.Summary
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary) *SummaryScreen {
	return &SummaryScreen{summary: summary}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Quiz Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopToRootMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder

	heading := "Quiz ended"
	if sum.Complete {
		heading = "Deck complete!"
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), heading))
	b.WriteString("\n")
	if sum.DeckName != "" {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), sum.DeckName))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim),
		fmt.Sprintf("Duration: %d:%02d   Mode: %s", mins, secs, sum.Mode)))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Questions: %d      Correct: %d      Accuracy: %.0f%%",
		sum.Questions, sum.Correct, sum.Accuracy*100)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), stats))
	b.WriteString("\n")

	if sum.TotalCards > 0 {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text),
			fmt.Sprintf("Cards learned: %d / %d", sum.UniqueAnswered, sum.TotalCards)))
		b.WriteString("\n")
	}

	points := fmt.Sprintf("Points earned: %d   Net: %+d   Best streak: %d",
		sum.PointsEarned, sum.NetPoints, sum.BestStreak)
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent), points))
	b.WriteString("\n")
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text),
		fmt.Sprintf("Tier: %s %s", sum.Tier.Emoji, sum.Tier.Name)))
	b.WriteString("\n")

	if len(sum.Achievements) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
			strings.Repeat("─", min(width-8, 60)))
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), "Achievements"))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n\n")
		for _, a := range sum.Achievements {
			b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Success),
				fmt.Sprintf("%s %s: %s", a.Emoji, a.Name, a.Description)))
			b.WriteString("\n")
		}
	}

	return b.String()
}
