// Package achievements is the screen that browses the achievement catalog.
package achievements

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	catalog "github.com/abhisek/vulcan/internal/achievements"
	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screen"
	"github.com/abhisek/vulcan/internal/ui/layout"
	"github.com/abhisek/vulcan/internal/ui/theme"
)

// AchievementsScreen shows every achievement of one category at a time,
// marking the unlocked ones.
type AchievementsScreen struct {
	unlocked     map[string]catalog.Unlocked
	selectedCat  int // index into catalog.AllCategories
	scrollOffset int
}

var _ screen.Screen = (*AchievementsScreen)(nil)
var _ screen.KeyHintProvider = (*AchievementsScreen)(nil)

// New creates the screen from the achievements earned so far.
func New(unlocked []catalog.Unlocked) *AchievementsScreen {
	m := make(map[string]catalog.Unlocked, len(unlocked))
	for _, u := range unlocked {
		m[u.ID] = u
	}
	return &AchievementsScreen{unlocked: m}
}

func (s *AchievementsScreen) Init() tea.Cmd {
	return nil
}

func (s *AchievementsScreen) Title() string {
	return "Achievements"
}

func (s *AchievementsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Category"},
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AchievementsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	cats := catalog.AllCategories()
	switch kmsg.String() {
	case "esc":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	case "tab", "right", "l":
		s.selectedCat = (s.selectedCat + 1) % len(cats)
		s.scrollOffset = 0
	case "shift+tab", "left", "h":
		s.selectedCat = (s.selectedCat - 1 + len(cats)) % len(cats)
		s.scrollOffset = 0
	case "up", "k":
		if s.scrollOffset > 0 {
			s.scrollOffset--
		}
	case "down", "j":
		if s.scrollOffset < len(s.current())-1 {
			s.scrollOffset++
		}
	}
	return s, nil
}

func (s *AchievementsScreen) current() []catalog.Achievement {
	return catalog.ByCategory(catalog.AllCategories()[s.selectedCat])
}

func (s *AchievementsScreen) countUnlocked(c catalog.Category) (got, total int) {
	for _, a := range catalog.ByCategory(c) {
		total++
		if _, ok := s.unlocked[a.ID]; ok {
			got++
		}
	}
	return got, total
}

func (s *AchievementsScreen) View(width, height int) string {
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).Align(lipgloss.Center).Foreground(theme.Text).
		Render(fmt.Sprintf("\nUnlocked: %d / %d\n", len(s.unlocked), len(catalog.All()))))
	b.WriteString("\n")

	var tabs []string
	for i, c := range catalog.AllCategories() {
		got, total := s.countUnlocked(c)
		label := fmt.Sprintf("%s (%d/%d)", c.DisplayName(), got, total)
		if i == s.selectedCat {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(theme.TextDim).Render(label))
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, strings.Join(tabs, "     ")))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	list := s.current()
	maxVisible := max(height-10, 3)
	start := s.scrollOffset
	end := min(start+maxVisible, len(list))

	for _, a := range list[start:end] {
		var line string
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if u, ok := s.unlocked[a.ID]; ok {
			line = fmt.Sprintf("%s  %-18s %-42s %s", a.Emoji, a.Name, a.Description, u.UnlockedAt.Format("Jan 02, 2006"))
			style = lipgloss.NewStyle().Foreground(theme.Success)
		} else {
			line = fmt.Sprintf("🔒  %-18s %-42s %s", a.Name, a.Description, "locked")
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	if end < len(list) {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render(fmt.Sprintf("... %d more", len(list)-end)))
	}

	return b.String()
}
