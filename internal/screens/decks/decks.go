// Package decks holds the saved deck library and file import screens.
package decks

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screen"
	"github.com/abhisek/vulcan/internal/session"
	"github.com/abhisek/vulcan/internal/store"
	"github.com/abhisek/vulcan/internal/ui/layout"
	"github.com/abhisek/vulcan/internal/ui/theme"
)

type decksLoadedMsg struct {
	Decks []store.SavedDeck
	Err   error
}

// LibraryScreen lists saved decks. Enter loads the selected deck and
// returns to the previous screen.
type LibraryScreen struct {
	coord    *session.Coordinator
	repo     store.DeckRepo
	decks    []store.SavedDeck
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*LibraryScreen)(nil)
var _ screen.KeyHintProvider = (*LibraryScreen)(nil)

// NewLibrary creates the saved deck screen.
func NewLibrary(coord *session.Coordinator, repo store.DeckRepo) *LibraryScreen {
	return &LibraryScreen{coord: coord, repo: repo}
}

func (s *LibraryScreen) Init() tea.Cmd {
	return s.load
}

func (s *LibraryScreen) load() tea.Msg {
	list, err := s.repo.List(context.Background())
	return decksLoadedMsg{Decks: list, Err: err}
}

func (s *LibraryScreen) Title() string {
	return "Saved Decks"
}

func (s *LibraryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Load"},
		{Key: "D", Description: "Delete"},
		{Key: "I", Description: "Import"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LibraryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case decksLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.decks = msg.Decks
		if s.selected >= len(s.decks) {
			s.selected = max(len(s.decks)-1, 0)
		}
		return s, nil

	case router.ResumedMsg:
		return s, s.load

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.decks)-1 {
				s.selected++
			}
		case "i":
			return s, func() tea.Msg {
				return router.ReplaceScreenMsg{Screen: NewImport(s.coord)}
			}
		case "d":
			if len(s.decks) == 0 {
				return s, nil
			}
			id := s.decks[s.selected].ID
			return s, func() tea.Msg {
				if err := s.repo.Delete(context.Background(), id); err != nil {
					return decksLoadedMsg{Err: err}
				}
				return s.load()
			}
		case "enter":
			if len(s.decks) == 0 {
				return s, nil
			}
			if err := s.coord.LoadSaved(context.Background(), s.decks[s.selected].ID); err != nil {
				s.errMsg = err.Error()
				return s, nil
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *LibraryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading decks...")
	}

	var b strings.Builder
	b.WriteString("\n")
	if s.errMsg != "" {
		b.WriteString(center.Foreground(theme.Error).Render("Error: " + s.errMsg))
		b.WriteString("\n\n")
	}
	if len(s.decks) == 0 {
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).
			Render("No saved decks. Press I to import a CSV or XLSX file."))
		return b.String()
	}

	for i, d := range s.decks {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == s.selected {
			prefix = "> "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		line := fmt.Sprintf("%s%-28s %3d cards   last used %s",
			prefix, d.Name, len(d.Cards), d.LastUsed.Format("Jan 02 15:04"))
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(center.Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d of %d slots used", len(s.decks), store.MaxSavedDecks)))
	return b.String()
}
