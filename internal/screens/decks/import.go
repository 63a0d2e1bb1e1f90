package decks

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/ingest"
	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screen"
	"github.com/abhisek/vulcan/internal/session"
	"github.com/abhisek/vulcan/internal/ui/components"
	"github.com/abhisek/vulcan/internal/ui/layout"
	"github.com/abhisek/vulcan/internal/ui/theme"
)

// ImportScreen reads a deck file from a typed path, loads it into the
// coordinator and saves it to the library.
type ImportScreen struct {
	coord  *session.Coordinator
	input  components.TextInput
	errMsg string
}

var _ screen.Screen = (*ImportScreen)(nil)
var _ screen.KeyHintProvider = (*ImportScreen)(nil)

// NewImport creates the import screen.
func NewImport(coord *session.Coordinator) *ImportScreen {
	return &ImportScreen{
		coord: coord,
		input: components.NewTextInput("path/to/deck.csv", 0),
	}
}

func (s *ImportScreen) Init() tea.Cmd {
	return s.input.Init()
}

func (s *ImportScreen) Title() string {
	return "Import Deck"
}

func (s *ImportScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Import"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ImportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "enter":
			path := expandHome(strings.TrimSpace(s.input.Value()))
			if path == "" {
				return s, nil
			}
			if err := s.load(path); err != nil {
				s.errMsg = err.Error()
				return s, nil
			}
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	s.errMsg = ""
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *ImportScreen) load(path string) error {
	pairs, err := ingest.File(path)
	if err != nil {
		return err
	}
	return s.coord.LoadDeck(context.Background(), pairs, filepath.Base(path))
}

func (s *ImportScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	body := theme.Title.Render("Load a deck") + "\n\n" +
		theme.Hint.Render("CSV or XLSX with question and answer columns") + "\n\n" +
		s.input.View()
	if s.errMsg != "" {
		body += "\n\n" + lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg)
	}
	return components.Center(components.Card(body, cw), width, height)
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
