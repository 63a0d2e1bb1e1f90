// Package screen defines what the router stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vulcan/internal/ui/layout"
)

// Screen is one full-body view. View receives the space left between the
// header and footer.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View(width, height int) string
	// Title is shown in the header.
	Title() string
}

// KeyHintProvider replaces the footer's default hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeHandler screens keep Esc for themselves while HandlesEscape
// reports true; otherwise Esc pops them.
type EscapeHandler interface {
	HandlesEscape() bool
}
