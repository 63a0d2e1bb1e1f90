package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/ui/theme"
)

type inputState int

const (
	editing inputState = iota
	markedRight
	markedWrong
)

// TextInput is a focused single-line input that can be locked with a
// right or wrong mark after the user submits.
type TextInput struct {
	Model textinput.Model
	state inputState
}

// NewTextInput creates a focused input. charLimit 0 means unlimited.
func NewTextInput(placeholder string, charLimit int) TextInput {
	m := textinput.New()
	m.Placeholder = placeholder
	m.CharLimit = charLimit
	m.Focus()
	return TextInput{Model: m}
}

func (t TextInput) Init() tea.Cmd { return t.Model.Focus() }

// Update forwards to the input while it is editable.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.state != editing {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

func (t TextInput) View() string {
	switch t.state {
	case markedRight:
		return t.Model.View() + " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
	case markedWrong:
		return t.Model.View() + " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
	}
	return t.Model.View()
}

func (t TextInput) Value() string { return t.Model.Value() }

// Submit locks the input and marks the answer.
func (t *TextInput) Submit(correct bool) {
	t.state = markedWrong
	if correct {
		t.state = markedRight
	}
}

// Clear empties the input and unlocks it.
func (t *TextInput) Clear() {
	t.Model.Reset()
	t.state = editing
}
