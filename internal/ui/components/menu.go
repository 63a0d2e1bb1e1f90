package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/ui/theme"
)

// MenuItem is one menu entry. Navigation skips disabled items.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list with a cursor that only rests on enabled items.
type Menu struct {
	Items    []MenuItem
	Selected int
}

func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	m.settle()
	return m
}

func (m Menu) Init() tea.Cmd { return nil }

func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "up", "k":
		m.step(-1)
	case "down", "j":
		m.step(1)
	case "home", "g":
		m.Selected = -1
		m.step(1)
	case "end", "G":
		m.Selected = len(m.Items)
		m.step(-1)
	case "enter", "space":
		if it, ok := m.current(); ok && it.Action != nil {
			return m, it.Action()
		}
	}
	return m, nil
}

// step moves the cursor to the next enabled item in direction dir,
// staying put at either end.
func (m *Menu) step(dir int) {
	for i := m.Selected + dir; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
	m.settle()
}

// settle moves the cursor to the first enabled item if it is off the
// list or on a disabled item.
func (m *Menu) settle() {
	if _, ok := m.current(); ok {
		return
	}
	for i, it := range m.Items {
		if !it.Disabled {
			m.Selected = i
			return
		}
	}
	m.Selected = 0
}

func (m Menu) current() (MenuItem, bool) {
	if m.Selected < 0 || m.Selected >= len(m.Items) || m.Items[m.Selected].Disabled {
		return MenuItem{}, false
	}
	return m.Items[m.Selected], true
}

// SetLabel replaces the label of item i.
func (m *Menu) SetLabel(i int, label string) {
	if i >= 0 && i < len(m.Items) {
		m.Items[i].Label = label
	}
}

// SetDisabled enables or disables item i, moving the cursor off it if
// needed.
func (m *Menu) SetDisabled(i int, disabled bool) {
	if i >= 0 && i < len(m.Items) {
		m.Items[i].Disabled = disabled
		m.settle()
	}
}

func (m Menu) View() string {
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	lines := make([]string, len(m.Items))
	for i, it := range m.Items {
		switch {
		case i == m.Selected && !it.Disabled:
			lines[i] = theme.Selected.Render("  ▸ " + it.Label)
		case it.Disabled:
			lines[i] = dim.Render("    " + it.Label)
		default:
			lines[i] = theme.Unselected.Render("    " + it.Label)
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
