// Package theme holds the lipgloss palette and the shared styles. The
// palette's base colours follow the tier theme the player has picked.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/scoring"
)

// Fixed colours.
var (
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F97316")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	TextDim   = lipgloss.Color("#94A3B8")
	Border    = lipgloss.Color("#334155")
)

// Colours taken from the active tier theme.
var (
	Primary color.Color
	Text    color.Color
	BgDark  color.Color
	BgCard  color.Color
)

// Styles, rebuilt whenever the theme changes.
var (
	Title, Body, Hint             lipgloss.Style
	Selected, Unselected          lipgloss.Style
	Correct, Incorrect            lipgloss.Style
	ProgressFilled, ProgressEmpty lipgloss.Style
)

var active string

func init() {
	t, _ := scoring.ThemeByID(scoring.DefaultTheme)
	apply(t)
}

// Active returns the id of the theme in use.
func Active() string { return active }

// ApplyID switches to the theme with the given id and reports whether it
// exists. Unknown ids leave the current theme in place.
func ApplyID(id string) bool {
	if id == active {
		return true
	}
	t, ok := scoring.ThemeByID(id)
	if ok {
		apply(t)
	}
	return ok
}

func apply(t scoring.Theme) {
	active = t.ID
	Primary = lipgloss.Color(t.Primary)
	Text = lipgloss.Color(t.Text)
	BgDark = lipgloss.Color(t.Background)
	BgCard = lipgloss.Color(t.Card)

	fg := func(c color.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	Title = fg(Primary).Bold(true).Align(lipgloss.Center)
	Body = fg(Text)
	Hint = fg(TextDim).Italic(true)

	Selected = fg(Primary).Bold(true)
	Unselected = fg(Text)
	Correct = fg(Success).Bold(true)
	Incorrect = fg(Error).Bold(true)

	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty = lipgloss.NewStyle().Background(Border)
}
