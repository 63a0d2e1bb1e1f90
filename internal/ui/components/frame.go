package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/ui/theme"
)

// ContentWidth returns the inner width shared by stacked cards so their
// borders line up.
func ContentWidth(frameWidth int) int {
	return max(20, min(frameWidth-6, 64))
}

// Card wraps content in a rounded border at content width cw.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
