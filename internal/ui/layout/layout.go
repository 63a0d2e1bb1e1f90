// Package layout draws the frame around the active screen: a header bar
// with the player's standing, the screen body and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/ui/theme"
)

// Smallest terminal the frame is drawn in.
const (
	MinWidth  = 80
	MinHeight = 24
)

type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats are the counters shown on the right of the header.
type HeaderStats struct {
	Points      int
	DailyStreak int
	TierEmoji   string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

func RenderMinSizeMessage(width, height int) string {
	text := fmt.Sprintf("Terminal too small!\n\nPlease resize to at\nleast %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(text))
}

// bar boxes one line of content across the full width.
func bar(width int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Background(theme.BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(content)
}

// RenderHeader puts the app name on the left, the screen title centred
// and the player's points and streak on the right.
func RenderHeader(title string, stats HeaderStats, width int) string {
	accent := lipgloss.NewStyle().Foreground(theme.Accent)
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  Vulcan")
	name := lipgloss.NewStyle().Foreground(theme.Text).Render(title)
	standing := accent.Render(fmt.Sprintf("%s %d pts", stats.TierEmoji, stats.Points)) +
		"   " + accent.Render(fmt.Sprintf("🔥 %d day", stats.DailyStreak))

	inner := max(width-4, 0)
	bw, nw, sw := lipgloss.Width(brand), lipgloss.Width(name), lipgloss.Width(standing)
	left := max((inner-nw)/2-bw, 1)
	right := max(inner-bw-left-nw-sw, 1)

	return bar(width, brand+strings.Repeat(" ", left)+name+strings.Repeat(" ", right)+standing)
}

func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString("   ")
		}
		b.WriteString(key.Render(h.Key) + " " + desc.Render(h.Description))
	}
	return bar(width, b.String())
}

// BodyHeight is what remains of height once header and footer are drawn.
func BodyHeight(header, footer string, height int) int {
	return max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
}

// RenderFrame stacks header, body and footer, padding the body to fill
// the terminal.
func RenderFrame(header, content, footer string, width, height int) string {
	body := lipgloss.NewStyle().
		Width(width).
		Height(BodyHeight(header, footer, height)).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
