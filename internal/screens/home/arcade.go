package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/session"
	"github.com/abhisek/vulcan/internal/ui/components"
	"github.com/abhisek/vulcan/internal/ui/theme"
)

const titleFull = `██╗   ██╗██╗   ██╗██╗      ██████╗ █████╗ ███╗   ██╗
██║   ██║██║   ██║██║     ██╔════╝██╔══██╗████╗  ██║
██║   ██║██║   ██║██║     ██║     ███████║██╔██╗ ██║
╚██╗ ██╔╝██║   ██║██║     ██║     ██╔══██║██║╚██╗██║
 ╚████╔╝ ╚██████╔╝███████╗╚██████╗██║  ██║██║ ╚████║
  ╚═══╝   ╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═══╝`

const titleCompact = "V · U · L · C · A · N"

// renderTitle returns the styled title block or compact fallback.
func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true)

	art := titleFull
	if compact {
		art = titleCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(art))
}

// renderStatsBar renders points, daily streak and tier in a bordered box
// with the progress toward the next tier beneath.
func renderStatsBar(v session.View, cw int, compact bool) string {
	pointsStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	streakStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	tierStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	var stats string
	if compact {
		stats = fmt.Sprintf("%s %s %s",
			pointsStyle.Render(fmt.Sprintf("★%d", v.TotalPoints)),
			streakStyle.Render(fmt.Sprintf("🔥%d", v.DailyStreak)),
			tierStyle.Render(v.Tier.Emoji),
		)
	} else {
		stats = fmt.Sprintf("%s  %s  %s",
			pointsStyle.Render(fmt.Sprintf("★ %d PTS", v.TotalPoints)),
			streakStyle.Render(fmt.Sprintf("🔥 %d DAY", v.DailyStreak)),
			tierStyle.Render(fmt.Sprintf("%s %s", v.Tier.Emoji, strings.ToUpper(v.Tier.Name))),
		)
	}
	if v.TestingMode {
		stats += lipgloss.NewStyle().Foreground(theme.TextDim).Render("  (preview)")
	}

	bar := components.NewProgressBar("Next tier", v.NextTierProgress/100, true, cw-4)
	if v.Tier.MaxPoints == 0 {
		bar = components.NewProgressBar("Top tier", 1, false, cw-4)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats + "\n" + bar.View())
}

// renderDeckLine names the loaded deck.
func renderDeckLine(v session.View, cw int) string {
	style := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)
	if v.TotalCards == 0 {
		return style.Foreground(theme.TextDim).Italic(true).Render("No deck loaded")
	}
	name := v.DeckName
	if name == "" {
		name = "Untitled deck"
	}
	return style.Foreground(theme.Text).Render(fmt.Sprintf("%s · %d cards · %s", name, v.TotalCards, v.Mode))
}

// buttonWidth is the fixed width for menu buttons.
const buttonWidth = 26

// renderMenu renders each menu item as a fixed-width button.
func renderMenu(m components.Menu, cw int) string {
	selectedBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Accent).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Accent).
		Padding(0, 1)

	normalBtn := lipgloss.NewStyle().
		Width(buttonWidth).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(0, 1)

	disabledBtn := normalBtn.Foreground(theme.TextDim)

	var buttons []string
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			buttons = append(buttons, disabledBtn.Render(item.Label))
		case i == m.Selected:
			buttons = append(buttons, selectedBtn.Render("▸ "+item.Label))
		default:
			buttons = append(buttons, normalBtn.Render(item.Label))
		}
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderMenuCompact renders menu items as plain lines for terminals where
// bordered buttons would overflow.
func renderMenuCompact(m components.Menu, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.TrimRight(m.View(), "\n"))
}

// renderMascotBox renders the mascot centered in a box matching content width.
func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}

// renderNote renders a dim one-line notice.
func renderNote(text string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render(text)
}

// renderCabinetFrame wraps content in a double-border frame, centering it
// vertically and horizontally within the given dimensions.
func renderCabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
