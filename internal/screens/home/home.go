// Package home is the main menu screen.
package home

import (
	"fmt"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vulcan/internal/remind"
	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screen"
	achscreen "github.com/abhisek/vulcan/internal/screens/achievements"
	"github.com/abhisek/vulcan/internal/screens/decks"
	"github.com/abhisek/vulcan/internal/screens/history"
	"github.com/abhisek/vulcan/internal/screens/quiz"
	"github.com/abhisek/vulcan/internal/session"
	"github.com/abhisek/vulcan/internal/store"
	"github.com/abhisek/vulcan/internal/ui/components"
	"github.com/abhisek/vulcan/internal/ui/theme"
)

// Menu positions.
const (
	itemStart = iota
	itemImport
	itemLibrary
	itemMode
	itemTheme
	itemAchievements
	itemHistory
	itemQuit
)

// UpdateAvailableMsg tells the home screen a newer release exists.
type UpdateAvailableMsg struct {
	Version string
}

// Options wires the home screen. Nil repositories disable the menu items
// that need them.
type Options struct {
	Coordinator *session.Coordinator
	Decks       store.DeckRepo
	Events      store.EventRepo
	// Changes receives a value after every timer-driven coordinator
	// transition.
	Changes <-chan struct{}
	Now     func() time.Time
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	opts   Options
	menu   components.Menu
	view   session.View
	update string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	h := &HomeScreen{opts: opts}
	h.menu = components.NewMenu(h.items())
	h.refresh()
	return h
}

func (h *HomeScreen) items() []components.MenuItem {
	push := func(s func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: s()} }
		}
	}
	coord := h.opts.Coordinator

	return []components.MenuItem{
		itemStart: {Label: "START QUIZ", Action: push(func() screen.Screen {
			return quiz.New(coord, h.opts.Changes)
		})},
		itemImport: {Label: "LOAD DECK", Action: push(func() screen.Screen {
			return decks.NewImport(coord)
		})},
		itemLibrary: {Label: "SAVED DECKS", Disabled: h.opts.Decks == nil, Action: push(func() screen.Screen {
			return decks.NewLibrary(coord, h.opts.Decks)
		})},
		itemMode:  {Action: h.toggleMode},
		itemTheme: {Action: h.cycleTheme},
		itemAchievements: {Label: "ACHIEVEMENTS", Action: push(func() screen.Screen {
			return achscreen.New(coord.Snapshot().Unlocked)
		})},
		itemHistory: {Label: "HISTORY", Disabled: h.opts.Events == nil, Action: push(func() screen.Screen {
			return history.New(h.opts.Events)
		})},
		itemQuit: {Label: "QUIT", Action: func() tea.Cmd { return tea.Quit }},
	}
}

// refresh re-reads the coordinator and updates labels that depend on it.
func (h *HomeScreen) refresh() {
	h.view = h.opts.Coordinator.Snapshot()
	theme.ApplyID(h.view.ActiveTheme)

	h.menu.SetDisabled(itemStart, h.view.TotalCards == 0)
	h.menu.SetLabel(itemMode, "MODE: "+strings.ToUpper(string(h.view.Mode)))
	h.menu.SetLabel(itemTheme, "THEME: "+strings.ToUpper(h.view.ActiveTheme))
}

func (h *HomeScreen) toggleMode() tea.Cmd {
	next := session.ModeSingleCycle
	if h.view.Mode == session.ModeSingleCycle {
		next = session.ModeInfinite
	}
	h.opts.Coordinator.SetMode(next)
	h.refresh()
	return nil
}

// cycleTheme switches to the next unlocked theme.
func (h *HomeScreen) cycleTheme() tea.Cmd {
	unlocked := h.view.UnlockedThemes
	if len(unlocked) < 2 {
		return nil
	}
	i := slices.Index(unlocked, h.view.ActiveTheme)
	next := unlocked[(i+1)%len(unlocked)]
	if h.opts.Coordinator.SetActiveTheme(next) {
		h.refresh()
	}
	return nil
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case router.ResumedMsg:
		h.refresh()
		return h, nil
	case UpdateAvailableMsg:
		h.update = msg.Version
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

// mascot picks the variant for the current progress.
func (h *HomeScreen) mascot() MascotVariant {
	now := h.opts.Now()
	p := &store.ProgressData{LastStudyDate: h.view.LastStudyDate, DailyStreak: h.view.DailyStreak}
	if r, ok := remind.Check(p, now); ok && r.StreakAtRisk > 0 {
		return MascotAlert
	}
	y, m, d := now.Date()
	for _, u := range h.view.Unlocked {
		uy, um, ud := u.UnlockedAt.In(now.Location()).Date()
		if uy == y && um == m && ud == d {
			return MascotCelebrating
		}
	}
	return MascotIdle
}

func (h *HomeScreen) View(width, height int) string {
	// Bordered buttons and the mascot need roughly 56 rows.
	compact := height < 56 || width < 100

	cw := min(components.ContentWidth(width), 60)

	var sections []string
	sections = append(sections, renderTitle(cw, compact))
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot(), cw))
	}
	sections = append(sections, renderStatsBar(h.view, cw, compact))
	sections = append(sections, renderDeckLine(h.view, cw))

	if compact {
		sections = append(sections, renderMenuCompact(h.menu, cw))
	} else {
		sections = append(sections, renderMenu(h.menu, cw))
	}

	if h.update != "" {
		sections = append(sections, renderNote(fmt.Sprintf("New version %s available · run vulcan update", h.update), cw))
	}

	return renderCabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
