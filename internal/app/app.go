// Package app is the root Bubble Tea model.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screen"
	"github.com/abhisek/vulcan/internal/screens/home"
	"github.com/abhisek/vulcan/internal/selfupdate"
	"github.com/abhisek/vulcan/internal/session"
	"github.com/abhisek/vulcan/internal/store"
	"github.com/abhisek/vulcan/internal/ui/layout"
)

const updateCheckTimeout = 5 * time.Second

// Options wires the application.
type Options struct {
	Coordinator *session.Coordinator
	Decks       store.DeckRepo
	Events      store.EventRepo
	// Changes receives a value after every timer-driven coordinator
	// transition. Pair it with Notify as the coordinator's OnChange.
	Changes <-chan struct{}

	// Version and Checker enable the background release check. A nil
	// Checker or a development build skips it.
	Version string
	Checker *selfupdate.Checker
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	home   *home.HomeScreen
	opts   Options
	width  int
	height int
}

// newAppModel creates a new AppModel with the home screen.
func newAppModel(opts Options) AppModel {
	h := home.New(home.Options{
		Coordinator: opts.Coordinator,
		Decks:       opts.Decks,
		Events:      opts.Events,
		Changes:     opts.Changes,
	})
	return AppModel{
		router: router.New(h),
		home:   h,
		opts:   opts,
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.opts.Checker == nil || selfupdate.IsDevBuild(m.opts.Version) {
		return nil
	}
	checker, version := m.opts.Checker, m.opts.Version
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), updateCheckTimeout)
		defer cancel()
		res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
		if err != nil {
			slog.Debug("update check failed", "err", err)
			return nil
		}
		if !res.UpdateAvailable {
			return nil
		}
		return home.UpdateAvailableMsg{Version: res.LatestVersion}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case home.UpdateAvailableMsg:
		_, cmd := m.home.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if h, ok := m.router.Active().(screen.EscapeHandler); ok && h.HandlesEscape() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	snap := m.opts.Coordinator.Snapshot()
	header := layout.RenderHeader(title, layout.HeaderStats{
		Points:      snap.TotalPoints,
		DailyStreak: snap.DailyStreak,
		TierEmoji:   snap.Tier.Emoji,
	}, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	content := m.router.View(m.width, layout.BodyHeight(header, footer, m.height))
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Notify returns a coordinator OnChange callback feeding ch. Sends never
// block; a pending value already covers the change.
func Notify(ch chan<- struct{}) func() {
	return func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
