package app

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vulcan/internal/clock"
	"github.com/abhisek/vulcan/internal/deck"
	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screens/quiz"
	"github.com/abhisek/vulcan/internal/session"
)

func newModel(t *testing.T) (AppModel, *session.Coordinator) {
	t.Helper()
	coord := session.NewCoordinator(session.Options{Clock: clock.NewFake(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))})
	m := newAppModel(Options{Coordinator: coord})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(AppModel), coord
}

func TestAppModel_View(t *testing.T) {
	m, _ := newModel(t)
	for _, size := range []tea.WindowSizeMsg{{Width: 120, Height: 40}, {Width: 40, Height: 10}, {}} {
		updated, _ := m.Update(size)
		v := updated.(AppModel).View()
		if !v.AltScreen {
			t.Errorf("%dx%d: expected alt screen", size.Width, size.Height)
		}
	}
}

func TestAppModel_EscOnHomeDoesNothing(t *testing.T) {
	m, _ := newModel(t)
	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("esc on the root screen should be ignored")
	}
}

func TestAppModel_EscForwardedToQuiz(t *testing.T) {
	m, coord := newModel(t)
	if err := coord.LoadDeck(context.Background(), []deck.Pair{{Question: "2+2", Answer: "4"}}, ""); err != nil {
		t.Fatal(err)
	}
	q := quiz.New(coord, nil)
	m.Update(router.PushScreenMsg{Screen: q})

	if _, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("quiz handles esc itself; no pop expected")
	}
	if !strings.Contains(q.View(100, 30), "End this quiz?") {
		t.Error("esc should reach the quiz screen")
	}
}

func TestAppModel_CtrlC(t *testing.T) {
	m, _ := newModel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatal("expected quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestNotify(t *testing.T) {
	ch := make(chan struct{}, 1)
	notify := Notify(ch)
	notify()
	notify()
	if len(ch) != 1 {
		t.Fatalf("len = %d, want 1", len(ch))
	}
	<-ch
}
