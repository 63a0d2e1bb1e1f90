package home

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

var now = time.Date(2025, 3, 10, 18, 0, 0, 0, time.Local)

func newHome(t *testing.T) (*HomeScreen, *session.Coordinator) {
	t.Helper()
	coord := session.NewCoordinator(session.Options{Clock: clock.NewFake(now)})
	return New(Options{Coordinator: coord, Now: func() time.Time { return now }}), coord
}

func TestHomeScreen_StartDisabledWithoutDeck(t *testing.T) {
	h, coord := newHome(t)
	if !h.menu.Items[itemStart].Disabled {
		t.Fatal("start should be disabled with no deck")
	}
	if h.menu.Selected == itemStart {
		t.Error("selection should skip the disabled start item")
	}

	if err := coord.LoadDeck(context.Background(), []deck.Pair{{Question: "2+2", Answer: "4"}}, ""); err != nil {
		t.Fatal(err)
	}
	h.Update(router.ResumedMsg{})
	if h.menu.Items[itemStart].Disabled {
		t.Error("start should be enabled after a deck loads")
	}
}

func TestHomeScreen_StartPushesQuiz(t *testing.T) {
	h, coord := newHome(t)
	if err := coord.LoadDeck(context.Background(), []deck.Pair{{Question: "2+2", Answer: "4"}}, ""); err != nil {
		t.Fatal(err)
	}
	h.Update(router.ResumedMsg{})
	h.menu.Selected = itemStart

	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected push command")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := msg.Screen.(*quiz.QuizScreen); !ok {
		t.Errorf("pushed %T, want *quiz.QuizScreen", msg.Screen)
	}
}

func TestHomeScreen_ToggleMode(t *testing.T) {
	h, coord := newHome(t)
	h.menu.Selected = itemMode

	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := coord.Snapshot().Mode; got != session.ModeSingleCycle {
		t.Errorf("mode = %s, want single-cycle", got)
	}
	if !strings.Contains(h.menu.Items[itemMode].Label, "SINGLE-CYCLE") {
		t.Errorf("label = %q", h.menu.Items[itemMode].Label)
	}

	h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if got := coord.Snapshot().Mode; got != session.ModeInfinite {
		t.Errorf("mode = %s, want infinite", got)
	}
}

func TestHomeScreen_DisabledWithoutRepos(t *testing.T) {
	h, _ := newHome(t)
	if !h.menu.Items[itemLibrary].Disabled || !h.menu.Items[itemHistory].Disabled {
		t.Error("library and history need repositories")
	}
}

func TestHomeScreen_Quit(t *testing.T) {
	h, _ := newHome(t)
	h.menu.Selected = itemQuit
	_, cmd := h.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestHomeScreen_Mascot(t *testing.T) {
	h, _ := newHome(t)
	if got := h.mascot(); got != MascotIdle {
		t.Errorf("fresh user mascot = %v, want idle", got)
	}

	h.view.LastStudyDate = "2025-03-09"
	h.view.DailyStreak = 4
	if got := h.mascot(); got != MascotAlert {
		t.Errorf("streak at risk mascot = %v, want alert", got)
	}
}

func TestHomeScreen_View(t *testing.T) {
	h, _ := newHome(t)
	h.Update(UpdateAvailableMsg{Version: "v1.2.0"})

	view := h.View(120, 60)
	for _, want := range []string{"START QUIZ", "No deck loaded", "0 PTS", "v1.2.0"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if h.Title() != "Home" {
		t.Errorf("Title = %q", h.Title())
	}
}
