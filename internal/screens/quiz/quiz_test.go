package quiz

import (
	"context"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/vulcan/internal/clock"
	"github.com/abhisek/vulcan/internal/deck"
	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screens/summary"
	"github.com/abhisek/vulcan/internal/session"
)

const delay = 2 * time.Second

var answers = map[string]string{
	"Capital of France": "Paris",
	"Capital of Italy":  "Rome",
}

func newQuiz(t *testing.T, mode session.Mode, pairs ...deck.Pair) (*QuizScreen, *session.Coordinator, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC))
	coord := session.NewCoordinator(session.Options{
		Mode:          mode,
		FeedbackDelay: delay,
		Clock:         clk,
		Rand:          rand.New(rand.NewSource(1)),
	})
	if len(pairs) > 0 {
		if err := coord.LoadDeck(context.Background(), pairs, ""); err != nil {
			t.Fatal(err)
		}
	}
	s := New(coord, nil)
	s.Init()
	return s, coord, clk
}

func typeText(s *QuizScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter(s *QuizScreen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func expectSummary(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatal("expected ReplaceScreenMsg")
	}
	if _, ok := msg.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replacement = %T, want *summary.SummaryScreen", msg.Screen)
	}
}

func TestQuiz_NoDeck(t *testing.T) {
	s, _, _ := newQuiz(t, session.ModeInfinite)
	if !strings.Contains(s.View(100, 30), "No deck loaded") {
		t.Error("expected no-deck message")
	}
	if s.HandlesEscape() {
		t.Error("error state should let the app handle esc")
	}
	cmd := enter(s)
	if cmd == nil {
		t.Fatal("expected pop")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestQuiz_AnswerAndAdvance(t *testing.T) {
	s, coord, _ := newQuiz(t, session.ModeInfinite,
		deck.Pair{Question: "Capital of France", Answer: "Paris"},
		deck.Pair{Question: "Capital of Italy", Answer: "Rome"},
	)

	q := s.view.Question
	typeText(s, " "+strings.ToUpper(answers[q])+"!")
	if cmd := enter(s); cmd != nil {
		t.Error("a correct answer in infinite mode should not end the quiz")
	}

	v := coord.Snapshot()
	if v.Phase != session.PhaseFeedback || v.Feedback == nil || !v.Feedback.Correct {
		t.Fatalf("after submit: phase=%s feedback=%+v", v.Phase, v.Feedback)
	}
	if !strings.Contains(s.View(100, 30), "Correct!") {
		t.Error("view should show correct feedback")
	}

	enter(s)
	if s.view.Phase != session.PhaseActive {
		t.Fatalf("phase = %s, want active", s.view.Phase)
	}
	if s.input.Value() != "" {
		t.Errorf("input not cleared: %q", s.input.Value())
	}
}

func TestQuiz_WrongAnswerShowsCorrection(t *testing.T) {
	s, _, _ := newQuiz(t, session.ModeInfinite, deck.Pair{Question: "Capital of France", Answer: "Paris"})
	typeText(s, "Lyon")
	enter(s)
	if !strings.Contains(s.View(100, 30), "The answer is: Paris") {
		t.Error("view should show the correct answer")
	}
}

func TestQuiz_BlankAnswerIgnored(t *testing.T) {
	s, coord, _ := newQuiz(t, session.ModeInfinite, deck.Pair{Question: "Capital of France", Answer: "Paris"})
	typeText(s, "   ")
	enter(s)
	if coord.Snapshot().Phase != session.PhaseActive {
		t.Error("blank submission should be ignored")
	}
}

func TestQuiz_SingleCycleCompletes(t *testing.T) {
	s, _, _ := newQuiz(t, session.ModeSingleCycle, deck.Pair{Question: "Capital of France", Answer: "Paris"})
	typeText(s, "paris")
	enter(s)
	expectSummary(t, enter(s))
}

func TestQuiz_TimerAdvance(t *testing.T) {
	s, _, clk := newQuiz(t, session.ModeSingleCycle, deck.Pair{Question: "Capital of France", Answer: "Paris"})
	typeText(s, "Paris")
	enter(s)

	clk.Advance(delay)
	_, cmd := s.Update(changedMsg{})
	expectSummary(t, cmd)
}

func TestQuiz_QuitConfirmation(t *testing.T) {
	s, coord, _ := newQuiz(t, session.ModeInfinite, deck.Pair{Question: "Capital of France", Answer: "Paris"})
	if !s.HandlesEscape() {
		t.Fatal("quiz should own esc")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !s.confirmQuit || !strings.Contains(s.View(100, 30), "End this quiz?") {
		t.Fatal("esc should ask for confirmation")
	}
	s.Update(tea.KeyPressMsg{Code: 'n', Text: "n"})
	if s.confirmQuit || coord.Snapshot().Phase != session.PhaseActive {
		t.Fatal("n should resume the quiz")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'y', Text: "y"})
	expectSummary(t, cmd)
	if coord.Snapshot().Phase != session.PhaseIdle {
		t.Error("y should end the quiz")
	}
}

func TestQuiz_KeyHints(t *testing.T) {
	s, _, _ := newQuiz(t, session.ModeInfinite, deck.Pair{Question: "Capital of France", Answer: "Paris"})
	if got := s.KeyHints()[0].Description; got != "Submit" {
		t.Errorf("active hint = %q", got)
	}
	typeText(s, "Paris")
	enter(s)
	if got := s.KeyHints()[0].Description; got != "Next card" {
		t.Errorf("feedback hint = %q", got)
	}
}
