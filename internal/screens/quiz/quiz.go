// Package quiz is the screen that runs a flashcard quiz.
package quiz

import (
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/vulcan/internal/router"
	"github.com/abhisek/vulcan/internal/screen"
	"github.com/abhisek/vulcan/internal/screens/summary"
	"github.com/abhisek/vulcan/internal/session"
	"github.com/abhisek/vulcan/internal/ui/components"
	"github.com/abhisek/vulcan/internal/ui/layout"
	"github.com/abhisek/vulcan/internal/ui/theme"
)

// changedMsg reports a timer-driven transition inside the coordinator.
type changedMsg struct{}

// QuizScreen shows the current card, takes answers and shows feedback.
type QuizScreen struct {
	coord       *session.Coordinator
	changes     <-chan struct{}
	input       components.TextInput
	view        session.View
	confirmQuit bool
	errMsg      string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)
var _ screen.EscapeHandler = (*QuizScreen)(nil)

// New creates a quiz screen. changes receives a value after every
// timer-driven coordinator transition.
func New(coord *session.Coordinator, changes <-chan struct{}) *QuizScreen {
	return &QuizScreen{
		coord:   coord,
		changes: changes,
		input:   components.NewTextInput("Type your answer...", 120),
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	if err := s.coord.Start(); err != nil {
		s.errMsg = err.Error()
		if errors.Is(err, session.ErrNoDeck) {
			s.errMsg = "No deck loaded. Import a CSV or XLSX file first."
		}
		return nil
	}
	s.refresh()
	return tea.Batch(s.input.Init(), s.wait())
}

func (s *QuizScreen) Title() string {
	if s.view.DeckName != "" {
		return s.view.DeckName
	}
	return "Quiz"
}

func (s *QuizScreen) HandlesEscape() bool { return s.errMsg == "" }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "End quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.view.Phase == session.PhaseFeedback:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next card"},
			{Key: "Esc", Description: "End"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "End"},
	}
}

// wait blocks until the coordinator reports a transition.
func (s *QuizScreen) wait() tea.Cmd {
	if s.changes == nil {
		return nil
	}
	ch := s.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (s *QuizScreen) refresh() {
	prev := s.view.Phase
	s.view = s.coord.Snapshot()
	if prev == session.PhaseFeedback && s.view.Phase == session.PhaseActive {
		s.input.Clear()
	}
}

// finish swaps this screen for the summary.
func (s *QuizScreen) finish() tea.Cmd {
	sum := s.coord.Summary()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		s.refresh()
		if s.view.Phase == session.PhaseIdle {
			return s, s.finish()
		}
		return s, s.wait()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.view.Phase == session.PhaseActive && !s.confirmQuit {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		if key == "esc" || key == "enter" {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		return s, nil
	}

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.coord.End()
			return s, s.finish()
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if s.view.Toast != nil {
		s.coord.DismissToast()
	}

	switch key {
	case "esc":
		s.confirmQuit = true
		s.refresh()
		return s, nil

	case "enter":
		switch s.view.Phase {
		case session.PhaseActive:
			if fb, ok := s.coord.Submit(s.input.Value()); ok {
				s.input.Submit(fb.Correct)
			}
		case session.PhaseFeedback:
			s.coord.Advance()
		}
		s.refresh()
		if s.view.Phase == session.PhaseIdle {
			return s, s.finish()
		}
		return s, nil
	}

	if s.view.Phase == session.PhaseActive {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.refresh()
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return components.Center(
			lipgloss.NewStyle().Foreground(theme.Error).Render(s.errMsg), width, height)
	}
	if s.confirmQuit {
		return components.Center(components.Card(
			theme.Title.Render("End this quiz?")+"\n\n"+
				theme.Hint.Render("Your points are already saved."),
			components.ContentWidth(width)), width, height)
	}

	v := s.view
	cw := components.ContentWidth(width)
	var sections []string

	sections = append(sections, renderStats(v, cw))

	card := theme.Hint.Render(fmt.Sprintf("Card #%d", v.CardNumber)) + "\n\n" +
		theme.Body.Bold(true).Render(v.Question)
	sections = append(sections, components.Card(card, cw))

	sections = append(sections, s.input.View())

	if v.Phase == session.PhaseFeedback && v.Feedback != nil {
		sections = append(sections, renderFeedback(v.Feedback))
	}
	if v.Toast != nil {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("%s Achievement unlocked: %s (+25)", v.Toast.Emoji, v.Toast.Name)))
	}

	return components.Center(strings.Join(sections, "\n\n"), width, height)
}

func renderStats(v session.View, cw int) string {
	c := v.Counters
	line := fmt.Sprintf("Answered %d   ✓ %d   ✗ %d   Streak %d (x%.1f)   +%d pts",
		c.QuestionsAnswered, c.Correct, c.Incorrect, v.CurrentStreak, v.Multiplier, v.SessionPoints)
	out := lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
	if v.Mode == session.ModeSingleCycle && v.TotalCards > 0 {
		bar := components.NewProgressBar("Deck", float64(c.UniqueAnswered)/float64(v.TotalCards), true, cw)
		out += "\n" + bar.View()
	}
	return out
}

func renderFeedback(fb *session.Feedback) string {
	if fb.Correct {
		msg := fmt.Sprintf("Correct! %+d pts", fb.Points)
		return theme.Correct.Render(msg)
	}
	msg := fmt.Sprintf("Not quite. The answer is: %s", fb.CorrectAnswer)
	return theme.Incorrect.Render(msg)
}
