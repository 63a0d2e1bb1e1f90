// Package session runs the turn-by-turn quiz loop. Quiz owns the deck,
// cards and counters; Coordinator sequences Quiz with the gamification
// state and the persistence collaborators.
package session

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/abhisek/vulcan/internal/deck"
	"github.com/abhisek/vulcan/internal/scheduler"
)

// ErrNoDeck is returned when a quiz is started without cards.
var ErrNoDeck = errors.New("no deck loaded")

// Mode selects how a quiz ends.
type Mode string

const (
	// ModeSingleCycle ends once every card was answered correctly once.
	ModeSingleCycle Mode = "single-cycle"
	// ModeInfinite reshuffles and repeats forever.
	ModeInfinite Mode = "infinite"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeSingleCycle, ModeInfinite:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown quiz mode %q (want %s or %s)", s, ModeSingleCycle, ModeInfinite)
}

// Phase is the quiz state machine position.
type Phase int

const (
	PhaseIdle     Phase = iota // No quiz running
	PhaseActive                // Waiting for an answer
	PhaseFeedback              // Showing the result of the last answer
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseFeedback:
		return "showing_feedback"
	default:
		return "idle"
	}
}

// Counters are the per-session answer tallies.
type Counters struct {
	QuestionsAnswered int
	UniqueAnswered    int // cards answered correctly for the first time
	Correct           int
	Incorrect         int
	Turn              int

	PerfectAwarded bool // the perfect-session bonus was paid this session
}

// Quiz is the scheduling and session-state container.
type Quiz struct {
	Deck     *deck.Deck
	Mode     Mode
	Phase    Phase
	Counters Counters

	// Complete is set when a single-cycle quiz ends because every card was
	// answered correctly.
	Complete bool

	currentID string
	rng       *rand.Rand
}

// NewQuiz creates an idle quiz with no deck.
func NewQuiz(mode Mode, rng *rand.Rand) *Quiz {
	return &Quiz{Mode: mode, rng: rng}
}

// Load replaces the deck and returns to idle.
func (q *Quiz) Load(d *deck.Deck) {
	q.Deck = d
	q.idle()
}

// Clear drops the deck.
func (q *Quiz) Clear() {
	q.Deck = nil
	q.idle()
}

// Reset rebuilds the working cards from the original deck with fresh
// history and returns to idle.
func (q *Quiz) Reset() {
	if q.Deck != nil {
		q.Deck.Reset(q.rng)
	}
	q.idle()
}

func (q *Quiz) idle() {
	q.Phase = PhaseIdle
	q.Counters = Counters{}
	q.Complete = false
	q.currentID = ""
}

// Finished reports whether the last single-cycle quiz ended with every
// card answered correctly, so a new run needs fresh card history.
func (q *Quiz) Finished() bool {
	if q.Deck == nil || q.Deck.Len() == 0 {
		return false
	}
	return q.Complete || (q.Mode == ModeSingleCycle && q.Deck.AllAnsweredCorrectly())
}

// Begin zeroes the counters, presents the first card at turn 0 and
// enters PhaseActive.
func (q *Quiz) Begin() error {
	if q.Deck.Len() == 0 {
		return ErrNoDeck
	}
	q.Counters = Counters{}
	q.Complete = false
	q.present()
	q.Phase = PhaseActive
	return nil
}

// Current returns the card being asked, or nil.
func (q *Quiz) Current() *deck.Card {
	if q.currentID == "" || q.Deck == nil {
		return nil
	}
	i := q.Deck.IndexOf(q.currentID)
	if i < 0 {
		return nil
	}
	return &q.Deck.Cards[i]
}

// Answer records the result for the current card: history, review
// scheduling, the infinite-mode rollover and the counters. It enters
// PhaseFeedback and reports whether this was the card's first correct
// answer.
func (q *Quiz) Answer(correct bool) bool {
	card := q.Current()
	if card == nil {
		return false
	}

	first := correct && !card.AnsweredCorrectly
	card.LastShownTurn = q.Counters.Turn
	if correct {
		card.AnsweredCorrectly = true
		card.AnsweredInCycle = true
	} else {
		card.IncorrectCount++
		review := q.Counters.Turn + scheduler.ReviewDelay(q.rng)
		card.NextReviewTurn = &review
	}

	if q.Mode == ModeInfinite && q.Deck.AllAnsweredInCycle() {
		q.Deck.Rollover(q.rng)
	}

	q.Counters.QuestionsAnswered++
	if correct {
		q.Counters.Correct++
	} else {
		q.Counters.Incorrect++
	}
	if first {
		q.Counters.UniqueAnswered++
	}
	q.Phase = PhaseFeedback
	return first
}

// Next leaves feedback. A finished single-cycle quiz goes idle and Next
// returns true; otherwise the turn advances and the next card is shown.
func (q *Quiz) Next() bool {
	if q.Mode == ModeSingleCycle && q.Deck.AllAnsweredCorrectly() {
		q.Phase = PhaseIdle
		q.Complete = true
		q.currentID = ""
		return true
	}
	q.Counters.Turn++
	q.present()
	q.Phase = PhaseActive
	return false
}

// Stop ends the quiz without touching the counters.
func (q *Quiz) Stop() {
	q.Phase = PhaseIdle
}

// present selects the card for the current turn and marks it shown. A
// card taken from the review pool has its review consumed.
func (q *Quiz) present() {
	i, pool := scheduler.Select(q.Deck.Cards, q.Counters.Turn, q.rng)
	card := &q.Deck.Cards[i]
	card.LastShownTurn = q.Counters.Turn
	if pool == scheduler.PoolDue {
		card.NextReviewTurn = nil
	}
	q.currentID = card.ID
}
