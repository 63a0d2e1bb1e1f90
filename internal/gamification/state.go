// Package gamification holds the points, streak, achievement, tier and
// response-time state that reacts to each answer. State is not safe for
// concurrent use; the session coordinator serializes access.
package gamification

import (
	"math"
	"time"

	"github.com/abhisek/vulcan/internal/achievements"
	"github.com/abhisek/vulcan/internal/clock"
	"github.com/abhisek/vulcan/internal/scoring"
)

// RecentLimit bounds the recently unlocked achievement list.
const RecentLimit = 5

// NoResponse is FastestResponse before any correct answer is timed.
const NoResponse = time.Duration(math.MaxInt64)

// State is the gamification container.
type State struct {
	TotalPoints   int
	SessionPoints int
	History       []scoring.Event

	CurrentStreak int
	BestStreak    int
	DailyStreak   int
	LastStudyDate string // YYYY-MM-DD in local time, empty before first study

	Unlocked []achievements.Unlocked
	Recent   []achievements.Unlocked
	Toast    *achievements.Unlocked

	Tier             scoring.Tier
	NextTierProgress float64
	testingMode      bool

	TotalQuestions   int
	TotalCorrect     int
	SessionQuestions int
	AverageResponse  time.Duration
	FastestResponse  time.Duration
	responseStart    time.Time

	UnlockedThemes []string
	ActiveTheme    string

	clock clock.Clock
}

// New returns a state at first-run defaults.
func New(clk clock.Clock) *State {
	s := &State{clock: clk}
	s.reset()
	return s
}

func (s *State) reset() {
	clk := s.clock
	*s = State{
		Tier:            scoring.TierForPoints(0),
		FastestResponse: NoResponse,
		UnlockedThemes:  []string{scoring.DefaultTheme},
		ActiveTheme:     scoring.DefaultTheme,
		clock:           clk,
	}
}

// ResetAll discards every piece of progress.
func (s *State) ResetAll() {
	s.reset()
}

// ResetSession clears the per-session counters at quiz start.
func (s *State) ResetSession() {
	s.SessionQuestions = 0
	s.SessionPoints = 0
	s.CurrentStreak = 0
}

// Accuracy returns lifetime correct answers over answered questions.
func (s *State) Accuracy() float64 {
	if s.TotalQuestions == 0 {
		return 0
	}
	return float64(s.TotalCorrect) / float64(s.TotalQuestions)
}

// IsUnlocked reports whether an achievement has been earned.
func (s *State) IsUnlocked(id string) bool {
	for _, u := range s.Unlocked {
		if u.ID == id {
			return true
		}
	}
	return false
}

// DismissToast clears the pending achievement notification.
func (s *State) DismissToast() {
	s.Toast = nil
}
