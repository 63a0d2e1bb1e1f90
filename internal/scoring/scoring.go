// Package scoring holds the point rules: streak multipliers, per-answer
// points, point application and the tier ladder.
package scoring

import (
	"math"
	"time"
)

// Point values awarded or deducted by the quiz.
const (
	BaseCorrect           = 5
	Incorrect             = -1
	Skip                  = 0
	SpeedBonus            = 2
	PerfectSessionBonus   = 50
	DailyStreakMultiplier = 10
	AchievementBonus      = 25
)

// SpeedThreshold is the response time under which a correct answer
// earns SpeedBonus.
const SpeedThreshold = 5 * time.Second

// SpeedDetail marks point events produced by the speed bonus.
const SpeedDetail = "speed"

// Reason tags a point event.
type Reason string

const (
	ReasonCorrect     Reason = "correct"
	ReasonIncorrect   Reason = "incorrect"
	ReasonStreak      Reason = "streak"
	ReasonBonus       Reason = "bonus"
	ReasonAchievement Reason = "achievement"
)

// Event is one entry of the point history.
type Event struct {
	At     time.Time `json:"at"`
	Points int       `json:"points"`
	Reason Reason    `json:"reason"`
	Detail string    `json:"detail,omitempty"`
}

// StreakMultiplier returns the point multiplier for a run of consecutive
// correct answers.
func StreakMultiplier(streak int) float64 {
	switch {
	case streak >= 50:
		return 4
	case streak >= 20:
		return 3
	case streak >= 10:
		return 2
	case streak >= 5:
		return 1.5
	default:
		return 1
	}
}

// PointsForCorrect returns the points for a correct answer that brings the
// streak to the given length.
func PointsForCorrect(streak int) int {
	return int(math.Floor(BaseCorrect * StreakMultiplier(streak)))
}

// Apply adds delta to the running totals. The lifetime total never drops
// below zero and the session total only grows. The returned event must be
// appended to the history whatever the sign of delta.
func Apply(total, session, delta int, reason Reason, detail string, at time.Time) (int, int, Event) {
	newTotal := total + delta
	if newTotal < 0 {
		newTotal = 0
	}
	newSession := session
	if delta > 0 {
		newSession += delta
	}
	return newTotal, newSession, Event{At: at, Points: delta, Reason: reason, Detail: detail}
}
