package achievements

import (
	"strings"

	"github.com/abhisek/vulcan/internal/scoring"
)

// perfectWindow is how many trailing history entries perfect-10 inspects.
const perfectWindow = 10

// Input is the counter snapshot the rules read.
type Input struct {
	TotalPoints      int
	CurrentStreak    int
	SessionQuestions int
	DailyStreak      int
	History          []scoring.Event
	Hour             int // local hour of day, 0..23
}

// Evaluate returns the achievements whose condition holds and that are not
// in unlocked, in catalog order.
func Evaluate(in Input, unlocked map[string]bool) []Achievement {
	var out []Achievement
	for _, a := range catalog {
		if unlocked[a.ID] {
			continue
		}
		if qualifies(a, in) {
			out = append(out, a)
		}
	}
	return out
}

func qualifies(a Achievement, in Input) bool {
	switch a.Category {
	case CategoryPoints:
		return in.TotalPoints >= a.Requirement
	case CategoryStreak:
		return in.CurrentStreak >= a.Requirement
	case CategorySession:
		switch a.ID {
		case "perfect-10":
			return perfectRun(in.History)
		case "marathon":
			return in.SessionQuestions >= a.Requirement
		case "speed-demon":
			return speedCount(in.History) >= a.Requirement
		}
	case CategorySpecial:
		switch a.ID {
		case "night-owl":
			return in.Hour >= 0 && in.Hour < 6
		case "early-bird":
			return in.Hour >= 4 && in.Hour < 6
		case "dedicated":
			return in.DailyStreak >= a.Requirement
		}
	}
	// comeback-kid and completionist have no rule and never unlock.
	return false
}

func perfectRun(history []scoring.Event) bool {
	if len(history) < perfectWindow {
		return false
	}
	for _, e := range history[len(history)-perfectWindow:] {
		if e.Reason != scoring.ReasonCorrect && e.Reason != scoring.ReasonStreak {
			return false
		}
	}
	return true
}

func speedCount(history []scoring.Event) int {
	n := 0
	for _, e := range history {
		if strings.Contains(e.Detail, scoring.SpeedDetail) {
			n++
		}
	}
	return n
}
