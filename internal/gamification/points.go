package gamification

import (
	"fmt"

	"github.com/abhisek/vulcan/internal/achievements"
	"github.com/abhisek/vulcan/internal/scoring"
)

// streakReasonFrom is the streak length from which correct answers are
// logged with the streak reason.
const streakReasonFrom = 3

// AddPoints applies delta, appends the event to the history and
// recomputes the tier.
func (s *State) AddPoints(delta int, reason scoring.Reason, detail string) scoring.Event {
	var ev scoring.Event
	s.TotalPoints, s.SessionPoints, ev = scoring.Apply(s.TotalPoints, s.SessionPoints, delta, reason, detail, s.clock.Now())
	s.History = append(s.History, ev)
	s.checkTier()
	return ev
}

// RecordCorrect extends the streak and awards the multiplied points.
// It returns the points awarded.
func (s *State) RecordCorrect() int {
	s.CurrentStreak++
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}

	points := scoring.PointsForCorrect(s.CurrentStreak)
	if s.CurrentStreak >= streakReasonFrom {
		s.AddPoints(points, scoring.ReasonStreak, fmt.Sprintf("%d streak!", s.CurrentStreak))
	} else {
		s.AddPoints(points, scoring.ReasonCorrect, "")
	}
	return points
}

// RecordIncorrect breaks the streak and applies the penalty.
func (s *State) RecordIncorrect() int {
	s.CurrentStreak = 0
	s.AddPoints(scoring.Incorrect, scoring.ReasonIncorrect, "")
	return scoring.Incorrect
}

// AwardPerfectSession grants the single-cycle perfect-session bonus.
func (s *State) AwardPerfectSession() {
	s.AddPoints(scoring.PerfectSessionBonus, scoring.ReasonBonus, "Perfect session!")
}

// CheckAchievements unlocks every newly qualified achievement. Only the
// first in catalog order becomes the toast and earns the bonus; it is
// returned, or nil when nothing unlocked.
func (s *State) CheckAchievements() *achievements.Unlocked {
	unlocked := make(map[string]bool, len(s.Unlocked))
	for _, u := range s.Unlocked {
		unlocked[u.ID] = true
	}

	now := s.clock.Now()
	newly := achievements.Evaluate(achievements.Input{
		TotalPoints:      s.TotalPoints,
		CurrentStreak:    s.CurrentStreak,
		SessionQuestions: s.SessionQuestions,
		DailyStreak:      s.DailyStreak,
		History:          s.History,
		Hour:             now.Hour(),
	}, unlocked)
	if len(newly) == 0 {
		return nil
	}

	earned := make([]achievements.Unlocked, len(newly))
	for i, a := range newly {
		earned[i] = achievements.Unlocked{Achievement: a, UnlockedAt: now}
	}
	s.Unlocked = append(s.Unlocked, earned...)

	recent := append(append([]achievements.Unlocked{}, earned...), s.Recent...)
	if len(recent) > RecentLimit {
		recent = recent[:RecentLimit]
	}
	s.Recent = recent

	toast := earned[0]
	s.Toast = &toast
	s.AddPoints(scoring.AchievementBonus, scoring.ReasonAchievement, "Unlocked: "+toast.Name)
	return &toast
}
