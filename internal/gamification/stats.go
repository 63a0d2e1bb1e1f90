package gamification

import (
	"fmt"
	"time"

	"github.com/abhisek/vulcan/internal/scoring"
)

const dateLayout = "2006-01-02"

// StartResponseTimer marks the moment a question was presented.
func (s *State) StartResponseTimer() {
	s.responseStart = s.clock.Now()
}

// RecordAnswer updates question counters and response times and awards
// the speed bonus for fast correct answers. It must run before the
// answer's own points are applied. It returns the measured response time,
// zero when no timer was running.
func (s *State) RecordAnswer(correct bool) time.Duration {
	var rt time.Duration
	if !s.responseStart.IsZero() {
		rt = s.clock.Now().Sub(s.responseStart)
	}

	prev := s.TotalQuestions
	s.TotalQuestions++
	s.SessionQuestions++
	if correct {
		s.TotalCorrect++
	}

	if s.AverageResponse == 0 {
		s.AverageResponse = rt
	} else {
		s.AverageResponse = (s.AverageResponse*time.Duration(prev) + rt) / time.Duration(s.TotalQuestions)
	}
	if correct && rt < s.FastestResponse {
		s.FastestResponse = rt
	}
	s.responseStart = time.Time{}

	if correct && rt < scoring.SpeedThreshold {
		s.AddPoints(scoring.SpeedBonus, scoring.ReasonBonus, scoring.SpeedDetail)
	}
	return rt
}

// UpdateDailyStreak records a study day. Studying the day after the last
// study date extends the streak, any other gap restarts it at 1, and a
// second visit on the same day changes nothing. Streaks longer than one
// day earn DailyStreakMultiplier points per day. It reports whether the
// streak changed.
func (s *State) UpdateDailyStreak() bool {
	now := s.clock.Now()
	today := now.Format(dateLayout)
	if s.LastStudyDate == today {
		return false
	}

	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	streak := 1
	if s.LastStudyDate == yesterday {
		streak = s.DailyStreak + 1
	}
	s.DailyStreak = streak
	s.LastStudyDate = today

	if streak > 1 {
		s.AddPoints(scoring.DailyStreakMultiplier*streak, scoring.ReasonBonus, fmt.Sprintf("%d day streak!", streak))
	}
	return true
}

// StudiedToday reports whether the last study date is today.
func (s *State) StudiedToday() bool {
	return s.LastStudyDate == s.clock.Now().Format(dateLayout)
}
