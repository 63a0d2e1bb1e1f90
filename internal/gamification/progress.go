package gamification

import (
	"time"

	"github.com/abhisek/vulcan/internal/achievements"
	"github.com/abhisek/vulcan/internal/scoring"
	"github.com/abhisek/vulcan/internal/store"
)

// progressVersion is written into every snapshot.
const progressVersion = 1

// Progress captures the persisted fields.
func (s *State) Progress() store.ProgressData {
	p := store.ProgressData{
		Version:           progressVersion,
		TotalPoints:       s.TotalPoints,
		BestStreak:        s.BestStreak,
		DailyStreak:       s.DailyStreak,
		LastStudyDate:     s.LastStudyDate,
		UnlockedThemes:    append([]string(nil), s.UnlockedThemes...),
		ActiveTheme:       s.ActiveTheme,
		TotalQuestions:    s.TotalQuestions,
		TotalCorrect:      s.TotalCorrect,
		AverageResponseMs: float64(s.AverageResponse) / float64(time.Millisecond),
	}
	if s.FastestResponse != NoResponse {
		p.FastestResponseMs = s.FastestResponse.Milliseconds()
	}
	for _, u := range s.Unlocked {
		p.Achievements = append(p.Achievements, store.UnlockedAchievement{ID: u.ID, UnlockedAt: u.UnlockedAt})
	}
	return p
}

// Restore loads persisted progress. A nil snapshot means first run and
// resets to defaults. Session counters and the history start empty.
func (s *State) Restore(p *store.ProgressData) {
	testing, pinned := s.testingMode, s.Tier
	s.reset()
	if p == nil {
		return
	}

	s.TotalPoints = max(p.TotalPoints, 0)
	s.BestStreak = p.BestStreak
	s.DailyStreak = p.DailyStreak
	s.LastStudyDate = p.LastStudyDate
	s.TotalQuestions = p.TotalQuestions
	s.TotalCorrect = p.TotalCorrect
	s.AverageResponse = time.Duration(p.AverageResponseMs * float64(time.Millisecond))
	if p.FastestResponseMs > 0 {
		s.FastestResponse = time.Duration(p.FastestResponseMs) * time.Millisecond
	}

	for _, ua := range p.Achievements {
		a, ok := achievements.ByID(ua.ID)
		if !ok || s.IsUnlocked(ua.ID) {
			continue
		}
		s.Unlocked = append(s.Unlocked, achievements.Unlocked{Achievement: a, UnlockedAt: ua.UnlockedAt})
	}

	if len(p.UnlockedThemes) > 0 {
		s.UnlockedThemes = nil
		for _, id := range p.UnlockedThemes {
			if _, ok := scoring.ThemeByID(id); ok {
				s.UnlockTheme(id)
			}
		}
		s.UnlockTheme(scoring.DefaultTheme)
	}
	if !s.SetActiveTheme(p.ActiveTheme) {
		s.ActiveTheme = scoring.DefaultTheme
	}

	if testing {
		s.testingMode, s.Tier = true, pinned
		return
	}
	s.Tier = scoring.TierForPoints(s.TotalPoints)
	s.checkTier()
}
