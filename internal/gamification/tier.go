package gamification

import (
	"fmt"
	"slices"

	"github.com/abhisek/vulcan/internal/scoring"
)

// checkTier recomputes the tier and next-tier progress from the point
// total. It does nothing while a testing tier is pinned.
func (s *State) checkTier() {
	if s.testingMode {
		return
	}
	t := scoring.TierForPoints(s.TotalPoints)
	if t.ID != s.Tier.ID {
		s.UnlockTheme(t.Theme)
		s.Tier = t
	}
	s.NextTierProgress = scoring.NextTierProgress(t, s.TotalPoints)
}

// TestingMode reports whether the tier is pinned.
func (s *State) TestingMode() bool {
	return s.testingMode
}

// SetTestingTier pins the displayed tier until ClearTestingMode.
func (s *State) SetTestingTier(id string) error {
	t, ok := scoring.TierByID(id)
	if !ok {
		return fmt.Errorf("unknown tier %q", id)
	}
	s.testingMode = true
	s.Tier = t
	return nil
}

// ClearTestingMode restores the tier earned by the point total.
func (s *State) ClearTestingMode() {
	s.testingMode = false
	s.Tier = scoring.TierForPoints(s.TotalPoints)
	s.NextTierProgress = scoring.NextTierProgress(s.Tier, s.TotalPoints)
}

// UnlockTheme adds a theme to the unlocked set.
func (s *State) UnlockTheme(id string) {
	if id == "" || slices.Contains(s.UnlockedThemes, id) {
		return
	}
	s.UnlockedThemes = append(s.UnlockedThemes, id)
}

// SetActiveTheme switches to an unlocked theme. It reports false and keeps
// the current theme when id is unknown or still locked.
func (s *State) SetActiveTheme(id string) bool {
	if _, ok := scoring.ThemeByID(id); !ok {
		return false
	}
	if !slices.Contains(s.UnlockedThemes, id) {
		return false
	}
	s.ActiveTheme = id
	return true
}
