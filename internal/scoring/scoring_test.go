package scoring

import (
	"testing"
	"time"
)

func TestStreakMultiplier(t *testing.T) {
	tests := []struct {
		streak int
		want   float64
	}{
		{0, 1},
		{4, 1},
		{5, 1.5},
		{9, 1.5},
		{10, 2},
		{19, 2},
		{20, 3},
		{49, 3},
		{50, 4},
		{500, 4},
	}

	for _, tt := range tests {
		got := StreakMultiplier(tt.streak)
		if got != tt.want {
			t.Errorf("StreakMultiplier(%d) = %v, want %v", tt.streak, got, tt.want)
		}
	}
}

func TestStreakMultiplier_NonDecreasing(t *testing.T) {
	prev := StreakMultiplier(0)
	for s := 1; s <= 100; s++ {
		got := StreakMultiplier(s)
		if got < prev {
			t.Fatalf("StreakMultiplier(%d) = %v < StreakMultiplier(%d) = %v", s, got, s-1, prev)
		}
		prev = got
	}
}

func TestPointsForCorrect(t *testing.T) {
	tests := []struct {
		streak int
		want   int
	}{
		{1, 5},
		{5, 7},
		{9, 7},
		{10, 10},
		{20, 15},
		{50, 20},
	}

	for _, tt := range tests {
		got := PointsForCorrect(tt.streak)
		if got != tt.want {
			t.Errorf("PointsForCorrect(%d) = %d, want %d", tt.streak, got, tt.want)
		}
	}
}

func TestApply_FloorsTotalAtZero(t *testing.T) {
	now := time.Now()
	total, session := 0, 0

	total, session, ev := Apply(total, session, -1, ReasonIncorrect, "", now)
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if ev.Points != -1 || ev.Reason != ReasonIncorrect {
		t.Errorf("event = %+v, want -1 incorrect", ev)
	}

	for _, delta := range []int{5, -1, 5, -20} {
		total, session, _ = Apply(total, session, delta, ReasonCorrect, "", now)
		if total < 0 {
			t.Fatalf("total went negative: %d", total)
		}
	}
	if total != 0 {
		t.Errorf("total = %d, want 0", total)
	}
	if session != 10 {
		t.Errorf("session = %d, want 10", session)
	}
}

func TestApply_SessionOnlyGrows(t *testing.T) {
	_, session, _ := Apply(100, 30, -1, ReasonIncorrect, "", time.Now())
	if session != 30 {
		t.Errorf("session = %d, want 30", session)
	}
	_, session, _ = Apply(100, 30, 7, ReasonStreak, "5 streak!", time.Now())
	if session != 37 {
		t.Errorf("session = %d, want 37", session)
	}
}

func TestTierForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, "bronze"},
		{500, "bronze"},
		{501, "silver"},
		{2000, "silver"},
		{2001, "gold"},
		{8000, "gold"},
		{8001, "platinum"},
		{25000, "platinum"},
		{25001, "diamond"},
		{75000, "diamond"},
		{75001, "legendary"},
		{1_000_000, "legendary"},
	}

	for _, tt := range tests {
		got := TierForPoints(tt.points)
		if got.ID != tt.want {
			t.Errorf("TierForPoints(%d) = %q, want %q", tt.points, got.ID, tt.want)
		}
	}
}

func TestNextTierProgress(t *testing.T) {
	bronze, _ := TierByID("bronze")
	legendary, _ := TierByID("legendary")

	tests := []struct {
		name   string
		tier   Tier
		points int
		want   float64
	}{
		{"start of bronze", bronze, 0, 0},
		{"half of bronze", bronze, 250, float64(250) / 501 * 100},
		{"past next tier clamps", bronze, 900, 100},
		{"top tier", legendary, 80000, 100},
	}

	for _, tt := range tests {
		got := NextTierProgress(tt.tier, tt.points)
		if got != tt.want {
			t.Errorf("%s: NextTierProgress = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTiersHaveThemes(t *testing.T) {
	for _, tier := range Tiers() {
		if _, ok := ThemeByID(tier.Theme); !ok {
			t.Errorf("tier %q references unknown theme %q", tier.ID, tier.Theme)
		}
	}
}
