package scoring

// Tier is a named band of lifetime points.
type Tier struct {
	ID        string
	Name      string
	Emoji     string
	MinPoints int
	MaxPoints int // 0 for the open-ended top tier
	Theme     string
	Perks     []string
}

var tiers = []Tier{
	{
		ID: "bronze", Name: "Bronze Scholar", Emoji: "🥉",
		MinPoints: 0, MaxPoints: 500, Theme: "bronze",
		Perks: []string{"Basic stats tracking", "Simple animations"},
	},
	{
		ID: "silver", Name: "Silver Apprentice", Emoji: "🥈",
		MinPoints: 501, MaxPoints: 2000, Theme: "silver",
		Perks: []string{"Ocean Blue theme", "Enhanced statistics", "Streak indicators"},
	},
	{
		ID: "gold", Name: "Gold Scholar", Emoji: "🥇",
		MinPoints: 2001, MaxPoints: 8000, Theme: "gold",
		Perks: []string{"Golden theme", "Session history", "Particle effects", "Achievement previews"},
	},
	{
		ID: "platinum", Name: "Platinum Expert", Emoji: "💎",
		MinPoints: 8001, MaxPoints: 25000, Theme: "platinum",
		Perks: []string{"Platinum theme", "Advanced statistics", "Premium animations", "Custom backgrounds"},
	},
	{
		ID: "diamond", Name: "Diamond Master", Emoji: "💍",
		MinPoints: 25001, MaxPoints: 75000, Theme: "diamond",
		Perks: []string{"Diamond theme", "Epic celebrations", "All visual effects", "Prestige badges"},
	},
	{
		ID: "legendary", Name: "Legendary Grandmaster", Emoji: "🌟",
		MinPoints: 75001, Theme: "legendary",
		Perks: []string{"Legendary theme", "Rainbow effects", "All features unlocked", "Exclusive animations"},
	},
}

// Tiers returns the tier ladder from lowest to highest.
func Tiers() []Tier {
	out := make([]Tier, len(tiers))
	copy(out, tiers)
	return out
}

// TierForPoints returns the highest tier whose threshold is reached.
func TierForPoints(points int) Tier {
	for i := len(tiers) - 1; i >= 0; i-- {
		if points >= tiers[i].MinPoints {
			return tiers[i]
		}
	}
	return tiers[0]
}

// TierByID looks up a tier by id.
func TierByID(id string) (Tier, bool) {
	for _, t := range tiers {
		if t.ID == id {
			return t, true
		}
	}
	return Tier{}, false
}

// NextTier returns the tier after t, or false at the top of the ladder.
func NextTier(t Tier) (Tier, bool) {
	for i := range tiers {
		if tiers[i].ID == t.ID && i < len(tiers)-1 {
			return tiers[i+1], true
		}
	}
	return Tier{}, false
}

// NextTierProgress returns how far points are from tier t to the next one,
// as a percentage in [0, 100]. The top tier always reports 100.
func NextTierProgress(t Tier, points int) float64 {
	next, ok := NextTier(t)
	if !ok {
		return 100
	}
	p := float64(points-t.MinPoints) / float64(next.MinPoints-t.MinPoints) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
