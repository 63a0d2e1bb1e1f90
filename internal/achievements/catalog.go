package achievements

var catalog = []Achievement{
	// Points
	{ID: "first-steps", Name: "First Steps", Description: "Earn your first 50 points", Emoji: "👟", Category: CategoryPoints, Requirement: 50},
	{ID: "rising-star", Name: "Rising Star", Description: "Earn 250 points", Emoji: "⭐", Category: CategoryPoints, Requirement: 250},
	{ID: "knowledge-seeker", Name: "Knowledge Seeker", Description: "Earn 1,000 points", Emoji: "📚", Category: CategoryPoints, Requirement: 1000},
	{ID: "scholar", Name: "Scholar", Description: "Earn 5,000 points", Emoji: "🎓", Category: CategoryPoints, Requirement: 5000},
	{ID: "master", Name: "Master", Description: "Earn 10,000 points", Emoji: "🏆", Category: CategoryPoints, Requirement: 10000},
	{ID: "grandmaster", Name: "Grandmaster", Description: "Earn 25,000 points", Emoji: "👑", Category: CategoryPoints, Requirement: 25000},

	// Streaks
	{ID: "hot-streak", Name: "Hot Streak", Description: "5 correct answers in a row", Emoji: "🔥", Category: CategoryStreak, Requirement: 5},
	{ID: "on-fire", Name: "On Fire", Description: "10 correct answers in a row", Emoji: "🔥", Category: CategoryStreak, Requirement: 10},
	{ID: "unstoppable", Name: "Unstoppable", Description: "25 correct answers in a row", Emoji: "⚡", Category: CategoryStreak, Requirement: 25},
	{ID: "legendary", Name: "Legendary", Description: "50 correct answers in a row", Emoji: "🌟", Category: CategoryStreak, Requirement: 50},

	// Sessions
	{ID: "perfect-10", Name: "Perfect 10", Description: "Complete 10 questions with 100% accuracy", Emoji: "💯", Category: CategorySession, Requirement: 10},
	{ID: "marathon", Name: "Marathon", Description: "Answer 50 questions in one session", Emoji: "🏃", Category: CategorySession, Requirement: 50},
	{ID: "speed-demon", Name: "Speed Demon", Description: "10 correct answers under 5 seconds each", Emoji: "⚡", Category: CategorySession, Requirement: 10},
	{ID: "comeback-kid", Name: "Comeback Kid", Description: "Recover from 3 wrong to 5 right in a row", Emoji: "💪", Category: CategorySession, Requirement: 5},

	// Special
	{ID: "night-owl", Name: "Night Owl", Description: "Study after midnight", Emoji: "🦉", Category: CategorySpecial, Requirement: 0},
	{ID: "early-bird", Name: "Early Bird", Description: "Study before 6 AM", Emoji: "🐦", Category: CategorySpecial, Requirement: 6},
	{ID: "dedicated", Name: "Dedicated", Description: "Study 7 days in a row", Emoji: "📅", Category: CategorySpecial, Requirement: 7},
	{ID: "completionist", Name: "Completionist", Description: "Finish entire deck perfectly", Emoji: "✅", Category: CategorySpecial, Requirement: 100},
}

// All returns the catalog in evaluation order.
func All() []Achievement {
	out := make([]Achievement, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up an achievement.
func ByID(id string) (Achievement, bool) {
	for _, a := range catalog {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// ByCategory returns the catalog entries of one category, in order.
func ByCategory(c Category) []Achievement {
	var out []Achievement
	for _, a := range catalog {
		if a.Category == c {
			out = append(out, a)
		}
	}
	return out
}
