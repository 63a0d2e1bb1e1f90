// Package achievements defines the achievement catalog and the rule pass
// that decides which achievements newly qualify.
package achievements

import "time"

// Category groups achievements by the counter they watch.
type Category string

const (
	CategoryPoints  Category = "points"
	CategoryStreak  Category = "streak"
	CategorySession Category = "session"
	CategorySpecial Category = "special"
)

// AllCategories returns all categories in evaluation order.
func AllCategories() []Category {
	return []Category{CategoryPoints, CategoryStreak, CategorySession, CategorySpecial}
}

// DisplayName returns a human-readable label for the category.
func (c Category) DisplayName() string {
	switch c {
	case CategoryPoints:
		return "Points"
	case CategoryStreak:
		return "Streaks"
	case CategorySession:
		return "Sessions"
	case CategorySpecial:
		return "Special"
	default:
		return string(c)
	}
}

// Achievement is one catalog entry.
type Achievement struct {
	ID          string
	Name        string
	Description string
	Emoji       string
	Category    Category
	Requirement int
}

// Unlocked pairs an achievement with the time it was earned.
type Unlocked struct {
	Achievement
	UnlockedAt time.Time
}
