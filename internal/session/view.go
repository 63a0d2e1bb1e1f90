package session

import (
	"time"

	"github.com/abhisek/vulcan/internal/achievements"
	"github.com/abhisek/vulcan/internal/gamification"
	"github.com/abhisek/vulcan/internal/scoring"
)

// View is a read-only copy of everything the presentation layer shows.
type View struct {
	Phase      Phase
	Mode       Mode
	DeckID     string
	DeckName   string
	TotalCards int
	Complete   bool

	Question   string
	CardNumber int
	Counters   Counters
	Feedback   *Feedback
	Err        error

	TotalPoints      int
	SessionPoints    int
	CurrentStreak    int
	BestStreak       int
	DailyStreak      int
	LastStudyDate    string // YYYY-MM-DD, empty before the first quiz
	Multiplier       float64
	Tier             scoring.Tier
	NextTierProgress float64
	TestingMode      bool
	ActiveTheme      string
	UnlockedThemes   []string
	Toast            *achievements.Unlocked
	Recent           []achievements.Unlocked
	Unlocked         []achievements.Unlocked

	TotalQuestions  int
	TotalCorrect    int
	AverageResponse time.Duration
	FastestResponse time.Duration // 0 when no correct answer was timed
}

// Snapshot returns the current view.
func (c *Coordinator) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, g := c.quiz, c.game
	v := View{
		Phase:            q.Phase,
		Mode:             q.Mode,
		DeckID:           c.deckID,
		TotalCards:       q.Deck.Len(),
		Complete:         q.Complete,
		Counters:         q.Counters,
		Feedback:         c.feedback,
		Err:              c.lastErr,
		TotalPoints:      g.TotalPoints,
		SessionPoints:    g.SessionPoints,
		CurrentStreak:    g.CurrentStreak,
		BestStreak:       g.BestStreak,
		DailyStreak:      g.DailyStreak,
		LastStudyDate:    g.LastStudyDate,
		Multiplier:       scoring.StreakMultiplier(g.CurrentStreak),
		Tier:             g.Tier,
		NextTierProgress: g.NextTierProgress,
		TestingMode:      g.TestingMode(),
		ActiveTheme:      g.ActiveTheme,
		UnlockedThemes:   append([]string(nil), g.UnlockedThemes...),
		Toast:            g.Toast,
		Recent:           append([]achievements.Unlocked(nil), g.Recent...),
		Unlocked:         append([]achievements.Unlocked(nil), g.Unlocked...),
		TotalQuestions:   g.TotalQuestions,
		TotalCorrect:     g.TotalCorrect,
		AverageResponse:  g.AverageResponse,
	}
	if g.FastestResponse != gamification.NoResponse {
		v.FastestResponse = g.FastestResponse
	}
	if q.Deck != nil {
		v.DeckName = q.Deck.Name
	}
	if card := q.Current(); card != nil {
		v.Question = card.Question
		v.CardNumber = card.Number
	}
	return v
}

// Summary holds the data displayed when a quiz ends.
type Summary struct {
	DeckName       string
	Mode           Mode
	Complete       bool
	Duration       time.Duration
	Questions      int
	Correct        int
	Incorrect      int
	UniqueAnswered int
	TotalCards     int
	Accuracy       float64
	PointsEarned   int
	NetPoints      int
	BestStreak     int
	Tier           scoring.Tier
	Achievements   []achievements.Unlocked
}

// Summary builds the end-of-quiz summary from the last session.
func (c *Coordinator) Summary() *Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, g := c.quiz, c.game
	s := &Summary{
		Mode:           q.Mode,
		Complete:       q.Complete,
		Duration:       c.elapsed(),
		Questions:      q.Counters.QuestionsAnswered,
		Correct:        q.Counters.Correct,
		Incorrect:      q.Counters.Incorrect,
		UniqueAnswered: q.Counters.UniqueAnswered,
		TotalCards:     q.Deck.Len(),
		PointsEarned:   g.SessionPoints,
		NetPoints:      g.TotalPoints - c.startPoints,
		BestStreak:     g.BestStreak,
		Tier:           g.Tier,
		Achievements:   append([]achievements.Unlocked(nil), c.earned...),
	}
	if q.Deck != nil {
		s.DeckName = q.Deck.Name
	}
	if s.Questions > 0 {
		s.Accuracy = float64(s.Correct) / float64(s.Questions)
	}
	return s
}
