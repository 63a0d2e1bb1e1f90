package store

import (
	"context"
	"errors"
	"time"
)

// ErrDeckNotFound is returned when a saved deck id does not exist.
var ErrDeckNotFound = errors.New("deck not found")

// MaxSavedDecks bounds the saved deck library; older decks are evicted.
const MaxSavedDecks = 10

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// CardData is one stored question/answer pair.
type CardData struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SavedDeck is a deck kept in the library for reuse.
type SavedDeck struct {
	ID        string
	Name      string
	FileName  string
	Cards     []CardData
	CreatedAt time.Time
	LastUsed  time.Time
}

// DeckRepo manages the saved deck library.
type DeckRepo interface {
	// List returns saved decks, most recently used first.
	List(ctx context.Context) ([]SavedDeck, error)

	// Save upserts a deck by name. An existing deck keeps its id and gets
	// the new cards and file name; a new deck is added and the library is
	// trimmed to MaxSavedDecks.
	Save(ctx context.Context, name, fileName string, cards []CardData) (*SavedDeck, error)

	// Get returns a deck by id or ErrDeckNotFound.
	Get(ctx context.Context, id string) (*SavedDeck, error)

	// Delete removes a deck. Deleting a missing id is not an error.
	Delete(ctx context.Context, id string) error

	// TouchLastUsed bumps a deck's last-used time.
	TouchLastUsed(ctx context.Context, id string) error
}

// UnlockedAchievement records when an achievement was earned.
type UnlockedAchievement struct {
	ID         string    `json:"id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// ProgressData is the persisted part of the gamification state.
type ProgressData struct {
	Version           int                   `json:"version"`
	TotalPoints       int                   `json:"total_points"`
	BestStreak        int                   `json:"best_streak"`
	DailyStreak       int                   `json:"daily_streak"`
	LastStudyDate     string                `json:"last_study_date,omitempty"` // YYYY-MM-DD, local
	Achievements      []UnlockedAchievement `json:"achievements,omitempty"`
	UnlockedThemes    []string              `json:"unlocked_themes,omitempty"`
	ActiveTheme       string                `json:"active_theme,omitempty"`
	TotalQuestions    int                   `json:"total_questions"`
	TotalCorrect      int                   `json:"total_correct"`
	AverageResponseMs float64               `json:"average_response_ms"`
	FastestResponseMs int64                 `json:"fastest_response_ms,omitempty"` // 0 when none recorded
}

// Snapshot is a point-in-time capture of progress.
type Snapshot struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	Data      ProgressData
}

// SnapshotRepo manages progress snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist or the
	// newest one cannot be decoded.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error

	// Clear deletes every snapshot.
	Clear(ctx context.Context) error
}

// AnswerEventData captures one submitted answer.
type AnswerEventData struct {
	SessionID     string
	DeckName      string
	CardNumber    int
	Question      string
	CorrectAnswer string
	UserAnswer    string
	Correct       bool
	ResponseMs    int64
	Points        int
}

// SessionEventData captures a quiz start or end.
type SessionEventData struct {
	SessionID         string
	DeckName          string
	Mode              string
	Action            string // "start" or "end"
	QuestionsAnswered int
	CorrectAnswers    int
	Points            int
	DurationSecs      int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestRecord is a stored LLM request event.
type LLMRequestRecord struct {
	LLMRequestEventData
	Sequence  int64
	Timestamp time.Time
}

// SessionSummaryRecord is a completed session as read back from the log.
type SessionSummaryRecord struct {
	SessionID         string
	DeckName          string
	Mode              string
	Timestamp         time.Time
	QuestionsAnswered int
	CorrectAnswers    int
	Points            int
	DurationSecs      int
}

// DeckAccuracy aggregates answers per deck.
type DeckAccuracy struct {
	DeckName string
	Answered int
	Correct  int
}

// Accuracy returns the fraction of correct answers.
func (d DeckAccuracy) Accuracy() float64 {
	if d.Answered == 0 {
		return 0
	}
	return float64(d.Correct) / float64(d.Answered)
}

// MissedCard is a question ranked by how often it was answered wrong.
type MissedCard struct {
	DeckName string
	Question string
	Misses   int
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	AppendAnswer(ctx context.Context, data AnswerEventData) error
	AppendSession(ctx context.Context, data SessionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestRecord, error)
	GetLLMRequest(ctx context.Context, sequence int64) (*LLMRequestRecord, error)
	QuerySessionSummaries(ctx context.Context, opts QueryOpts) ([]SessionSummaryRecord, error)
	DeckAccuracy(ctx context.Context) ([]DeckAccuracy, error)
	MostMissed(ctx context.Context, limit int) ([]MissedCard, error)
}
