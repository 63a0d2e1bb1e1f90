package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/vulcan/internal/achievements"
	"github.com/abhisek/vulcan/internal/clock"
	"github.com/abhisek/vulcan/internal/deck"
	"github.com/abhisek/vulcan/internal/gamification"
	"github.com/abhisek/vulcan/internal/store"
)

// FeedbackDelay is how long the answer result stays up before the quiz
// advances.
const FeedbackDelay = 2500 * time.Millisecond

// snapshotsKept bounds the progress snapshot history.
const snapshotsKept = 20

// Feedback is the result of one submitted answer.
type Feedback struct {
	Correct       bool
	Question      string
	CorrectAnswer string
	UserAnswer    string
	Points        int // net point change caused by the answer, bonuses included
	ResponseTime  time.Duration
	Achievement   *achievements.Unlocked
}

// Options configures a Coordinator. Zero values select defaults and nil
// repositories disable the matching persistence.
type Options struct {
	Mode          Mode
	FeedbackDelay time.Duration
	Clock         clock.Clock
	Rand          *rand.Rand

	Decks     store.DeckRepo
	Snapshots store.SnapshotRepo
	Events    store.EventRepo

	// OnChange is called, outside the coordinator lock, after a
	// timer-driven transition.
	OnChange func()
}

// Coordinator sequences the quiz container and the gamification state and
// performs the persistence calls. All methods are safe for concurrent use;
// transitions run one at a time.
type Coordinator struct {
	mu sync.Mutex

	quiz  *Quiz
	game  *gamification.State
	saver *gamification.Saver

	clock    clock.Clock
	delay    time.Duration
	decks    store.DeckRepo
	snaps    store.SnapshotRepo
	events   store.EventRepo
	onChange func()

	advance clock.Timer
	gen     uint64

	sessionID   string
	startedAt   time.Time
	endedAt     time.Time
	startPoints int
	earned      []achievements.Unlocked
	feedback    *Feedback
	lastErr     error
	deckID      string
}

// NewCoordinator builds a coordinator with an empty deck and default
// gamification state. Call LoadProgress to restore saved progress.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Mode == "" {
		opts.Mode = ModeInfinite
	}
	if opts.FeedbackDelay <= 0 {
		opts.FeedbackDelay = FeedbackDelay
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	c := &Coordinator{
		quiz:     NewQuiz(opts.Mode, opts.Rand),
		game:     gamification.New(opts.Clock),
		clock:    opts.Clock,
		delay:    opts.FeedbackDelay,
		decks:    opts.Decks,
		snaps:    opts.Snapshots,
		events:   opts.Events,
		onChange: opts.OnChange,
	}
	c.saver = gamification.NewSaver(opts.Clock, gamification.SaveDelay, c.writeSnapshot)
	return c
}

// LoadProgress restores the latest progress snapshot. A missing or
// undecodable snapshot leaves first-run defaults.
func (c *Coordinator) LoadProgress(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.snaps == nil {
		c.game.Restore(nil)
		return nil
	}
	snap, err := c.snaps.Latest(ctx)
	if err != nil {
		c.game.Restore(nil)
		return fmt.Errorf("load progress: %w", err)
	}
	if snap == nil {
		c.game.Restore(nil)
		return nil
	}
	c.game.Restore(&snap.Data)
	return nil
}

// LoadDeck replaces the deck with pairs. A non-empty source file name also
// saves the deck to the library under a name derived from it.
func (c *Coordinator) LoadDeck(ctx context.Context, pairs []deck.Pair, source string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	name := ""
	deckID := ""
	if source != "" {
		name = deck.GenerateName(source)
		if c.decks != nil {
			saved, err := c.decks.Save(ctx, name, source, toCardData(pairs))
			if err != nil {
				return fmt.Errorf("save deck: %w", err)
			}
			deckID = saved.ID
		}
	}

	c.cancelAdvance()
	c.quiz.Load(deck.Load(name, pairs, c.quiz.rng))
	c.deckID = deckID
	c.feedback = nil
	c.lastErr = nil
	return nil
}

// LoadSaved loads a deck from the library and bumps its last-used time.
func (c *Coordinator) LoadSaved(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.decks == nil {
		return store.ErrDeckNotFound
	}
	saved, err := c.decks.Get(ctx, id)
	if err != nil {
		c.lastErr = err
		return fmt.Errorf("load saved deck: %w", err)
	}
	if err := c.decks.TouchLastUsed(ctx, id); err != nil {
		slog.Warn("touch deck last used failed", "deck", id, "err", err)
	}

	c.cancelAdvance()
	c.quiz.Load(deck.Load(saved.Name, fromCardData(saved.Cards), c.quiz.rng))
	c.deckID = saved.ID
	c.feedback = nil
	c.lastErr = nil
	return nil
}

// Clear drops the current deck.
func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelAdvance()
	c.quiz.Clear()
	c.deckID = ""
	c.feedback = nil
}

// SetMode changes the quiz mode. It is ignored while a quiz runs.
func (c *Coordinator) SetMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.quiz.Phase == PhaseIdle {
		c.quiz.Mode = m
	}
}

// Start begins a quiz over the loaded deck. A running quiz is ended first;
// a completed single-cycle deck gets fresh card history. With no cards it
// records and returns ErrNoDeck and stays idle.
func (c *Coordinator) Start() error {
	c.mu.Lock()

	if c.quiz.Deck.Len() == 0 {
		c.lastErr = ErrNoDeck
		c.mu.Unlock()
		return ErrNoDeck
	}

	c.cancelAdvance()
	var abandoned *store.SessionEventData
	if c.quiz.Phase != PhaseIdle {
		c.quiz.Stop()
		ev := c.sessionEvent("end")
		abandoned = &ev
	}
	if c.quiz.Finished() {
		c.quiz.Reset()
	}

	c.game.UpdateDailyStreak()
	c.game.ResetSession()
	if err := c.quiz.Begin(); err != nil {
		c.lastErr = err
		c.mu.Unlock()
		return err
	}
	c.game.StartResponseTimer()

	c.sessionID = uuid.New().String()
	c.startedAt = c.clock.Now()
	c.endedAt = time.Time{}
	c.startPoints = c.game.TotalPoints
	c.earned = nil
	c.feedback = nil
	c.lastErr = nil
	c.saver.Schedule(c.game.Progress())

	ev := c.sessionEvent("start")
	c.mu.Unlock()

	if abandoned != nil {
		c.appendSession(*abandoned)
	}
	c.appendSession(ev)
	return nil
}

// Submit grades answer against the current card. It is a silent no-op,
// returning false, unless a quiz is active with a current card and the
// trimmed answer is non-empty.
func (c *Coordinator) Submit(answer string) (*Feedback, bool) {
	c.mu.Lock()

	card := c.quiz.Current()
	if c.quiz.Phase != PhaseActive || card == nil || strings.TrimSpace(answer) == "" {
		c.mu.Unlock()
		return nil, false
	}

	correct := CheckAnswer(answer, card.Answer)
	before := c.game.TotalPoints
	priorAnswered := c.quiz.Counters.QuestionsAnswered
	priorIncorrect := c.quiz.Counters.Incorrect
	unlockedBefore := len(c.game.Unlocked)

	rt := c.game.RecordAnswer(correct)
	if correct {
		c.game.RecordCorrect()
	} else {
		c.game.RecordIncorrect()
	}
	toast := c.game.CheckAchievements()
	if c.quiz.Mode == ModeSingleCycle && priorAnswered >= 9 && priorIncorrect == 0 && correct && !c.quiz.Counters.PerfectAwarded {
		c.game.AwardPerfectSession()
		c.quiz.Counters.PerfectAwarded = true
	}
	c.earned = append(c.earned, c.game.Unlocked[unlockedBefore:]...)

	fb := &Feedback{
		Correct:       correct,
		Question:      card.Question,
		CorrectAnswer: card.Answer,
		UserAnswer:    answer,
		Points:        c.game.TotalPoints - before,
		ResponseTime:  rt,
		Achievement:   toast,
	}
	ae := store.AnswerEventData{
		SessionID:     c.sessionID,
		DeckName:      c.quiz.Deck.Name,
		CardNumber:    card.Number,
		Question:      card.Question,
		CorrectAnswer: card.Answer,
		UserAnswer:    answer,
		Correct:       correct,
		ResponseMs:    rt.Milliseconds(),
		Points:        fb.Points,
	}

	// card points into the working slice, which Answer may reshuffle.
	c.quiz.Answer(correct)
	c.feedback = fb
	c.scheduleAdvance()
	c.saver.Schedule(c.game.Progress())
	c.mu.Unlock()

	if c.events != nil {
		if err := c.events.AppendAnswer(context.Background(), ae); err != nil {
			slog.Warn("append answer event failed", "err", err)
		}
	}
	return fb, true
}

// Advance leaves the feedback phase immediately. It is a no-op outside
// PhaseFeedback.
func (c *Coordinator) Advance() {
	c.mu.Lock()
	if c.quiz.Phase != PhaseFeedback {
		c.mu.Unlock()
		return
	}
	c.cancelAdvance()
	ev, ended := c.next()
	c.mu.Unlock()

	if ended {
		c.appendSession(ev)
	}
}

// End stops the quiz from any phase. Counters are kept for the summary.
func (c *Coordinator) End() {
	c.mu.Lock()
	c.cancelAdvance()
	if c.quiz.Phase == PhaseIdle {
		c.mu.Unlock()
		return
	}
	c.quiz.Stop()
	ev := c.sessionEvent("end")
	c.mu.Unlock()

	c.appendSession(ev)
}

// Reset restores the deck to its freshly loaded state and goes idle.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelAdvance()
	c.quiz.Reset()
	c.feedback = nil
}

// Close cancels pending work and writes any unsaved progress.
func (c *Coordinator) Close(ctx context.Context) error {
	c.mu.Lock()
	c.cancelAdvance()
	c.mu.Unlock()
	return c.saver.Flush(ctx)
}

// DismissToast clears the achievement notification.
func (c *Coordinator) DismissToast() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.game.DismissToast()
}

// SetActiveTheme switches to an unlocked theme.
func (c *Coordinator) SetActiveTheme(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.game.SetActiveTheme(id) {
		return false
	}
	c.saver.Schedule(c.game.Progress())
	return true
}

// SetTestingTier pins the displayed tier; an empty id clears the pin.
func (c *Coordinator) SetTestingTier(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id == "" {
		c.game.ClearTestingMode()
		return nil
	}
	return c.game.SetTestingTier(id)
}

// ResetProgress discards all gamification progress and deletes the saved
// snapshots.
func (c *Coordinator) ResetProgress(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saver.Cancel()
	c.game.ResetAll()
	if c.snaps == nil {
		return nil
	}
	if err := c.snaps.Clear(ctx); err != nil {
		return fmt.Errorf("clear progress: %w", err)
	}
	return nil
}

// scheduleAdvance arms the feedback timer. Callers hold mu.
func (c *Coordinator) scheduleAdvance() {
	c.cancelAdvance()
	gen := c.gen
	c.advance = c.clock.AfterFunc(c.delay, func() { c.advanceFromTimer(gen) })
}

// cancelAdvance disarms the feedback timer and invalidates any callback
// already in flight. Callers hold mu.
func (c *Coordinator) cancelAdvance() {
	if c.advance != nil {
		c.advance.Stop()
		c.advance = nil
	}
	c.gen++
}

func (c *Coordinator) advanceFromTimer(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.quiz.Phase != PhaseFeedback {
		c.mu.Unlock()
		return
	}
	c.advance = nil
	ev, ended := c.next()
	c.mu.Unlock()

	if ended {
		c.appendSession(ev)
	}
	if c.onChange != nil {
		c.onChange()
	}
}

// next moves past feedback. Callers hold mu.
func (c *Coordinator) next() (store.SessionEventData, bool) {
	c.feedback = nil
	if c.quiz.Next() {
		return c.sessionEvent("end"), true
	}
	c.game.StartResponseTimer()
	return store.SessionEventData{}, false
}

// sessionEvent builds a session log entry. Callers hold mu.
func (c *Coordinator) sessionEvent(action string) store.SessionEventData {
	ev := store.SessionEventData{
		SessionID:         c.sessionID,
		DeckName:          c.quiz.Deck.Name,
		Mode:              string(c.quiz.Mode),
		Action:            action,
		QuestionsAnswered: c.quiz.Counters.QuestionsAnswered,
		CorrectAnswers:    c.quiz.Counters.Correct,
	}
	if action == "end" {
		c.endedAt = c.clock.Now()
		ev.Points = c.game.SessionPoints
		ev.DurationSecs = int(c.elapsed().Seconds())
	}
	return ev
}

// elapsed is the running or final quiz duration. Callers hold mu.
func (c *Coordinator) elapsed() time.Duration {
	switch {
	case c.startedAt.IsZero():
		return 0
	case c.endedAt.IsZero():
		return c.clock.Now().Sub(c.startedAt)
	}
	return c.endedAt.Sub(c.startedAt)
}

func (c *Coordinator) appendSession(ev store.SessionEventData) {
	if c.events == nil {
		return
	}
	if err := c.events.AppendSession(context.Background(), ev); err != nil {
		slog.Warn("append session event failed", "action", ev.Action, "err", err)
	}
}

// writeSnapshot is the saver's sink.
func (c *Coordinator) writeSnapshot(ctx context.Context, data store.ProgressData) error {
	if c.snaps == nil {
		return nil
	}
	err := c.snaps.Save(ctx, &store.Snapshot{
		Timestamp: c.clock.Now(),
		Data:      data,
	})
	if err != nil {
		return err
	}
	return c.snaps.Prune(ctx, snapshotsKept)
}

func toCardData(pairs []deck.Pair) []store.CardData {
	out := make([]store.CardData, len(pairs))
	for i, p := range pairs {
		out[i] = store.CardData{Question: p.Question, Answer: p.Answer}
	}
	return out
}

func fromCardData(cards []store.CardData) []deck.Pair {
	out := make([]deck.Pair, len(cards))
	for i, c := range cards {
		out[i] = deck.Pair{Question: c.Question, Answer: c.Answer}
	}
	return out
}
