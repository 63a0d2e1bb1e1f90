package gamification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/vulcan/internal/clock"
	"github.com/abhisek/vulcan/internal/store"
)

// SaveDelay is the quiet period before a scheduled save is written.
const SaveDelay = 100 * time.Millisecond

// SaveFunc persists a progress snapshot.
type SaveFunc func(ctx context.Context, data store.ProgressData) error

// Saver coalesces rapid progress changes into a single write. Each
// Schedule replaces the pending write with the newer data.
type Saver struct {
	mu      sync.Mutex
	clock   clock.Clock
	delay   time.Duration
	save    SaveFunc
	pending clock.Timer
	data    store.ProgressData
	gen     uint64
}

// NewSaver creates a debounced saver.
func NewSaver(clk clock.Clock, delay time.Duration, save SaveFunc) *Saver {
	return &Saver{clock: clk, delay: delay, save: save}
}

// Schedule queues data to be written after the quiet period.
func (s *Saver) Schedule(data store.ProgressData) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		s.pending.Stop()
	}
	s.gen++
	gen := s.gen
	s.data = data
	s.pending = s.clock.AfterFunc(s.delay, func() { s.fire(gen) })
}

// Flush writes any pending data immediately.
func (s *Saver) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.pending == nil {
		s.mu.Unlock()
		return nil
	}
	s.pending.Stop()
	s.pending = nil
	s.gen++
	data := s.data
	s.mu.Unlock()

	return s.save(ctx, data)
}

// Cancel drops any pending write.
func (s *Saver) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
	s.gen++
}

func (s *Saver) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.pending = nil
	data := s.data
	s.mu.Unlock()

	if err := s.save(context.Background(), data); err != nil {
		slog.Warn("save progress failed", "err", err)
	}
}
