// Package deckgen builds flashcard decks from a topic with an LLM.
package deckgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abhisek/vulcan/internal/deck"
	"github.com/abhisek/vulcan/internal/llm"
	"github.com/abhisek/vulcan/internal/session"
	"github.com/abhisek/vulcan/internal/store"
)

// Purpose labels generation calls in the LLM event log.
const Purpose = "flashcard-batch"

var (
	ErrEmptyTopic = errors.New("topic is empty")
	ErrBadCount   = errors.New("card count out of range")
	ErrNoCards    = errors.New("model returned no usable cards")
)

// Generator asks an LLM provider for cards in concurrent, paced batches.
type Generator struct {
	provider llm.Provider
	config   Config
	limiter  *rate.Limiter
}

// New creates a Generator.
func New(provider llm.Provider, cfg Config) *Generator {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &Generator{
		provider: provider,
		config:   cfg,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Input describes one generate request.
type Input struct {
	Topic string
	Count int
	// Avoid lists questions already in the deck; they are sent to the
	// model and filtered from the result.
	Avoid []string
}

// Generate returns up to Count distinct cards about Topic. Batches run
// concurrently; cards keep batch order and duplicates by normalized
// question are dropped. Fewer than Count cards is not an error, none is.
func (g *Generator) Generate(ctx context.Context, in Input) ([]deck.Pair, error) {
	topic, count := strings.TrimSpace(in.Topic), in.Count
	if topic == "" {
		return nil, ErrEmptyTopic
	}
	if count <= 0 || (g.config.MaxCards > 0 && count > g.config.MaxCards) {
		return nil, fmt.Errorf("%w: %d", ErrBadCount, count)
	}
	ctx = llm.WithPurpose(ctx, Purpose)

	batches := (count + g.config.BatchSize - 1) / g.config.BatchSize
	results := make([][]deck.Pair, batches)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.config.MaxConcurrent)
	for i := range batches {
		n := min(g.config.BatchSize, count-i*g.config.BatchSize)
		eg.Go(func() error {
			pairs, err := g.batch(ctx, topic, n, i, in.Avoid)
			if err != nil {
				return fmt.Errorf("batch %d: %w", i+1, err)
			}
			results[i] = pairs
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []deck.Pair
	for _, r := range results {
		all = append(all, r...)
	}
	out := dedupe(all, in.Avoid, count)
	if len(out) == 0 {
		return nil, ErrNoCards
	}
	if dropped := len(all) - len(out); dropped > 0 {
		slog.Debug("generated cards dropped", "topic", topic, "dropped", dropped)
	}
	return out, nil
}

func (g *Generator) batch(ctx context.Context, topic string, n, index int, avoid []string) ([]deck.Pair, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := llm.Request{
		System:      systemPrompt,
		Prompt:      buildUserMessage(topic, n, index, avoid),
		Schema:      BatchSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}
	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw batchOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	pairs := make([]deck.Pair, 0, len(raw.Cards))
	for _, c := range raw.Cards {
		pairs = append(pairs, deck.Pair{
			Question: strings.TrimSpace(c.Question),
			Answer:   strings.TrimSpace(c.Answer),
		})
	}
	return pairs, nil
}

// dedupe drops blank pairs, pairs whose answer normalizes to nothing and
// repeated or avoided questions, keeping at most limit.
func dedupe(pairs []deck.Pair, avoid []string, limit int) []deck.Pair {
	seen := make(map[string]bool, len(pairs)+len(avoid))
	for _, q := range avoid {
		seen[session.Normalize(q)] = true
	}
	out := make([]deck.Pair, 0, min(len(pairs), limit))
	for _, p := range pairs {
		if len(out) == limit {
			break
		}
		key := session.Normalize(p.Question)
		if key == "" || session.Normalize(p.Answer) == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// DeckName is the saved-deck name for a generated topic.
func DeckName(topic string) string {
	return deck.GenerateName(strings.Join(strings.Fields(topic), " "))
}

// Save stores pairs as a deck named after topic.
func Save(ctx context.Context, repo store.DeckRepo, topic string, pairs []deck.Pair) (*store.SavedDeck, error) {
	cards := make([]store.CardData, len(pairs))
	for i, p := range pairs {
		cards[i] = store.CardData{Question: p.Question, Answer: p.Answer}
	}
	saved, err := repo.Save(ctx, DeckName(topic), "generated: "+strings.TrimSpace(topic), cards)
	if err != nil {
		return nil, fmt.Errorf("save generated deck: %w", err)
	}
	return saved, nil
}
