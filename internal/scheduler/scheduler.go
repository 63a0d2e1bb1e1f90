// Package scheduler picks the next card to present from per-card history
// and the session turn counter.
package scheduler

import (
	"math/rand"

	"github.com/abhisek/vulcan/internal/deck"
)

const (
	// MinTurnsBeforeRepeat is the number of turns a card must sit out after
	// being shown before it is eligible again.
	MinTurnsBeforeRepeat = 2

	MinReviewDelay = 3
	MaxReviewDelay = 10
)

// Pool identifies which rule of the cascade produced a selection.
type Pool int

const (
	PoolNone Pool = iota
	PoolDue
	PoolUnansweredInCycle
	PoolNeverCorrect
	PoolCooledDown
	PoolFallback
)

// String returns the pool name used in logs.
func (p Pool) String() string {
	switch p {
	case PoolDue:
		return "due"
	case PoolUnansweredInCycle:
		return "unanswered_in_cycle"
	case PoolNeverCorrect:
		return "never_correct"
	case PoolCooledDown:
		return "cooled_down"
	case PoolFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Select returns the index into cards of the card to present at turn and
// the pool it came from. It returns -1 and PoolNone for an empty slice.
//
// Pools are tried in order: cards due for review, cards not yet answered in
// this cycle (random pick), cards never answered correctly, any card past
// its cooldown, and finally the lowest-numbered card. Every pool except the
// random one breaks ties by the lowest card number.
func Select(cards []deck.Card, turn int, rng *rand.Rand) (int, Pool) {
	if len(cards) == 0 {
		return -1, PoolNone
	}

	if i := lowest(cards, func(c deck.Card) bool { return c.Due(turn) }); i >= 0 {
		return i, PoolDue
	}

	var fresh []int
	for i, c := range cards {
		if !c.AnsweredInCycle && cooledDown(c, turn) {
			fresh = append(fresh, i)
		}
	}
	if len(fresh) > 0 {
		return fresh[rng.Intn(len(fresh))], PoolUnansweredInCycle
	}

	if i := lowest(cards, func(c deck.Card) bool { return !c.AnsweredCorrectly && cooledDown(c, turn) }); i >= 0 {
		return i, PoolNeverCorrect
	}

	if i := lowest(cards, func(c deck.Card) bool { return cooledDown(c, turn) }); i >= 0 {
		return i, PoolCooledDown
	}

	return lowest(cards, func(deck.Card) bool { return true }), PoolFallback
}

// ReviewDelay draws the number of turns before a missed card is due again,
// uniformly from [MinReviewDelay, MaxReviewDelay].
func ReviewDelay(rng *rand.Rand) int {
	return MinReviewDelay + rng.Intn(MaxReviewDelay-MinReviewDelay+1)
}

// Eligible reports whether a card has sat out its cooldown at turn.
func Eligible(c deck.Card, turn int) bool {
	return cooledDown(c, turn)
}

func cooledDown(c deck.Card, turn int) bool {
	return turn-c.LastShownTurn > MinTurnsBeforeRepeat
}

// lowest returns the index of the matching card with the smallest number,
// or -1 when none match.
func lowest(cards []deck.Card, match func(deck.Card) bool) int {
	best := -1
	for i, c := range cards {
		if !match(c) {
			continue
		}
		if best < 0 || c.Number < cards[best].Number {
			best = i
		}
	}
	return best
}
