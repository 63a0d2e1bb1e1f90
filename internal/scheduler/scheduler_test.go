package scheduler

import (
	"math/rand"
	"testing"

	"github.com/abhisek/vulcan/internal/deck"
)

func intPtr(v int) *int { return &v }

func newCards(n int) []deck.Card {
	cards := make([]deck.Card, n)
	for i := range cards {
		cards[i] = deck.Card{
			ID:            string(rune('a' + i)),
			Number:        i + 1,
			LastShownTurn: deck.InitialLastShown,
		}
	}
	return cards
}

func newRNG() *rand.Rand { return rand.New(rand.NewSource(42)) }

func TestSelect_Empty(t *testing.T) {
	i, pool := Select(nil, 0, newRNG())
	if i != -1 || pool != PoolNone {
		t.Errorf("Select(nil) = (%d, %v), want (-1, none)", i, pool)
	}
}

func TestSelect_DueWinsOverOtherPools(t *testing.T) {
	turn := 10
	cards := newCards(3)
	// Card 3 is due; card 2 is unanswered; card 1 is fully answered.
	cards[0].AnsweredCorrectly = true
	cards[0].AnsweredInCycle = true
	cards[2].NextReviewTurn = intPtr(turn)
	cards[2].LastShownTurn = turn - 1

	i, pool := Select(cards, turn, newRNG())
	if pool != PoolDue {
		t.Fatalf("pool = %v, want due", pool)
	}
	if cards[i].Number != 3 {
		t.Errorf("selected card %d, want 3", cards[i].Number)
	}
}

func TestSelect_DueIgnoresCooldown(t *testing.T) {
	cards := newCards(2)
	cards[1].NextReviewTurn = intPtr(4)
	cards[1].LastShownTurn = 4

	i, pool := Select(cards, 4, newRNG())
	if pool != PoolDue || cards[i].Number != 2 {
		t.Errorf("Select = card %d from %v, want card 2 from due", cards[i].Number, pool)
	}
}

func TestSelect_DueTieBreakByNumber(t *testing.T) {
	cards := newCards(4)
	// Working order differs from number order.
	cards[0], cards[3] = cards[3], cards[0]
	cards[0].NextReviewTurn = intPtr(2) // number 4
	cards[2].NextReviewTurn = intPtr(5) // number 3

	i, _ := Select(cards, 6, newRNG())
	if cards[i].Number != 3 {
		t.Errorf("selected card %d, want 3", cards[i].Number)
	}
}

func TestSelect_NotYetDue(t *testing.T) {
	cards := newCards(2)
	cards[0].NextReviewTurn = intPtr(8)
	cards[0].AnsweredInCycle = true
	cards[0].AnsweredCorrectly = true

	i, pool := Select(cards, 7, newRNG())
	if pool != PoolUnansweredInCycle || cards[i].Number != 2 {
		t.Errorf("Select = card %d from %v, want card 2 from unanswered_in_cycle", cards[i].Number, pool)
	}
}

func TestSelect_RandomPoolDrawsOnlyFromPool(t *testing.T) {
	cards := newCards(6)
	cards[0].AnsweredInCycle = true
	cards[1].AnsweredInCycle = true
	cards[2].LastShownTurn = 9 // cooling down

	rng := newRNG()
	seen := make(map[int]bool)
	for range 200 {
		i, pool := Select(cards, 10, rng)
		if pool != PoolUnansweredInCycle {
			t.Fatalf("pool = %v, want unanswered_in_cycle", pool)
		}
		seen[cards[i].Number] = true
	}
	for _, n := range []int{1, 2, 3} {
		if seen[n] {
			t.Errorf("card %d drawn from random pool but is not eligible", n)
		}
	}
	for _, n := range []int{4, 5, 6} {
		if !seen[n] {
			t.Errorf("card %d never drawn in 200 picks", n)
		}
	}
}

func TestSelect_NeverCorrectPool(t *testing.T) {
	cards := newCards(3)
	for i := range cards {
		cards[i].AnsweredInCycle = true
	}
	cards[0].AnsweredCorrectly = true
	// Cards 2 and 3 were answered in cycle after a rollover reset, but only
	// card 1 ever counted as correct.

	i, pool := Select(cards, 5, newRNG())
	if pool != PoolNeverCorrect || cards[i].Number != 2 {
		t.Errorf("Select = card %d from %v, want card 2 from never_correct", cards[i].Number, pool)
	}
}

func TestSelect_CooledDownPool(t *testing.T) {
	cards := newCards(3)
	for i := range cards {
		cards[i].AnsweredInCycle = true
		cards[i].AnsweredCorrectly = true
	}
	cards[0].LastShownTurn = 4 // number 1 cooling down

	i, pool := Select(cards, 5, newRNG())
	if pool != PoolCooledDown || cards[i].Number != 2 {
		t.Errorf("Select = card %d from %v, want card 2 from cooled_down", cards[i].Number, pool)
	}
}

func TestSelect_Fallback(t *testing.T) {
	cards := newCards(3)
	cards[0], cards[2] = cards[2], cards[0]
	for i := range cards {
		cards[i].LastShownTurn = 5
	}

	i, pool := Select(cards, 6, newRNG())
	if pool != PoolFallback || cards[i].Number != 1 {
		t.Errorf("Select = card %d from %v, want card 1 from fallback", cards[i].Number, pool)
	}
}

func TestSelect_Cooldown(t *testing.T) {
	tests := []struct {
		turn     int
		eligible bool
	}{
		{5, false},
		{6, false},
		{7, false},
		{8, true},
		{9, true},
	}

	c := deck.Card{Number: 1, LastShownTurn: 5}
	for _, tt := range tests {
		if got := Eligible(c, tt.turn); got != tt.eligible {
			t.Errorf("Eligible(shown=5, turn=%d) = %v, want %v", tt.turn, got, tt.eligible)
		}
	}

	// A card shown at T is not picked from a cooldown pool while another
	// card is eligible.
	cards := newCards(2)
	cards[0].LastShownTurn = 5
	for turn := 5; turn <= 7; turn++ {
		i, _ := Select(cards, turn, newRNG())
		if cards[i].Number == 1 {
			t.Errorf("turn %d: card shown at 5 was re-selected", turn)
		}
	}
}

func TestReviewDelay_Range(t *testing.T) {
	rng := newRNG()
	seen := make(map[int]bool)
	for range 1000 {
		d := ReviewDelay(rng)
		if d < MinReviewDelay || d > MaxReviewDelay {
			t.Fatalf("ReviewDelay = %d, outside [%d, %d]", d, MinReviewDelay, MaxReviewDelay)
		}
		seen[d] = true
	}
	if len(seen) != MaxReviewDelay-MinReviewDelay+1 {
		t.Errorf("saw %d distinct delays, want %d", len(seen), MaxReviewDelay-MinReviewDelay+1)
	}
}
