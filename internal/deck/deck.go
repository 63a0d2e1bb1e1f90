// Package deck models the cards of a quiz and their per-session history.
package deck

import (
	"math/rand"

	"github.com/google/uuid"
)

// InitialLastShown places a fresh card far enough in the past that the
// repeat cooldown never blocks its first presentation.
const InitialLastShown = -3

// Pair is one question/answer row as supplied by ingestion or storage.
type Pair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Card is a study item plus its scheduling history.
type Card struct {
	ID       string
	Question string
	Answer   string
	Number   int // 1-based position in the imported deck

	IncorrectCount    int
	LastShownTurn     int
	NextReviewTurn    *int
	AnsweredCorrectly bool
	AnsweredInCycle   bool
}

// Due reports whether the card's review turn has been reached.
func (c Card) Due(turn int) bool {
	return c.NextReviewTurn != nil && turn >= *c.NextReviewTurn
}

// Deck holds the shuffled working cards and the pristine originals a reset
// rebuilds from.
type Deck struct {
	Name     string
	Cards    []Card
	Original []Card
}

// Load builds a deck from pairs, assigning ids and numbers in input order.
// The working order is shuffled with rng.
func Load(name string, pairs []Pair, rng *rand.Rand) *Deck {
	original := make([]Card, len(pairs))
	for i, p := range pairs {
		original[i] = Card{
			ID:            uuid.New().String(),
			Question:      p.Question,
			Answer:        p.Answer,
			Number:        i + 1,
			LastShownTurn: InitialLastShown,
		}
	}
	d := &Deck{Name: name, Original: original}
	d.Reset(rng)
	return d
}

// Reset discards all history and reshuffles the working cards.
func (d *Deck) Reset(rng *rand.Rand) {
	d.Cards = make([]Card, len(d.Original))
	for i, c := range d.Original {
		d.Cards[i] = Card{
			ID:            c.ID,
			Question:      c.Question,
			Answer:        c.Answer,
			Number:        c.Number,
			LastShownTurn: InitialLastShown,
		}
	}
	Shuffle(d.Cards, rng)
}

// Len returns the number of cards.
func (d *Deck) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Cards)
}

// Pairs returns the question/answer pairs in original order.
func (d *Deck) Pairs() []Pair {
	out := make([]Pair, len(d.Original))
	for i, c := range d.Original {
		out[i] = Pair{Question: c.Question, Answer: c.Answer}
	}
	return out
}

// IndexOf returns the working index of the card with the given id, or -1.
func (d *Deck) IndexOf(id string) int {
	for i := range d.Cards {
		if d.Cards[i].ID == id {
			return i
		}
	}
	return -1
}

// AllAnsweredCorrectly reports whether every card has been answered
// correctly at least once.
func (d *Deck) AllAnsweredCorrectly() bool {
	for _, c := range d.Cards {
		if !c.AnsweredCorrectly {
			return false
		}
	}
	return len(d.Cards) > 0
}

// AllAnsweredInCycle reports whether every card has been answered
// correctly since the last rollover.
func (d *Deck) AllAnsweredInCycle() bool {
	for _, c := range d.Cards {
		if !c.AnsweredInCycle {
			return false
		}
	}
	return len(d.Cards) > 0
}

// Rollover clears the cycle flags and reshuffles.
func (d *Deck) Rollover(rng *rand.Rand) {
	for i := range d.Cards {
		d.Cards[i].AnsweredInCycle = false
	}
	Shuffle(d.Cards, rng)
}

// Shuffle permutes cards in place.
func Shuffle(cards []Card, rng *rand.Rand) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}
