package deck

import (
	"math/rand"
	"testing"
)

func samplePairs(n int) []Pair {
	out := make([]Pair, n)
	for i := range out {
		out[i] = Pair{Question: string(rune('A' + i)), Answer: string(rune('a' + i))}
	}
	return out
}

func TestLoad_AssignsNumbersAndHistory(t *testing.T) {
	d := Load("Capitals", samplePairs(5), rand.New(rand.NewSource(42)))

	if d.Len() != 5 {
		t.Fatalf("Len = %d, want 5", d.Len())
	}
	for i, c := range d.Original {
		if c.Number != i+1 {
			t.Errorf("Original[%d].Number = %d, want %d", i, c.Number, i+1)
		}
	}

	ids := make(map[string]bool)
	numbers := make(map[int]bool)
	for _, c := range d.Cards {
		if c.ID == "" {
			t.Error("card has empty ID")
		}
		ids[c.ID] = true
		numbers[c.Number] = true
		if c.LastShownTurn != InitialLastShown {
			t.Errorf("LastShownTurn = %d, want %d", c.LastShownTurn, InitialLastShown)
		}
		if c.NextReviewTurn != nil || c.AnsweredCorrectly || c.AnsweredInCycle || c.IncorrectCount != 0 {
			t.Errorf("card %d has non-empty history: %+v", c.Number, c)
		}
	}
	if len(ids) != 5 {
		t.Errorf("unique ids = %d, want 5", len(ids))
	}
	for n := 1; n <= 5; n++ {
		if !numbers[n] {
			t.Errorf("number %d missing from working cards", n)
		}
	}
}

func TestReset_ClearsHistory(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d := Load("", samplePairs(3), rng)

	review := 7
	d.Cards[0].IncorrectCount = 2
	d.Cards[0].NextReviewTurn = &review
	d.Cards[1].AnsweredCorrectly = true
	d.Cards[1].AnsweredInCycle = true
	d.Cards[2].LastShownTurn = 9

	d.Reset(rng)

	for _, c := range d.Cards {
		if c.IncorrectCount != 0 || c.NextReviewTurn != nil || c.AnsweredCorrectly ||
			c.AnsweredInCycle || c.LastShownTurn != InitialLastShown {
			t.Errorf("card %d not reset: %+v", c.Number, c)
		}
	}
	if d.Original[0].IncorrectCount != 0 {
		t.Error("reset should not touch the original cards")
	}
}

func TestRollover(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	d := Load("", samplePairs(4), rng)
	for i := range d.Cards {
		d.Cards[i].AnsweredInCycle = true
		d.Cards[i].AnsweredCorrectly = true
	}
	if !d.AllAnsweredInCycle() {
		t.Fatal("AllAnsweredInCycle = false, want true")
	}

	d.Rollover(rng)

	for _, c := range d.Cards {
		if c.AnsweredInCycle {
			t.Errorf("card %d still answered in cycle", c.Number)
		}
		if !c.AnsweredCorrectly {
			t.Errorf("card %d lost AnsweredCorrectly", c.Number)
		}
	}
}

func TestCardDue(t *testing.T) {
	review := 5
	c := Card{NextReviewTurn: &review}
	if c.Due(4) {
		t.Error("Due(4) = true, want false")
	}
	if !c.Due(5) || !c.Due(6) {
		t.Error("Due at or after the review turn should be true")
	}
	if (Card{}).Due(100) {
		t.Error("card without review turn should never be due")
	}
}

func TestEmptyDeckPredicates(t *testing.T) {
	d := Load("", nil, rand.New(rand.NewSource(1)))
	if d.AllAnsweredCorrectly() || d.AllAnsweredInCycle() {
		t.Error("empty deck should not report completion")
	}
}

func TestGenerateName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"capitals.csv", "Capitals"},
		{"world_capitals.CSV", "World Capitals"},
		{"spanish-verbs-101.csv", "Spanish Verbs 101"},
		{"biology.xlsx", "Biology"},
		{" _notes_ .csv", "Notes"},
		{"already Named", "Already Named"},
		{"data.csv.bak", "Data.Csv.Bak"},
	}

	for _, tt := range tests {
		got := GenerateName(tt.in)
		if got != tt.want {
			t.Errorf("GenerateName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
