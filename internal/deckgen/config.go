package deckgen

// Config controls batch size, fan-out and pacing of deck generation.
type Config struct {
	// BatchSize is the number of cards requested per LLM call.
	BatchSize int

	// MaxConcurrent bounds the number of in-flight LLM calls.
	MaxConcurrent int

	// RequestsPerSecond paces LLM calls. Zero or less disables pacing.
	RequestsPerSecond float64

	// MaxCards caps a single generate request.
	MaxCards int

	// MaxTokens is the token budget for each LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns the recommended defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:         10,
		MaxConcurrent:     3,
		RequestsPerSecond: 2,
		MaxCards:          100,
		MaxTokens:         2048,
		Temperature:       0.7,
	}
}
