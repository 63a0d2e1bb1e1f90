package deckgen

import "github.com/abhisek/vulcan/internal/llm"

// BatchSchema is the structured output shape for one batch of cards.
var BatchSchema = &llm.Schema{
	Name:        "flashcard-batch",
	Description: "A batch of flashcards, each a short question with a short answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"cards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{
							"type":        "string",
							"description": "The prompt shown on the card, in plain text",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The expected typed answer: one word, a name or a number",
						},
					},
					"required":             []any{"question", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"cards"},
		"additionalProperties": false,
	},
}

type batchOutput struct {
	Cards []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"cards"`
}
