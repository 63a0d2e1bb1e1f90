package deckgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You write flashcards for self-study.

Rules:
- Each card has a short, self-contained question and a short answer.
- Answers are typed from memory and compared ignoring case, spaces and punctuation, so keep them to a word, a name, a number or a short phrase.
- Never give several acceptable answers in one answer field.
- Use plain text. No markdown, no HTML, no numbering.
- Every question must be distinct from the others and from the "avoid" list.`

// maxAvoid caps how many earlier questions are echoed back to the model.
const maxAvoid = 30

// buildUserMessage asks for count cards on topic for the given batch.
func buildUserMessage(topic string, count, batch int, avoid []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", topic)
	fmt.Fprintf(&b, "Cards: %d\n", count)
	if batch > 0 {
		fmt.Fprintf(&b, "Batch: %d (cover different facts than other batches)\n", batch+1)
	}

	b.WriteString("\nAvoid:\n")
	b.WriteString(buildAvoid(avoid, maxAvoid))
	return b.String()
}

// buildAvoid formats earlier questions, keeping only the most recent max.
func buildAvoid(questions []string, max int) string {
	if len(questions) == 0 {
		return "None"
	}
	if max > 0 && len(questions) > max {
		questions = questions[len(questions)-max:]
	}

	var b strings.Builder
	for i, q := range questions {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}
