package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/vulcan/internal/deck"
	"github.com/abhisek/vulcan/internal/deckgen"
	"github.com/abhisek/vulcan/internal/llm"
	"github.com/abhisek/vulcan/internal/store"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a deck on a topic with the configured LLM provider",
	Example: "  vulcan generate --topic \"Spanish irregular verbs\" --count 30\n" +
		"  vulcan generate --topic \"World capitals\" --extend <deck-id>",
	RunE: func(cmd *cobra.Command, args []string) error {
		topic, _ := cmd.Flags().GetString("topic")
		count, _ := cmd.Flags().GetInt("count")
		extend, _ := cmd.Flags().GetString("extend")
		concurrency, _ := cmd.Flags().GetInt("concurrency")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		llmCfg, err := llmConfig()
		if err != nil {
			return fmt.Errorf("LLM provider not configured: %w", err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		provider, err := llm.New(ctx, llmCfg, st.EventRepo())
		if err != nil {
			return err
		}

		var base *store.SavedDeck
		in := deckgen.Input{Topic: topic, Count: count}
		if extend != "" {
			if base, err = st.DeckRepo().Get(ctx, extend); err != nil {
				return fmt.Errorf("load deck %s: %w", extend, err)
			}
			for _, c := range base.Cards {
				in.Avoid = append(in.Avoid, c.Question)
			}
		}

		gcfg := deckgen.DefaultConfig()
		if concurrency > 0 {
			gcfg.MaxConcurrent = concurrency
		}
		fmt.Printf("Generating %d cards about %q with %s...\n", count, topic, provider.Model())
		pairs, err := deckgen.New(provider, gcfg).Generate(ctx, in)
		if err != nil {
			return err
		}

		var saved *store.SavedDeck
		if base != nil {
			cards := append(base.Cards, toCards(pairs)...)
			saved, err = st.DeckRepo().Save(ctx, base.Name, base.FileName, cards)
			if err != nil {
				return fmt.Errorf("save deck: %w", err)
			}
		} else if saved, err = deckgen.Save(ctx, st.DeckRepo(), topic, pairs); err != nil {
			return err
		}

		printSample(pairs, 5)
		fmt.Printf("\nSaved %q (%d cards, %d new) as %s\n", saved.Name, len(saved.Cards), len(pairs), saved.ID)
		return nil
	},
}

// llmConfig resolves the provider: explicit configuration first, then the
// first well-known API key found in the environment.
func llmConfig() (llm.Config, error) {
	return llm.Resolve(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.APIKey)
}

func printSample(pairs []deck.Pair, n int) {
	for i, p := range pairs {
		if i == n {
			fmt.Printf("  ... and %d more\n", len(pairs)-n)
			return
		}
		fmt.Printf("  Q: %s\n  A: %s\n", p.Question, p.Answer)
	}
}

func init() {
	generateCmd.Flags().StringP("topic", "t", "", "What the cards should cover")
	generateCmd.Flags().IntP("count", "n", 20, "Number of cards to generate")
	generateCmd.Flags().String("extend", "", "Add cards to this saved deck id, skipping its questions")
	generateCmd.Flags().Int("concurrency", 0, "Parallel requests (default from generator config)")
	_ = generateCmd.MarkFlagRequired("topic")
}
