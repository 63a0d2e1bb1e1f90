package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/vulcan/internal/achievements"
	"github.com/abhisek/vulcan/internal/scoring"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime progress and per-deck accuracy",
	RunE: func(cmd *cobra.Command, args []string) error {
		missed, _ := cmd.Flags().GetInt("missed")
		ctx := cmd.Context()

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		snap, err := st.SnapshotRepo().Latest(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		if snap == nil {
			fmt.Println("No progress yet. Run vulcan to start a quiz.")
			return nil
		}
		p := snap.Data
		tier := scoring.TierForPoints(p.TotalPoints)

		fmt.Println("Progress")
		fmt.Println(strings.Repeat("─", 48))
		fmt.Printf("%-20s %d\n", "Points", p.TotalPoints)
		fmt.Printf("%-20s %s %s\n", "Tier", tier.Emoji, tier.Name)
		if next, ok := scoring.NextTier(tier); ok {
			fmt.Printf("%-20s %.0f%% to %s\n", "", scoring.NextTierProgress(tier, p.TotalPoints), next.Name)
		}
		fmt.Printf("%-20s %d\n", "Best streak", p.BestStreak)
		fmt.Printf("%-20s %d (last %s)\n", "Daily streak", p.DailyStreak, orNone(p.LastStudyDate))
		fmt.Printf("%-20s %d\n", "Questions", p.TotalQuestions)
		if p.TotalQuestions > 0 {
			fmt.Printf("%-20s %.0f%%\n", "Accuracy", float64(p.TotalCorrect)/float64(p.TotalQuestions)*100)
		}
		fmt.Printf("%-20s %s\n", "Average response", msDuration(int64(p.AverageResponseMs)))
		if p.FastestResponseMs > 0 {
			fmt.Printf("%-20s %s\n", "Fastest correct", msDuration(p.FastestResponseMs))
		}
		fmt.Printf("%-20s %d / %d\n", "Achievements", len(p.Achievements), len(achievements.All()))

		decks, err := st.EventRepo().DeckAccuracy(ctx)
		if err != nil {
			return fmt.Errorf("query deck accuracy: %w", err)
		}
		if len(decks) > 0 {
			fmt.Println()
			fmt.Println("Accuracy by Deck")
			fmt.Println(strings.Repeat("─", 48))
			for _, d := range decks {
				fmt.Printf("%-30s %6d  %5.0f%%\n", truncate(d.DeckName, 30), d.Answered, d.Accuracy()*100)
			}
		}

		cards, err := st.EventRepo().MostMissed(ctx, missed)
		if err != nil {
			return fmt.Errorf("query missed cards: %w", err)
		}
		if len(cards) > 0 {
			fmt.Println()
			fmt.Println("Most Missed")
			fmt.Println(strings.Repeat("─", 48))
			for _, c := range cards {
				fmt.Printf("%-40s x%d  (%s)\n", truncate(c.Question, 40), c.Misses, c.DeckName)
			}
		}
		return nil
	},
}

func orNone(s string) string {
	if s == "" {
		return "never"
	}
	return s
}

func msDuration(ms int64) string {
	return (time.Duration(ms) * time.Millisecond).Round(10 * time.Millisecond).String()
}

func init() {
	statsCmd.Flags().Int("missed", 10, "Number of most-missed cards to list")
}
