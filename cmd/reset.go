package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vulcan/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase points, streaks and achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		withDecks, _ := cmd.Flags().GetBool("decks")

		if !yes {
			what := "all progress"
			if withDecks {
				what += " and every saved deck"
			}
			fmt.Printf("This erases %s. Continue? [y/N] ", what)
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		ctx := cmd.Context()

		coord := session.NewCoordinator(session.Options{Snapshots: st.SnapshotRepo()})
		if err := coord.ResetProgress(ctx); err != nil {
			return err
		}

		if withDecks {
			repo := st.DeckRepo()
			decks, err := repo.List(ctx)
			if err != nil {
				return fmt.Errorf("list decks: %w", err)
			}
			for _, d := range decks {
				if err := repo.Delete(ctx, d.ID); err != nil {
					return fmt.Errorf("delete deck %s: %w", d.ID, err)
				}
			}
		}

		fmt.Println("Progress reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	resetCmd.Flags().Bool("decks", false, "Also delete the saved deck library")
}
