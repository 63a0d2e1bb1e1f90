package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vulcan/internal/deck"
	"github.com/abhisek/vulcan/internal/ingest"
	"github.com/abhisek/vulcan/internal/store"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Manage the saved deck library",
}

var deckImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a CSV or XLSX file into the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		pairs, err := ingest.File(path)
		if err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		fileName := filepath.Base(path)
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = deck.GenerateName(fileName)
		}

		saved, err := st.DeckRepo().Save(cmd.Context(), name, fileName, toCards(pairs))
		if err != nil {
			return fmt.Errorf("save deck: %w", err)
		}
		fmt.Printf("Saved %q (%d cards) as %s\n", saved.Name, len(saved.Cards), saved.ID)
		return nil
	},
}

var deckListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved decks, most recently used first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		decks, err := st.DeckRepo().List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list decks: %w", err)
		}
		if len(decks) == 0 {
			fmt.Println("No saved decks. Import one with: vulcan deck import <file>")
			return nil
		}

		fmt.Printf("%-22s  %-30s  %5s  %-24s  %s\n", "ID", "Name", "Cards", "File", "Last used")
		fmt.Println(strings.Repeat("─", 104))
		for _, d := range decks {
			fmt.Printf("%-22s  %-30s  %5d  %-24s  %s\n",
				d.ID, truncate(d.Name, 30), len(d.Cards), truncate(d.FileName, 24),
				d.LastUsed.Local().Format("2006-01-02 15:04"))
		}
		fmt.Printf("\n%d of %d slots used\n", len(decks), store.MaxSavedDecks)
		return nil
	},
}

var deckShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print the cards of a saved deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		d, err := st.DeckRepo().Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrDeckNotFound) {
			return fmt.Errorf("no saved deck with id %s", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s (%d cards)\n\n", d.Name, len(d.Cards))
		for i, c := range d.Cards {
			fmt.Printf("%3d. %s\n     %s\n", i+1, c.Question, c.Answer)
		}
		return nil
	},
}

var deckDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a deck from the library",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeckRepo().Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete deck: %w", err)
		}
		fmt.Println("Deleted", args[0])
		return nil
	},
}

func toCards(pairs []deck.Pair) []store.CardData {
	cards := make([]store.CardData, len(pairs))
	for i, p := range pairs {
		cards[i] = store.CardData{Question: p.Question, Answer: p.Answer}
	}
	return cards
}

func init() {
	deckImportCmd.Flags().String("name", "", "Deck name (default derived from the file name)")

	deckCmd.AddCommand(deckImportCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckShowCmd)
	deckCmd.AddCommand(deckDeleteCmd)
}
