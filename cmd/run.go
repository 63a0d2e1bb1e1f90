package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abhisek/vulcan/internal/app"
	"github.com/abhisek/vulcan/internal/ingest"
	"github.com/abhisek/vulcan/internal/selfupdate"
	"github.com/abhisek/vulcan/internal/session"
)

// runApp opens the store, restores progress, optionally loads the deck at
// deckPath and launches the TUI.
func runApp(cmd *cobra.Command, deckPath string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	mode, err := session.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logFile := logToFile()
	defer logFile.Close()

	changes := make(chan struct{}, 1)
	coord := session.NewCoordinator(session.Options{
		Mode:          mode,
		FeedbackDelay: cfg.FeedbackDelay,
		Decks:         st.DeckRepo(),
		Snapshots:     st.SnapshotRepo(),
		Events:        st.EventRepo(),
		OnChange:      app.Notify(changes),
	})
	defer func() {
		if err := coord.Close(context.Background()); err != nil {
			slog.Error("save progress on exit failed", "err", err)
		}
	}()

	if err := coord.LoadProgress(ctx); err != nil {
		slog.Warn("progress load failed", "err", err)
	}

	if deckPath != "" {
		pairs, err := ingest.File(deckPath)
		if err != nil {
			return fmt.Errorf("import %s: %w", deckPath, err)
		}
		if err := coord.LoadDeck(ctx, pairs, filepath.Base(deckPath)); err != nil {
			return err
		}
	}

	return app.Run(app.Options{
		Coordinator: coord,
		Decks:       st.DeckRepo(),
		Events:      st.EventRepo(),
		Changes:     changes,
		Version:     version,
		Checker:     selfupdate.NewChecker(),
	})
}
