package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/vulcan/internal/config"
	"github.com/abhisek/vulcan/internal/logging"
	"github.com/abhisek/vulcan/internal/store"
)

// cfg is resolved once per invocation in PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "vulcan",
	Short: "Adaptive flashcard quiz for the terminal",
	Long: "Vulcan quizzes you on question/answer decks imported from CSV or XLSX,\n" +
		"brings missed cards back sooner and rewards streaks with points,\n" +
		"tiers and achievements.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("config")
		c, err := config.Load(config.Options{File: file, Flags: cmd.Flags()})
		if err != nil {
			return err
		}
		cfg = c
		if cfg.DBPath == "" {
			if cfg.DBPath, err = store.DefaultDBPath(); err != nil {
				return fmt.Errorf("resolve DB path: %w", err)
			}
		} else if err := store.EnsureDir(cfg.DBPath); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		logging.Setup(cfg.Log)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Config file (default $XDG_CONFIG_HOME/vulcan/config.yaml)")
	pf.String(config.FlagName(config.KeyDB), "", "Path to SQLite database file (overrides VULCAN_DB)")
	pf.String(config.FlagName(config.KeyMode), "", "Quiz mode: single-cycle or infinite")
	pf.Duration(config.FlagName(config.KeyFeedbackDelay), 0, "How long answer feedback stays up")
	pf.String(config.FlagName(config.KeyLogLevel), "", "Log level: debug, info, warn or error")
	pf.String(config.FlagName(config.KeyLogFormat), "", "Log format: text or json")
	pf.String(config.FlagName(config.KeyLLMProvider), "", "LLM provider: anthropic, openai, gemini or openrouter")
	pf.String(config.FlagName(config.KeyLLMModel), "", "LLM model id")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}

// openStore opens the configured database.
func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// logToFile moves logging off the terminal while the TUI runs.
func logToFile() io.Closer {
	closer, err := logging.SetupFile(cfg.DataDir(), cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Logging disabled:", err)
		return io.NopCloser(nil)
	}
	return closer
}
