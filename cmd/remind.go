package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/vulcan/internal/clock"
	"github.com/abhisek/vulcan/internal/remind"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Run in the background and nudge you daily if you have not studied",
	RunE: func(cmd *cobra.Command, args []string) error {
		at := cfg.RemindAt
		if cmd.Flags().Changed("at") {
			at, _ = cmd.Flags().GetString("at")
		}
		now, _ := cmd.Flags().GetBool("now")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sched, err := remind.New(at, st.SnapshotRepo(), remind.TerminalNotifier{W: os.Stdout}, clock.New())
		if err != nil {
			return err
		}

		if now {
			sent, err := sched.RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			if !sent {
				fmt.Println("Already studied today. Nothing to remind.")
			}
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		sched.Start()
		defer sched.Stop()
		fmt.Printf("Reminding daily at %s (next check %s). Ctrl+C to stop.\n",
			at, sched.NextRun().Format("Mon 15:04"))

		<-ctx.Done()
		return nil
	},
}

func init() {
	remindCmd.Flags().String("at", "", "Time of day to check, HH:MM local (default from remind.at config)")
	remindCmd.Flags().Bool("now", false, "Check once immediately and exit")
}
