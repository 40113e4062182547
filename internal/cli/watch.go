package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Monitor the configured plan continuously",
	Long: `Activate the plan and evaluate its stability on the configured
cadence, polling coupling signals in the background. Every check and
escalation is appended to the events stream. Stops on interrupt.

Example:
  triaia watch --plan trip.yaml`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().String("plan", "", "plan definition file (overrides config)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, p, err := loadPlanAndConfig(cmd)
	if err != nil {
		return err
	}

	activated, err := p.Activate(time.Now())
	if err != nil {
		return err
	}

	m, cleanup, err := buildMonitor(ctx, cmd, cfg, activated)
	if err != nil {
		return err
	}
	defer cleanup()

	fmt.Fprintf(cmd.OutOrStdout(), "Monitoring %q every %d minutes. Ctrl-C to stop.\n",
		activated.Title, cfg.Monitor.CheckIntervalMinutes)

	return m.Run(ctx)
}
