package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/GuardianAI1/triaia/internal/config"
	"github.com/GuardianAI1/triaia/internal/events"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded checks and escalations",
	Long: `Read the JSONL events stream and print recorded checks, signal
failures, and escalations.

Examples:
  triaia history
  triaia history --type escalation
  triaia history --plan 4f1c...`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("type", "", "filter by event type (check, escalation, signal_error, activation, acknowledge)")
	historyCmd.Flags().String("plan", "", "filter by plan ID")
	historyCmd.Flags().Int("tail", 20, "show only the last N events (0 for all)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	path := filepath.Join(cfg.Monitor.EventsDir, events.DefaultFilename)
	recorded, err := events.ReadEvents(path)
	if err != nil {
		return err
	}

	if typ, _ := cmd.Flags().GetString("type"); typ != "" {
		if !events.IsValidEventType(typ) {
			return fmt.Errorf("unknown event type: %s", typ)
		}
		recorded = events.FilterByType(recorded, events.EventType(typ))
	}
	if planID, _ := cmd.Flags().GetString("plan"); planID != "" {
		recorded = events.FilterByPlan(recorded, planID)
	}
	if tail, _ := cmd.Flags().GetInt("tail"); tail > 0 && len(recorded) > tail {
		recorded = recorded[len(recorded)-tail:]
	}

	out := cmd.OutOrStdout()
	if len(recorded) == 0 {
		fmt.Fprintln(out, "No events recorded.")
		return nil
	}

	for _, e := range recorded {
		line := fmt.Sprintf("%s  %-12s %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Type, e.Summary)
		if e.Type == events.EventCheck || e.Type == events.EventEscalation {
			line += fmt.Sprintf("  (action %s)", e.Intervention)
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
