package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/GuardianAI1/triaia/internal/assistant"
	"github.com/GuardianAI1/triaia/internal/cloud/gcp"
	"github.com/GuardianAI1/triaia/internal/config"
	"github.com/GuardianAI1/triaia/internal/events"
	"github.com/GuardianAI1/triaia/internal/monitor"
	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/signal"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one stability evaluation for the configured plan",
	Long: `Load the plan, fetch coupling signals once, and print the scored
stability snapshot with the recommended intervention.

Examples:
  triaia check --plan trip.yaml
  triaia check --plan trip.yaml --advise`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().String("plan", "", "plan definition file (overrides config)")
	checkCmd.Flags().Bool("advise", false, "ask the assistant for guidance on the result")
	checkCmd.Flags().Bool("events", false, "append the check to the events stream")
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

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

	m.PollSignals(ctx)

	res, err := m.Check(ctx)
	if err != nil {
		return err
	}

	printCheckResult(cmd, activated, res)

	if advise, _ := cmd.Flags().GetBool("advise"); advise {
		return printAdvice(ctx, cfg, activated, res)
	}
	return nil
}

// loadPlanAndConfig resolves the effective config and plan, applying the
// --plan flag and config-level regime/mode overrides.
func loadPlanAndConfig(cmd *cobra.Command) (*config.Config, plan.Plan, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, plan.Plan{}, fmt.Errorf("failed to load config: %w", err)
	}

	if file, _ := cmd.Flags().GetString("plan"); file != "" {
		cfg.Plan.File = file
	}
	if err := cfg.ValidateForActivate(); err != nil {
		return nil, plan.Plan{}, err
	}

	p, err := plan.LoadFile(cfg.Plan.File)
	if err != nil {
		return nil, plan.Plan{}, err
	}

	if cfg.Plan.Regime != "" {
		regime, err := plan.ParseRegime(cfg.Plan.Regime)
		if err != nil {
			return nil, plan.Plan{}, err
		}
		p.Regime = regime
	}
	if cfg.Plan.Mode != "" {
		mode, err := plan.ParseMode(cfg.Plan.Mode)
		if err != nil {
			return nil, plan.Plan{}, err
		}
		p.Mode = mode
	}

	return cfg, p, nil
}

// buildMonitor assembles the monitor with the configured logger, event sink,
// and secret resolution. The returned cleanup closes what was opened.
func buildMonitor(ctx context.Context, cmd *cobra.Command, cfg *config.Config, p plan.Plan) (*monitor.Monitor, func(), error) {
	logger := gcp.NewLogger(ctx, cfg.Cloud.Project, p.ID)

	var secrets gcp.SecretFetcher
	if cfg.Cloud.Project != "" && gcp.IsSecretRef(cfg.Couplings.Planner.Token) {
		sm, err := gcp.NewSecretManagerClient(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create secret client: %w", err)
		}
		secrets = sm
	}

	var sink *events.FileSink
	withEvents, _ := cmd.Flags().GetBool("events")
	if withEvents || cmd.Name() == "watch" {
		s, err := events.NewFileSink(cfg.Monitor.EventsDir)
		if err != nil {
			return nil, nil, err
		}
		sink = s
	}

	m, err := monitor.New(ctx, monitor.Options{
		Config:  cfg,
		Plan:    p,
		Logger:  logger,
		Sink:    sink,
		Secrets: secrets,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if sink != nil {
			_ = sink.Close()
		}
		_ = logger.Close()
		if secrets != nil {
			_ = secrets.Close()
		}
	}
	return m, cleanup, nil
}

func printCheckResult(cmd *cobra.Command, p plan.Plan, res monitor.CheckResult) {
	out := cmd.OutOrStdout()
	snap := res.Snapshot

	fmt.Fprintf(out, "Plan:         %s (%s regime, %s mode)\n", p.Title, p.Regime, p.Mode)
	fmt.Fprintf(out, "Margin:       %s\n", snap.RemainingMargin)
	fmt.Fprintf(out, "Boundary:     %.1f\n", snap.BoundaryScore)
	fmt.Fprintf(out, "Capacity:     %.1f\n", snap.CapacityScore)
	fmt.Fprintf(out, "Uncertainty:  %.1f\n", snap.UncertaintyScore)
	fmt.Fprintf(out, "Overall:      %.1f (%s)\n", snap.OverallIndex, snap.Stability)
	fmt.Fprintf(out, "Action:       %s\n", snap.Intervention)

	if len(res.Readiness.ExpectedTypes) > 0 {
		fmt.Fprintf(out, "Evidence:     %s (%.0f%% of %s)\n",
			res.Readiness.Label, res.Readiness.Coverage*100,
			strings.Join(res.Readiness.ExpectedTypes, ", "))
		if len(res.Readiness.MissingTypes) > 0 {
			fmt.Fprintf(out, "Missing:      %s\n", strings.Join(res.Readiness.MissingTypes, ", "))
		}
	}

	if res.Planner != nil {
		sig := res.Planner.Signal
		fmt.Fprintf(out, "Planner:      %d tasks (%d completed, %d overdue, %d due in 24h), weight %.2f\n",
			sig.TotalTasks, sig.CompletedTasks, sig.OverdueTasks, sig.DueNext24h, res.Planner.Weight)
		if res.Planner.LastError != "" {
			fmt.Fprintf(out, "              degraded: %s\n", res.Planner.LastError)
		}
	}

	if res.Decision.Escalate {
		fmt.Fprintf(out, "\nESCALATION: violation persisted for %d checks\n", res.Decision.Streak)
	}
	if len(res.Decision.Remedies) > 0 {
		fmt.Fprintln(out, "\nRemedies:")
		for _, r := range res.Decision.Remedies {
			fmt.Fprintf(out, "  - %s: %s\n", r.Title, r.Detail)
		}
	}
}

func printAdvice(ctx context.Context, cfg *config.Config, p plan.Plan, res monitor.CheckResult) error {
	if !cfg.Assistant.Enabled {
		return fmt.Errorf("assistant is not enabled in config")
	}

	client, err := assistant.NewClient(assistant.Options{
		Provider:  cfg.Assistant.Provider,
		Model:     cfg.Assistant.Model,
		ServerURL: cfg.Assistant.ServerURL,
		APIKey:    cfg.Assistant.APIKey,
	})
	if err != nil {
		return err
	}

	couplings := assistant.CouplingState{
		Geo:             signal.GeoDisabled,
		Weather:         signal.WeatherDisabled,
		PlannerProvider: cfg.Couplings.Planner.Provider,
		Planner:         res.Planner,
	}
	if cfg.Couplings.Geo.Enabled {
		couplings.Geo = signal.GeoStatus(cfg.Couplings.Geo.Status)
	}
	if cfg.Couplings.Weather.Enabled {
		couplings.Weather = signal.WeatherStatus(cfg.Couplings.Weather.Status)
		couplings.WeatherRisk = signal.WeatherRisk(cfg.Couplings.Weather.Risk)
	}

	prompt := assistant.BuildPrompt(p, res.Snapshot, couplings)
	reply, err := client.Advise(ctx, prompt)
	if err != nil {
		return err
	}

	fmt.Printf("\nAdvice: %s\n", strings.TrimSpace(reply))
	return nil
}
