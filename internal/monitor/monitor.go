// Package monitor runs the evaluation loop for one activated plan: it owns
// the coupling cells, the escalation track, and the event stream, and turns
// the latest readings into a scored snapshot on every check.
package monitor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GuardianAI1/triaia/internal/cloud/gcp"
	"github.com/GuardianAI1/triaia/internal/config"
	"github.com/GuardianAI1/triaia/internal/events"
	"github.com/GuardianAI1/triaia/internal/evidence"
	"github.com/GuardianAI1/triaia/internal/intervention"
	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/scoring"
	"github.com/GuardianAI1/triaia/internal/signal"
	"github.com/GuardianAI1/triaia/internal/signal/icalfeed"
	"github.com/GuardianAI1/triaia/internal/signal/todoist"
	"github.com/GuardianAI1/triaia/internal/signal/unsupported"
)

// Options configures a Monitor.
type Options struct {
	Config *config.Config
	Plan   plan.Plan

	// Logger receives check and escalation entries. Required.
	Logger gcp.LoggerInterface
	// Sink receives the JSONL event stream. Optional.
	Sink *events.FileSink
	// Secrets resolves secret:// token references. Optional.
	Secrets gcp.SecretFetcher
	// Now overrides the clock in tests.
	Now func() time.Time
}

// CheckResult is the outcome of one stability evaluation.
type CheckResult struct {
	CheckID   string
	Snapshot  scoring.Snapshot
	Decision  intervention.Decision
	Readiness evidence.Readiness
	Planner   *signal.Reading
}

// Monitor is the single-writer evaluation loop for one activated plan.
// Pollers publish into cells concurrently; the track and the decay state are
// only touched from Check.
type Monitor struct {
	cfg  *config.Config
	plan plan.Plan

	logger gcp.LoggerInterface
	sink   *events.FileSink
	track  *intervention.Track

	plannerCell   *signal.Cell
	plannerPoller *signal.Poller

	suggestions []evidence.Suggestion
	now         func() time.Time
}

// New builds a monitor for an activated plan, constructing the configured
// planner adapter and resolving its credentials.
func New(ctx context.Context, opts Options) (*Monitor, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if !opts.Plan.Activated {
		return nil, fmt.Errorf("plan %q is not activated", opts.Plan.Title)
	}

	m := &Monitor{
		cfg:    opts.Config,
		plan:   opts.Plan,
		logger: opts.Logger,
		sink:   opts.Sink,
		track:  intervention.NewTrack(),
		now:    opts.Now,
	}
	if m.now == nil {
		m.now = time.Now
	}

	m.suggestions = evidence.Suggest(m.plan.Regime, planContext(m.plan), false)

	if opts.Config.Couplings.Planner.Enabled {
		provider := opts.Config.Couplings.Planner.Provider
		if !signal.Exists(provider) {
			m.logger.LogWarning(fmt.Sprintf("unknown planner provider %q (registered: %v), coupling will report as degraded",
				provider, signal.List()))
		}

		adapter, err := buildPlannerAdapter(ctx, opts.Config.Couplings.Planner, opts.Secrets)
		if err != nil {
			return nil, err
		}
		if err := adapter.Validate(); err != nil {
			return nil, fmt.Errorf("planner adapter: %w", err)
		}

		m.plannerCell = signal.NewCell()
		interval := time.Duration(opts.Config.Couplings.Planner.IntervalMinutes) * time.Minute
		m.plannerPoller = signal.NewPoller(adapter, m.plannerCell, signal.BoundaryWindow(m.plan.Boundary), interval)
	}

	return m, nil
}

// buildPlannerAdapter constructs and configures the selected provider.
// Unknown providers degrade to an adapter whose every fetch fails, which the
// decay policy then resolves; they never block monitoring.
func buildPlannerAdapter(ctx context.Context, cfg config.PlannerConfig, secrets gcp.SecretFetcher) (signal.Adapter, error) {
	switch cfg.Provider {
	case "todoist":
		source, err := todoistTokenSource(ctx, cfg, secrets)
		if err != nil {
			return nil, err
		}
		a := todoist.New(source)
		a.SetBaseURL(cfg.BaseURL)
		return a, nil

	case "icalfeed":
		return icalfeed.New(cfg.FeedURL), nil

	default:
		return unsupported.New(cfg.Provider), nil
	}
}

// todoistTokenSource picks service-token auth when an issuer and key file
// are configured, otherwise a static token with secret:// resolution.
func todoistTokenSource(ctx context.Context, cfg config.PlannerConfig, secrets gcp.SecretFetcher) (todoist.TokenSource, error) {
	if cfg.JWTIssuer != "" && cfg.PrivateKeyFile != "" {
		pemData, err := os.ReadFile(cfg.PrivateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("planner private key: %w", err)
		}
		source, err := todoist.NewJWTTokenSource(cfg.JWTIssuer, pemData)
		if err != nil {
			return nil, fmt.Errorf("planner service token: %w", err)
		}
		return source, nil
	}

	token, err := gcp.ResolveTokenRef(ctx, secrets, cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("planner token: %w", err)
	}
	return todoist.StaticTokenSource(token), nil
}

// planContext joins the free text consulted by evidence suggestion.
func planContext(p plan.Plan) string {
	parts := append([]string{p.Title, p.ContextText}, p.Steps...)
	return strings.Join(parts, "\n")
}

// ActiveCouplings counts the enabled coupling signals.
func (m *Monitor) ActiveCouplings() int {
	n := 0
	if m.cfg.Couplings.Geo.Enabled {
		n++
	}
	if m.cfg.Couplings.Weather.Enabled {
		n++
	}
	if m.cfg.Couplings.Planner.Enabled {
		n++
	}
	return n
}

// PollSignals performs a one-shot fetch of every polled coupling, for check
// commands that do not run the background loop.
func (m *Monitor) PollSignals(ctx context.Context) {
	if m.plannerPoller != nil {
		m.plannerPoller.PollOnce(ctx)
	}
}

// Check runs one full stability evaluation: assemble inputs from the latest
// readings, score, apply the escalation track, and emit events.
func (m *Monitor) Check(ctx context.Context) (CheckResult, error) {
	now := m.now()
	checkID := uuid.New().String()
	m.logger.SetCheckID(checkID)

	in := scoring.Inputs{
		Regime:          m.plan.Regime,
		Mode:            m.plan.Mode,
		Boundary:        m.plan.Boundary,
		ActiveCouplings: m.ActiveCouplings(),
		Geo:             signal.GeoDisabled,
		Weather:         signal.WeatherDisabled,
		Readiness:       evidence.Derive(m.plan.Documents, m.suggestions),
	}

	if m.cfg.Couplings.Geo.Enabled {
		in.Geo = signal.GeoStatus(m.cfg.Couplings.Geo.Status)
	}
	if m.cfg.Couplings.Weather.Enabled {
		in.Weather = signal.WeatherStatus(m.cfg.Couplings.Weather.Status)
		in.WeatherRisk = signal.WeatherRisk(m.cfg.Couplings.Weather.Risk)
	}

	var reading *signal.Reading
	if m.plannerCell != nil {
		if r, ok := m.plannerCell.Latest(); ok {
			reading = &r
			in.Planner = &r
		}
	}

	snap := scoring.Score(in, now)
	decision := m.track.Apply(snap, m.plan.Regime, m.plan.Mode, now)

	m.logCheck(snap, decision)
	if err := m.emitEvents(checkID, snap, decision, reading, now); err != nil {
		return CheckResult{}, err
	}

	return CheckResult{
		CheckID:   checkID,
		Snapshot:  snap,
		Decision:  decision,
		Readiness: in.Readiness,
		Planner:   reading,
	}, nil
}

func (m *Monitor) logCheck(snap scoring.Snapshot, decision intervention.Decision) {
	msg := fmt.Sprintf("check complete: index %.1f, %s, action %s", snap.OverallIndex, snap.Stability, snap.Intervention)
	fields := map[string]interface{}{
		"overall_index": snap.OverallIndex,
		"stability":     string(snap.Stability),
		"intervention":  string(snap.Intervention),
		"streak":        decision.Streak,
	}

	switch {
	case decision.Escalate:
		m.logger.Log(gcp.SeverityCritical, "escalation: "+msg, fields)
	case snap.Stability == scoring.StabilityCritical:
		m.logger.Log(gcp.SeverityError, msg, fields)
	case snap.Stability == scoring.StabilityStrained:
		m.logger.Log(gcp.SeverityWarning, msg, fields)
	default:
		m.logger.Log(gcp.SeverityInfo, msg, fields)
	}
}

func (m *Monitor) emitEvents(checkID string, snap scoring.Snapshot, decision intervention.Decision, reading *signal.Reading, now time.Time) error {
	if m.sink == nil {
		return nil
	}

	batch := []events.MonitorEvent{{
		Timestamp:    now,
		PlanID:       m.plan.ID,
		CheckID:      checkID,
		Type:         events.EventCheck,
		Summary:      fmt.Sprintf("index %.1f, %s", snap.OverallIndex, snap.Stability),
		Stability:    string(snap.Stability),
		Intervention: string(snap.Intervention),
		OverallIndex: snap.OverallIndex,
		Streak:       decision.Streak,
	}}

	if reading != nil && reading.LastError != "" {
		batch = append(batch, events.MonitorEvent{
			Timestamp: now,
			PlanID:    m.plan.ID,
			CheckID:   checkID,
			Type:      events.EventSignalError,
			Provider:  m.cfg.Couplings.Planner.Provider,
			Summary:   fmt.Sprintf("planner signal degraded, weight %.3f", reading.Weight),
			Detail:    reading.LastError,
		})
	}

	if decision.Escalate {
		batch = append(batch, events.MonitorEvent{
			Timestamp:    now,
			PlanID:       m.plan.ID,
			CheckID:      checkID,
			Type:         events.EventEscalation,
			Summary:      fmt.Sprintf("violation persisted for %d checks", decision.Streak),
			Stability:    string(snap.Stability),
			Intervention: string(snap.Intervention),
			OverallIndex: snap.OverallIndex,
			Streak:       decision.Streak,
		})
	}

	if err := m.sink.Write(batch); err != nil {
		return fmt.Errorf("failed to record check events: %w", err)
	}
	return nil
}

// Acknowledge marks the current escalation as seen and re-arms the track.
func (m *Monitor) Acknowledge() error {
	m.track.Acknowledge()
	if m.sink == nil {
		return nil
	}
	return m.sink.WriteOne(events.MonitorEvent{
		Timestamp: m.now(),
		PlanID:    m.plan.ID,
		Type:      events.EventAcknowledge,
		Summary:   "escalation acknowledged",
	})
}

// Run starts the pollers and evaluates on the configured cadence until ctx
// is cancelled. The first check happens immediately.
func (m *Monitor) Run(ctx context.Context) error {
	if m.sink != nil {
		if err := m.sink.WriteOne(events.MonitorEvent{
			Timestamp: m.now(),
			PlanID:    m.plan.ID,
			Type:      events.EventActivation,
			Summary:   fmt.Sprintf("monitoring %q (%s regime)", m.plan.Title, m.plan.Regime),
		}); err != nil {
			return err
		}
	}

	if m.plannerPoller != nil {
		// First fetch happens synchronously so the first check scores a
		// real reading instead of a missing one.
		m.plannerPoller.PollOnce(ctx)
		go m.plannerPoller.Run(ctx)
	}

	if _, err := m.Check(ctx); err != nil {
		return err
	}

	interval := time.Duration(m.cfg.Monitor.CheckIntervalMinutes) * time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.logger.LogInfo("monitor stopping")
			return m.logger.Flush()
		case <-ticker.C:
			if _, err := m.Check(ctx); err != nil {
				return err
			}
		}
	}
}

// Plan returns the monitored plan.
func (m *Monitor) Plan() plan.Plan { return m.plan }
