// Package assistant builds the single free-text prompt shown to a language
// model collaborator and screens it before anything leaves the process. The
// model only ever sees plan identifiers, score fields, and coupling statuses,
// never raw credentials or document contents.
package assistant

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/scoring"
	"github.com/GuardianAI1/triaia/internal/signal"
)

// ErrBlockedPrompt means the prompt contained a blocked term and was not sent.
var ErrBlockedPrompt = errors.New("prompt contains a blocked term")

// blockedTerms are dropped by simple case-insensitive substring matching.
// The screen errs on the side of refusing to send.
var blockedTerms = []string{
	"password",
	"passphrase",
	"api key",
	"api_key",
	"secret://",
	"bearer ",
	"private key",
	"credit card",
}

// Screen rejects prompts that must not leave the process.
func Screen(prompt string) error {
	lower := strings.ToLower(prompt)
	for _, term := range blockedTerms {
		if strings.Contains(lower, term) {
			return fmt.Errorf("%w: %q", ErrBlockedPrompt, term)
		}
	}
	return nil
}

// CouplingState summarizes the coupling statuses included in the prompt.
type CouplingState struct {
	Geo             signal.GeoStatus
	Weather         signal.WeatherStatus
	WeatherRisk     signal.WeatherRisk
	PlannerProvider string
	Planner         *signal.Reading
}

// BuildPrompt renders the advisory prompt for one check. The output is
// plain text; the caller runs it through Screen before sending.
func BuildPrompt(p plan.Plan, snap scoring.Snapshot, couplings CouplingState) string {
	var b strings.Builder

	b.WriteString("You are advising on the stability of an active plan.\n")
	b.WriteString("Reply with at most three sentences of practical guidance.\n\n")

	fmt.Fprintf(&b, "Plan: %s (regime %s, mode %s)\n", p.Title, p.Regime, p.Mode)
	fmt.Fprintf(&b, "Margin: %s\n", snap.RemainingMargin)
	fmt.Fprintf(&b, "Scores: boundary %.1f, capacity %.1f, uncertainty %.1f, overall %.1f\n",
		snap.BoundaryScore, snap.CapacityScore, snap.UncertaintyScore, snap.OverallIndex)
	fmt.Fprintf(&b, "Assessment: %s, recommended action %s\n", snap.Stability, snap.Intervention)

	b.WriteString("\nCoupling signals:\n")
	fmt.Fprintf(&b, "- geospatial: %s\n", couplings.Geo)
	if couplings.Weather == signal.WeatherReady {
		fmt.Fprintf(&b, "- weather: ready, risk %s\n", couplings.WeatherRisk)
	} else {
		fmt.Fprintf(&b, "- weather: %s\n", couplings.Weather)
	}
	if couplings.Planner != nil {
		sig := couplings.Planner.Signal
		fmt.Fprintf(&b, "- planner (%s, weight %.2f): %d tasks, %d completed, %d overdue, %d due within 24h\n",
			couplings.PlannerProvider, couplings.Planner.Weight,
			sig.TotalTasks, sig.CompletedTasks, sig.OverdueTasks, sig.DueNext24h)
	} else {
		b.WriteString("- planner: disabled\n")
	}

	fmt.Fprintf(&b, "\nGiven the %s assessment, what should the plan owner do next?\n", snap.Stability)

	return b.String()
}
