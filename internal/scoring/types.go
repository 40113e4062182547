package scoring

import (
	"time"

	"github.com/GuardianAI1/triaia/internal/evidence"
	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/signal"
)

// Stability classifies the aggregate index.
type Stability string

const (
	StabilityStable   Stability = "stable"
	StabilityStrained Stability = "strained"
	StabilityCritical Stability = "critical"
)

// Intervention is the discrete state the aggregate index maps to.
type Intervention string

const (
	InterventionContinue Intervention = "CONTINUE"
	InterventionDeviate  Intervention = "DEVIATE"
	InterventionPlanB    Intervention = "PLAN B"
	InterventionPause    Intervention = "PAUSE"
)

// Inputs is everything one scoring pass consumes. It is built from immutable
// snapshots of the plan configuration and the latest signal readings, so
// Score may be called concurrently.
type Inputs struct {
	Regime   plan.Regime
	Mode     plan.StructuralMode
	Boundary time.Time

	// ActiveCouplings is the number of enabled coupling signals.
	ActiveCouplings int

	Geo         signal.GeoStatus
	Weather     signal.WeatherStatus
	WeatherRisk signal.WeatherRisk

	// Planner is the latest planner reading; nil when the coupling is
	// disabled. A synthetic reading marks an adapter that never produced
	// data.
	Planner *signal.Reading

	Readiness evidence.Readiness
}

// Snapshot is one immutable, fully-computed scoring result for a single
// point in time. Each check produces a fresh Snapshot; none is ever mutated
// in place.
type Snapshot struct {
	BoundaryScore    float64
	CapacityScore    float64
	UncertaintyScore float64
	OverallIndex     float64

	Stability    Stability
	Intervention Intervention

	// RemainingMargin is a human-readable distance to the boundary.
	RemainingMargin string

	ActiveCouplings int
	GeneratedAt     time.Time
}
