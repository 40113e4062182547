package scoring

import (
	"fmt"
	"math"
	"time"

	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/signal"
)

const (
	// Baseline is the score every sub-score starts from before any
	// adjustment is applied.
	Baseline = 78.0

	// ScoreFloor and ScoreCeiling bound every sub-score and the aggregate
	// index. Clamping is applied after every individual adjustment, not
	// just at the end, so a run of penalties cannot push a score into a
	// range a later bonus pulls back from artificially.
	ScoreFloor   = 5.0
	ScoreCeiling = 95.0
)

// Stability and intervention cut points over the aggregate index.
const (
	stableAt   = 70.0
	strainedAt = 45.0

	continueAt = 70.0
	deviateAt  = 52.0
)

func clamp(v float64) float64 {
	if v < ScoreFloor {
		return ScoreFloor
	}
	if v > ScoreCeiling {
		return ScoreCeiling
	}
	return v
}

// subScores carries the three dimensions through the adjustment pipeline.
// Every mutator clamps immediately.
type subScores struct {
	boundary    float64
	capacity    float64
	uncertainty float64
}

func (s *subScores) addAll(delta float64) {
	s.boundary = clamp(s.boundary + delta)
	s.capacity = clamp(s.capacity + delta)
	s.uncertainty = clamp(s.uncertainty + delta)
}

func (s *subScores) addBoundary(delta float64)    { s.boundary = clamp(s.boundary + delta) }
func (s *subScores) addCapacity(delta float64)    { s.capacity = clamp(s.capacity + delta) }
func (s *subScores) addUncertainty(delta float64) { s.uncertainty = clamp(s.uncertainty + delta) }

// Score computes a full stability snapshot from the given inputs. It is a
// pure function: no I/O, no shared state, identical inputs always produce
// identical snapshots.
func Score(in Inputs, now time.Time) Snapshot {
	s := subScores{boundary: Baseline, capacity: Baseline, uncertainty: Baseline}

	s.addAll(regimePenalty(in.Regime))

	if in.Mode == plan.ModeManual {
		// Manual confirmation slows the correction loop down.
		s.addCapacity(-7)
	}

	applyCouplings(&s, in.ActiveCouplings)
	s.addUncertainty(geoAdjustment(in.Geo))
	s.addBoundary(weatherAdjustment(in.Weather, in.WeatherRisk))
	applyEvidence(&s, in)
	applyPlanner(&s, in.Planner)
	applyTimePressure(&s, in, now)

	aggregate := clamp((s.boundary + s.capacity + s.uncertainty) / 3)

	return Snapshot{
		BoundaryScore:    s.boundary,
		CapacityScore:    s.capacity,
		UncertaintyScore: s.uncertainty,
		OverallIndex:     aggregate,
		Stability:        stabilityFor(aggregate),
		Intervention:     interventionFor(aggregate, in.Regime),
		RemainingMargin:  remainingMargin(in.Boundary, now),
		ActiveCouplings:  in.ActiveCouplings,
		GeneratedAt:      now,
	}
}

func regimePenalty(r plan.Regime) float64 {
	switch r {
	case plan.RegimeHard:
		return -13
	case plan.RegimeResource:
		return -10
	default:
		return -7
	}
}

// applyCouplings rewards corroborating signal sources and penalises flying
// blind. Zero couplings is a single penalty, not a zero bonus.
func applyCouplings(s *subScores, active int) {
	if active == 0 {
		s.addUncertainty(-11)
		return
	}
	s.addUncertainty(2.5 * float64(active))
}

func geoAdjustment(g signal.GeoStatus) float64 {
	switch g {
	case signal.GeoLockedMoving:
		return 4
	case signal.GeoLockedStationary:
		return 1
	case signal.GeoPermissionPending:
		return -2
	case signal.GeoDenied, signal.GeoError, signal.GeoUnsupported:
		return -10
	default:
		return 0
	}
}

func weatherAdjustment(w signal.WeatherStatus, risk signal.WeatherRisk) float64 {
	switch w {
	case signal.WeatherReady:
		switch risk {
		case signal.RiskHigh:
			return -10
		case signal.RiskModerate:
			return -5
		default:
			return -1
		}
	case signal.WeatherLoading:
		return -2
	case signal.WeatherError:
		return -5
	default:
		return 0
	}
}

// applyEvidence folds document readiness in. Coverage drives capacity at
// full weight and the other two dimensions at half weight; boundary takes an
// extra hit per missing boundary-relevant document type.
func applyEvidence(s *subScores, in Inputs) {
	var main float64
	switch {
	case in.Readiness.Coverage < 0.34:
		main = -12
	case in.Readiness.Coverage < 0.67:
		main = -6
	default:
		main = 2
	}
	s.addCapacity(main)
	s.addBoundary(main / 2)
	s.addUncertainty(main / 2)

	missing := math.Min(10, 2.5*float64(in.Readiness.MissingBoundaryRelevant()))
	if missing > 0 {
		s.addBoundary(-missing)
	}
}

// applyPlanner translates planner task load into a capacity adjustment,
// scaled by the signal's confidence weight. A synthetic reading means the
// adapter has failed without ever delivering data, which costs a flat
// penalty instead.
func applyPlanner(s *subScores, r *signal.Reading) {
	if r == nil {
		return
	}
	if r.Synthetic {
		s.addCapacity(-6)
		return
	}
	w := r.Weight
	sig := r.Signal

	if sig.OverdueTasks > 0 {
		s.addCapacity(-math.Min(18, 3*float64(sig.OverdueTasks)) * w)
	}
	if sig.DueNext24h > 0 {
		s.addCapacity(-math.Min(12, 1.6*float64(sig.DueNext24h)) * w)
	}
	if sig.TotalTasks > 0 {
		ratio := float64(sig.CompletedTasks) / float64(sig.TotalTasks)
		s.addCapacity(8 * ratio * w)
	}
}

// applyTimePressure penalises the boundary score as a hard boundary
// approaches. Soft regimes carry no clock pressure and an unset boundary
// cannot exert any.
func applyTimePressure(s *subScores, in Inputs, now time.Time) {
	if in.Regime != plan.RegimeHard || in.Boundary.IsZero() {
		return
	}
	mins := in.Boundary.Sub(now).Minutes()
	switch {
	case mins <= 240:
		s.addBoundary(-34)
	case mins <= 720:
		s.addBoundary(-20)
	case mins <= 1440:
		s.addBoundary(-9)
	}
}

func stabilityFor(index float64) Stability {
	switch {
	case index >= stableAt:
		return StabilityStable
	case index >= strainedAt:
		return StabilityStrained
	default:
		return StabilityCritical
	}
}

func interventionFor(index float64, r plan.Regime) Intervention {
	switch {
	case index >= continueAt:
		return InterventionContinue
	case index >= deviateAt:
		return InterventionDeviate
	case r == plan.RegimeHard:
		return InterventionPlanB
	default:
		return InterventionPause
	}
}

func remainingMargin(boundary, now time.Time) string {
	if boundary.IsZero() {
		return "no boundary set"
	}
	d := boundary.Sub(now)
	if d < 0 {
		return fmt.Sprintf("boundary passed %s ago", formatDuration(-d))
	}
	return fmt.Sprintf("%s to boundary", formatDuration(d))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}
