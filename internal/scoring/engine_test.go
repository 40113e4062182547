package scoring

import (
	"math"
	"testing"
	"time"

	"github.com/GuardianAI1/triaia/internal/evidence"
	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/signal"
)

var scoreNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func approx(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 0.01 {
		t.Errorf("%s = %.4f, want %.4f", name, got, want)
	}
}

func TestScoreScenarios(t *testing.T) {
	tests := []struct {
		name            string
		in              Inputs
		wantBoundary    float64
		wantCapacity    float64
		wantUncertainty float64
		wantIndex       float64
		wantStability   Stability
		wantAction      Intervention
	}{
		{
			name: "soft regime no couplings baseline evidence",
			in: Inputs{
				Regime:    plan.RegimeSoft,
				Mode:      plan.ModeAutomatic,
				Geo:       signal.GeoDisabled,
				Weather:   signal.WeatherDisabled,
				Readiness: evidence.Readiness{Coverage: 0.75},
			},
			wantBoundary:    72,
			wantCapacity:    73,
			wantUncertainty: 61,
			wantIndex:       68.6667,
			wantStability:   StabilityStrained,
			wantAction:      InterventionDeviate,
		},
		{
			name: "healthy hard plan far from boundary",
			in: Inputs{
				Regime:          plan.RegimeHard,
				Mode:            plan.ModeAutomatic,
				Boundary:        scoreNow.Add(72 * time.Hour),
				ActiveCouplings: 3,
				Geo:             signal.GeoLockedMoving,
				Weather:         signal.WeatherReady,
				WeatherRisk:     signal.RiskLow,
				Planner: &signal.Reading{
					Signal: signal.PlannerSignal{
						TotalTasks:     10,
						CompletedTasks: 8,
						DueNext24h:     1,
					},
					Weight: 1.0,
				},
				Readiness: evidence.Readiness{Coverage: 1.0},
			},
			wantBoundary:    65,
			wantCapacity:    71.8,
			wantUncertainty: 77.5,
			wantIndex:       71.4333,
			wantStability:   StabilityStable,
			wantAction:      InterventionContinue,
		},
		{
			name: "hard regime collapsing near boundary",
			in: Inputs{
				Regime:          plan.RegimeHard,
				Mode:            plan.ModeManual,
				Boundary:        scoreNow.Add(2 * time.Hour),
				ActiveCouplings: 3,
				Geo:             signal.GeoDenied,
				Weather:         signal.WeatherReady,
				WeatherRisk:     signal.RiskHigh,
				Planner: &signal.Reading{
					Synthetic: true,
					Weight:    signal.WeightFloor,
				},
				Readiness: evidence.Readiness{
					Coverage:     0.2,
					MissingTypes: []string{evidence.TypeFlightItinerary, evidence.TypeBoardingPass},
				},
			},
			wantBoundary:    10,
			wantCapacity:    40,
			wantUncertainty: 56.5,
			wantIndex:       35.5,
			wantStability:   StabilityCritical,
			wantAction:      InterventionPlanB,
		},
		{
			name: "resource regime overloaded planner pauses",
			in: Inputs{
				Regime:          plan.RegimeResource,
				Mode:            plan.ModeAutomatic,
				ActiveCouplings: 2,
				Geo:             signal.GeoDisabled,
				Weather:         signal.WeatherError,
				Planner: &signal.Reading{
					Signal: signal.PlannerSignal{
						TotalTasks:     10,
						CompletedTasks: 1,
						OverdueTasks:   6,
						DueNext24h:     8,
					},
					Weight: 1.0,
				},
				Readiness: evidence.Readiness{
					Coverage: 0.1,
					MissingTypes: []string{
						evidence.TypeFlightItinerary,
						evidence.TypeBoardingPass,
						evidence.TypeEventTicket,
						evidence.TypeMeetingConfirmation,
					},
				},
			},
			wantBoundary:    47,
			wantCapacity:    26.8,
			wantUncertainty: 67,
			wantIndex:       46.9333,
			wantStability:   StabilityStrained,
			wantAction:      InterventionPause,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Score(tt.in, scoreNow)
			approx(t, "boundary", snap.BoundaryScore, tt.wantBoundary)
			approx(t, "capacity", snap.CapacityScore, tt.wantCapacity)
			approx(t, "uncertainty", snap.UncertaintyScore, tt.wantUncertainty)
			approx(t, "index", snap.OverallIndex, tt.wantIndex)
			if snap.Stability != tt.wantStability {
				t.Errorf("stability = %s, want %s", snap.Stability, tt.wantStability)
			}
			if snap.Intervention != tt.wantAction {
				t.Errorf("intervention = %s, want %s", snap.Intervention, tt.wantAction)
			}
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	in := Inputs{
		Regime:          plan.RegimeHard,
		Boundary:        scoreNow.Add(6 * time.Hour),
		ActiveCouplings: 1,
		Geo:             signal.GeoLockedStationary,
		Weather:         signal.WeatherLoading,
		Readiness:       evidence.Readiness{Coverage: 0.5},
	}
	a := Score(in, scoreNow)
	b := Score(in, scoreNow)
	if a != b {
		t.Errorf("identical inputs produced different snapshots:\n%+v\n%+v", a, b)
	}
}

func TestScoreClampsExtremes(t *testing.T) {
	// Pile on every penalty at once; nothing may leave [5, 95].
	in := Inputs{
		Regime:   plan.RegimeHard,
		Mode:     plan.ModeManual,
		Boundary: scoreNow.Add(30 * time.Minute),
		Geo:      signal.GeoError,
		Weather:  signal.WeatherReady, WeatherRisk: signal.RiskHigh,
		Planner: &signal.Reading{
			Signal: signal.PlannerSignal{TotalTasks: 50, OverdueTasks: 40, DueNext24h: 30},
			Weight: 1.0,
		},
		Readiness: evidence.Readiness{
			Coverage: 0,
			MissingTypes: []string{
				evidence.TypeFlightItinerary,
				evidence.TypeBoardingPass,
				evidence.TypeEventTicket,
				evidence.TypeMeetingConfirmation,
			},
		},
	}
	snap := Score(in, scoreNow)
	for name, v := range map[string]float64{
		"boundary":    snap.BoundaryScore,
		"capacity":    snap.CapacityScore,
		"uncertainty": snap.UncertaintyScore,
		"index":       snap.OverallIndex,
	} {
		if v < ScoreFloor || v > ScoreCeiling {
			t.Errorf("%s = %.2f outside [%.0f, %.0f]", name, v, ScoreFloor, ScoreCeiling)
		}
	}
	if snap.Intervention != InterventionPlanB {
		t.Errorf("intervention = %s, want %s for a hard regime at the bottom", snap.Intervention, InterventionPlanB)
	}
}

func TestTimePressureBuckets(t *testing.T) {
	base := Inputs{
		Regime:    plan.RegimeHard,
		Readiness: evidence.Readiness{Coverage: 1.0},
	}
	tests := []struct {
		name    string
		lead    time.Duration
		penalty float64
	}{
		{"under four hours", 3 * time.Hour, 34},
		{"under twelve hours", 10 * time.Hour, 20},
		{"under a day", 20 * time.Hour, 9},
		{"beyond a day", 48 * time.Hour, 0},
	}

	unpressured := base
	reference := Score(unpressured, scoreNow).BoundaryScore

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			in.Boundary = scoreNow.Add(tt.lead)
			got := Score(in, scoreNow).BoundaryScore
			approx(t, "boundary penalty", reference-got, tt.penalty)
		})
	}
}

func TestRemainingMargin(t *testing.T) {
	tests := []struct {
		name     string
		boundary time.Time
		want     string
	}{
		{"unset", time.Time{}, "no boundary set"},
		{"ahead", scoreNow.Add(38*time.Hour + 52*time.Minute), "38h52m to boundary"},
		{"minutes only", scoreNow.Add(45 * time.Minute), "45m to boundary"},
		{"passed", scoreNow.Add(-(2*time.Hour + 13*time.Minute)), "boundary passed 2h13m ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := remainingMargin(tt.boundary, scoreNow); got != tt.want {
				t.Errorf("remainingMargin() = %q, want %q", got, tt.want)
			}
		})
	}
}
