package intervention

import (
	"testing"
	"time"

	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/scoring"
)

var trackNow = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func snapWith(action scoring.Intervention) scoring.Snapshot {
	return scoring.Snapshot{Intervention: action, GeneratedAt: trackNow}
}

func TestEscalatesOnSecondConsecutiveViolation(t *testing.T) {
	tr := NewTrack()

	sequence := []scoring.Intervention{
		scoring.InterventionContinue,
		scoring.InterventionDeviate,
		scoring.InterventionDeviate,
		scoring.InterventionDeviate,
	}
	wantEscalate := []bool{false, false, true, false}
	wantStreak := []int{0, 1, 2, 3}

	for i, action := range sequence {
		at := trackNow.Add(time.Duration(i) * time.Minute)
		d := tr.Apply(snapWith(action), plan.RegimeHard, plan.ModeAutomatic, at)
		if d.Escalate != wantEscalate[i] {
			t.Errorf("check %d: escalate = %v, want %v", i, d.Escalate, wantEscalate[i])
		}
		if d.Streak != wantStreak[i] {
			t.Errorf("check %d: streak = %d, want %d", i, d.Streak, wantStreak[i])
		}
	}

	want := trackNow.Add(2 * time.Minute)
	if !tr.LastEscalatedAt().Equal(want) {
		t.Errorf("LastEscalatedAt = %v, want %v", tr.LastEscalatedAt(), want)
	}
}

func TestContinueResetsAndReArms(t *testing.T) {
	tr := NewTrack()

	// First violation run escalates.
	tr.Apply(snapWith(scoring.InterventionPause), plan.RegimeSoft, plan.ModeAutomatic, trackNow)
	d := tr.Apply(snapWith(scoring.InterventionPause), plan.RegimeSoft, plan.ModeAutomatic, trackNow)
	if !d.Escalate {
		t.Fatal("expected escalation at threshold")
	}

	// Recovery ends the run.
	d = tr.Apply(snapWith(scoring.InterventionContinue), plan.RegimeSoft, plan.ModeAutomatic, trackNow)
	if d.Streak != 0 || d.Escalate {
		t.Errorf("after recovery: streak = %d, escalate = %v", d.Streak, d.Escalate)
	}

	// A second run escalates again.
	tr.Apply(snapWith(scoring.InterventionPause), plan.RegimeSoft, plan.ModeAutomatic, trackNow)
	d = tr.Apply(snapWith(scoring.InterventionPause), plan.RegimeSoft, plan.ModeAutomatic, trackNow)
	if !d.Escalate {
		t.Error("expected re-armed escalation after recovery")
	}
}

func TestSingleViolationNeverEscalates(t *testing.T) {
	tr := NewTrack()
	d := tr.Apply(snapWith(scoring.InterventionPlanB), plan.RegimeHard, plan.ModeAutomatic, trackNow)
	if d.Escalate {
		t.Error("one violation escalated; persistence gate should require two")
	}
	if d.Streak != 1 {
		t.Errorf("streak = %d, want 1", d.Streak)
	}
}

func TestAcknowledgeAllowsReEscalation(t *testing.T) {
	tr := NewTrack()

	tr.Apply(snapWith(scoring.InterventionDeviate), plan.RegimeResource, plan.ModeAutomatic, trackNow)
	tr.Apply(snapWith(scoring.InterventionDeviate), plan.RegimeResource, plan.ModeAutomatic, trackNow)

	// Without acknowledgement the persisting violation stays quiet.
	d := tr.Apply(snapWith(scoring.InterventionDeviate), plan.RegimeResource, plan.ModeAutomatic, trackNow)
	if d.Escalate {
		t.Fatal("escalated twice within one violation run")
	}

	tr.Acknowledge()
	if tr.Streak() != 0 {
		t.Errorf("streak after acknowledge = %d, want 0", tr.Streak())
	}

	tr.Apply(snapWith(scoring.InterventionDeviate), plan.RegimeResource, plan.ModeAutomatic, trackNow)
	d = tr.Apply(snapWith(scoring.InterventionDeviate), plan.RegimeResource, plan.ModeAutomatic, trackNow)
	if !d.Escalate {
		t.Error("expected escalation after acknowledged violation persisted")
	}
}

func TestViolationDecisionCarriesRemedies(t *testing.T) {
	tr := NewTrack()
	d := tr.Apply(snapWith(scoring.InterventionDeviate), plan.RegimeHard, plan.ModeAutomatic, trackNow)
	if len(d.Remedies) == 0 {
		t.Error("violation decision has no remedies")
	}

	d = tr.Apply(snapWith(scoring.InterventionContinue), plan.RegimeHard, plan.ModeAutomatic, trackNow)
	if len(d.Remedies) != 0 {
		t.Errorf("CONTINUE decision carries %d remedies, want none", len(d.Remedies))
	}
}
