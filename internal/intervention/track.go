// Package intervention turns a sequence of scoring snapshots into escalation
// decisions. A single bad check never escalates; only a persisting violation
// does, and each violation run escalates at most once.
package intervention

import (
	"time"

	"github.com/GuardianAI1/triaia/internal/plan"
	"github.com/GuardianAI1/triaia/internal/scoring"
)

// EscalationThreshold is the number of consecutive non-CONTINUE checks
// required before an escalation fires.
const EscalationThreshold = 2

// Decision is the outcome of applying one snapshot to the track.
type Decision struct {
	Action   scoring.Intervention
	Streak   int
	Escalate bool
	Remedies []Remedy
}

// Track accumulates consecutive violations for one activated plan. It is not
// safe for concurrent use; the monitor's evaluation loop is its single owner.
type Track struct {
	violationStreak int
	escalated       bool
	lastEscalatedAt time.Time
	catalog         *Catalog
}

// NewTrack returns a fresh track using the built-in remedy catalog.
func NewTrack() *Track {
	return &Track{catalog: DefaultCatalog()}
}

// Apply folds one snapshot into the track. A CONTINUE snapshot ends the
// current violation run and re-arms escalation; anything else extends the
// streak. Escalate is true on exactly the check where the streak reaches the
// threshold.
func (t *Track) Apply(snap scoring.Snapshot, regime plan.Regime, mode plan.StructuralMode, at time.Time) Decision {
	d := Decision{Action: snap.Intervention}

	if snap.Intervention == scoring.InterventionContinue {
		t.violationStreak = 0
		t.escalated = false
		d.Streak = 0
		return d
	}

	t.violationStreak++
	d.Streak = t.violationStreak
	d.Remedies = t.catalog.RemediesFor(snap.Intervention, regime, mode)

	if t.violationStreak >= EscalationThreshold && !t.escalated {
		t.escalated = true
		t.lastEscalatedAt = at
		d.Escalate = true
	}
	return d
}

// Acknowledge records that an operator has seen the escalation. The streak
// restarts so a violation that keeps persisting can escalate again later.
func (t *Track) Acknowledge() {
	t.violationStreak = 0
	t.escalated = false
}

// Streak returns the current consecutive-violation count.
func (t *Track) Streak() int { return t.violationStreak }

// LastEscalatedAt returns when the most recent escalation fired, zero if
// none has.
func (t *Track) LastEscalatedAt() time.Time { return t.lastEscalatedAt }
