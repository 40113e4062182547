// Package plan defines the contract model: a time/resource/objective-bound
// commitment with an optional set of coupled external signals and linked
// supporting documents.
package plan

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Regime is the governing constraint type of a plan.
type Regime string

const (
	// RegimeHard is a fixed, irreversible deadline.
	RegimeHard Regime = "hard"
	// RegimeSoft is a quality/objective-bound commitment.
	RegimeSoft Regime = "soft"
	// RegimeResource is a budget/supply-bound commitment.
	RegimeResource Regime = "resource"
)

// ParseRegime converts a string into a Regime.
func ParseRegime(s string) (Regime, error) {
	switch Regime(s) {
	case RegimeHard, RegimeSoft, RegimeResource:
		return Regime(s), nil
	}
	return "", fmt.Errorf("invalid regime: %q (must be hard, soft, or resource)", s)
}

// StructuralMode controls how escalation is presented to the user.
// Automatic lets the monitor escalate without confirmation; manual requires
// an explicit choice among regime-specific remedies. It does not change
// scoring.
type StructuralMode string

const (
	ModeAutomatic StructuralMode = "automatic"
	ModeManual    StructuralMode = "manual"
)

// ParseMode converts a string into a StructuralMode.
func ParseMode(s string) (StructuralMode, error) {
	switch StructuralMode(s) {
	case ModeAutomatic, ModeManual:
		return StructuralMode(s), nil
	}
	return "", fmt.Errorf("invalid structural mode: %q (must be automatic or manual)", s)
}

// Document is a supporting-evidence record linked to a plan.
type Document struct {
	Type          string `yaml:"type"`
	Title         string `yaml:"title"`
	SourceLink    string `yaml:"source_link"`
	ReferenceCode string `yaml:"reference_code"`
	Notes         string `yaml:"notes"`
}

// Linked reports whether the document carries any actual content.
// An evidence slot with only a type is a placeholder, not linked evidence.
func (d Document) Linked() bool {
	return d.Title != "" || d.SourceLink != "" || d.ReferenceCode != "" || d.Notes != ""
}

// Plan is a single monitored contract. The Regime is immutable once the plan
// is activated; re-selecting a regime starts a new plan with a new ID.
type Plan struct {
	ID          string
	Title       string
	Regime      Regime
	Mode        StructuralMode
	Boundary    time.Time
	ContextText string
	Steps       []string
	Documents   []Document

	Activated   bool
	ActivatedAt time.Time
}

// New creates an inactive plan with a fresh ID.
func New(title string, regime Regime, mode StructuralMode) Plan {
	return Plan{
		ID:     uuid.New().String(),
		Title:  title,
		Regime: regime,
		Mode:   mode,
	}
}

// ValidationError reports an incomplete plan configuration. It blocks only
// the action that required the missing field, never signal processing.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("plan validation: %s: %s", e.Field, e.Message)
}

// Validate checks structural fields common to all plans.
func (p Plan) Validate() error {
	if p.Title == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if _, err := ParseRegime(string(p.Regime)); err != nil {
		return &ValidationError{Field: "regime", Message: err.Error()}
	}
	if _, err := ParseMode(string(p.Mode)); err != nil {
		return &ValidationError{Field: "mode", Message: err.Error()}
	}
	return nil
}

// Activate returns an activated copy of the plan, validating fields that are
// required before monitoring may start. A hard or resource regime requires a
// concrete boundary timestamp.
func (p Plan) Activate(now time.Time) (Plan, error) {
	if err := p.Validate(); err != nil {
		return p, err
	}
	if p.Boundary.IsZero() && p.Regime != RegimeSoft {
		return p, &ValidationError{Field: "boundary", Message: "boundary timestamp is required for " + string(p.Regime) + " regime"}
	}
	if p.Activated {
		return p, &ValidationError{Field: "activated", Message: "plan is already activated; changing regime requires a new plan"}
	}
	activated := p
	activated.Activated = true
	activated.ActivatedAt = now
	return activated, nil
}

// MinutesToBoundary returns the whole minutes remaining until the boundary.
// Negative values mean the boundary has passed.
func (p Plan) MinutesToBoundary(now time.Time) float64 {
	return p.Boundary.Sub(now).Minutes()
}
