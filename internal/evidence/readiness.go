package evidence

import (
	"github.com/GuardianAI1/triaia/internal/plan"
)

// Readiness label thresholds.
const (
	labelLinkedThreshold  = 0.99
	labelPartialThreshold = 0.5

	// baselineCoverage applies when no type is required but some document
	// exists.
	baselineCoverage = 0.75
)

// Readiness is the derived evidence view for a plan. It is recomputed
// whenever the plan text, regime, or documents change and never persisted
// independently.
type Readiness struct {
	ExpectedTypes []string
	MissingTypes  []string
	Coverage      float64
	Label         string
}

// MissingBoundaryRelevant counts missing required types that directly back
// the boundary (itinerary, ticket, confirmation).
func (r Readiness) MissingBoundaryRelevant() int {
	n := 0
	for _, t := range r.MissingTypes {
		if BoundaryRelevantTypes[t] {
			n++
		}
	}
	return n
}

// Derive computes readiness from the linked documents and the current
// suggestions. Coverage is the fraction of required types with at least one
// linked document of that type.
func Derive(documents []plan.Document, suggestions []Suggestion) Readiness {
	linkedByType := make(map[string]bool)
	anyLinked := false
	for _, d := range documents {
		if d.Linked() {
			linkedByType[d.Type] = true
			anyLinked = true
		}
	}

	var r Readiness
	requiredCount := 0
	linkedRequired := 0
	for _, s := range suggestions {
		r.ExpectedTypes = append(r.ExpectedTypes, s.Type)
		if !s.Required {
			continue
		}
		requiredCount++
		if linkedByType[s.Type] {
			linkedRequired++
		} else {
			r.MissingTypes = append(r.MissingTypes, s.Type)
		}
	}

	if requiredCount > 0 {
		r.Coverage = clamp01(float64(linkedRequired) / float64(requiredCount))
		switch {
		case r.Coverage >= labelLinkedThreshold:
			r.Label = "linked"
		case r.Coverage >= labelPartialThreshold:
			r.Label = "partial"
		default:
			r.Label = "thin"
		}
		return r
	}

	if anyLinked {
		r.Coverage = baselineCoverage
		r.Label = "baseline"
	} else {
		r.Coverage = 0
		r.Label = "none detected"
	}
	return r
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
