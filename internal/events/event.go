// Package events records the monitor's observable history: plan activations,
// periodic stability checks, signal failures, and escalations, normalized
// into a single event type for logging and later analysis.
package events

import (
	"time"
)

// EventType identifies the category of a monitor event.
type EventType string

const (
	// EventActivation is a plan entering the active state.
	EventActivation EventType = "activation"
	// EventCheck is one completed stability evaluation.
	EventCheck EventType = "check"
	// EventSignalError is a coupling adapter failure resolved by decay.
	EventSignalError EventType = "signal_error"
	// EventEscalation is a persistence-gated escalation firing.
	EventEscalation EventType = "escalation"
	// EventAcknowledge is an operator acknowledging an escalation.
	EventAcknowledge EventType = "acknowledge"
)

// MonitorEvent is a single entry in the monitor's event stream.
type MonitorEvent struct {
	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// PlanID identifies the activated plan the event belongs to.
	PlanID string `json:"plan_id"`

	// CheckID identifies the evaluation that produced the event, when one did.
	CheckID string `json:"check_id,omitempty"`

	// Type categorizes the event.
	Type EventType `json:"type"`

	// Summary is a short human-readable description.
	Summary string `json:"summary,omitempty"`

	// Stability and Intervention carry the check outcome (check and
	// escalation events).
	Stability    string `json:"stability,omitempty"`
	Intervention string `json:"intervention,omitempty"`

	// OverallIndex is the aggregate score at event time.
	OverallIndex float64 `json:"overall_index,omitempty"`

	// Streak is the consecutive-violation count at event time.
	Streak int `json:"streak,omitempty"`

	// Provider names the failing adapter (signal_error events).
	Provider string `json:"provider,omitempty"`

	// Detail is the full event content, e.g. an adapter error message.
	Detail string `json:"detail,omitempty"`
}

// ValidEventTypes returns all valid event type values.
func ValidEventTypes() []EventType {
	return []EventType{
		EventActivation,
		EventCheck,
		EventSignalError,
		EventEscalation,
		EventAcknowledge,
	}
}

// IsValidEventType checks if the given string is a valid event type.
func IsValidEventType(s string) bool {
	for _, t := range ValidEventTypes() {
		if string(t) == s {
			return true
		}
	}
	return false
}
