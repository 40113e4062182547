// Package signal defines the coupling-signal layer: a common adapter
// capability interface, normalized telemetry values, and the decay policy
// that keeps a momentarily-failing feed contributing at reduced weight
// instead of dropping out of the score.
package signal

import (
	"context"
	"fmt"
	"time"
)

// Kind identifies a coupling signal source.
type Kind string

const (
	KindGeospatial Kind = "geospatial"
	KindWeather    Kind = "weather"
	KindPlanner    Kind = "planner"
)

// PlannerStatus is the lifecycle state of the planner coupling.
type PlannerStatus string

const (
	PlannerInactive PlannerStatus = "inactive"
	PlannerLoading  PlannerStatus = "loading"
	PlannerReady    PlannerStatus = "ready"
	PlannerError    PlannerStatus = "error"
)

// GeoStatus is the reported state of the geospatial coupling. The transport
// itself (browser/device push) is an external collaborator; only the status
// vocabulary is modeled here.
type GeoStatus string

const (
	GeoDisabled          GeoStatus = "disabled"
	GeoPermissionPending GeoStatus = "permission_pending"
	GeoLockedMoving      GeoStatus = "locked_moving"
	GeoLockedStationary  GeoStatus = "locked_stationary"
	GeoDenied            GeoStatus = "denied"
	GeoError             GeoStatus = "error"
	GeoUnsupported       GeoStatus = "unsupported"
)

// WeatherStatus is the reported state of the weather coupling.
type WeatherStatus string

const (
	WeatherDisabled WeatherStatus = "disabled"
	WeatherLoading  WeatherStatus = "loading"
	WeatherReady    WeatherStatus = "ready"
	WeatherError    WeatherStatus = "error"
)

// WeatherRisk is the severity bucket of a ready weather reading.
type WeatherRisk string

const (
	RiskLow      WeatherRisk = "low"
	RiskModerate WeatherRisk = "moderate"
	RiskHigh     WeatherRisk = "high"
)

// PlannerSignal is the normalized telemetry value produced by a planner
// adapter from a task source scoped to [windowStart, windowEnd]. It is a
// value, replaced wholesale on each successful fetch.
type PlannerSignal struct {
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	OverdueTasks   int       `json:"overdue_tasks"`
	DueNext24h     int       `json:"due_next_24h"`
	LastUpdatedAt  time.Time `json:"last_updated_at"`
}

// Adapter is the capability interface all planner signal providers implement.
// Fetch aggregates tasks whose due timestamp falls inside the window and must
// be cancellable via ctx; it never blocks past the caller's deadline.
type Adapter interface {
	// Name returns the provider identifier (e.g. "todoist", "icalfeed").
	Name() string

	// Fetch retrieves and aggregates the provider's tasks for the window.
	Fetch(ctx context.Context, windowStart, windowEnd time.Time) (*PlannerSignal, error)

	// Validate checks if the adapter configuration is usable.
	Validate() error
}

// AdapterError is a transport, auth, or parse failure inside an adapter.
// It is never fatal: the caller resolves it through the decay-to-last-known
// policy and the signal keeps contributing at reduced weight.
type AdapterError struct {
	Provider string
	Op       string
	Err      error
}

func (e *AdapterError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("signal adapter %s: %s failed", e.Provider, e.Op)
	}
	return fmt.Sprintf("signal adapter %s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *AdapterError) Unwrap() error { return e.Err }
