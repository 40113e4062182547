// Package unsupported implements the always-failing adapter used for
// providers that are advertised but not yet implemented. Coupling to such a
// provider surfaces a visible degraded status instead of silently lying
// about the signal's state.
package unsupported

import (
	"context"
	"fmt"
	"time"

	"github.com/GuardianAI1/triaia/internal/signal"
)

// Adapter fails every fetch with an AdapterError naming the provider.
type Adapter struct {
	provider string
}

// New creates a stub adapter for the named provider.
func New(provider string) *Adapter {
	return &Adapter{provider: provider}
}

// Name returns the provider identifier
func (a *Adapter) Name() string {
	return a.provider
}

// Validate always succeeds; an unsupported coupling is a legal configuration,
// it just never produces a reading.
func (a *Adapter) Validate() error {
	return nil
}

// Fetch always fails. The caller's decay policy turns this into a synthetic
// zero reading at floor weight.
func (a *Adapter) Fetch(ctx context.Context, windowStart, windowEnd time.Time) (*signal.PlannerSignal, error) {
	return nil, &signal.AdapterError{
		Provider: a.provider,
		Op:       "fetch",
		Err:      fmt.Errorf("provider %s is not supported yet", a.provider),
	}
}
