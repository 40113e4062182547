package signal

import (
	"context"
	"log"
	"time"
)

const (
	// DefaultFetchTimeout bounds a single adapter fetch. After the timeout
	// the failure/decay path applies instead of hanging a check.
	DefaultFetchTimeout = 12 * time.Second

	// DefaultPlannerInterval is how often the planner coupling polls.
	DefaultPlannerInterval = 5 * time.Minute
)

// WindowFunc derives the task window for a fetch from the current time.
type WindowFunc func(now time.Time) (start, end time.Time)

// BoundaryWindow returns a WindowFunc spanning [now, boundary]. When the
// boundary has passed it still yields a non-inverted window ending at now.
func BoundaryWindow(boundary time.Time) WindowFunc {
	return func(now time.Time) (time.Time, time.Time) {
		if boundary.Before(now) {
			return now, now
		}
		return now, boundary
	}
}

// Poller drives one adapter on its own interval, publishing into a Cell.
// Each poll is an independent task with its own timeout so one slow signal
// never blocks another signal's pipeline.
type Poller struct {
	adapter  Adapter
	cell     *Cell
	window   WindowFunc
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
}

// NewPoller creates a poller for the adapter feeding the given cell.
func NewPoller(adapter Adapter, cell *Cell, window WindowFunc, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPlannerInterval
	}
	return &Poller{
		adapter:  adapter,
		cell:     cell,
		window:   window,
		interval: interval,
		timeout:  DefaultFetchTimeout,
		now:      time.Now,
	}
}

// SetTimeout overrides the per-fetch timeout.
func (p *Poller) SetTimeout(d time.Duration) {
	if d > 0 {
		p.timeout = d
	}
}

// Run polls until ctx is cancelled. The first fetch happens immediately so a
// fresh monitor has a reading before its first check.
func (p *Poller) Run(ctx context.Context) {
	p.pollOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

// PollOnce performs a single fetch/publish cycle. Exposed for one-shot
// check commands that do not run the background loop.
func (p *Poller) PollOnce(ctx context.Context) Reading {
	return p.pollOnce(ctx)
}

func (p *Poller) pollOnce(ctx context.Context) Reading {
	now := p.now()
	start, end := p.window(now)

	fetchCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	sig, err := p.adapter.Fetch(fetchCtx, start, end)
	if err != nil {
		// Cancellation of a pending fetch must not corrupt the last
		// known good reading; RecordFailure only decays the weight.
		r := p.cell.RecordFailure(err, now)
		log.Printf("signal %s: fetch failed, weight decayed to %.3f: %v", p.adapter.Name(), r.Weight, err)
		return r
	}
	return p.cell.RecordSuccess(*sig, now)
}
