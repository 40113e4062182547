package signal

import (
	"sync"
	"time"
)

// Weight decay constants. A transient outage degrades a signal's influence
// smoothly instead of causing a step change in score.
const (
	// WeightFull is the weight after a successful fetch.
	WeightFull = 1.0
	// WeightDecayFactor multiplies the weight on each consecutive failure.
	WeightDecayFactor = 0.8
	// WeightFloor is the minimum weight; a reading that never succeeded
	// still contributes at this weight rather than being silently ignored.
	WeightFloor = 0.2
)

// Reading is a published signal value plus its current influence weight.
// Readings are replaced wholesale, never mutated in place, so concurrent
// readers always see a fully-constructed value.
type Reading struct {
	Signal    PlannerSignal
	Weight    float64
	Synthetic bool // true when no fetch ever succeeded and the zero reading was synthesized
	FetchedAt time.Time
	LastError string
}

// Cell is the latest-reading holder for one coupling signal. A single poller
// goroutine writes; any number of check operations may read concurrently.
type Cell struct {
	mu      sync.RWMutex
	reading *Reading
}

// NewCell returns an empty cell with no published reading.
func NewCell() *Cell {
	return &Cell{}
}

// RecordSuccess replaces the reading and resets the weight to full.
func (c *Cell) RecordSuccess(sig PlannerSignal, at time.Time) Reading {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := Reading{
		Signal:    sig,
		Weight:    WeightFull,
		FetchedAt: at,
	}
	c.reading = &r
	return r
}

// RecordFailure applies the decay policy: if a previous successful reading
// exists, keep it and decay its weight; if nothing ever succeeded, synthesize
// an all-zero reading at the floor weight.
func (c *Cell) RecordFailure(err error, at time.Time) Reading {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg := ""
	if err != nil {
		msg = err.Error()
	}

	if c.reading == nil || c.reading.Synthetic {
		r := Reading{
			Signal:    PlannerSignal{LastUpdatedAt: at},
			Weight:    WeightFloor,
			Synthetic: true,
			FetchedAt: at,
			LastError: msg,
		}
		c.reading = &r
		return r
	}

	decayed := c.reading.Weight * WeightDecayFactor
	if decayed < WeightFloor {
		decayed = WeightFloor
	}
	r := Reading{
		Signal:    c.reading.Signal,
		Weight:    decayed,
		FetchedAt: c.reading.FetchedAt,
		LastError: msg,
	}
	c.reading = &r
	return r
}

// Latest returns the current reading, if any has been published.
func (c *Cell) Latest() (Reading, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.reading == nil {
		return Reading{}, false
	}
	return *c.reading, true
}
