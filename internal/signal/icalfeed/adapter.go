// Package icalfeed implements the planner signal adapter for a plain-text
// calendar export. Only DTSTART and STATUS lines per record are consulted.
package icalfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/GuardianAI1/triaia/internal/signal"
)

const (
	recordBegin = "BEGIN:VEVENT"
	recordEnd   = "END:VEVENT"

	// maxFeedBytes caps the response body read; calendar exports past this
	// size are almost certainly not a personal planner feed.
	maxFeedBytes = 4 << 20
)

// Accepted DTSTART token layouts: UTC with seconds, local with seconds,
// date-only.
var dateLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
}

// Adapter fetches a calendar export over HTTP and aggregates events in the
// requested window into a PlannerSignal.
type Adapter struct {
	url    string
	client *http.Client
	now    func() time.Time
}

// New creates a calendar feed adapter for the given export URL.
func New(url string) *Adapter {
	return &Adapter{
		url:    url,
		client: &http.Client{},
		now:    time.Now,
	}
}

// Name returns the provider identifier
func (a *Adapter) Name() string {
	return "icalfeed"
}

// Validate checks if the adapter configuration is usable
func (a *Adapter) Validate() error {
	if a.url == "" {
		return fmt.Errorf("icalfeed: feed URL is required")
	}
	return nil
}

// Fetch retrieves the export and aggregates events whose start timestamp
// falls in [windowStart, windowEnd]. Unparsable records are skipped rather
// than failing the whole fetch.
func (a *Adapter) Fetch(ctx context.Context, windowStart, windowEnd time.Time) (*signal.PlannerSignal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, nil)
	if err != nil {
		return nil, &signal.AdapterError{Provider: a.Name(), Op: "build request", Err: err}
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &signal.AdapterError{Provider: a.Name(), Op: "fetch feed", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &signal.AdapterError{
			Provider: a.Name(),
			Op:       "fetch feed",
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, &signal.AdapterError{Provider: a.Name(), Op: "read feed", Err: err}
	}

	sig := Aggregate(string(body), windowStart, windowEnd, a.now())
	return &sig, nil
}

// event is one parsed calendar record.
type event struct {
	start     time.Time
	completed bool
}

// Aggregate parses the export text and counts events in the window relative
// to now. Exposed for direct testing against fixture feeds.
func Aggregate(feed string, windowStart, windowEnd, now time.Time) signal.PlannerSignal {
	sig := signal.PlannerSignal{LastUpdatedAt: now}
	soonCutoff := now.Add(24 * time.Hour)

	for _, ev := range parseEvents(feed) {
		if ev.start.Before(windowStart) || ev.start.After(windowEnd) {
			continue
		}
		sig.TotalTasks++
		switch {
		case ev.completed:
			sig.CompletedTasks++
		case ev.start.Before(now):
			sig.OverdueTasks++
		case ev.start.Before(soonCutoff):
			sig.DueNext24h++
		}
	}
	return sig
}

// parseEvents splits the feed into per-event records, keeping only records
// with a parsable DTSTART.
func parseEvents(feed string) []event {
	var events []event
	var current *event

	for _, raw := range strings.Split(feed, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case line == recordBegin:
			current = &event{}
		case line == recordEnd:
			if current != nil && !current.start.IsZero() {
				events = append(events, *current)
			}
			current = nil
		case current == nil:
			// outside a record
		case strings.HasPrefix(line, "DTSTART"):
			// DTSTART may carry parameters (DTSTART;TZID=...:...); the
			// value is everything after the last colon.
			idx := strings.LastIndex(line, ":")
			if idx < 0 {
				continue
			}
			if ts, ok := parseDateToken(line[idx+1:]); ok {
				current.start = ts
			}
		case strings.HasPrefix(line, "STATUS:"):
			status := strings.TrimPrefix(line, "STATUS:")
			current.completed = status == "COMPLETED" || status == "CANCELLED"
		}
	}
	return events
}

// parseDateToken tries the three accepted token shapes.
func parseDateToken(token string) (time.Time, bool) {
	token = strings.TrimSpace(token)
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, token); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func init() {
	signal.Register("icalfeed", func() signal.Adapter {
		return New("")
	})
}
