// Package todoist implements the planner signal adapter for a Todoist-style
// REST task API authenticated with a bearer token.
package todoist

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GuardianAI1/triaia/internal/signal"
)

const (
	// DefaultBaseURL is the default REST endpoint.
	DefaultBaseURL = "https://api.todoist.com/rest/v2"

	// maxBodyBytes caps the response body read.
	maxBodyBytes = 8 << 20
)

// task mirrors the provider's task object. Either due date shape may be
// present; datetime is preferred over date-only.
type task struct {
	Content     string `json:"content"`
	IsCompleted bool   `json:"is_completed"`
	Completed   bool   `json:"completed"` // legacy field name on older API versions
	Due         *struct {
		Date     string `json:"date"`
		Datetime string `json:"datetime"`
	} `json:"due"`
}

// Adapter fetches the task list and aggregates tasks due in the window.
type Adapter struct {
	baseURL string
	tokens  TokenSource
	client  *http.Client
	now     func() time.Time
}

// New creates a Todoist adapter with the given token source.
func New(tokens TokenSource) *Adapter {
	return &Adapter{
		baseURL: DefaultBaseURL,
		tokens:  tokens,
		client:  &http.Client{},
		now:     time.Now,
	}
}

// SetBaseURL overrides the REST endpoint (used in tests and for self-hosted
// compatible APIs).
func (a *Adapter) SetBaseURL(url string) {
	if url != "" {
		a.baseURL = url
	}
}

// Name returns the provider identifier
func (a *Adapter) Name() string {
	return "todoist"
}

// Validate checks if the adapter configuration is usable
func (a *Adapter) Validate() error {
	if a.tokens == nil {
		return fmt.Errorf("todoist: token source is required")
	}
	return nil
}

// Fetch retrieves the task list and aggregates tasks whose due timestamp
// lies in [windowStart, windowEnd]. Non-2xx responses fail with an
// AdapterError; the caller's decay policy absorbs the failure.
func (a *Adapter) Fetch(ctx context.Context, windowStart, windowEnd time.Time) (*signal.PlannerSignal, error) {
	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, &signal.AdapterError{Provider: a.Name(), Op: "resolve token", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/tasks", nil)
	if err != nil {
		return nil, &signal.AdapterError{Provider: a.Name(), Op: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &signal.AdapterError{Provider: a.Name(), Op: "fetch tasks", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &signal.AdapterError{
			Provider: a.Name(),
			Op:       "fetch tasks",
			Err:      fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &signal.AdapterError{Provider: a.Name(), Op: "read response", Err: err}
	}

	var tasks []task
	if err := json.Unmarshal(body, &tasks); err != nil {
		return nil, &signal.AdapterError{Provider: a.Name(), Op: "decode response", Err: err}
	}

	sig := aggregate(tasks, windowStart, windowEnd, a.now())
	return &sig, nil
}

// aggregate counts tasks due in the window relative to now.
func aggregate(tasks []task, windowStart, windowEnd, now time.Time) signal.PlannerSignal {
	sig := signal.PlannerSignal{LastUpdatedAt: now}
	soonCutoff := now.Add(24 * time.Hour)

	for _, tk := range tasks {
		due, ok := dueTime(tk)
		if !ok || due.Before(windowStart) || due.After(windowEnd) {
			continue
		}
		sig.TotalTasks++
		done := tk.IsCompleted || tk.Completed
		switch {
		case done:
			sig.CompletedTasks++
		case due.Before(now):
			sig.OverdueTasks++
		case due.Before(soonCutoff):
			sig.DueNext24h++
		}
	}
	return sig
}

// dueTime resolves the task's due timestamp, preferring datetime over the
// date-only field.
func dueTime(tk task) (time.Time, bool) {
	if tk.Due == nil {
		return time.Time{}, false
	}
	if tk.Due.Datetime != "" {
		if ts, err := time.Parse(time.RFC3339, tk.Due.Datetime); err == nil {
			return ts, true
		}
		// Some responses omit the zone suffix.
		if ts, err := time.Parse("2006-01-02T15:04:05", tk.Due.Datetime); err == nil {
			return ts, true
		}
	}
	if tk.Due.Date != "" {
		if ts, err := time.Parse("2006-01-02", tk.Due.Date); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

func init() {
	signal.Register("todoist", func() signal.Adapter {
		return New(nil)
	})
}
