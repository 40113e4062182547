package gcp

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestFallbackLoggerWritesStructuredJSON(t *testing.T) {
	var buf bytes.Buffer
	fl := NewFallbackLogger(&buf, "plan-1")
	fl.SetCheckID("check-9")

	fl.Log(SeverityWarning, "planner signal degraded", map[string]interface{}{
		"provider": "todoist",
		"weight":   0.8,
	})

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}

	if entry.Severity != SeverityWarning {
		t.Errorf("severity = %q, want %q", entry.Severity, SeverityWarning)
	}
	if entry.Message != "planner signal degraded" {
		t.Errorf("message = %q", entry.Message)
	}
	if entry.PlanID != "plan-1" {
		t.Errorf("plan_id = %q, want plan-1", entry.PlanID)
	}
	if entry.CheckID != "check-9" {
		t.Errorf("check_id = %q, want check-9", entry.CheckID)
	}
	if entry.Labels["component"] != "triaia-monitor" {
		t.Errorf("component label = %q", entry.Labels["component"])
	}
	if entry.Fields["provider"] != "todoist" {
		t.Errorf("fields.provider = %v", entry.Fields["provider"])
	}
}

func TestFallbackLoggerSeverityHelpers(t *testing.T) {
	var buf bytes.Buffer
	fl := NewFallbackLogger(&buf, "plan-1")

	fl.LogInfo("a")
	fl.LogWarning("b")
	fl.LogError("c")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("wrote %d lines, want 3", len(lines))
	}

	want := []Severity{SeverityInfo, SeverityWarning, SeverityError}
	for i, line := range lines {
		var entry LogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d invalid: %v", i, err)
		}
		if entry.Severity != want[i] {
			t.Errorf("line %d severity = %q, want %q", i, entry.Severity, want[i])
		}
	}
}

func TestSanitizeForLog(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bearer token", "Bearer abc123secret", "Bearer [REDACTED]"},
		{"token assignment", "request failed: token=abc123", "request failed: token=[REDACTED]"},
		{"api key assignment", "url?api_key=zzz", "url?api_key=[REDACTED]"},
		{"secret reference passes", "secret://todoist-token", "secret://todoist-token"},
		{"plain text passes", "check complete, index 74.3", "check complete, index 74.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeForLog(tt.input); got != tt.want {
				t.Errorf("SanitizeForLog(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSeverityMapping(t *testing.T) {
	// Unknown severities must not panic and fall back to default.
	if got := severityFor(Severity("bogus")); got != severityFor(SeverityDefault) {
		t.Errorf("unknown severity mapped to %v", got)
	}
}
