// Package gcp holds the optional Google Cloud integrations: structured
// logging for check and escalation entries, and Secret Manager resolution of
// planner API tokens.
package gcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
)

// Severity levels for structured logs.
type Severity string

const (
	SeverityDefault  Severity = "DEFAULT"
	SeverityDebug    Severity = "DEBUG"
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityError    Severity = "ERROR"
	SeverityCritical Severity = "CRITICAL"
)

// LogEntry is the structured payload written for every log line.
type LogEntry struct {
	Severity  Severity               `json:"severity"`
	Message   string                 `json:"message"`
	Timestamp time.Time              `json:"timestamp"`
	PlanID    string                 `json:"plan_id"`
	CheckID   string                 `json:"check_id,omitempty"`
	Labels    map[string]string      `json:"labels,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// LoggerInterface defines the logging operations the monitor depends on.
type LoggerInterface interface {
	Log(severity Severity, message string, fields map[string]interface{})
	LogInfo(message string)
	LogWarning(message string)
	LogError(message string)
	SetCheckID(checkID string)
	Flush() error
	Close() error
}

const logName = "triaia-monitor"

// CloudLogger ships entries to Cloud Logging through the client library.
type CloudLogger struct {
	client  *logging.Client
	logger  *logging.Logger
	planID  string
	checkID string
	labels  map[string]string
	mu      sync.Mutex
	closed  bool
}

// NewCloudLogger creates a logger shipping to the given project. The caller
// owns the returned logger and must Close it to flush buffered entries.
func NewCloudLogger(ctx context.Context, projectID, planID string, opts ...option.ClientOption) (*CloudLogger, error) {
	client, err := logging.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud logging client: %w", err)
	}

	return &CloudLogger{
		client: client,
		logger: client.Logger(logName),
		planID: planID,
		labels: map[string]string{
			"plan_id":   planID,
			"component": "triaia-monitor",
		},
	}, nil
}

func severityFor(s Severity) logging.Severity {
	switch s {
	case SeverityDebug:
		return logging.Debug
	case SeverityInfo:
		return logging.Info
	case SeverityWarning:
		return logging.Warning
	case SeverityError:
		return logging.Error
	case SeverityCritical:
		return logging.Critical
	default:
		return logging.Default
	}
}

// Log ships one structured entry.
func (cl *CloudLogger) Log(severity Severity, message string, fields map[string]interface{}) {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.closed {
		return
	}

	payload := map[string]interface{}{
		"message": SanitizeForLog(message),
		"plan_id": cl.planID,
	}
	if cl.checkID != "" {
		payload["check_id"] = cl.checkID
	}
	for k, v := range fields {
		payload[k] = v
	}

	cl.logger.Log(logging.Entry{
		Timestamp: time.Now().UTC(),
		Severity:  severityFor(severity),
		Payload:   payload,
		Labels:    cl.labels,
	})
}

// LogInfo writes an INFO level log entry.
func (cl *CloudLogger) LogInfo(message string) {
	cl.Log(SeverityInfo, message, nil)
}

// LogWarning writes a WARNING level log entry.
func (cl *CloudLogger) LogWarning(message string) {
	cl.Log(SeverityWarning, message, nil)
}

// LogError writes an ERROR level log entry.
func (cl *CloudLogger) LogError(message string) {
	cl.Log(SeverityError, message, nil)
}

// SetCheckID tags subsequent entries with the current evaluation.
func (cl *CloudLogger) SetCheckID(checkID string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.checkID = checkID
}

// Flush blocks until buffered entries have been sent.
func (cl *CloudLogger) Flush() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.closed {
		return nil
	}
	return cl.logger.Flush()
}

// Close flushes remaining entries and releases the client.
func (cl *CloudLogger) Close() error {
	cl.mu.Lock()
	defer cl.mu.Unlock()

	if cl.closed {
		return nil
	}
	cl.closed = true
	return cl.client.Close()
}

// FallbackLogger writes Cloud-Logging-compatible JSON lines to a local
// writer. It is the default when no GCP project is configured.
type FallbackLogger struct {
	writer  io.Writer
	planID  string
	checkID string
	labels  map[string]string
	mu      sync.Mutex
}

// NewFallbackLogger creates a logger that writes structured JSON to the
// given writer.
func NewFallbackLogger(writer io.Writer, planID string) *FallbackLogger {
	return &FallbackLogger{
		writer: writer,
		planID: planID,
		labels: map[string]string{
			"plan_id":   planID,
			"component": "triaia-monitor",
		},
	}
}

// Log writes a structured log entry to the writer.
func (fl *FallbackLogger) Log(severity Severity, message string, fields map[string]interface{}) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	entry := LogEntry{
		Severity:  severity,
		Message:   SanitizeForLog(message),
		Timestamp: time.Now().UTC(),
		PlanID:    fl.planID,
		CheckID:   fl.checkID,
		Labels:    fl.labels,
		Fields:    fields,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		fmt.Fprintf(fl.writer, `{"severity":"ERROR","message":"failed to marshal log entry: %v"}`+"\n", err)
		return
	}
	fmt.Fprintf(fl.writer, "%s\n", data)
}

// LogInfo writes an INFO level log entry.
func (fl *FallbackLogger) LogInfo(message string) {
	fl.Log(SeverityInfo, message, nil)
}

// LogWarning writes a WARNING level log entry.
func (fl *FallbackLogger) LogWarning(message string) {
	fl.Log(SeverityWarning, message, nil)
}

// LogError writes an ERROR level log entry.
func (fl *FallbackLogger) LogError(message string) {
	fl.Log(SeverityError, message, nil)
}

// SetCheckID tags subsequent entries with the current evaluation.
func (fl *FallbackLogger) SetCheckID(checkID string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	fl.checkID = checkID
}

// Flush is a no-op for the fallback logger (writes are synchronous).
func (fl *FallbackLogger) Flush() error {
	return nil
}

// Close is a no-op for the fallback logger.
func (fl *FallbackLogger) Close() error {
	return nil
}

// NewLogger creates the appropriate logger for the environment: a
// CloudLogger when a project is configured and reachable, otherwise
// structured JSON on stdout.
func NewLogger(ctx context.Context, projectID, planID string, opts ...option.ClientOption) LoggerInterface {
	if projectID != "" {
		if cl, err := NewCloudLogger(ctx, projectID, planID, opts...); err == nil {
			return cl
		}
	}
	return NewFallbackLogger(os.Stdout, planID)
}

var _ LoggerInterface = (*CloudLogger)(nil)
var _ LoggerInterface = (*FallbackLogger)(nil)

// SanitizeForLog redacts credential-shaped values before they reach a log
// line: bearer headers, secret references, and anything that looks like an
// API token assignment.
func SanitizeForLog(s string) string {
	if strings.HasPrefix(s, "Bearer ") {
		return "Bearer [REDACTED]"
	}
	if strings.HasPrefix(s, "secret://") {
		// Keep the reference name; it identifies which secret, not its value.
		return s
	}
	for _, marker := range []string{"token=", "api_key=", "apikey="} {
		if idx := strings.Index(strings.ToLower(s), marker); idx >= 0 {
			return s[:idx+len(marker)] + "[REDACTED]"
		}
	}
	return s
}
