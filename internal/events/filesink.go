package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileSink writes MonitorEvents to a JSONL file.
// It is safe for concurrent use from multiple goroutines.
type FileSink struct {
	path   string
	file   *os.File
	writer *bufio.Writer
	mu     sync.Mutex
}

// DefaultFilename is the default filename for the events file.
const DefaultFilename = "checks.jsonl"

// NewFileSink creates a FileSink writing to dir/checks.jsonl, appending if
// the file already exists. Permissions are 0600 since entries can carry plan
// context text.
func NewFileSink(dir string) (*FileSink, error) {
	path := filepath.Join(dir, DefaultFilename)

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}

	return &FileSink{
		path:   path,
		file:   file,
		writer: bufio.NewWriter(file),
	}, nil
}

// Write appends a batch of events, one JSON line each.
func (s *FileSink) Write(events []MonitorEvent) error {
	if len(events) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, event := range events {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}

		if _, err := s.writer.Write(data); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
		if err := s.writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("failed to write newline: %w", err)
		}
	}

	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush events: %w", err)
	}

	return nil
}

// WriteOne appends a single event.
func (s *FileSink) WriteOne(event MonitorEvent) error {
	return s.Write([]MonitorEvent{event})
}

// Close flushes any remaining data and closes the file.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	if err := s.writer.Flush(); err != nil {
		_ = s.file.Close()
		s.file = nil
		return fmt.Errorf("failed to flush before close: %w", err)
	}

	if err := s.file.Close(); err != nil {
		s.file = nil
		return fmt.Errorf("failed to close events file: %w", err)
	}

	s.file = nil
	return nil
}

// Path returns the path to the events file.
func (s *FileSink) Path() string {
	return s.path
}

// ReadEvents reads all events from a JSONL file, for the CLI history view
// and tests.
func ReadEvents(path string) ([]MonitorEvent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open events file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var events []MonitorEvent
	scanner := bufio.NewScanner(file)

	const maxLineSize = 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var event MonitorEvent
		if err := json.Unmarshal(line, &event); err != nil {
			return nil, fmt.Errorf("failed to parse event on line %d: %w", lineNum, err)
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events file: %w", err)
	}

	return events, nil
}

// FilterByType filters events by event type.
func FilterByType(events []MonitorEvent, types ...EventType) []MonitorEvent {
	if len(types) == 0 {
		return events
	}

	typeSet := make(map[EventType]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	var filtered []MonitorEvent
	for _, event := range events {
		if typeSet[event.Type] {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

// FilterByPlan filters events by plan ID. An empty ID returns all events.
func FilterByPlan(events []MonitorEvent, planID string) []MonitorEvent {
	if planID == "" {
		return events
	}

	var filtered []MonitorEvent
	for _, event := range events {
		if event.PlanID == planID {
			filtered = append(filtered, event)
		}
	}
	return filtered
}
