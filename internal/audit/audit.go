// Package audit provides structured event logging for sandbox lifecycle and
// deployment events. Events are stored as JSON Lines (JSONL) files, one per
// sandbox alias.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventCreate EventType = "create"
	EventSelect EventType = "select"
	EventDeploy EventType = "deploy"
	EventError  EventType = "error"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Sandbox   string    `json:"sandbox"`
	Realm     string    `json:"realm,omitempty"`
	RunLog    string    `json:"runLog,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads audit events for sandboxes.
// Events are stored in {stateDir}/events/{alias}.events.jsonl.
type Logger struct {
	stateDir string
}

// NewLogger creates a new audit logger rooted at stateDir.
func NewLogger(stateDir string) *Logger {
	return &Logger{stateDir: stateDir}
}

// eventPath returns the path to the JSONL event log for a sandbox alias.
func (l *Logger) eventPath(alias string) (string, error) {
	return securejoin.SecureJoin(filepath.Join(l.stateDir, "events"), alias+".events.jsonl")
}

// Log appends an event to the sandbox's audit log.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	path, err := l.eventPath(event.Sandbox)
	if err != nil {
		return fmt.Errorf("invalid sandbox alias: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, alias, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Sandbox:   alias,
		Details:   details,
	})
}

// Events reads all events for a sandbox in chronological order.
func (l *Logger) Events(alias string) ([]Event, error) {
	path, err := l.eventPath(alias)
	if err != nil {
		return nil, fmt.Errorf("invalid sandbox alias: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}
