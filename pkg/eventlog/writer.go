// Package eventlog writes structured run events (state activations, probe
// outcomes, resolutions) to daily rotated JSONL files.
package eventlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"navigator/pkg/statemodel"
)

// Event types written to the run log.
const (
	TypeActivation = "state_activated"
	TypeRemoval    = "state_removed"
	TypeProbe      = "probe"
	TypeResolution = "resolution"
)

// Event is one structured run event.
type Event struct {
	Timestamp string            `json:"timestamp"`
	Type      string            `json:"type"`
	SessionID string            `json:"session_id,omitempty"`
	StateID   statemodel.StateID `json:"state_id,omitempty"`
	StateName string            `json:"state_name,omitempty"`
	Detail    string            `json:"detail,omitempty"`
}

// Writer appends events to daily rotated JSONL files.
type Writer struct {
	logDir      string
	currentFile *os.File
	currentDate string
	sessionID   string
	mu          sync.Mutex
}

// NewWriter creates an event writer rotating in logDir, stamping every
// event with sessionID.
func NewWriter(logDir, sessionID string) (*Writer, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create event log directory: %w", err)
	}

	w := &Writer{logDir: logDir, sessionID: sessionID}
	if err := w.rotateIfNeeded(); err != nil {
		return nil, fmt.Errorf("failed to initialize event log: %w", err)
	}
	return w, nil
}

// Write appends one event, rotating to a new file when the day changes.
func (w *Writer) Write(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.rotateIfNeeded(); err != nil {
		return fmt.Errorf("failed to rotate event log: %w", err)
	}

	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	if ev.SessionID == "" {
		ev.SessionID = w.sessionID
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if _, err := w.currentFile.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

func (w *Writer) rotateIfNeeded() error {
	date := time.Now().Format("2006-01-02")
	if w.currentFile != nil && w.currentDate == date {
		return nil
	}

	if w.currentFile != nil {
		if err := w.currentFile.Close(); err != nil {
			return fmt.Errorf("failed to close event log: %w", err)
		}
	}

	path := filepath.Join(w.logDir, fmt.Sprintf("run-events-%s.jsonl", date))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open event log %s: %w", path, err)
	}

	w.currentFile = file
	w.currentDate = date
	return nil
}

// CurrentLogFile returns the path of the active log file.
func (w *Writer) CurrentLogFile() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.currentFile == nil {
		return ""
	}
	return filepath.Join(w.logDir, fmt.Sprintf("run-events-%s.jsonl", w.currentDate))
}

// Close flushes and closes the active log file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.currentFile == nil {
		return nil
	}
	err := w.currentFile.Close()
	w.currentFile = nil
	if err != nil {
		return fmt.Errorf("failed to close event log: %w", err)
	}
	return nil
}

// ReadEvents parses every event from a log file. An empty file yields an
// empty slice.
func ReadEvents(path string) ([]Event, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("failed to parse event line: %w", err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read event log: %w", err)
	}
	return events, nil
}

// MemoryObserver adapts the writer to the active state memory's observer
// contract. Write failures are swallowed; event logging must never disturb
// navigation.
type MemoryObserver struct {
	writer *Writer
}

// NewMemoryObserver creates an observer writing to w.
func (w *Writer) NewMemoryObserver() *MemoryObserver {
	return &MemoryObserver{writer: w}
}

// StateActivated logs an activation event.
func (o *MemoryObserver) StateActivated(id statemodel.StateID, name string) {
	_ = o.writer.Write(Event{Type: TypeActivation, StateID: id, StateName: name})
}

// StateRemoved logs a removal event.
func (o *MemoryObserver) StateRemoved(id statemodel.StateID) {
	_ = o.writer.Write(Event{Type: TypeRemoval, StateID: id})
}
