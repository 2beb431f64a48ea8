package persistence

import (
	"path/filepath"
	"testing"

	"navigator/pkg/statemodel"
)

func createTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "runs.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionLifecycle(t *testing.T) {
	db := createTestDB(t)

	sessionID, err := db.BeginSession("demo-graph", "simulated")
	if err != nil {
		t.Fatalf("Failed to begin session: %v", err)
	}
	if sessionID == "" {
		t.Fatal("expected a non-empty session id")
	}

	if err := db.EndSession(sessionID); err != nil {
		t.Errorf("Failed to end session: %v", err)
	}
}

func TestRecordAndCountStateEvents(t *testing.T) {
	db := createTestDB(t)
	sessionID, err := db.BeginSession("demo-graph", "live")
	if err != nil {
		t.Fatalf("Failed to begin session: %v", err)
	}

	if err := db.RecordStateEvent(sessionID, 1, "login", EventActivated); err != nil {
		t.Fatalf("Failed to record event: %v", err)
	}
	if err := db.RecordStateEvent(sessionID, 2, "home", EventActivated); err != nil {
		t.Fatalf("Failed to record event: %v", err)
	}
	if err := db.RecordStateEvent(sessionID, 1, "login", EventRemoved); err != nil {
		t.Fatalf("Failed to record event: %v", err)
	}

	activated, err := db.CountStateEvents(sessionID, EventActivated)
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if activated != 2 {
		t.Errorf("expected 2 activation events, got %d", activated)
	}

	removed, err := db.CountStateEvents(sessionID, EventRemoved)
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected 1 removal event, got %d", removed)
	}
}

func TestRecordResolution(t *testing.T) {
	db := createTestDB(t)
	sessionID, err := db.BeginSession("demo-graph", "simulated")
	if err != nil {
		t.Fatalf("Failed to begin session: %v", err)
	}

	if err := db.RecordResolution(sessionID, "simulated", "activated", 2); err != nil {
		t.Errorf("Failed to record resolution: %v", err)
	}
}

func TestSessionRecorderObservesMemoryEvents(t *testing.T) {
	db := createTestDB(t)
	sessionID, err := db.BeginSession("demo-graph", "simulated")
	if err != nil {
		t.Fatalf("Failed to begin session: %v", err)
	}

	rec := db.NewSessionRecorder(sessionID)
	rec.StateActivated(statemodel.StateID(1), "login")
	rec.StateRemoved(statemodel.StateID(1))

	activated, err := db.CountStateEvents(sessionID, EventActivated)
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if activated != 1 {
		t.Errorf("expected 1 activation event, got %d", activated)
	}
}
