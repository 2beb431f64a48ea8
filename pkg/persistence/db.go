// Package persistence provides SQLite-based storage for run history:
// sessions, state activation events, and resolution outcomes. The state
// graph itself is never persisted; it is rebuilt from configuration on every
// start.
package persistence

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"navigator/pkg/logx"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id          TEXT PRIMARY KEY,
	graph_name  TEXT NOT NULL,
	mode        TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	ended_at    TEXT
);

CREATE TABLE IF NOT EXISTS state_events (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id  TEXT NOT NULL,
	state_id    INTEGER NOT NULL,
	state_name  TEXT NOT NULL,
	kind        TEXT NOT NULL,
	created_at  TEXT NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(id)
);

CREATE TABLE IF NOT EXISTS resolutions (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id   TEXT NOT NULL,
	mode         TEXT NOT NULL,
	outcome      TEXT NOT NULL,
	active_count INTEGER NOT NULL,
	resolved_at  TEXT NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(id)
);

CREATE INDEX IF NOT EXISTS idx_state_events_session ON state_events(session_id);
`

// DB wraps the run-history database.
type DB struct {
	db     *sql.DB
	logger *logx.Logger
}

// Open creates or opens the run-history database at dbPath and ensures the
// schema exists. Safe to call on an existing database.
func Open(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf(
		"file:%s?_foreign_keys=ON&_journal_mode=WAL&_busy_timeout=5000",
		dbPath,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	logger := logx.NewLogger("persistence")
	logger.Info("📦 Run-history database ready: %s", dbPath)

	return &DB{db: db, logger: logger}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// BeginSession inserts a new run session and returns its id.
func (d *DB) BeginSession(graphName, mode string) (string, error) {
	id := uuid.New().String()
	_, err := d.db.Exec(
		`INSERT INTO sessions (id, graph_name, mode, started_at) VALUES (?, ?, ?, ?)`,
		id, graphName, mode, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return "", fmt.Errorf("failed to begin session: %w", err)
	}
	return id, nil
}

// EndSession stamps the session's end time.
func (d *DB) EndSession(sessionID string) error {
	_, err := d.db.Exec(
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339Nano), sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to end session: %w", err)
	}
	return nil
}

// RecordStateEvent persists one activation or removal event.
func (d *DB) RecordStateEvent(sessionID string, stateID int64, stateName, kind string) error {
	_, err := d.db.Exec(
		`INSERT INTO state_events (session_id, state_id, state_name, kind, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, stateID, stateName, kind, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record state event: %w", err)
	}
	return nil
}

// RecordResolution persists the outcome of one initial-state resolution.
func (d *DB) RecordResolution(sessionID, mode, outcome string, activeCount int) error {
	_, err := d.db.Exec(
		`INSERT INTO resolutions (session_id, mode, outcome, active_count, resolved_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sessionID, mode, outcome, activeCount, time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to record resolution: %w", err)
	}
	return nil
}

// CountStateEvents returns the number of events of the given kind in a
// session.
func (d *DB) CountStateEvents(sessionID, kind string) (int, error) {
	var count int
	err := d.db.QueryRow(
		`SELECT COUNT(*) FROM state_events WHERE session_id = ? AND kind = ?`,
		sessionID, kind,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count state events: %w", err)
	}
	return count, nil
}
