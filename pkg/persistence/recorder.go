package persistence

import "navigator/pkg/statemodel"

// Event kinds stored in state_events.
const (
	EventActivated = "activated"
	EventRemoved   = "removed"
)

// SessionRecorder adapts the run-history database to the active state
// memory's observer contract: every activation and removal during a session
// becomes a state event row. Write failures are logged, never propagated;
// run bookkeeping must not disturb navigation.
type SessionRecorder struct {
	db        *DB
	sessionID string
}

// NewSessionRecorder creates a recorder bound to a session.
func (d *DB) NewSessionRecorder(sessionID string) *SessionRecorder {
	return &SessionRecorder{db: d, sessionID: sessionID}
}

// StateActivated records an activation event.
func (r *SessionRecorder) StateActivated(id statemodel.StateID, name string) {
	if err := r.db.RecordStateEvent(r.sessionID, int64(id), name, EventActivated); err != nil {
		r.db.logger.Warn("failed to record activation of %d: %v", id, err)
	}
}

// StateRemoved records a removal event.
func (r *SessionRecorder) StateRemoved(id statemodel.StateID) {
	if err := r.db.RecordStateEvent(r.sessionID, int64(id), "", EventRemoved); err != nil {
		r.db.logger.Warn("failed to record removal of %d: %v", id, err)
	}
}
