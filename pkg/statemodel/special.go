// Package statemodel defines the shared data model for the state graph:
// states, transitions, special state markers, and match evidence.
package statemodel

// StateID identifies a state in the graph. Real states registered with the
// state store always receive positive identifiers; negative identifiers are
// reserved for the special state markers below.
type StateID int64

// Special state markers. These are symbolic references used in transition
// definitions and queries, never real states. Each is bound to a unique
// negative identifier so that a registered state can never collide with one.
const (
	// UnknownStateID marks a state that could not be determined.
	UnknownStateID StateID = -1
	// PreviousStateID is the symbolic "go back" target. It is resolved at
	// query time against the source state's hidden-state stack.
	PreviousStateID StateID = -2
	// CurrentStateID refers to whatever state is currently active.
	CurrentStateID StateID = -3
	// ExpectedStateID refers to the state a transition expects to reach.
	ExpectedStateID StateID = -4
	// NullStateID denotes "no state". It must never appear in the active
	// state memory.
	NullStateID StateID = -5
)

// IsSpecial reports whether id is one of the reserved symbolic markers.
// All registered states have positive identifiers, so a negative id is both
// necessary and sufficient to identify a marker.
func IsSpecial(id StateID) bool {
	return id < 0
}

// SpecialName returns a human-readable name for a special state id, or an
// empty string if id is not a special marker.
func SpecialName(id StateID) string {
	switch id {
	case UnknownStateID:
		return "UNKNOWN"
	case PreviousStateID:
		return "PREVIOUS"
	case CurrentStateID:
		return "CURRENT"
	case ExpectedStateID:
		return "EXPECTED"
	case NullStateID:
		return "NULL"
	default:
		return ""
	}
}
