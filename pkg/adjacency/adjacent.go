// Package adjacency answers which states are reachable from a source state
// (or the current active set) via exactly one transition hop.
package adjacency

import (
	"navigator/pkg/logx"
	"navigator/pkg/statemodel"
)

// Registry is the read-only state lookup used to resolve PREVIOUS against a
// source state's hidden-state stack.
type Registry interface {
	RecordByID(id statemodel.StateID) (*statemodel.State, bool)
}

// TransitionSource supplies per-state transition collections.
type TransitionSource interface {
	TransitionsForState(id statemodel.StateID) (*statemodel.TransitionSet, bool)
}

// ActiveSource supplies the current active state snapshot.
type ActiveSource interface {
	Snapshot() statemodel.IDSet
}

// Adjacent computes one-hop reachability over the transition graph. It reads
// the active state memory but never writes it.
type Adjacent struct {
	registry    Registry
	transitions TransitionSource
	active      ActiveSource
	logger      *logx.Logger
}

// New creates an adjacency query component.
func New(registry Registry, transitions TransitionSource, active ActiveSource) *Adjacent {
	return &Adjacent{
		registry:    registry,
		transitions: transitions,
		active:      active,
		logger:      logx.NewLogger("adjacency"),
	}
}

// AdjacentTo returns the states reachable from the source state via one
// transition. The PREVIOUS marker is replaced by the source state's
// hidden-state stack; if the source record is missing, PREVIOUS contributes
// nothing. Transitions with an empty activation set are ignored: they are
// malformed configuration and must not make a state look adjacent to itself.
// A source with no transition collection yields an empty set.
func (a *Adjacent) AdjacentTo(source statemodel.StateID) statemodel.IDSet {
	result := statemodel.NewIDSet()

	set, ok := a.transitions.TransitionsForState(source)
	if !ok {
		return result
	}

	for _, t := range set.Transitions {
		if len(t.Activate) == 0 {
			continue
		}
		result.Union(t.Activate)
	}

	if result.Contains(statemodel.PreviousStateID) {
		delete(result, statemodel.PreviousStateID)
		if rec, ok := a.registry.RecordByID(source); ok {
			for _, hidden := range rec.HiddenStates {
				result.Add(hidden)
			}
		} else {
			a.logger.Debug("PREVIOUS from %d dropped: no registry record", source)
		}
	}

	return result
}

// AdjacentToSet returns the union of AdjacentTo over every member of
// sources. An empty input short-circuits without consulting the transition
// store.
func (a *Adjacent) AdjacentToSet(sources statemodel.IDSet) statemodel.IDSet {
	result := statemodel.NewIDSet()
	if len(sources) == 0 {
		return result
	}
	for source := range sources {
		result.Union(a.AdjacentTo(source))
	}
	return result
}

// AdjacentToActive returns the states adjacent to the current active set.
func (a *Adjacent) AdjacentToActive() statemodel.IDSet {
	return a.AdjacentToSet(a.active.Snapshot())
}
