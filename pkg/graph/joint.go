package graph

import (
	"sync"

	"navigator/pkg/logx"
	"navigator/pkg/statemodel"
)

// Registry is the read-only state lookup the joint table needs for hidden
// state bookkeeping.
type Registry interface {
	RecordByID(id statemodel.StateID) (*statemodel.State, bool)
}

// JointTable is a bidirectional index over the transition graph. It answers
// "who can reach X" and "where can Y go" in O(1) without walking transition
// collections, and tracks the dynamic transitions to hidden states that open
// up while their hiding state is active.
type JointTable struct {
	mu       sync.RWMutex
	incoming map[statemodel.StateID]statemodel.IDSet
	outgoing map[statemodel.StateID]statemodel.IDSet
	// incomingToPrevious maps a hidden state to the active states currently
	// hiding it. Entries exist only while the hiding state is active.
	incomingToPrevious map[statemodel.StateID]statemodel.IDSet
	registry           Registry
	logger             *logx.Logger
}

// NewJointTable creates an empty joint table.
func NewJointTable(registry Registry) *JointTable {
	return &JointTable{
		incoming:           make(map[statemodel.StateID]statemodel.IDSet),
		outgoing:           make(map[statemodel.StateID]statemodel.IDSet),
		incomingToPrevious: make(map[statemodel.StateID]statemodel.IDSet),
		registry:           registry,
		logger:             logx.NewLogger("joint-table"),
	}
}

// Rebuild repopulates the static incoming/outgoing indexes from the store.
// Dynamic hidden-state entries are cleared; they are re-added as states
// activate.
func (jt *JointTable) Rebuild(store *TransitionStore) {
	jt.mu.Lock()
	defer jt.mu.Unlock()

	jt.incoming = make(map[statemodel.StateID]statemodel.IDSet)
	jt.outgoing = make(map[statemodel.StateID]statemodel.IDSet)
	jt.incomingToPrevious = make(map[statemodel.StateID]statemodel.IDSet)

	for _, set := range store.All() {
		if set.StateID <= 0 {
			jt.logger.Warn("skipping unlinked transition collection %q", set.StateName)
			continue
		}
		for _, t := range set.Transitions {
			for target := range t.Activate {
				// PREVIOUS is resolved dynamically; it has no static edge.
				if statemodel.IsSpecial(target) {
					continue
				}
				jt.addEdge(set.StateID, target)
			}
		}
	}
}

func (jt *JointTable) addEdge(from, to statemodel.StateID) {
	if jt.outgoing[from] == nil {
		jt.outgoing[from] = statemodel.NewIDSet()
	}
	if jt.incoming[to] == nil {
		jt.incoming[to] = statemodel.NewIDSet()
	}
	jt.outgoing[from].Add(to)
	jt.incoming[to].Add(from)
}

// StateActivated records the dynamic hidden-state transitions opened by the
// newly active state: each state on its hidden stack becomes reachable from
// it via PREVIOUS. Implements the active state memory's observer contract.
func (jt *JointTable) StateActivated(id statemodel.StateID, name string) {
	state, ok := jt.registry.RecordByID(id)
	if !ok {
		return
	}
	jt.mu.Lock()
	defer jt.mu.Unlock()
	for _, hidden := range state.HiddenStates {
		if jt.incomingToPrevious[hidden] == nil {
			jt.incomingToPrevious[hidden] = statemodel.NewIDSet()
		}
		jt.incomingToPrevious[hidden].Add(id)
	}
}

// StateRemoved drops the dynamic hidden-state transitions owned by a state
// that is no longer active.
func (jt *JointTable) StateRemoved(id statemodel.StateID) {
	jt.mu.Lock()
	defer jt.mu.Unlock()
	for hidden, hiders := range jt.incomingToPrevious {
		delete(hiders, id)
		if len(hiders) == 0 {
			delete(jt.incomingToPrevious, hidden)
		}
	}
}

// StatesWithTransitionsTo returns every state with a static or dynamic
// transition into any of the given targets.
func (jt *JointTable) StatesWithTransitionsTo(targets ...statemodel.StateID) statemodel.IDSet {
	jt.mu.RLock()
	defer jt.mu.RUnlock()
	result := statemodel.NewIDSet()
	for _, target := range targets {
		if sources, ok := jt.incoming[target]; ok {
			result.Union(sources)
		}
		if hiders, ok := jt.incomingToPrevious[target]; ok {
			result.Union(hiders)
		}
	}
	return result
}

// StatesWithTransitionsFrom returns every state statically reachable from
// any of the given sources.
func (jt *JointTable) StatesWithTransitionsFrom(sources ...statemodel.StateID) statemodel.IDSet {
	jt.mu.RLock()
	defer jt.mu.RUnlock()
	result := statemodel.NewIDSet()
	for _, source := range sources {
		if targets, ok := jt.outgoing[source]; ok {
			result.Union(targets)
		}
	}
	return result
}
