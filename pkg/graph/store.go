// Package graph holds the transition graph: the per-source-state transition
// collections and a joint index for reachability queries.
package graph

import (
	"sync"

	"navigator/pkg/statemodel"
)

// TransitionStore keeps one TransitionSet per source state. It is populated
// at configuration time, linked once by the id resolver, and read-only during
// navigation.
type TransitionStore struct {
	mu     sync.RWMutex
	bySrc  map[statemodel.StateID]*statemodel.TransitionSet
	staged []*statemodel.TransitionSet
}

// NewTransitionStore creates an empty transition store.
func NewTransitionStore() *TransitionStore {
	return &TransitionStore{
		bySrc: make(map[statemodel.StateID]*statemodel.TransitionSet),
	}
}

// Add stages a transition collection. Collections whose source id is still
// unresolved are indexed once Index is called after linking.
func (ts *TransitionStore) Add(set *statemodel.TransitionSet) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.staged = append(ts.staged, set)
	if set.StateID > 0 {
		ts.bySrc[set.StateID] = set
	}
}

// Index rebuilds the source-id lookup from the staged collections. Called
// after the id resolver fills in source ids that were configured by name.
func (ts *TransitionStore) Index() {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	for _, set := range ts.staged {
		if set.StateID > 0 {
			ts.bySrc[set.StateID] = set
		}
	}
}

// TransitionsForState returns the transition collection for the source state.
func (ts *TransitionStore) TransitionsForState(id statemodel.StateID) (*statemodel.TransitionSet, bool) {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	set, ok := ts.bySrc[id]
	return set, ok
}

// All returns every staged transition collection, linked or not.
func (ts *TransitionStore) All() []*statemodel.TransitionSet {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	out := make([]*statemodel.TransitionSet, len(ts.staged))
	copy(out, ts.staged)
	return out
}
