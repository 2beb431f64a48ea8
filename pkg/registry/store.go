// Package registry provides the state store: the authoritative mapping from
// state identifiers to state records and from names to identifiers.
package registry

import (
	"sort"
	"sync"

	"navigator/pkg/logx"
	"navigator/pkg/statemodel"
)

// Store holds all registered states. Identifiers are issued sequentially
// starting at 1 so that negative ids remain reserved for special markers.
//
// The store is read-mostly: states are registered at configuration time and
// only visit/probability bookkeeping mutates records afterward. All record
// mutation goes through store methods.
type Store struct {
	mu     sync.RWMutex
	byID   map[statemodel.StateID]*statemodel.State
	byName map[string]statemodel.StateID
	nextID statemodel.StateID
	logger *logx.Logger
}

// NewStore creates an empty state store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[statemodel.StateID]*statemodel.State),
		byName: make(map[string]statemodel.StateID),
		nextID: 1,
		logger: logx.NewLogger("registry"),
	}
}

// Add registers a state and returns its identifier. A state with a
// pre-assigned positive id keeps it; otherwise the store issues the next
// sequential id. Registering a second state under an existing name replaces
// the name mapping and logs a warning.
func (s *Store) Add(state *statemodel.State) statemodel.StateID {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.ID <= 0 {
		state.ID = s.nextID
	}
	if state.ID >= s.nextID {
		s.nextID = state.ID + 1
	}

	if state.Name != "" {
		if prev, ok := s.byName[state.Name]; ok && prev != state.ID {
			s.logger.Warn("state name %q re-registered: id %d replaces %d", state.Name, state.ID, prev)
		}
		s.byName[state.Name] = state.ID
	}
	s.byID[state.ID] = state
	return state.ID
}

// RecordByID returns the state record for id. Callers must treat the record
// as read-only; bookkeeping mutations go through store methods.
func (s *Store) RecordByID(id statemodel.StateID) (*statemodel.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.byID[id]
	return state, ok
}

// IDByName resolves a state name to its identifier.
func (s *Store) IDByName(name string) (statemodel.StateID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byName[name]
	return id, ok
}

// StateName returns the display name for id, or an empty string if the
// record is missing.
func (s *Store) StateName(id statemodel.StateID) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.byID[id]; ok {
		return state.Name
	}
	return ""
}

// AllKnownIDs returns every registered identifier in ascending order.
func (s *Store) AllKnownIDs() []statemodel.StateID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]statemodel.StateID, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of registered states.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// RecordVisit increments the visit counter and resets the belief probability
// to its baseline. Unknown ids are ignored; the active state memory tolerates
// members that were registered late or not at all.
func (s *Store) RecordVisit(id statemodel.StateID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.byID[id]
	if !ok {
		return
	}
	state.TimesVisited++
	state.SetProbabilityToBase()
}

// SetHiddenStates replaces the hidden-state stack on the identified state.
// Used by the transition executor when a transition hides rather than exits
// the states it covers.
func (s *Store) SetHiddenStates(id statemodel.StateID, hidden []statemodel.StateID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.byID[id]
	if !ok {
		return
	}
	state.HiddenStates = append([]statemodel.StateID(nil), hidden...)
}
