// Package statememory maintains the belief set of currently active states.
// It is the single mutable shared resource of the navigation engine and the
// source of truth the rest of the framework reads.
package statememory

import (
	"sort"
	"strings"
	"sync"

	"navigator/pkg/logx"
	"navigator/pkg/statemodel"
)

// Registry is the read-mostly state lookup the memory consults for name and
// visit bookkeeping. A lookup miss is tolerated: ids are tracked even when
// their state is registered late.
type Registry interface {
	RecordByID(id statemodel.StateID) (*statemodel.State, bool)
	RecordVisit(id statemodel.StateID)
}

// Observer is notified when states enter or leave the active set. Observers
// feed run bookkeeping (persistence, metrics, the joint table's hidden-state
// index) and must not call back into the memory.
type Observer interface {
	StateActivated(id statemodel.StateID, name string)
	StateRemoved(id statemodel.StateID)
}

// Memory is the thread-safe set of currently active state identifiers.
type Memory struct {
	mu        sync.RWMutex
	active    statemodel.IDSet
	registry  Registry
	observers []Observer
	logger    *logx.Logger
}

// NewMemory creates an empty active state memory backed by the registry.
func NewMemory(registry Registry) *Memory {
	return &Memory{
		active:   statemodel.NewIDSet(),
		registry: registry,
		logger:   logx.NewLogger("memory"),
	}
}

// AddObserver registers an observer for activation/removal notifications.
// Observers are added during wiring, before concurrent use begins.
func (m *Memory) AddObserver(obs Observer) {
	m.observers = append(m.observers, obs)
}

// Add inserts a state into the active set. Inserting NULL is rejected,
// inserting an already-present id is a no-op. On first insertion the
// registry's visit bookkeeping runs; a missing registry record skips the
// bookkeeping silently but the id is still tracked.
func (m *Memory) Add(id statemodel.StateID) {
	if id == statemodel.NullStateID {
		m.logger.Warn("rejecting NULL state insert")
		return
	}

	m.mu.Lock()
	if m.active.Contains(id) {
		m.mu.Unlock()
		return
	}
	m.active.Add(id)
	m.mu.Unlock()

	name := ""
	if rec, ok := m.registry.RecordByID(id); ok {
		name = rec.Name
	}
	m.registry.RecordVisit(id)
	m.logger.Debug("state activated: %s(%d)", name, id)

	for _, obs := range m.observers {
		obs.StateActivated(id, name)
	}
}

// Remove takes a state out of the active set. Removing an absent id is a
// no-op, never an error.
func (m *Memory) Remove(id statemodel.StateID) {
	m.mu.Lock()
	present := m.active.Contains(id)
	delete(m.active, id)
	m.mu.Unlock()

	if !present {
		return
	}
	m.logger.Debug("state removed: %d", id)
	for _, obs := range m.observers {
		obs.StateRemoved(id)
	}
}

// RemoveSet removes every member of ids that is present.
func (m *Memory) RemoveSet(ids statemodel.IDSet) {
	for id := range ids {
		m.Remove(id)
	}
}

// Clear empties the active set.
func (m *Memory) Clear() {
	m.RemoveSet(m.Snapshot())
}

// Contains reports whether id is currently active.
func (m *Memory) Contains(id statemodel.StateID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active.Contains(id)
}

// Len returns the number of active states.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.active)
}

// Snapshot returns a defensive copy of the active set, reflecting membership
// at call time.
func (m *Memory) Snapshot() statemodel.IDSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active.Copy()
}

// ActiveStates resolves the active ids to their registry records, skipping
// members whose lookup fails.
func (m *Memory) ActiveStates() []*statemodel.State {
	snapshot := m.Snapshot()
	states := make([]*statemodel.State, 0, len(snapshot))
	for _, id := range snapshot.Sorted() {
		if rec, ok := m.registry.RecordByID(id); ok {
			states = append(states, rec)
		}
	}
	return states
}

// ActiveStateNames returns the display names of the active states, sorted
// for deterministic output. Members without a registry record are skipped.
func (m *Memory) ActiveStateNames() []string {
	states := m.ActiveStates()
	names := make([]string, 0, len(states))
	for _, s := range states {
		names = append(names, s.Name)
	}
	sort.Strings(names)
	return names
}

// ActiveStateNamesString joins the active state names for display.
func (m *Memory) ActiveStateNamesString() string {
	return strings.Join(m.ActiveStateNames(), ", ")
}

// AdjustFromEvidence activates the owner state of every match that carries
// one. Evidence only ever adds to the belief set; deciding that a state is
// gone is the planner's explicit call, not inferred from absent evidence.
// Nil or empty evidence is a no-op.
func (m *Memory) AdjustFromEvidence(matches []statemodel.Match) {
	for _, match := range matches {
		if !match.HasOwnerState() {
			continue
		}
		m.Add(match.OwnerStateID)
	}
}
