package statememory

import (
	"sync"
	"testing"

	"navigator/pkg/statemodel"
)

type fakeRegistry struct {
	mu     sync.Mutex
	states map[statemodel.StateID]*statemodel.State
	visits map[statemodel.StateID]int
}

func newFakeRegistry(states ...*statemodel.State) *fakeRegistry {
	reg := &fakeRegistry{
		states: make(map[statemodel.StateID]*statemodel.State),
		visits: make(map[statemodel.StateID]int),
	}
	for _, s := range states {
		reg.states[s.ID] = s
	}
	return reg
}

func (f *fakeRegistry) RecordByID(id statemodel.StateID) (*statemodel.State, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.states[id]
	return s, ok
}

func (f *fakeRegistry) RecordVisit(id statemodel.StateID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visits[id]++
}

type recordingObserver struct {
	mu        sync.Mutex
	activated []statemodel.StateID
	removed   []statemodel.StateID
}

func (r *recordingObserver) StateActivated(id statemodel.StateID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activated = append(r.activated, id)
}

func (r *recordingObserver) StateRemoved(id statemodel.StateID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
}

func TestAddIsIdempotent(t *testing.T) {
	mem := NewMemory(newFakeRegistry())

	mem.Add(1)
	mem.Add(1)

	if mem.Len() != 1 {
		t.Errorf("expected 1 member after double add, got %d", mem.Len())
	}
}

func TestAddRejectsNull(t *testing.T) {
	mem := NewMemory(newFakeRegistry())

	mem.Add(statemodel.NullStateID)

	if mem.Len() != 0 {
		t.Error("NULL id must never enter the active set")
	}
}

func TestAddToleratesMissingRegistryRecord(t *testing.T) {
	reg := newFakeRegistry()
	mem := NewMemory(reg)

	mem.Add(7) // never registered

	if !mem.Contains(7) {
		t.Error("id without a registry record must still be tracked")
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	mem := NewMemory(newFakeRegistry())
	obs := &recordingObserver{}
	mem.AddObserver(obs)

	mem.Remove(5)

	if len(obs.removed) != 0 {
		t.Error("removing an absent id must not notify observers")
	}
}

func TestBulkRemoval(t *testing.T) {
	mem := NewMemory(newFakeRegistry())
	for _, id := range []statemodel.StateID{1, 2, 3, 4} {
		mem.Add(id)
	}

	mem.RemoveSet(statemodel.NewIDSet(2, 3))

	if !mem.Contains(1) || !mem.Contains(4) {
		t.Error("expected 1 and 4 to remain active")
	}
	if mem.Contains(2) || mem.Contains(3) {
		t.Error("expected 2 and 3 removed")
	}
	if mem.Len() != 2 {
		t.Errorf("expected 2 members, got %d", mem.Len())
	}
}

func TestClear(t *testing.T) {
	mem := NewMemory(newFakeRegistry())
	mem.Add(1)
	mem.Add(2)

	mem.Clear()

	if mem.Len() != 0 {
		t.Errorf("expected empty memory, got %d members", mem.Len())
	}
}

func TestSnapshotIsolation(t *testing.T) {
	mem := NewMemory(newFakeRegistry())
	mem.Add(1)

	snap := mem.Snapshot()
	snap.Add(99)

	if mem.Contains(99) {
		t.Error("mutating a snapshot must not affect the memory")
	}
}

func TestActiveStateNames(t *testing.T) {
	reg := newFakeRegistry(
		&statemodel.State{ID: 1, Name: "login"},
		&statemodel.State{ID: 2, Name: "home"},
	)
	mem := NewMemory(reg)
	mem.Add(1)
	mem.Add(2)
	mem.Add(9) // no record: skipped in name output

	names := mem.ActiveStateNames()
	if len(names) != 2 || names[0] != "home" || names[1] != "login" {
		t.Errorf("expected sorted names [home login], got %v", names)
	}
	if mem.ActiveStateNamesString() != "home, login" {
		t.Errorf("unexpected joined names %q", mem.ActiveStateNamesString())
	}
}

func TestVisitBookkeepingOnFirstAddOnly(t *testing.T) {
	reg := newFakeRegistry(&statemodel.State{ID: 1, Name: "login"})
	mem := NewMemory(reg)

	mem.Add(1)
	mem.Add(1)

	if reg.visits[1] != 1 {
		t.Errorf("expected a single visit, got %d", reg.visits[1])
	}
}

func TestAdjustFromEvidence(t *testing.T) {
	mem := NewMemory(newFakeRegistry())

	mem.AdjustFromEvidence([]statemodel.Match{
		{OwnerStateID: 3, Score: 0.95},
		{OwnerStateID: 3, Score: 0.91}, // duplicate owner
		{OwnerStateID: 0, Score: 0.88}, // no owner linkage
		{OwnerStateID: statemodel.NullStateID},
		{OwnerStateID: 4, Score: 0.97},
	})

	if mem.Len() != 2 || !mem.Contains(3) || !mem.Contains(4) {
		t.Errorf("expected members {3,4}, got %v", mem.Snapshot().Sorted())
	}

	// Evidence never removes: existing members survive an empty batch.
	mem.AdjustFromEvidence(nil)
	if mem.Len() != 2 {
		t.Error("nil evidence must be a no-op")
	}
}

func TestObserverNotifications(t *testing.T) {
	reg := newFakeRegistry(&statemodel.State{ID: 1, Name: "login"})
	mem := NewMemory(reg)
	obs := &recordingObserver{}
	mem.AddObserver(obs)

	mem.Add(1)
	mem.Add(1) // duplicate: no second notification
	mem.Remove(1)

	if len(obs.activated) != 1 || obs.activated[0] != 1 {
		t.Errorf("expected one activation for id 1, got %v", obs.activated)
	}
	if len(obs.removed) != 1 || obs.removed[0] != 1 {
		t.Errorf("expected one removal for id 1, got %v", obs.removed)
	}
}

func TestConcurrentAdds(t *testing.T) {
	for _, n := range []int{1, 10, 100} {
		mem := NewMemory(newFakeRegistry())

		var wg sync.WaitGroup
		for i := 1; i <= n; i++ {
			wg.Add(1)
			go func(id statemodel.StateID) {
				defer wg.Done()
				mem.Add(id)
			}(statemodel.StateID(i))
		}
		wg.Wait()

		if mem.Len() != n {
			t.Errorf("n=%d: expected %d members after concurrent adds, got %d", n, n, mem.Len())
		}
	}
}

func TestConcurrentEvidenceAndMutation(t *testing.T) {
	mem := NewMemory(newFakeRegistry())

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(2)
		go func(id statemodel.StateID) {
			defer wg.Done()
			mem.AdjustFromEvidence([]statemodel.Match{{OwnerStateID: id}})
		}(statemodel.StateID(i))
		go func(id statemodel.StateID) {
			defer wg.Done()
			mem.Remove(id + 100) // disjoint ids: removals never race the adds
		}(statemodel.StateID(i))
	}
	wg.Wait()

	if mem.Len() != 50 {
		t.Errorf("expected 50 members, got %d", mem.Len())
	}
}
