package registry

import (
	"testing"

	"navigator/pkg/statemodel"
)

func TestAddIssuesSequentialPositiveIDs(t *testing.T) {
	store := NewStore()

	first := store.Add(&statemodel.State{Name: "login"})
	second := store.Add(&statemodel.State{Name: "home"})

	if first != 1 || second != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", first, second)
	}
	if statemodel.IsSpecial(first) || statemodel.IsSpecial(second) {
		t.Error("issued ids must never be special markers")
	}
}

func TestAddKeepsPreAssignedID(t *testing.T) {
	store := NewStore()

	id := store.Add(&statemodel.State{ID: 42, Name: "settings"})
	if id != 42 {
		t.Errorf("expected pre-assigned id 42 kept, got %d", id)
	}

	// The next issued id must not collide with the pre-assigned one.
	next := store.Add(&statemodel.State{Name: "about"})
	if next != 43 {
		t.Errorf("expected next id 43, got %d", next)
	}
}

func TestLookupByNameAndID(t *testing.T) {
	store := NewStore()
	id := store.Add(&statemodel.State{Name: "login"})

	gotID, ok := store.IDByName("login")
	if !ok || gotID != id {
		t.Errorf("IDByName failed: got %d, ok=%v", gotID, ok)
	}

	rec, ok := store.RecordByID(id)
	if !ok || rec.Name != "login" {
		t.Errorf("RecordByID failed: got %+v, ok=%v", rec, ok)
	}

	if _, ok := store.IDByName("missing"); ok {
		t.Error("expected lookup miss for unregistered name")
	}
	if _, ok := store.RecordByID(99); ok {
		t.Error("expected lookup miss for unregistered id")
	}
}

func TestAllKnownIDsSorted(t *testing.T) {
	store := NewStore()
	store.Add(&statemodel.State{ID: 7, Name: "c"})
	store.Add(&statemodel.State{ID: 3, Name: "a"})
	store.Add(&statemodel.State{ID: 5, Name: "b"})

	ids := store.AllKnownIDs()
	want := []statemodel.StateID{3, 5, 7}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("expected ids %v, got %v", want, ids)
			break
		}
	}
}

func TestRecordVisitBookkeeping(t *testing.T) {
	store := NewStore()
	id := store.Add(&statemodel.State{Name: "login", BaseProbability: 100})

	store.RecordVisit(id)
	store.RecordVisit(id)

	rec, _ := store.RecordByID(id)
	if rec.TimesVisited != 2 {
		t.Errorf("expected 2 visits, got %d", rec.TimesVisited)
	}
	if rec.Probability != 100 {
		t.Errorf("expected probability reset to base 100, got %d", rec.Probability)
	}

	// Visiting an unknown id is a silent no-op.
	store.RecordVisit(999)
}

func TestSetHiddenStatesCopiesInput(t *testing.T) {
	store := NewStore()
	id := store.Add(&statemodel.State{Name: "dialog"})

	hidden := []statemodel.StateID{10, 11}
	store.SetHiddenStates(id, hidden)
	hidden[0] = 99

	rec, _ := store.RecordByID(id)
	if rec.HiddenStates[0] != 10 {
		t.Error("hidden-state stack must be isolated from caller's slice")
	}
}
