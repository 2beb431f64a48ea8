package graph

import (
	"testing"

	"navigator/pkg/statemodel"
)

func TestTransitionsForMissingState(t *testing.T) {
	store := NewTransitionStore()
	if _, ok := store.TransitionsForState(5); ok {
		t.Error("expected miss for state with no transitions")
	}
}

func TestAddAndLookup(t *testing.T) {
	store := NewTransitionStore()
	set := &statemodel.TransitionSet{StateID: 1, StateName: "login"}
	store.Add(set)

	got, ok := store.TransitionsForState(1)
	if !ok || got != set {
		t.Errorf("expected staged set returned, got %v ok=%v", got, ok)
	}
}

func TestIndexPicksUpLateResolvedSources(t *testing.T) {
	store := NewTransitionStore()
	set := &statemodel.TransitionSet{StateName: "home"} // source id unresolved
	store.Add(set)

	if _, ok := store.TransitionsForState(3); ok {
		t.Fatal("unlinked set must not be indexed yet")
	}

	// Simulates the id resolver filling in the source id.
	set.StateID = 3
	store.Index()

	if _, ok := store.TransitionsForState(3); !ok {
		t.Error("expected set indexed after Index()")
	}
}

func TestAllReturnsStagedCopies(t *testing.T) {
	store := NewTransitionStore()
	store.Add(&statemodel.TransitionSet{StateName: "a"})
	store.Add(&statemodel.TransitionSet{StateName: "b"})

	all := store.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 staged sets, got %d", len(all))
	}

	// Mutating the returned slice must not affect the store.
	all[0] = nil
	if store.All()[0] == nil {
		t.Error("All must return an isolated slice")
	}
}
