package statemodel

import "sort"

// IDSet is a set of state identifiers with unique membership.
type IDSet map[StateID]bool

// NewIDSet creates a set containing the given ids.
func NewIDSet(ids ...StateID) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// Add inserts id into the set.
func (s IDSet) Add(id StateID) {
	s[id] = true
}

// Contains reports whether id is a member.
func (s IDSet) Contains(id StateID) bool {
	return s[id]
}

// Union adds every member of other to the set.
func (s IDSet) Union(other IDSet) {
	for id := range other {
		s[id] = true
	}
}

// Copy returns an independent copy of the set.
func (s IDSet) Copy() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = true
	}
	return out
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []StateID {
	ids := make([]StateID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
