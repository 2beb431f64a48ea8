package statemodel

// State describes one distinguishable screen or mode of the automated
// application. States are owned by the registry; other packages hold
// identifiers and look records up on demand.
type State struct {
	// ID is the stable identifier issued by the registry. Zero means the
	// state has not been registered yet.
	ID StateID

	// Name is the display name used in graph definitions and logs.
	Name string

	// BaseProbability is the configured baseline belief (percent) that this
	// state exists on screen when activated without direct evidence.
	BaseProbability int

	// Probability is the current belief (percent) that the state is showing.
	Probability int

	// TimesVisited counts how often the state has been activated.
	TimesVisited int

	// HiddenStates holds the states that were active immediately before this
	// state became active and were hidden, not exited, by the transition in.
	// The PREVIOUS marker resolves to this stack at query time.
	HiddenStates []StateID
}

// SetProbabilityToBase resets the current belief to the configured baseline.
func (s *State) SetProbabilityToBase() {
	s.Probability = s.BaseProbability
}

// AddHiddenState pushes a hidden state onto the stack.
func (s *State) AddHiddenState(id StateID) {
	s.HiddenStates = append(s.HiddenStates, id)
}

// ResetHiddenStates clears the hidden-state stack.
func (s *State) ResetHiddenStates() {
	s.HiddenStates = nil
}
