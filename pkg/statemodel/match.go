package statemodel

// Match is a single piece of visual evidence produced by the pattern
// matching pipeline. The engine only consumes the owner-state linkage; the
// pipeline itself is outside this module.
type Match struct {
	// OwnerStateID is the state the matched pattern belongs to. Zero or
	// NullStateID means the match carries no state linkage.
	OwnerStateID StateID

	// OwnerStateName is the owner state's display name, if known.
	OwnerStateName string

	// Score is the match similarity reported by the pipeline.
	Score float64
}

// HasOwnerState reports whether the match is linked to a concrete state.
func (m Match) HasOwnerState() bool {
	return m.OwnerStateID > 0
}
