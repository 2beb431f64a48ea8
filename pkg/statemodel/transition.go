package statemodel

// TaskFunc is the opaque executable attached to a transition. It performs
// the actual interaction with the application and reports success.
type TaskFunc func() bool

// Visibility is the post-transition visibility policy for the source state.
type Visibility int

const (
	// VisibilityUnspecified leaves the decision to the framework default.
	VisibilityUnspecified Visibility = iota
	// VisibilityStays means the source state remains visible after the
	// transition completes.
	VisibilityStays
	// VisibilityHidden means the source state is no longer visible.
	VisibilityHidden
)

// Transition is one edge out of a source state. It names the states the
// transition activates and exits, carries the executable that performs it,
// and tracks cost and success bookkeeping used for route ranking.
type Transition struct {
	// Task performs the transition. A nil task always fails.
	Task TaskFunc

	// Activate is the set of state ids this transition activates. It may
	// contain PreviousStateID, which is resolved against the source state's
	// hidden-state stack at query time.
	Activate IDSet

	// ActivateNames holds activation targets referenced by name. The id
	// resolver merges resolved names into Activate once the registry is
	// populated; names that never resolve are dropped.
	ActivateNames []string

	// Exit is the set of state ids this transition exits.
	Exit IDSet

	// PathCost ranks routes through the graph; lower is cheaper.
	PathCost int

	// TimesSuccessful counts successful executions.
	TimesSuccessful int

	// StaysVisible is the post-transition visibility policy for the source.
	StaysVisible Visibility
}

// NewTransition returns a transition with empty activation and exit sets.
func NewTransition() *Transition {
	return &Transition{
		Activate: NewIDSet(),
		Exit:     NewIDSet(),
	}
}

// Execute runs the transition task and updates the success counter.
func (t *Transition) Execute() bool {
	if t.Task == nil {
		return false
	}
	ok := t.Task()
	if ok {
		t.TimesSuccessful++
	}
	return ok
}

// TransitionSet is the per-source-state collection of outgoing transitions,
// plus the distinguished finish step that runs after arrival to confirm the
// transition settled.
type TransitionSet struct {
	// StateID is the source state. Zero means unresolved; the id resolver
	// fills it in from StateName once the registry is populated and never
	// overwrites a pre-assigned id.
	StateID StateID

	// StateName is the source state's configured name.
	StateName string

	// Transitions are the outgoing edges.
	Transitions []*Transition

	// Finish runs after arriving at this state to confirm the transition.
	Finish *Transition
}

// Add appends a transition to the collection.
func (ts *TransitionSet) Add(t *Transition) {
	ts.Transitions = append(ts.Transitions, t)
}
