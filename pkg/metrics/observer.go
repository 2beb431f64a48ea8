package metrics

import "navigator/pkg/statemodel"

// NameLookup resolves state ids to display names for metric labels.
type NameLookup interface {
	StateName(id statemodel.StateID) string
}

// MemoryObserver adapts a Recorder to the active state memory's observer
// contract so activations and removals are counted as they happen.
type MemoryObserver struct {
	recorder Recorder
	names    NameLookup
}

// NewMemoryObserver creates an observer that records into rec.
func NewMemoryObserver(rec Recorder, names NameLookup) *MemoryObserver {
	return &MemoryObserver{recorder: rec, names: names}
}

// StateActivated counts one activation.
func (o *MemoryObserver) StateActivated(id statemodel.StateID, name string) {
	if name == "" {
		name = o.names.StateName(id)
	}
	o.recorder.ObserveActivation(name)
}

// StateRemoved counts one removal.
func (o *MemoryObserver) StateRemoved(id statemodel.StateID) {
	o.recorder.ObserveRemoval(o.names.StateName(id))
}
