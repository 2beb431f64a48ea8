// Package linker performs the one-time linking pass that rewrites symbolic
// name references inside transition collections into registry identifiers
// once all states are registered.
package linker

import (
	"navigator/pkg/logx"
	"navigator/pkg/statemodel"
)

// Registry is the name-to-id lookup used for linking.
type Registry interface {
	IDByName(name string) (statemodel.StateID, bool)
}

// Resolver links transition collections against the registry. Linking is
// idempotent: re-running it adds nothing new and overwrites nothing.
type Resolver struct {
	registry Registry
	logger   *logx.Logger
}

// NewResolver creates a resolver over the registry.
func NewResolver(registry Registry) *Resolver {
	return &Resolver{
		registry: registry,
		logger:   logx.NewLogger("linker"),
	}
}

// LinkOne resolves a single transition collection. The collection's source
// id is filled in from its name only when unset; a pre-assigned id is never
// overwritten, so states created programmatically keep their ids. Each
// activation name resolves independently: misses are dropped with a warning,
// and resolved ids are merged into any activation ids already present.
func (r *Resolver) LinkOne(set *statemodel.TransitionSet) {
	if set == nil {
		return
	}

	if set.StateID == 0 && set.StateName != "" {
		if id, ok := r.registry.IDByName(set.StateName); ok {
			set.StateID = id
		} else {
			r.logger.Warn("source state %q not registered, collection left unlinked", set.StateName)
		}
	}

	for _, t := range set.Transitions {
		r.linkTransition(t)
	}
	if set.Finish != nil {
		r.linkTransition(set.Finish)
	}
}

func (r *Resolver) linkTransition(t *statemodel.Transition) {
	if t.Activate == nil {
		t.Activate = statemodel.NewIDSet()
	}
	for _, name := range t.ActivateNames {
		id, ok := r.registry.IDByName(name)
		if !ok {
			r.logger.Warn("activation target %q not registered, dropped", name)
			continue
		}
		t.Activate.Add(id)
	}
}

// LinkAll applies LinkOne to every collection. An empty input is a no-op.
func (r *Resolver) LinkAll(sets []*statemodel.TransitionSet) {
	for _, set := range sets {
		r.LinkOne(set)
	}
}
