package config

import (
	"navigator/pkg/graph"
	"navigator/pkg/linker"
	"navigator/pkg/logx"
	"navigator/pkg/registry"
	"navigator/pkg/statemodel"
)

// PreviousTarget is the reserved activation target name that resolves to the
// PREVIOUS marker instead of a declared state.
const PreviousTarget = "previous"

// DefaultBaseProbability is assumed when a state declares none.
const DefaultBaseProbability = 100

// System is the assembled, linked state graph built from a definition.
type System struct {
	Def         *GraphDefinition
	Registry    *registry.Store
	Transitions *graph.TransitionStore
}

// BuildSystem registers every declared state, stages the transition
// collections, and runs the linking pass. The returned system is ready for
// adjacency queries and initial-state registration.
func BuildSystem(def *GraphDefinition) *System {
	logger := logx.NewLogger("config")

	reg := registry.NewStore()
	for _, s := range def.States {
		base := s.BaseProbability
		if base == 0 {
			base = DefaultBaseProbability
		}
		reg.Add(&statemodel.State{Name: s.Name, BaseProbability: base})
	}

	store := graph.NewTransitionStore()
	sets := make(map[string]*statemodel.TransitionSet)
	order := make([]string, 0)
	for _, t := range def.Transitions {
		set, ok := sets[t.From]
		if !ok {
			set = &statemodel.TransitionSet{StateName: t.From}
			sets[t.From] = set
			order = append(order, t.From)
		}
		set.Add(buildTransition(t, reg, logger))
	}

	staged := make([]*statemodel.TransitionSet, 0, len(order))
	for _, name := range order {
		staged = append(staged, sets[name])
		store.Add(sets[name])
	}

	linker.NewResolver(reg).LinkAll(staged)
	store.Index()

	logger.Info("graph %q assembled: %d states, %d transition collections", def.Name, reg.Len(), len(staged))

	return &System{Def: def, Registry: reg, Transitions: store}
}

// buildTransition converts one transition declaration. Activation targets
// stay name-form for the linker, except the reserved "previous" keyword,
// which maps straight to the PREVIOUS marker. Exit targets resolve
// immediately since the registry is already populated.
func buildTransition(def TransitionDef, reg *registry.Store, logger *logx.Logger) *statemodel.Transition {
	t := statemodel.NewTransition()
	t.PathCost = def.Cost

	for _, target := range def.Activate {
		if target == PreviousTarget {
			t.Activate.Add(statemodel.PreviousStateID)
			continue
		}
		t.ActivateNames = append(t.ActivateNames, target)
	}

	for _, target := range def.Exit {
		if id, ok := reg.IDByName(target); ok {
			t.Exit.Add(id)
		} else {
			logger.Warn("exit target %q not registered, dropped", target)
		}
	}

	switch def.StaysVisible {
	case "stays":
		t.StaysVisible = statemodel.VisibilityStays
	case "hidden":
		t.StaysVisible = statemodel.VisibilityHidden
	default:
		t.StaysVisible = statemodel.VisibilityUnspecified
	}

	return t
}

// RegisterInitial registers the definition's candidate sets on a selector.
// Selector semantics apply: non-positive weights and fully unresolvable sets
// contribute nothing.
func (s *System) RegisterInitial(sel InitialRegistrar) {
	for _, c := range s.Def.Initial {
		sel.AddStateSetByName(c.Weight, c.States...)
	}
}

// InitialRegistrar is the selector surface needed for registration.
type InitialRegistrar interface {
	AddStateSetByName(weight int, names ...string)
}
