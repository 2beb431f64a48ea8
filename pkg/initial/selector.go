// Package initial determines the most likely active states when automation
// starts: weighted candidate sets are registered at configuration time and
// resolved at run start, either by probing the real application or by a
// weighted simulated draw.
package initial

import (
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"navigator/pkg/logx"
	"navigator/pkg/statemodel"
)

// ErrNoActiveStates is returned by live-mode resolution when both the
// targeted and exhaustive probe phases find nothing on screen. It is the one
// resolution failure surfaced to the host: automation cannot safely begin
// without a starting state.
var ErrNoActiveStates = errors.New("initial state resolution found no active states")

// Registry is the state lookup used for name resolution and the exhaustive
// probe fallback.
type Registry interface {
	RecordByID(id statemodel.StateID) (*statemodel.State, bool)
	IDByName(name string) (statemodel.StateID, bool)
	AllKnownIDs() []statemodel.StateID
}

// Memory is the active state belief set the selector populates.
type Memory interface {
	Add(id statemodel.StateID)
	Len() int
}

// Detector probes whether a state is currently showing on screen. Probes may
// block on screen capture and pattern matching; cancellation, if any, is the
// detector's responsibility. A failed probe is an ordinary outcome, not an
// error.
type Detector interface {
	Probe(id statemodel.StateID) bool
}

// RandSource supplies the random draws for simulated resolution. Injectable
// so tests can use deterministic draws.
type RandSource interface {
	// IntN returns a uniformly distributed int in [0, n).
	IntN(n int) int
}

// Metrics receives probe and resolution observations.
type Metrics interface {
	ObserveProbe(state string, success bool)
	ObserveResolution(mode, outcome string, duration time.Duration)
}

// Config carries the selector's run-mode wiring.
type Config struct {
	// Simulated selects offline resolution by weighted draw instead of
	// probing the application.
	Simulated bool

	// Detector performs live-mode probes. Required for live mode.
	Detector Detector

	// Rand overrides the random source for simulated draws.
	Rand RandSource

	// Metrics receives observations. Nil disables metric recording.
	Metrics Metrics
}

// candidate is one registered weighted activation set. cumulative is the
// upper bound of this entry's slice of the roulette wheel.
type candidate struct {
	weight     int
	cumulative int
	states     statemodel.IDSet
}

// Selector registers weighted candidate sets and resolves them once at run
// start.
type Selector struct {
	mu         sync.Mutex
	registry   Registry
	memory     Memory
	cfg        Config
	candidates []candidate
	sumWeights int
	logger     *logx.Logger
}

type defaultRand struct{}

func (defaultRand) IntN(n int) int { return rand.IntN(n) }

type noopMetrics struct{}

func (noopMetrics) ObserveProbe(string, bool) {}

func (noopMetrics) ObserveResolution(string, string, time.Duration) {}

// NewSelector creates a selector over the given registry and memory.
func NewSelector(registry Registry, memory Memory, cfg Config) *Selector {
	if cfg.Rand == nil {
		cfg.Rand = defaultRand{}
	}
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	return &Selector{
		registry: registry,
		memory:   memory,
		cfg:      cfg,
		logger:   logx.NewLogger("initial"),
	}
}

// AddStateSet registers a weighted candidate set of already-registered
// states. A weight <= 0 is ignored silently: zero-weight entries are a
// legitimate way to disable a candidate without removing code. States
// without an issued id are dropped; if nothing survives, the whole call is
// skipped and the running weight sum is unchanged.
func (s *Selector) AddStateSet(weight int, states ...*statemodel.State) {
	if weight <= 0 {
		return
	}
	ids := statemodel.NewIDSet()
	for _, state := range states {
		if state == nil || state.ID <= 0 {
			s.logger.Warn("dropping unregistered state from candidate set")
			continue
		}
		ids.Add(state.ID)
	}
	s.register(weight, ids)
}

// AddStateSetByName registers a weighted candidate set by state name. Names
// that do not resolve are dropped with a warning, never an error: partial
// configurations are an expected workflow during staged rollout.
func (s *Selector) AddStateSetByName(weight int, names ...string) {
	if weight <= 0 {
		return
	}
	ids := statemodel.NewIDSet()
	for _, name := range names {
		id, ok := s.registry.IDByName(name)
		if !ok {
			s.logger.Warn("dropping unresolved state name %q from candidate set", name)
			continue
		}
		ids.Add(id)
	}
	s.register(weight, ids)
}

// register appends a candidate entry. The running sum only grows when at
// least one state survived resolution, so the sum always equals the total
// weight of entries that can actually be drawn.
func (s *Selector) register(weight int, ids statemodel.IDSet) {
	if len(ids) == 0 {
		s.logger.Warn("candidate set resolved to zero states, skipping registration")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sumWeights += weight
	s.candidates = append(s.candidates, candidate{
		weight:     weight,
		cumulative: s.sumWeights,
		states:     ids,
	})
}

// SumWeights returns the running sum of registered weights.
func (s *Selector) SumWeights() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumWeights
}

// CandidateCount returns the number of registered candidate sets.
func (s *Selector) CandidateCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.candidates)
}

// Resolve populates the active state memory. With no registered candidates
// it is a no-op. In simulated mode one candidate set is chosen by weighted
// draw and activated directly. In live mode the registered candidates are
// probed first; if nothing is found, every state known to the registry is
// probed before giving up with ErrNoActiveStates. The two-phase probe bounds
// cost in the common case while still recovering from a completely
// unexpected starting screen.
func (s *Selector) Resolve() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.candidates) == 0 {
		s.logger.Debug("no candidate sets registered, nothing to resolve")
		return nil
	}

	start := time.Now()
	if s.cfg.Simulated {
		s.activateByDraw()
		s.cfg.Metrics.ObserveResolution("simulated", "activated", time.Since(start))
		return nil
	}

	s.probeCandidates()
	if s.memory.Len() == 0 {
		s.logger.Info("no registered candidate found on screen, probing all %d known states", len(s.registry.AllKnownIDs()))
		s.probeAllKnown()
	}
	if s.memory.Len() == 0 {
		s.cfg.Metrics.ObserveResolution("live", "empty", time.Since(start))
		return ErrNoActiveStates
	}
	s.cfg.Metrics.ObserveResolution("live", "activated", time.Since(start))
	return nil
}

// activateByDraw performs roulette-wheel selection: a uniform draw in
// [1, sumWeights], walked against the cumulative upper bounds in
// registration order. Entry i owns the range (cumulative[i-1], cumulative[i]].
func (s *Selector) activateByDraw() {
	idx := s.chooseBucket()
	chosen := s.candidates[idx]
	s.logger.Debug("simulated draw chose candidate %d (weight %d)", idx, chosen.weight)
	for _, id := range chosen.states.Sorted() {
		s.memory.Add(id)
	}
}

// chooseBucket draws and returns the index of the selected candidate.
func (s *Selector) chooseBucket() int {
	draw := s.cfg.Rand.IntN(s.sumWeights) + 1
	for i, c := range s.candidates {
		if c.cumulative >= draw {
			return i
		}
	}
	// Unreachable: the last cumulative bound equals sumWeights.
	return len(s.candidates) - 1
}

// probeCandidates probes every distinct state across the registered
// candidate sets, in registration order.
func (s *Selector) probeCandidates() {
	if s.cfg.Detector == nil {
		s.logger.Error("live resolution without a detector, skipping probes")
		return
	}
	probed := statemodel.NewIDSet()
	for _, c := range s.candidates {
		for _, id := range c.states.Sorted() {
			if probed.Contains(id) {
				continue
			}
			probed.Add(id)
			s.probe(id)
		}
	}
}

// probeAllKnown probes every state the registry knows about.
func (s *Selector) probeAllKnown() {
	if s.cfg.Detector == nil {
		return
	}
	for _, id := range s.registry.AllKnownIDs() {
		s.probe(id)
	}
}

// probe runs one detector probe and activates the state on success. A
// failed probe is expected and adds nothing.
func (s *Selector) probe(id statemodel.StateID) {
	name := ""
	if rec, ok := s.registry.RecordByID(id); ok {
		name = rec.Name
	}
	found := s.cfg.Detector.Probe(id)
	s.cfg.Metrics.ObserveProbe(name, found)
	if found {
		s.logger.Info("state %s(%d) found on screen", name, id)
		s.memory.Add(id)
	}
}
