// Package config loads and validates YAML state-graph definitions and
// assembles them into a linked, queryable graph.
package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"navigator/pkg/logx"
)

// GraphDefinition is the YAML document describing an automation graph:
// the states, the transitions between them, and the weighted candidate sets
// for initial-state resolution.
type GraphDefinition struct {
	Name        string          `yaml:"name"`
	States      []StateDef      `yaml:"states"`
	Transitions []TransitionDef `yaml:"transitions"`
	Initial     []CandidateDef  `yaml:"initial"`
}

// StateDef declares one state.
type StateDef struct {
	Name string `yaml:"name"`
	// BaseProbability is the baseline belief (percent) used when the state
	// is activated without direct evidence. Zero means the default of 100.
	BaseProbability int `yaml:"base_probability"`
}

// TransitionDef declares one transition out of a source state. Targets are
// given by name; the id resolver links them once all states are registered.
type TransitionDef struct {
	From         string   `yaml:"from"`
	Activate     []string `yaml:"activate"`
	Exit         []string `yaml:"exit"`
	Cost         int      `yaml:"cost"`
	StaysVisible string   `yaml:"stays_visible"` // "stays", "hidden", or empty
}

// CandidateDef declares one weighted initial-state candidate set.
type CandidateDef struct {
	Weight int      `yaml:"weight"`
	States []string `yaml:"states"`
}

// Load reads and validates a graph definition file.
func Load(path string) (*GraphDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph definition: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a graph definition document. Unknown fields
// are rejected to catch typos in hand-written graph files.
func Parse(data []byte) (*GraphDefinition, error) {
	var def GraphDefinition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse graph definition: %w", err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks structural integrity: states must be named and unique,
// transitions must come from a declared state, and activation targets must
// be declared. A non-positive candidate weight is allowed (it disables the
// candidate) and only logged.
func (d *GraphDefinition) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("graph definition requires a name")
	}
	if len(d.States) == 0 {
		return fmt.Errorf("graph %q declares no states", d.Name)
	}

	logger := logx.NewLogger("config")
	names := make(map[string]bool, len(d.States))
	for _, s := range d.States {
		if s.Name == "" {
			return fmt.Errorf("graph %q contains an unnamed state", d.Name)
		}
		if names[s.Name] {
			return fmt.Errorf("duplicate state name %q", s.Name)
		}
		if s.BaseProbability < 0 || s.BaseProbability > 100 {
			return fmt.Errorf("state %q: base_probability %d out of range [0,100]", s.Name, s.BaseProbability)
		}
		names[s.Name] = true
	}

	for i, t := range d.Transitions {
		if t.From == "" {
			return fmt.Errorf("transition %d missing source state", i)
		}
		if !names[t.From] {
			return fmt.Errorf("transition %d: unknown source state %q", i, t.From)
		}
		if len(t.Activate) == 0 {
			return fmt.Errorf("transition %d from %q activates nothing", i, t.From)
		}
		for _, target := range t.Activate {
			if target != PreviousTarget && !names[target] {
				return fmt.Errorf("transition %d from %q: unknown activation target %q", i, t.From, target)
			}
		}
		switch t.StaysVisible {
		case "", "stays", "hidden":
		default:
			return fmt.Errorf("transition %d from %q: invalid stays_visible %q", i, t.From, t.StaysVisible)
		}
	}

	for i, c := range d.Initial {
		if c.Weight <= 0 {
			logger.Warn("initial candidate %d has non-positive weight %d and will be ignored", i, c.Weight)
		}
		for _, name := range c.States {
			if !names[name] {
				return fmt.Errorf("initial candidate %d: unknown state %q", i, name)
			}
		}
	}

	return nil
}
