package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"navigator/pkg/statemodel"
)

const demoGraph = `
name: demo-app
states:
  - name: login
    base_probability: 100
  - name: home
  - name: settings
transitions:
  - from: login
    activate: [home]
    exit: [login]
    cost: 1
  - from: home
    activate: [settings]
    stays_visible: stays
  - from: settings
    activate: [previous]
initial:
  - weight: 60
    states: [login]
  - weight: 40
    states: [home]
`

func TestParseValidGraph(t *testing.T) {
	def, err := Parse([]byte(demoGraph))
	require.NoError(t, err)

	assert.Equal(t, "demo-app", def.Name)
	assert.Len(t, def.States, 3)
	assert.Len(t, def.Transitions, 3)
	assert.Len(t, def.Initial, 2)
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse([]byte("name: x\nstates:\n  - name: a\nbogus: true\n"))
	assert.Error(t, err)
}

func TestValidateRejectsBadGraphs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", "states:\n  - name: a\n"},
		{"no states", "name: x\n"},
		{"duplicate state", "name: x\nstates:\n  - name: a\n  - name: a\n"},
		{"unknown transition source", "name: x\nstates:\n  - name: a\ntransitions:\n  - from: b\n    activate: [a]\n"},
		{"empty activation", "name: x\nstates:\n  - name: a\ntransitions:\n  - from: a\n    activate: []\n"},
		{"unknown activation target", "name: x\nstates:\n  - name: a\ntransitions:\n  - from: a\n    activate: [b]\n"},
		{"bad stays_visible", "name: x\nstates:\n  - name: a\n  - name: b\ntransitions:\n  - from: a\n    activate: [b]\n    stays_visible: maybe\n"},
		{"probability out of range", "name: x\nstates:\n  - name: a\n    base_probability: 150\n"},
		{"unknown initial state", "name: x\nstates:\n  - name: a\ninitial:\n  - weight: 10\n    states: [b]\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(demoGraph), 0644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo-app", def.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBuildSystemLinksGraph(t *testing.T) {
	def, err := Parse([]byte(demoGraph))
	require.NoError(t, err)

	sys := BuildSystem(def)

	loginID, ok := sys.Registry.IDByName("login")
	require.True(t, ok)
	homeID, ok := sys.Registry.IDByName("home")
	require.True(t, ok)

	set, ok := sys.Transitions.TransitionsForState(loginID)
	require.True(t, ok, "login's transition collection must be indexed by id")
	require.Len(t, set.Transitions, 1)
	assert.True(t, set.Transitions[0].Activate.Contains(homeID))
	assert.True(t, set.Transitions[0].Exit.Contains(loginID))

	// The "previous" keyword maps to the PREVIOUS marker, not a state.
	settingsID, _ := sys.Registry.IDByName("settings")
	set, ok = sys.Transitions.TransitionsForState(settingsID)
	require.True(t, ok)
	assert.True(t, set.Transitions[0].Activate.Contains(statemodel.PreviousStateID))
}

func TestBuildSystemDefaultsBaseProbability(t *testing.T) {
	def, err := Parse([]byte(demoGraph))
	require.NoError(t, err)

	sys := BuildSystem(def)

	homeID, _ := sys.Registry.IDByName("home")
	rec, ok := sys.Registry.RecordByID(homeID)
	require.True(t, ok)
	assert.Equal(t, DefaultBaseProbability, rec.BaseProbability)
}

type fakeRegistrar struct {
	calls []struct {
		weight int
		names  []string
	}
}

func (f *fakeRegistrar) AddStateSetByName(weight int, names ...string) {
	f.calls = append(f.calls, struct {
		weight int
		names  []string
	}{weight, names})
}

func TestRegisterInitial(t *testing.T) {
	def, err := Parse([]byte(demoGraph))
	require.NoError(t, err)

	sys := BuildSystem(def)
	reg := &fakeRegistrar{}
	sys.RegisterInitial(reg)

	require.Len(t, reg.calls, 2)
	assert.Equal(t, 60, reg.calls[0].weight)
	assert.Equal(t, []string{"login"}, reg.calls[0].names)
	assert.Equal(t, 40, reg.calls[1].weight)
}
