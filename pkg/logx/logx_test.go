package logx

import (
	"testing"
)

func TestDebugDomainFiltering(t *testing.T) {
	SetDebug(true)
	defer SetDebug(false)
	defer SetDebugDomains(nil)

	SetDebugDomains([]string{"initial", "memory"})

	if !IsDebugEnabledFor("initial") {
		t.Error("expected debug enabled for initial")
	}
	if IsDebugEnabledFor("adjacency") {
		t.Error("expected debug disabled for adjacency")
	}

	// Clearing domains enables all components.
	SetDebugDomains(nil)
	if !IsDebugEnabledFor("adjacency") {
		t.Error("expected debug enabled for all components after clearing domains")
	}
}

func TestDebugDisabledByDefault(t *testing.T) {
	SetDebug(false)
	if IsDebugEnabledFor("initial") {
		t.Error("expected debug disabled when globally off")
	}
}

func TestRecentEntriesCapturesLogs(t *testing.T) {
	logger := NewLogger("test-component")
	logger.Info("hello %s", "world")

	entries := RecentEntries()
	if len(entries) == 0 {
		t.Fatal("expected at least one buffered entry")
	}

	last := entries[len(entries)-1]
	if last.Component != "test-component" {
		t.Errorf("expected component test-component, got %s", last.Component)
	}
	if last.Message != "hello world" {
		t.Errorf("expected formatted message, got %q", last.Message)
	}
	if last.Level != string(LevelInfo) {
		t.Errorf("expected INFO level, got %s", last.Level)
	}
}

func TestRingBufferBounded(t *testing.T) {
	b := &ringBuffer{maxSize: 3}
	for i := 0; i < 10; i++ {
		b.add(Entry{Message: "m"})
	}
	if got := len(b.snapshot()); got != 3 {
		t.Errorf("expected buffer capped at 3, got %d", got)
	}
}
