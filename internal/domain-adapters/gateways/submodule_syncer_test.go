package gateways

import (
	"context"
	"strings"
	"testing"
)

func TestSubmoduleSyncer_Sync(t *testing.T) {
	runner := &fakeRunner{}
	syncer := NewSubmoduleSyncer(runner, "/repo")

	if err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(runner.calls) != 1 {
		t.Fatalf("ran %d commands, want 1", len(runner.calls))
	}
	if got, want := argv(runner.calls[0]), "git submodule update --init --recursive"; got != want {
		t.Errorf("command = %q, want %q", got, want)
	}
	if runner.calls[0].Dir != "/repo" {
		t.Errorf("command dir = %q, want /repo", runner.calls[0].Dir)
	}
}

func TestSubmoduleSyncer_Sync_Failure(t *testing.T) {
	runner := &fakeRunner{results: []fakeResult{
		fail(128, "fatal: not a git repository"),
	}}
	syncer := NewSubmoduleSyncer(runner, "/repo")

	err := syncer.Sync(context.Background())
	if err == nil {
		t.Fatal("Sync() = nil, want error")
	}
	if !strings.Contains(err.Error(), "not a git repository") {
		t.Errorf("Sync() error = %v, want git stderr included", err)
	}
}
