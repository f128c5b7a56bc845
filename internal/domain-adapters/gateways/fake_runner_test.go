package gateways

import (
	"context"
	"fmt"
	"strings"
)

// fakeRunner records every command it receives and replays scripted results
// in order. An exhausted script keeps succeeding with empty output.
type fakeRunner struct {
	calls   []Command
	results []fakeResult
}

type fakeResult struct {
	result *CommandResult
	err    error
}

func (f *fakeRunner) Run(_ context.Context, command Command) (*CommandResult, error) {
	f.calls = append(f.calls, command)
	if len(f.results) == 0 {
		return &CommandResult{}, nil
	}
	next := f.results[0]
	f.results = f.results[1:]
	if next.result == nil {
		next.result = &CommandResult{}
	}
	return next.result, next.err
}

// succeed scripts a successful run with the given stdout.
func succeed(stdout string) fakeResult {
	return fakeResult{result: &CommandResult{Stdout: stdout}}
}

// fail scripts a failed run with the given exit code and stderr.
func fail(exitCode int, stderr string) fakeResult {
	return fakeResult{
		result: &CommandResult{ExitCode: exitCode, Stderr: stderr},
		err:    fmt.Errorf("exit status %d", exitCode),
	}
}

// argv renders a recorded command as one string for comparison in tests.
func argv(c Command) string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// argvs renders all recorded commands.
func argvs(calls []Command) []string {
	rendered := make([]string, 0, len(calls))
	for _, c := range calls {
		rendered = append(rendered, argv(c))
	}
	return rendered
}
