// Package gateways adapts the external tools the pipeline drives (make,
// docker, git, the up CLI) and the network endpoints it talks to into the
// narrow interfaces the orchestrator consumes.
package gateways

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Runner abstracts subprocess execution so gateways can be exercised in tests
// without the real tools installed.
type Runner interface {
	Run(ctx context.Context, command Command) (*CommandResult, error)
}

// Command describes one external process invocation. Args is an argv vector;
// nothing is passed through a shell, so values with spaces or metacharacters
// arrive at the tool verbatim.
type Command struct {
	Name  string
	Args  []string
	Dir   string            // working directory, current directory when empty
	Env   map[string]string // appended to the inherited environment
	Stdin io.Reader
}

// CommandResult captures the observable outcome of a finished command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// CommandRunner executes commands on the host. It applies no timeout of its
// own; long-running builds are bounded only by the caller's context.
type CommandRunner struct{}

// NewCommandRunner creates a runner backed by os/exec.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{}
}

// Run starts the command and waits for it to finish, capturing both output
// streams. A non-zero exit is reported as an error alongside the populated
// result, so callers can inspect output even on failure.
func (r *CommandRunner) Run(ctx context.Context, command Command) (*CommandResult, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, command.Name, command.Args...)
	if command.Dir != "" {
		cmd.Dir = command.Dir
	}
	if len(command.Env) > 0 {
		env := os.Environ()
		for key, value := range command.Env {
			env = append(env, fmt.Sprintf("%s=%s", key, value))
		}
		cmd.Env = env
	}
	if command.Stdin != nil {
		cmd.Stdin = command.Stdin
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := &CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%s interrupted: %w", command.Name, ctxErr)
		}
		return result, err
	}

	return result, nil
}

// runError wraps a failed command with the action it was performing and the
// tool's stderr, which is usually the only useful diagnostic.
func runError(action string, result *CommandResult, err error) error {
	if result != nil {
		if detail := strings.TrimSpace(result.Stderr); detail != "" {
			return fmt.Errorf("%s: %w: %s", action, err, detail)
		}
	}
	return fmt.Errorf("%s: %w", action, err)
}
