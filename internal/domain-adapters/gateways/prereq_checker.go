package gateways

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Marker files that identify the provider repository root. The pipeline
// refuses to run anywhere else.
var repositoryMarkers = []string{"Makefile", ".gitmodules"}

// Tools the pipeline shells out to. The up CLI is provisioned by the pipeline
// itself and is not checked here.
var requiredTools = []string{"make", "docker", "git"}

// PrerequisiteChecker validates the working directory and the host toolchain
// before any stage with side effects runs.
type PrerequisiteChecker struct {
	workDir  string
	markers  []string
	tools    []string
	lookPath func(string) (string, error)
}

// NewPrerequisiteChecker creates a checker rooted at the given directory.
func NewPrerequisiteChecker(workDir string) *PrerequisiteChecker {
	return &PrerequisiteChecker{
		workDir:  workDir,
		markers:  repositoryMarkers,
		tools:    requiredTools,
		lookPath: exec.LookPath,
	}
}

// Check reports the first missing marker file or tool. Markers are checked
// before tools.
func (c *PrerequisiteChecker) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, marker := range c.markers {
		if _, err := os.Stat(filepath.Join(c.workDir, marker)); err != nil {
			return fmt.Errorf("not in the provider repository root: %s not found in %s", marker, c.workDir)
		}
	}

	for _, tool := range c.tools {
		if _, err := c.lookPath(tool); err != nil {
			return fmt.Errorf("required tool %q not found on PATH: %w", tool, err)
		}
	}

	return nil
}
