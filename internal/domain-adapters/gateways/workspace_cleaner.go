package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
)

// WorkspaceCleaner removes the results of previous builds: the build system's
// declared outputs, the package output tree, and stale container images
// matching a name pattern.
type WorkspaceCleaner struct {
	runner      Runner
	workDir     string
	outputDir   string
	imageFilter string
}

// NewWorkspaceCleaner creates a cleaner for the given repository root.
// imageFilter is a docker reference pattern, e.g. "*provider-sql*".
func NewWorkspaceCleaner(runner Runner, workDir, outputDir, imageFilter string) *WorkspaceCleaner {
	return &WorkspaceCleaner{
		runner:      runner,
		workDir:     workDir,
		outputDir:   outputDir,
		imageFilter: imageFilter,
	}
}

// Clean runs every cleanup step even when earlier ones fail and returns the
// combined errors. Callers treat the result as advisory.
func (c *WorkspaceCleaner) Clean(ctx context.Context) error {
	var errs error

	if result, err := c.runner.Run(ctx, Command{Name: "make", Args: []string{"clean"}, Dir: c.workDir}); err != nil {
		errs = multierr.Append(errs, runError("make clean", result, err))
	}

	if err := os.RemoveAll(c.outputPath()); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("removing output tree: %w", err))
	}

	return multierr.Append(errs, c.removeImages(ctx))
}

func (c *WorkspaceCleaner) outputPath() string {
	if filepath.IsAbs(c.outputDir) {
		return c.outputDir
	}
	return filepath.Join(c.workDir, c.outputDir)
}

// removeImages force-removes all local images whose reference matches the
// filter. Nothing matching is the common case on a fresh host.
func (c *WorkspaceCleaner) removeImages(ctx context.Context) error {
	listing, err := c.runner.Run(ctx, Command{
		Name: "docker",
		Args: []string{"images", "--filter", "reference=" + c.imageFilter, "--quiet"},
	})
	if err != nil {
		return runError("listing stale images", listing, err)
	}

	ids := dedupe(strings.Fields(listing.Stdout))
	if len(ids) == 0 {
		return nil
	}

	args := append([]string{"rmi", "--force"}, ids...)
	if result, err := c.runner.Run(ctx, Command{Name: "docker", Args: args}); err != nil {
		return runError("removing stale images", result, err)
	}

	return nil
}

// dedupe drops repeated ids preserving order; a multi-tagged image shows up
// once per tag in the listing.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	deduped := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}
	return deduped
}
