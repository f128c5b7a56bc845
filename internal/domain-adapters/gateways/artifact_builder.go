package gateways

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
)

// ArtifactBuilder drives the external build system that produces the
// architecture-specific package files.
type ArtifactBuilder struct {
	runner  Runner
	workDir string
}

// NewArtifactBuilder creates a builder rooted at the given directory.
func NewArtifactBuilder(runner Runner, workDir string) *ArtifactBuilder {
	return &ArtifactBuilder{runner: runner, workDir: workDir}
}

// Build invokes the build system once for the given version and then checks
// that every expected artifact exists on disk. A zero exit with missing
// outputs is reported as a build failure.
func (b *ArtifactBuilder) Build(ctx context.Context, version string, artifacts []entities.Artifact) error {
	result, err := b.runner.Run(ctx, Command{
		Name: "make",
		Args: []string{"build.init", "build.all", "VERSION=" + version},
		Dir:  b.workDir,
	})
	if err != nil {
		return runError("building packages", result, err)
	}

	var missing []string
	for _, artifact := range artifacts {
		path := artifact.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(b.workDir, path)
		}
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, artifact.Path)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("build reported success but expected artifacts are missing: %s", strings.Join(missing, ", "))
	}

	return nil
}
