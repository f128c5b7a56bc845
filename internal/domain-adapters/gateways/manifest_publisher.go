package gateways

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
	"github.com/equisoft-devops/provider-sql/internal/domain/services"
)

// ManifestPublisher aggregates the architecture-specific references into one
// multi-arch manifest list under the plain version tag, then verifies what
// the registry serves back.
type ManifestPublisher struct {
	runner Runner
}

// NewManifestPublisher creates a publisher backed by the docker CLI.
func NewManifestPublisher(runner Runner) *ManifestPublisher {
	return &ManifestPublisher{runner: runner}
}

// Publish replaces any local manifest list for ref, creates a fresh one from
// the pushed artifact references, pushes it, and verifies the result.
func (m *ManifestPublisher) Publish(ctx context.Context, ref string, artifacts []entities.Artifact) error {
	if err := m.removeStale(ctx, ref); err != nil {
		return err
	}

	createArgs := []string{"manifest", "create", ref}
	for _, artifact := range artifacts {
		createArgs = append(createArgs, artifact.Ref)
	}
	if result, err := m.runner.Run(ctx, Command{Name: "docker", Args: createArgs}); err != nil {
		return runError("creating manifest list", result, err)
	}

	if result, err := m.runner.Run(ctx, Command{Name: "docker", Args: []string{"manifest", "push", ref}}); err != nil {
		return runError("pushing manifest list", result, err)
	}

	return m.Verify(ctx, ref, artifacts)
}

// removeStale drops a local manifest list left behind by a previous run.
// docker keeps created lists in a local store and manifest create refuses to
// amend an existing one.
func (m *ManifestPublisher) removeStale(ctx context.Context, ref string) error {
	result, err := m.runner.Run(ctx, Command{Name: "docker", Args: []string{"manifest", "rm", ref}})
	if err != nil && !manifestNotFound(result) {
		return runError("removing stale manifest list", result, err)
	}
	return nil
}

// manifestNotFound reports whether a failed manifest command only means the
// manifest does not exist.
func manifestNotFound(result *CommandResult) bool {
	if result == nil {
		return false
	}
	out := strings.ToLower(result.Stderr + result.Stdout)
	return strings.Contains(out, "no such manifest") || strings.Contains(out, "not found")
}

// Verify fetches the published manifest list and checks that it references
// every target platform exactly once with well-formed digests.
func (m *ManifestPublisher) Verify(ctx context.Context, ref string, artifacts []entities.Artifact) error {
	result, err := m.runner.Run(ctx, Command{Name: "docker", Args: []string{"manifest", "inspect", ref}})
	if err != nil {
		return runError("inspecting manifest list", result, err)
	}

	var index ocispec.Index
	if err := json.Unmarshal([]byte(result.Stdout), &index); err != nil {
		return fmt.Errorf("parsing manifest list for %s: %w", ref, err)
	}

	return checkIndex(ref, &index, artifacts)
}

type platformKey struct {
	os   string
	arch string
}

// checkIndex validates a manifest list against the expected platform set.
func checkIndex(ref string, index *ocispec.Index, artifacts []entities.Artifact) error {
	found := make(map[platformKey]digest.Digest, len(index.Manifests))
	for _, desc := range index.Manifests {
		if desc.Platform == nil {
			return fmt.Errorf("manifest list %s has an entry without platform information (digest %s)", ref, desc.Digest)
		}
		key := platformKey{os: desc.Platform.OS, arch: desc.Platform.Architecture}
		if _, dup := found[key]; dup {
			return fmt.Errorf("manifest list %s references %s/%s more than once", ref, key.os, key.arch)
		}
		if err := desc.Digest.Validate(); err != nil {
			return fmt.Errorf("manifest list %s has a malformed digest for %s/%s: %w", ref, key.os, key.arch, err)
		}
		found[key] = desc.Digest
	}

	expected := make(map[platformKey]struct{}, len(artifacts))
	var missing []string
	for _, artifact := range artifacts {
		platform := services.Platform(artifact.Platform)
		key := platformKey{os: platform.OS(), arch: platform.Arch()}
		expected[key] = struct{}{}
		if _, ok := found[key]; !ok {
			missing = append(missing, artifact.Platform)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("manifest list %s is missing platforms: %s", ref, strings.Join(missing, ", "))
	}

	for key := range found {
		if _, ok := expected[key]; !ok {
			return fmt.Errorf("manifest list %s references unexpected platform %s/%s", ref, key.os, key.arch)
		}
	}

	return nil
}
