package services

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
)

// Platform identifies a build target in the build system's directory naming.
type Platform string

// Target platforms of the release, in upload order.
const (
	PlatformLinuxAMD64 Platform = "linux_amd64"
	PlatformLinuxARM64 Platform = "linux_arm64"
)

// TargetPlatforms returns the platforms every release covers. amd64 comes
// first; the order is not semantically required but keeps uploads
// deterministic.
func TargetPlatforms() []Platform {
	return []Platform{PlatformLinuxAMD64, PlatformLinuxARM64}
}

// OS returns the operating system half of the platform.
func (p Platform) OS() string {
	if i := strings.IndexByte(string(p), '_'); i >= 0 {
		return string(p)[:i]
	}
	return string(p)
}

// Arch returns the architecture half of the platform, used as the tag suffix.
func (p Platform) Arch() string {
	if i := strings.IndexByte(string(p), '_'); i >= 0 {
		return string(p)[i+1:]
	}
	return string(p)
}

// DefaultOutputDir is where the build system drops package files.
const DefaultOutputDir = "_output/xpkg"

// ArtifactFileName returns the package file name for a version, e.g.
// provider-sql-v1.2.3.xpkg.
func ArtifactFileName(name, version string) string {
	return fmt.Sprintf("%s-%s.xpkg", name, version)
}

// ArtifactPath returns the on-disk location of a platform's package file:
// {outputDir}/{platform}/{name}-{version}.xpkg.
func ArtifactPath(outputDir string, platform Platform, name, version string) string {
	return filepath.Join(outputDir, string(platform), ArtifactFileName(name, version))
}

// ArchTag returns the architecture-qualified tag, e.g. v1.2.3-amd64.
func ArchTag(version string, platform Platform) string {
	return version + "-" + platform.Arch()
}

// Ref builds a full registry reference: {registry}/{repository}:{tag}.
func Ref(registry, repository, tag string) string {
	return fmt.Sprintf("%s/%s:%s", registry, repository, tag)
}

// Artifacts derives the two expected build artifacts for a run, each carrying
// the registry ref it will be pushed to.
func Artifacts(params *entities.ReleaseParams, outputDir string) []entities.Artifact {
	platforms := TargetPlatforms()
	artifacts := make([]entities.Artifact, 0, len(platforms))
	for _, platform := range platforms {
		artifacts = append(artifacts, entities.Artifact{
			Name:     entities.PackageName,
			Version:  params.Version,
			Platform: string(platform),
			Path:     ArtifactPath(outputDir, platform, entities.PackageName, params.Version),
			Ref:      Ref(params.Registry, params.Repository, ArchTag(params.Version, platform)),
		})
	}
	return artifacts
}

// ManifestRef returns the unqualified version reference the aggregated
// manifest is published under.
func ManifestRef(params *entities.ReleaseParams) string {
	return Ref(params.Registry, params.Repository, params.Version)
}
