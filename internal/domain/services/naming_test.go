package services

import (
	"testing"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
)

func TestArtifactPath_Derivation(t *testing.T) {
	tests := []struct {
		name     string
		platform Platform
		version  string
		want     string
	}{
		{
			name:     "amd64 path",
			platform: PlatformLinuxAMD64,
			version:  "v1.2.3",
			want:     "_output/xpkg/linux_amd64/provider-sql-v1.2.3.xpkg",
		},
		{
			name:     "arm64 path",
			platform: PlatformLinuxARM64,
			version:  "v1.2.3",
			want:     "_output/xpkg/linux_arm64/provider-sql-v1.2.3.xpkg",
		},
		{
			name:     "default version",
			platform: PlatformLinuxAMD64,
			version:  "v0.12.0",
			want:     "_output/xpkg/linux_amd64/provider-sql-v0.12.0.xpkg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ArtifactPath(DefaultOutputDir, tt.platform, entities.PackageName, tt.version)
			if got != tt.want {
				t.Errorf("ArtifactPath() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArchTag(t *testing.T) {
	if got := ArchTag("v1.2.3", PlatformLinuxAMD64); got != "v1.2.3-amd64" {
		t.Errorf("ArchTag() = %v, want v1.2.3-amd64", got)
	}
	if got := ArchTag("v1.2.3", PlatformLinuxARM64); got != "v1.2.3-arm64" {
		t.Errorf("ArchTag() = %v, want v1.2.3-arm64", got)
	}
}

func TestRef(t *testing.T) {
	got := Ref("registry.example.com", "crossplane-sql-provider", "v1.2.3")
	want := "registry.example.com/crossplane-sql-provider:v1.2.3"
	if got != want {
		t.Errorf("Ref() = %v, want %v", got, want)
	}
}

func TestArtifacts_CoversBothPlatformsInOrder(t *testing.T) {
	params := &entities.ReleaseParams{
		Version:    "v1.2.3",
		Registry:   "registry.example.com",
		Repository: "crossplane-sql-provider",
	}

	artifacts := Artifacts(params, DefaultOutputDir)

	if len(artifacts) != 2 {
		t.Fatalf("Artifacts() returned %d artifacts, want 2", len(artifacts))
	}

	if artifacts[0].Platform != "linux_amd64" {
		t.Errorf("first artifact platform = %v, want linux_amd64", artifacts[0].Platform)
	}
	if artifacts[1].Platform != "linux_arm64" {
		t.Errorf("second artifact platform = %v, want linux_arm64", artifacts[1].Platform)
	}

	if artifacts[0].Path != "_output/xpkg/linux_amd64/provider-sql-v1.2.3.xpkg" {
		t.Errorf("amd64 path = %v", artifacts[0].Path)
	}
	if artifacts[1].Path != "_output/xpkg/linux_arm64/provider-sql-v1.2.3.xpkg" {
		t.Errorf("arm64 path = %v", artifacts[1].Path)
	}

	if artifacts[0].Ref != "registry.example.com/crossplane-sql-provider:v1.2.3-amd64" {
		t.Errorf("amd64 ref = %v", artifacts[0].Ref)
	}
	if artifacts[1].Ref != "registry.example.com/crossplane-sql-provider:v1.2.3-arm64" {
		t.Errorf("arm64 ref = %v", artifacts[1].Ref)
	}
}

func TestManifestRef_UnqualifiedVersionTag(t *testing.T) {
	params := &entities.ReleaseParams{
		Version:    "v1.2.3",
		Registry:   "registry.example.com",
		Repository: "crossplane-sql-provider",
	}

	got := ManifestRef(params)
	want := "registry.example.com/crossplane-sql-provider:v1.2.3"
	if got != want {
		t.Errorf("ManifestRef() = %v, want %v", got, want)
	}
}

func TestPlatform_Arch(t *testing.T) {
	if got := PlatformLinuxAMD64.Arch(); got != "amd64" {
		t.Errorf("Arch() = %v, want amd64", got)
	}
	if got := PlatformLinuxARM64.Arch(); got != "arm64" {
		t.Errorf("Arch() = %v, want arm64", got)
	}
}

func TestPlatform_OS(t *testing.T) {
	if got := PlatformLinuxAMD64.OS(); got != "linux" {
		t.Errorf("OS() = %v, want linux", got)
	}
	if got := PlatformLinuxARM64.OS(); got != "linux" {
		t.Errorf("OS() = %v, want linux", got)
	}
}
