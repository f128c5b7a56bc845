// Package entities defines core domain models and data structures.
package entities

import "time"

// PackageName is the base name of the provider package produced by the build
// system. Artifact files are named {PackageName}-{version}.xpkg.
const PackageName = "provider-sql"

// ReleaseParams holds the configuration for one pipeline run. Values are
// supplied via environment variables with fixed defaults and stay immutable
// for the duration of the run.
type ReleaseParams struct {
	Version    string // release version tag, e.g. v0.12.0
	Registry   string // target registry host
	Repository string // repository name within the registry
	Region     string // cloud region for the credential exchange
	Profile    string // local credential profile selector
	Tool       ToolParams
}

// ToolParams configures provisioning of the up CLI.
type ToolParams struct {
	Version      string // pinned up CLI version
	BaseURL      string // download URL prefix
	Path         string // fixed local path for the binary
	SHA256       string // expected checksum of the download, empty to skip
	SignatureURL string // detached signature URL, empty to skip
	KeyringPath  string // armored keyring file for signature verification
}

// Artifact represents one architecture-specific package file produced by the
// build. The file itself is opaque; only its path and destination ref matter
// to the pipeline.
type Artifact struct {
	Name     string // package base name
	Version  string // release version
	Platform string // e.g. linux_amd64
	Path     string // location on disk
	Ref      string // registry reference the artifact is pushed to
}

// RegistryCredential is a short-lived username/password pair obtained from
// the registry's credential service.
type RegistryCredential struct {
	Username  string
	Password  string
	Host      string    // registry endpoint the credential is valid for
	ExpiresAt time.Time // zero when the service reports no expiry
}
