// Package services contains the pure release logic: parameter resolution and
// the naming conventions that tie versions to artifact paths and registry
// tags.
package services

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
)

// Environment variables recognized by the pipeline.
const (
	EnvVersion     = "VERSION"
	EnvRegistry    = "ECR_REGISTRY"
	EnvRepository  = "ECR_REPOSITORY"
	EnvRegion      = "AWS_REGION"
	EnvProfile     = "AWS_PROFILE"
	EnvUpVersion   = "UP_VERSION"
	EnvUpBaseURL   = "UP_BASE_URL"
	EnvUpPath      = "UP_PATH"
	EnvUpSHA256    = "UP_SHA256"
	EnvUpSignature = "UP_SIGNATURE_URL"
	EnvUpKeyring   = "UP_KEYRING"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultVersion    = "v0.12.0"
	DefaultRegistry   = "481312470517.dkr.ecr.us-east-1.amazonaws.com"
	DefaultRepository = "crossplane-sql-provider"
	DefaultRegion     = "us-east-1"
	DefaultProfile    = "mgmt"
	DefaultUpVersion  = "v0.28.0"
	DefaultUpBaseURL  = "https://cli.upbound.io/stable"
	DefaultUpPath     = ".cache/up"
)

// LookupFunc resolves an environment variable, reporting whether it was set.
// os.LookupEnv satisfies it; tests inject their own.
type LookupFunc func(key string) (string, bool)

// LoadParams resolves the release parameters from the environment, applying
// defaults for unset variables and validating the result. The returned record
// is immutable for the duration of the run.
func LoadParams(lookup LookupFunc) (*entities.ReleaseParams, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return fallback
	}

	params := &entities.ReleaseParams{
		Version:    get(EnvVersion, DefaultVersion),
		Registry:   get(EnvRegistry, DefaultRegistry),
		Repository: get(EnvRepository, DefaultRepository),
		Region:     get(EnvRegion, DefaultRegion),
		Profile:    get(EnvProfile, DefaultProfile),
		Tool: entities.ToolParams{
			Version:      get(EnvUpVersion, DefaultUpVersion),
			BaseURL:      get(EnvUpBaseURL, DefaultUpBaseURL),
			Path:         get(EnvUpPath, DefaultUpPath),
			SHA256:       get(EnvUpSHA256, ""),
			SignatureURL: get(EnvUpSignature, ""),
			KeyringPath:  get(EnvUpKeyring, ""),
		},
	}

	if err := ValidateVersion(params.Version); err != nil {
		return nil, err
	}
	if params.Tool.SignatureURL != "" && params.Tool.KeyringPath == "" {
		return nil, fmt.Errorf("%s is set but %s is not: signature verification needs a keyring", EnvUpSignature, EnvUpKeyring)
	}

	return params, nil
}

// ValidateVersion rejects version strings that do not parse as semantic
// versions. A leading "v" is accepted, matching the tag convention.
func ValidateVersion(version string) error {
	if _, err := semver.NewVersion(version); err != nil {
		return fmt.Errorf("invalid release version %q: %w", version, err)
	}
	return nil
}
