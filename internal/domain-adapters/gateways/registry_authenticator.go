package gateways

import (
	"context"
	"fmt"
	"strings"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
)

// CredentialSource exchanges ambient cloud credentials for a short-lived
// registry login.
type CredentialSource interface {
	Credential(ctx context.Context) (*entities.RegistryCredential, error)
}

// RegistryAuthenticator logs the local docker client into the target
// registry so subsequent pushes are authorized. Side effect: mutates the
// docker credential cache on the host.
type RegistryAuthenticator struct {
	runner   Runner
	source   CredentialSource
	registry string
}

// NewRegistryAuthenticator creates an authenticator for the given registry
// host.
func NewRegistryAuthenticator(runner Runner, source CredentialSource, registry string) *RegistryAuthenticator {
	return &RegistryAuthenticator{runner: runner, source: source, registry: registry}
}

// Login obtains a credential and feeds the password to docker login on
// stdin, keeping it out of the process argv.
func (a *RegistryAuthenticator) Login(ctx context.Context) error {
	credential, err := a.source.Credential(ctx)
	if err != nil {
		return fmt.Errorf("obtaining registry credential: %w", err)
	}

	result, err := a.runner.Run(ctx, Command{
		Name:  "docker",
		Args:  []string{"login", "--username", credential.Username, "--password-stdin", a.registry},
		Stdin: strings.NewReader(credential.Password),
	})
	if err != nil {
		return runError("docker login", result, err)
	}

	return nil
}
