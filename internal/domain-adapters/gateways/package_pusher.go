package gateways

import (
	"context"
	"fmt"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
)

// PackagePusher uploads package artifacts to their registry references using
// the provisioned up CLI.
type PackagePusher struct {
	runner   Runner
	toolPath string
}

// NewPackagePusher creates a pusher that invokes the binary at toolPath.
func NewPackagePusher(runner Runner, toolPath string) *PackagePusher {
	return &PackagePusher{runner: runner, toolPath: toolPath}
}

// Push uploads one artifact file to its architecture-qualified reference.
func (p *PackagePusher) Push(ctx context.Context, artifact entities.Artifact) error {
	result, err := p.runner.Run(ctx, Command{
		Name: p.toolPath,
		Args: []string{"xpkg", "push", "-f", artifact.Path, artifact.Ref},
	})
	if err != nil {
		return runError(fmt.Sprintf("pushing %s", artifact.Ref), result, err)
	}
	return nil
}
