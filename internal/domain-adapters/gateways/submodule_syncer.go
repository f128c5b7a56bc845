package gateways

import "context"

// SubmoduleSyncer brings nested source checkouts up to date. The provider
// repository vendors its upstream build system as a git submodule.
type SubmoduleSyncer struct {
	runner  Runner
	workDir string
}

// NewSubmoduleSyncer creates a syncer for the given repository root.
func NewSubmoduleSyncer(runner Runner, workDir string) *SubmoduleSyncer {
	return &SubmoduleSyncer{runner: runner, workDir: workDir}
}

// Sync initializes and updates all submodules recursively.
func (s *SubmoduleSyncer) Sync(ctx context.Context) error {
	result, err := s.runner.Run(ctx, Command{
		Name: "git",
		Args: []string{"submodule", "update", "--init", "--recursive"},
		Dir:  s.workDir,
	})
	if err != nil {
		return runError("syncing submodules", result, err)
	}
	return nil
}
