// Package orchestrators coordinates the release pipeline across the gateway
// adapters.
package orchestrators

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/equisoft-devops/provider-sql/internal/domain/entities"
	"github.com/equisoft-devops/provider-sql/internal/domain/interfaces"
	"github.com/equisoft-devops/provider-sql/internal/domain/services"
)

// PrerequisiteChecker validates the working directory and host toolchain.
type PrerequisiteChecker interface {
	Check(ctx context.Context) error
}

// ToolProvisioner makes the registry-push tool available locally.
type ToolProvisioner interface {
	Ensure(ctx context.Context) (string, error)
}

// WorkspaceCleaner removes results of previous builds.
type WorkspaceCleaner interface {
	Clean(ctx context.Context) error
}

// DependencySyncer brings nested source checkouts up to date.
type DependencySyncer interface {
	Sync(ctx context.Context) error
}

// ArtifactBuilder produces the architecture-specific package files.
type ArtifactBuilder interface {
	Build(ctx context.Context, version string, artifacts []entities.Artifact) error
}

// RegistryAuthenticator logs the registry client in.
type RegistryAuthenticator interface {
	Login(ctx context.Context) error
}

// PackagePusher uploads one artifact to its registry reference.
type PackagePusher interface {
	Push(ctx context.Context, artifact entities.Artifact) error
}

// ManifestPublisher aggregates the uploaded artifacts under the version tag
// and verifies the result.
type ManifestPublisher interface {
	Publish(ctx context.Context, ref string, artifacts []entities.Artifact) error
}

// ReleaseOrchestrator drives the eight pipeline stages strictly in order and
// records the outcome of each into a run report. No stage is retried; the
// only recovery strategy is a fresh invocation after the operator fixes the
// root cause.
type ReleaseOrchestrator struct {
	params   *entities.ReleaseParams
	checker  PrerequisiteChecker
	tool     ToolProvisioner
	cleaner  WorkspaceCleaner
	syncer   DependencySyncer
	builder  ArtifactBuilder
	auth     RegistryAuthenticator
	pusher   PackagePusher
	manifest ManifestPublisher
	logger   interfaces.Logger

	artifacts   []entities.Artifact
	manifestRef string
}

// ReleaseOrchestratorConfig holds optional settings for the orchestrator.
type ReleaseOrchestratorConfig struct {
	OutputDir string
}

// NewReleaseOrchestrator wires the pipeline stages together. A nil logger
// disables logging.
func NewReleaseOrchestrator(
	params *entities.ReleaseParams,
	checker PrerequisiteChecker,
	tool ToolProvisioner,
	cleaner WorkspaceCleaner,
	syncer DependencySyncer,
	builder ArtifactBuilder,
	auth RegistryAuthenticator,
	pusher PackagePusher,
	manifest ManifestPublisher,
	logger interfaces.Logger,
	config ReleaseOrchestratorConfig,
) *ReleaseOrchestrator {
	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = services.DefaultOutputDir
	}
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}

	return &ReleaseOrchestrator{
		params:      params,
		checker:     checker,
		tool:        tool,
		cleaner:     cleaner,
		syncer:      syncer,
		builder:     builder,
		auth:        auth,
		pusher:      pusher,
		manifest:    manifest,
		logger:      logger,
		artifacts:   services.Artifacts(params, outputDir),
		manifestRef: services.ManifestRef(params),
	}
}

// stage binds a report name, the pipeline state entered while it runs, and
// the work itself. bestEffort stages log their errors and keep the run alive.
type stage struct {
	name       string
	state      entities.PipelineState
	bestEffort bool
	run        func(ctx context.Context) error
}

func (o *ReleaseOrchestrator) stages() []stage {
	return []stage{
		{name: entities.StagePrerequisiteCheck, state: entities.StateChecking, run: o.checkPrerequisites},
		{name: entities.StageToolProvisioning, state: entities.StateProvisioning, run: o.provisionTool},
		{name: entities.StageWorkspaceCleanup, state: entities.StateCleaning, bestEffort: true, run: o.cleanWorkspace},
		{name: entities.StageDependencySync, state: entities.StateSyncing, run: o.syncDependencies},
		{name: entities.StageArtifactBuild, state: entities.StateBuilding, run: o.buildArtifacts},
		{name: entities.StageRegistryAuth, state: entities.StateAuthenticating, run: o.authenticate},
		{name: entities.StageArtifactUpload, state: entities.StateUploading, run: o.uploadArtifacts},
		{name: entities.StageManifestAggregation, state: entities.StateAggregating, run: o.aggregateManifest},
	}
}

// Run executes the pipeline and always returns a report; its State says
// whether the release succeeded. After the first fatal stage failure the
// remaining stages are recorded as skipped.
func (o *ReleaseOrchestrator) Run(ctx context.Context) *entities.RunReport {
	started := time.Now()
	report := &entities.RunReport{
		RunID:      uuid.NewString(),
		Version:    o.params.Version,
		Registry:   o.params.Registry,
		Repository: o.params.Repository,
		StartedAt:  started,
		State:      entities.StateIdle,
	}

	o.logger.Info("starting release pipeline",
		interfaces.F("run_id", report.RunID),
		interfaces.F("version", o.params.Version),
		interfaces.F("manifest", o.manifestRef),
	)

	failed := false
	for _, s := range o.stages() {
		if failed {
			report.Stages = append(report.Stages, entities.StageResult{
				Name:   s.name,
				Status: entities.StageSkipped,
			})
			continue
		}

		report.State = s.state
		o.logger.Info("stage starting", interfaces.F("stage", s.name))

		stageStart := time.Now()
		err := s.run(ctx)
		duration := time.Since(stageStart)

		result := entities.StageResult{
			Name:            s.name,
			Status:          entities.StageSucceeded,
			DurationSeconds: duration.Seconds(),
		}

		switch {
		case err == nil:
			o.logger.Success("stage finished",
				interfaces.F("stage", s.name),
				interfaces.F("duration", duration.Round(time.Millisecond).String()),
			)
		case s.bestEffort:
			result.Message = err.Error()
			o.logger.Warn("stage reported problems, continuing",
				interfaces.F("stage", s.name),
				interfaces.F("error", err.Error()),
			)
		default:
			result.Status = entities.StageFailed
			result.Message = err.Error()
			failed = true
			o.logger.Error("stage failed",
				interfaces.F("stage", s.name),
				interfaces.F("error", err.Error()),
			)
		}

		report.Stages = append(report.Stages, result)
	}

	report.DurationSeconds = time.Since(started).Seconds()
	if failed {
		report.State = entities.StateFailed
		o.logger.Error("release failed", interfaces.F("run_id", report.RunID))
	} else {
		report.State = entities.StateDone
		o.logger.Success("release published", interfaces.F("manifest", o.manifestRef))
	}

	return report
}

func (o *ReleaseOrchestrator) checkPrerequisites(ctx context.Context) error {
	return o.checker.Check(ctx)
}

func (o *ReleaseOrchestrator) provisionTool(ctx context.Context) error {
	path, err := o.tool.Ensure(ctx)
	if err != nil {
		return err
	}
	o.logger.Debug("registry-push tool available", interfaces.F("path", path))
	return nil
}

func (o *ReleaseOrchestrator) cleanWorkspace(ctx context.Context) error {
	return o.cleaner.Clean(ctx)
}

func (o *ReleaseOrchestrator) syncDependencies(ctx context.Context) error {
	return o.syncer.Sync(ctx)
}

func (o *ReleaseOrchestrator) buildArtifacts(ctx context.Context) error {
	return o.builder.Build(ctx, o.params.Version, o.artifacts)
}

func (o *ReleaseOrchestrator) authenticate(ctx context.Context) error {
	return o.auth.Login(ctx)
}

// uploadArtifacts pushes amd64 then arm64, stopping at the first failure.
// A failure after a successful push names the tags already live in the
// registry; nothing is rolled back automatically.
func (o *ReleaseOrchestrator) uploadArtifacts(ctx context.Context) error {
	var pushed []string
	for _, artifact := range o.artifacts {
		o.logger.Info("pushing package",
			interfaces.F("platform", artifact.Platform),
			interfaces.F("ref", artifact.Ref),
		)
		if err := o.pusher.Push(ctx, artifact); err != nil {
			if len(pushed) > 0 {
				return fmt.Errorf("%w (tags already pushed and left in place: %s)", err, strings.Join(pushed, ", "))
			}
			return err
		}
		pushed = append(pushed, artifact.Ref)
	}
	return nil
}

func (o *ReleaseOrchestrator) aggregateManifest(ctx context.Context) error {
	return o.manifest.Publish(ctx, o.manifestRef, o.artifacts)
}
