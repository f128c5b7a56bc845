package entities

import "time"

// PipelineState identifies where a run is in its lifecycle. States advance
// strictly forward; Failed absorbs every state except Cleaning, whose internal
// failures are suppressed.
type PipelineState string

// Pipeline lifecycle states in execution order.
const (
	StateIdle           PipelineState = "Idle"
	StateChecking       PipelineState = "Checking"
	StateProvisioning   PipelineState = "Provisioning"
	StateCleaning       PipelineState = "Cleaning"
	StateSyncing        PipelineState = "Syncing"
	StateBuilding       PipelineState = "Building"
	StateAuthenticating PipelineState = "Authenticating"
	StateUploading      PipelineState = "Uploading"
	StateAggregating    PipelineState = "Aggregating"
	StateDone           PipelineState = "Done"
	StateFailed         PipelineState = "Failed"
)

// Stage names as they appear in run reports and log output, in pipeline
// order.
const (
	StagePrerequisiteCheck   = "prerequisite-check"
	StageToolProvisioning    = "tool-provisioning"
	StageWorkspaceCleanup    = "workspace-cleanup"
	StageDependencySync      = "dependency-sync"
	StageArtifactBuild       = "artifact-build"
	StageRegistryAuth        = "registry-authentication"
	StageArtifactUpload      = "artifact-upload"
	StageManifestAggregation = "manifest-aggregation"
)

// StageStatus is the outcome of a single stage within a run.
type StageStatus string

// Stage outcomes recorded in the run report.
const (
	StageSucceeded StageStatus = "success"
	StageFailed    StageStatus = "failed"
	StageSkipped   StageStatus = "skipped"
)

// StageResult records the outcome of one stage.
type StageResult struct {
	Name            string      `json:"name"`
	Status          StageStatus `json:"status"`
	DurationSeconds float64     `json:"duration_seconds"`
	Message         string      `json:"message,omitempty"`
}

// RunReport summarizes a full pipeline run for humans and for the optional
// JSON report file.
type RunReport struct {
	RunID           string        `json:"run_id"`
	Version         string        `json:"version"`
	Registry        string        `json:"registry"`
	Repository      string        `json:"repository"`
	StartedAt       time.Time     `json:"started_at"`
	DurationSeconds float64       `json:"duration_seconds"`
	State           PipelineState `json:"state"`
	Stages          []StageResult `json:"stages"`
}

// Succeeded reports whether the run reached the Done state.
func (r *RunReport) Succeeded() bool {
	return r.State == StateDone
}
