// Package yaml renders the GitHub Actions workflow that runs this pipeline
// in CI.
package yaml

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	// publishWorkflowRef is the shared reusable workflow all providers in
	// the organization publish through.
	publishWorkflowRef = "equisoft-devops/crossplane-workflows/.github/workflows/xpkg-publish.yaml@main"

	goVersion = "1.24.x"
)

// Workflow models the subset of the GitHub Actions schema this pipeline
// emits.
type Workflow struct {
	Name string         `yaml:"name"`
	On   Trigger        `yaml:"on"`
	Jobs map[string]Job `yaml:"jobs"`
}

// Trigger holds the workflow's activation events.
type Trigger struct {
	Push             *PushTrigger `yaml:"push,omitempty"`
	WorkflowDispatch *struct{}    `yaml:"workflow_dispatch,omitempty"`
}

// PushTrigger scopes push events to tag patterns.
type PushTrigger struct {
	Tags []string `yaml:"tags,omitempty"`
}

// Job invokes a reusable workflow with inputs and forwarded secrets.
type Job struct {
	Uses    string          `yaml:"uses"`
	With    *PublishInputs  `yaml:"with,omitempty"`
	Secrets *PublishSecrets `yaml:"secrets,omitempty"`
}

// PublishInputs are the inputs of the shared publish workflow.
type PublishInputs struct {
	Repository string `yaml:"repository"`
	Version    string `yaml:"version"`
	GoVersion  string `yaml:"go-version"`
}

// PublishSecrets forwards the credentials the shared workflow needs.
type PublishSecrets struct {
	AWSAccessKeyID     string `yaml:"aws-access-key-id"`
	AWSSecretAccessKey string `yaml:"aws-secret-access-key"`
	UpboundToken       string `yaml:"upbound-token"`
}

// PublishWorkflow builds the workflow that publishes the provider whenever a
// version tag is pushed. The tag itself becomes the release version.
func PublishWorkflow(repository string) *Workflow {
	return &Workflow{
		Name: "publish",
		On: Trigger{
			Push:             &PushTrigger{Tags: []string{"v*"}},
			WorkflowDispatch: &struct{}{},
		},
		Jobs: map[string]Job{
			"publish": {
				Uses: publishWorkflowRef,
				With: &PublishInputs{
					Repository: repository,
					Version:    "${{ github.ref_name }}",
					GoVersion:  goVersion,
				},
				Secrets: &PublishSecrets{
					AWSAccessKeyID:     "${{ secrets.AWS_ACCESS_KEY_ID }}",
					AWSSecretAccessKey: "${{ secrets.AWS_SECRET_ACCESS_KEY }}",
					UpboundToken:       "${{ secrets.UPBOUND_TOKEN }}",
				},
			},
		},
	}
}

// Render encodes the workflow with two-space indentation.
func (w *Workflow) Render() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(w); err != nil {
		return nil, fmt.Errorf("encoding workflow: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding workflow: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse reads a workflow document, used to compare a committed copy against
// the generated one.
func Parse(data []byte) (*Workflow, error) {
	var w Workflow
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("parsing workflow: %w", err)
	}
	return &w, nil
}
