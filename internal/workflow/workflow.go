// Package workflow generates the GitHub Actions workflow that runs the
// packaging pipeline on release events.
package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/relpack/relpack/internal/config"
)

// FileName is the workflow file path relative to the project root.
const FileName = ".github/workflows/release.yml"

// Workflow represents a GitHub Actions workflow file structure.
type Workflow struct {
	Name        string            `yaml:"name"`
	On          Triggers          `yaml:"on"`
	Permissions map[string]string `yaml:"permissions,omitempty"`
	Jobs        map[string]Job    `yaml:"jobs"`
}

// Triggers represents the workflow trigger configuration.
type Triggers struct {
	Release          *ReleaseTrigger  `yaml:"release,omitempty"`
	WorkflowDispatch *DispatchTrigger `yaml:"workflow_dispatch,omitempty"`
}

// ReleaseTrigger fires the workflow on release events.
type ReleaseTrigger struct {
	Types []string `yaml:"types"`
}

// DispatchTrigger fires the workflow on manual dispatch.
type DispatchTrigger struct {
	Inputs map[string]DispatchInput `yaml:"inputs,omitempty"`
}

// DispatchInput is a manual dispatch input field.
type DispatchInput struct {
	Description string `yaml:"description,omitempty"`
	Required    bool   `yaml:"required"`
	Type        string `yaml:"type,omitempty"`
}

// Job represents a workflow job.
type Job struct {
	RunsOn string `yaml:"runs-on"`
	Steps  []Step `yaml:"steps"`
}

// Step represents a job step.
type Step struct {
	Name string            `yaml:"name,omitempty"`
	ID   string            `yaml:"id,omitempty"`
	If   string            `yaml:"if,omitempty"`
	Uses string            `yaml:"uses,omitempty"`
	Run  string            `yaml:"run,omitempty"`
	With map[string]string `yaml:"with,omitempty"`
	Env  map[string]string `yaml:"env,omitempty"`
}

// Generate renders the release workflow for the given configuration.
func Generate(cfg *config.Config) (string, error) {
	name := cfg.Component.Name

	wf := &Workflow{
		Name: "Release " + name,
		On: Triggers{
			Release: &ReleaseTrigger{
				Types: []string{"published", "edited"},
			},
			WorkflowDispatch: &DispatchTrigger{
				Inputs: map[string]DispatchInput{
					"tag": {
						Description: "Release tag to package (e.g. v1.2.3)",
						Required:    true,
						Type:        "string",
					},
				},
			},
		},
		Permissions: map[string]string{
			"contents": "write",
		},
		Jobs: map[string]Job{
			"package": {
				RunsOn: "ubuntu-latest",
				Steps: []Step{
					{
						Name: "Checkout",
						Uses: "actions/checkout@v4",
						With: map[string]string{"fetch-depth": "0"},
					},
					{
						Name: "Set up Go",
						Uses: "actions/setup-go@v5",
						With: map[string]string{"go-version": "stable"},
					},
					{
						Name: "Install relpack",
						Run:  "go install github.com/relpack/relpack/cmd/relpack@latest",
					},
					{
						Name: "Package release",
						ID:   "relpack",
						Run:  "relpack run",
						Env: map[string]string{
							"GITHUB_TOKEN": "${{ secrets.GITHUB_TOKEN }}",
						},
					},
					{
						Name: "Upload artifact",
						If:   "github.event_name == 'workflow_dispatch'",
						Uses: "actions/upload-artifact@v4",
						With: map[string]string{
							"name": name,
							"path": "${{ steps.relpack.outputs.artifact }}",
						},
					},
				},
			},
		},
	}

	data, err := yaml.Marshal(wf)
	if err != nil {
		return "", fmt.Errorf("failed to generate workflow: %w", err)
	}
	return string(data), nil
}

// WriteFile generates and writes the workflow file, creating the
// .github/workflows directory as needed.
func WriteFile(projectRoot string, cfg *config.Config) (string, error) {
	content, err := Generate(cfg)
	if err != nil {
		return "", err
	}

	outputPath := filepath.Join(projectRoot, filepath.FromSlash(FileName))
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// Exists reports whether the workflow file is already present.
func Exists(projectRoot string) bool {
	_, err := os.Stat(filepath.Join(projectRoot, filepath.FromSlash(FileName)))
	return err == nil
}
