package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/relpack/relpack/internal/config"
	relerrors "github.com/relpack/relpack/internal/errors"
	"github.com/relpack/relpack/internal/stamp"
)

// Project represents a loaded relpack project.
type Project struct {
	Root     string
	Config   *config.Config
	Warnings []string
}

// LoadProject finds and loads a project from the current directory.
func LoadProject() (*Project, error) {
	root, err := FindRoot()
	if err != nil {
		return nil, err
	}
	return LoadProjectFrom(root)
}

// LoadProjectFrom loads a project from a specified root directory.
func LoadProjectFrom(root string) (*Project, error) {
	configPath := filepath.Join(root, ConfigDirName, ConfigFileName)

	cfg, warnings, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// The component directory must exist; everything else is checked
	// lazily by the step that needs it.
	componentDir := filepath.Join(root, cfg.Component.Directory)
	info, statErr := os.Stat(componentDir)
	if statErr != nil {
		return nil, relerrors.NotFound("component directory", cfg.Component.Directory)
	}
	if !info.IsDir() {
		return nil, relerrors.Newf("component path %s is not a directory", cfg.Component.Directory)
	}

	return &Project{
		Root:     root,
		Config:   cfg,
		Warnings: warnings,
	}, nil
}

// ConfigPath returns the full path to the project configuration file.
func (p *Project) ConfigPath() string {
	return filepath.Join(p.Root, ConfigDirName, ConfigFileName)
}

// ComponentDir returns the absolute path to the component directory.
func (p *Project) ComponentDir() string {
	return filepath.Join(p.Root, p.Config.Component.Directory)
}

// ArchivePath returns the absolute path of the zip artifact.
func (p *Project) ArchivePath() string {
	return filepath.Join(p.Root, p.Config.Archive.Output)
}

// StampTargets returns the configured version targets with paths
// resolved relative to the project root.
func (p *Project) StampTargets() []stamp.Target {
	targets := make([]stamp.Target, len(p.Config.Version.Targets))
	for i, t := range p.Config.Version.Targets {
		targets[i] = stamp.Target{
			Path:    filepath.Join(p.Root, t.Path),
			Pattern: t.Pattern,
			Replace: t.Replace,
		}
	}
	return targets
}
