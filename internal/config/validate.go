package config

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	relerrors "github.com/relpack/relpack/internal/errors"
)

// componentNamePattern: lowercase letters, digits, underscores (the
// naming rules of the component ecosystem relpack packages for).
var componentNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// repositoryPattern: owner/name.
var repositoryPattern = regexp.MustCompile(`^[\w.-]+/[\w.-]+$`)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ExitCode maps validation failures to the configuration exit code.
func (e *ValidationError) ExitCode() int {
	return relerrors.ExitConfigError
}

// Validate checks a configuration for errors and returns warnings for non-fatal issues.
func Validate(cfg *Config) (warnings []string, err error) {
	if err := validateComponent(cfg); err != nil {
		return nil, err
	}
	if err := validateVersionTargets(cfg); err != nil {
		return nil, err
	}
	if err := validateArchive(cfg); err != nil {
		return nil, err
	}
	if err := validatePublish(cfg); err != nil {
		return nil, err
	}
	return nil, nil
}

func validateComponent(cfg *Config) error {
	if cfg.Component.Directory == "" {
		return &ValidationError{
			Field:   "component.directory",
			Message: "is required",
		}
	}
	if path.IsAbs(cfg.Component.Directory) || strings.Contains(cfg.Component.Directory, "..") {
		return &ValidationError{
			Field:   "component.directory",
			Message: "must be a relative path inside the project",
		}
	}
	if !componentNamePattern.MatchString(cfg.Component.Name) {
		return &ValidationError{
			Field:   "component.name",
			Message: "must match pattern ^[a-z][a-z0-9_]*$ (lowercase letters, digits, underscores)",
		}
	}
	return nil
}

func validateVersionTargets(cfg *Config) error {
	if cfg.Version == nil {
		return nil
	}
	for i, t := range cfg.Version.Targets {
		field := fmt.Sprintf("version.targets[%d]", i)
		if t.Path == "" {
			return &ValidationError{Field: field + ".path", Message: "is required"}
		}
		if t.Pattern == "" {
			return &ValidationError{Field: field + ".pattern", Message: "is required"}
		}
		if _, err := regexp.Compile(t.Pattern); err != nil {
			return &ValidationError{Field: field + ".pattern", Message: fmt.Sprintf("is not a valid regular expression: %v", err)}
		}
		if t.Replace == "" {
			return &ValidationError{Field: field + ".replace", Message: "is required"}
		}
	}
	return nil
}

func validateArchive(cfg *Config) error {
	if cfg.Archive == nil || cfg.Archive.Output == "" {
		return nil
	}
	if path.IsAbs(cfg.Archive.Output) || strings.Contains(cfg.Archive.Output, "..") {
		return &ValidationError{
			Field:   "archive.output",
			Message: "must be a relative path inside the project",
		}
	}
	return nil
}

func validatePublish(cfg *Config) error {
	if cfg.Publish == nil {
		return nil
	}
	if cfg.Publish.Repository != "" && !repositoryPattern.MatchString(cfg.Publish.Repository) {
		return &ValidationError{
			Field:   "publish.repository",
			Message: `must have the form "owner/name"`,
		}
	}
	return nil
}
