package config

import (
	"path"
)

// Default configuration values.
const (
	DefaultCommitMessage = "set version {version}"
	DefaultRemote        = "origin"
	DefaultTokenEnv      = "GITHUB_TOKEN"
	DefaultAPIBaseURL    = "https://api.github.com"
	DefaultUploadBaseURL = "https://uploads.github.com"
)

// applyDefaults fills in default values for unset configuration fields.
func applyDefaults(cfg *Config) {
	applyComponentDefaults(cfg)
	applyVersionDefaults(cfg)
	applyArchiveDefaults(cfg)
	applyPublishDefaults(cfg)
}

func applyComponentDefaults(cfg *Config) {
	if cfg.Component.Name == "" && cfg.Component.Directory != "" {
		cfg.Component.Name = path.Base(cfg.Component.Directory)
	}
}

// applyVersionDefaults installs the conventional two stamp targets:
// the component's JSON manifest and its constants file.
func applyVersionDefaults(cfg *Config) {
	if cfg.Version == nil {
		cfg.Version = &VersionConfig{}
	}
	if len(cfg.Version.Targets) == 0 && cfg.Component.Directory != "" {
		cfg.Version.Targets = []VersionTargetConfig{
			{
				Path:    path.Join(cfg.Component.Directory, "manifest.json"),
				Pattern: `"version": "[^"]*"`,
				Replace: `"version": "{version}"`,
			},
			{
				Path:    path.Join(cfg.Component.Directory, "const.py"),
				Pattern: `VERSION = "[^"]*"`,
				Replace: `VERSION = "{version}"`,
			},
		}
	}
}

func applyArchiveDefaults(cfg *Config) {
	if cfg.Archive == nil {
		cfg.Archive = &ArchiveConfig{}
	}
	if cfg.Archive.Output == "" && cfg.Component.Name != "" {
		cfg.Archive.Output = cfg.Component.Name + ".zip"
	}
}

func applyPublishDefaults(cfg *Config) {
	if cfg.Publish == nil {
		cfg.Publish = &PublishConfig{}
	}
	if cfg.Publish.Remote == "" {
		cfg.Publish.Remote = DefaultRemote
	}
	if cfg.Publish.CommitMessage == "" {
		cfg.Publish.CommitMessage = DefaultCommitMessage
	}
	if cfg.Publish.TokenEnv == "" {
		cfg.Publish.TokenEnv = DefaultTokenEnv
	}
	if cfg.Publish.APIBaseURL == "" {
		cfg.Publish.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.Publish.UploadBaseURL == "" {
		cfg.Publish.UploadBaseURL = DefaultUploadBaseURL
	}
}
