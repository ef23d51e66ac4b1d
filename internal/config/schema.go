// Package config provides configuration loading and validation for config.json.
package config

// Config represents the complete config.json configuration.
type Config struct {
	Component ComponentConfig `json:"component"`
	Version   *VersionConfig  `json:"version,omitempty"`
	Archive   *ArchiveConfig  `json:"archive,omitempty"`
	Publish   *PublishConfig  `json:"publish,omitempty"`
}

// ComponentConfig describes the packaged component. Name defaults to
// the directory's base name when omitted.
type ComponentConfig struct {
	Name      string `json:"name,omitempty"`
	Directory string `json:"directory"`
}

// VersionConfig configures version stamping.
type VersionConfig struct {
	Targets []VersionTargetConfig `json:"targets,omitempty"`
}

// VersionTargetConfig defines a version file update rule. Paths are
// relative to the project root; replace may use a {version} placeholder.
type VersionTargetConfig struct {
	Path    string `json:"path"`
	Pattern string `json:"pattern"`
	Replace string `json:"replace"`
}

// ArchiveConfig configures the zip artifact.
type ArchiveConfig struct {
	Output string `json:"output,omitempty"`
}

// PublishConfig configures commit, tag, and asset upload.
type PublishConfig struct {
	Remote        string `json:"remote,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"` // {version} placeholder
	Repository    string `json:"repository,omitempty"`     // owner/name; defaults to $GITHUB_REPOSITORY
	TokenEnv      string `json:"token_env,omitempty"`      // env var holding the API token
	APIBaseURL    string `json:"api_base_url,omitempty"`
	UploadBaseURL string `json:"upload_base_url,omitempty"`
}
