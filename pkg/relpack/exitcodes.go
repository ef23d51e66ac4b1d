// Package relpack provides public constants for external tools
// integrating with relpack.
package relpack

// Exit codes returned by the relpack CLI.
// These constants allow CI wrappers to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (stamping, archiving, or publishing failed).
	ExitFailure = 1

	// ExitConfigError indicates a configuration error (invalid config, bad flags, etc.).
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (missing token, git unavailable, etc.).
	ExitEnvError = 3
)
