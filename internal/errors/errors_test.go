package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestRelpackError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *RelpackError
		expected string
	}{
		{
			name:     "message only",
			err:      &RelpackError{Message: "something failed"},
			expected: "something failed",
		},
		{
			name:     "with step",
			err:      &RelpackError{Step: "stamp", Message: "file missing"},
			expected: "[stamp] file missing",
		},
		{
			name:     "publish step",
			err:      Publish("upload failed", nil),
			expected: "[publish] upload failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRelpackError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := &RelpackError{
		Message: "wrapper",
		Cause:   cause,
	}

	if got := err.Unwrap(); got != cause {
		t.Errorf("Unwrap() = %v, want %v", got, cause)
	}

	errNoCause := &RelpackError{Message: "no cause"}
	if got := errNoCause.Unwrap(); got != nil {
		t.Errorf("Unwrap() = %v, want nil", got)
	}
}

func TestRelpackError_ExitCode(t *testing.T) {
	tests := []struct {
		name     string
		kind     ErrorKind
		expected int
	}{
		{"runtime", KindRuntime, ExitRuntimeError},
		{"config", KindConfig, ExitConfigError},
		{"validation", KindValidation, ExitConfigError},
		{"not found", KindNotFound, ExitRuntimeError},
		{"environment", KindEnvironment, ExitEnvironmentError},
		{"publish", KindPublish, ExitRuntimeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &RelpackError{Kind: tt.kind}
			if got := err.ExitCode(); got != tt.expected {
				t.Errorf("ExitCode() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	if got := GetExitCode(nil); got != ExitSuccess {
		t.Errorf("GetExitCode(nil) = %d, want %d", got, ExitSuccess)
	}

	if got := GetExitCode(Config("bad config")); got != ExitConfigError {
		t.Errorf("GetExitCode(config error) = %d, want %d", got, ExitConfigError)
	}

	if got := GetExitCode(errors.New("plain error")); got != ExitRuntimeError {
		t.Errorf("GetExitCode(plain error) = %d, want %d", got, ExitRuntimeError)
	}

	wrapped := fmt.Errorf("failed to load configuration: %w", Config("bad config"))
	if got := GetExitCode(wrapped); got != ExitConfigError {
		t.Errorf("GetExitCode(wrapped config error) = %d, want %d", got, ExitConfigError)
	}

	coded := fmt.Errorf("context: %w", codedError{})
	if got := GetExitCode(coded); got != ExitConfigError {
		t.Errorf("GetExitCode(coded error) = %d, want %d", got, ExitConfigError)
	}
}

// codedError carries its own exit code mapping, like the config
// package's validation errors.
type codedError struct{}

func (codedError) Error() string { return "coded" }
func (codedError) ExitCode() int { return ExitConfigError }

func TestConstructors(t *testing.T) {
	if err := Newf("failed %d times", 3); err.Error() != "failed 3 times" {
		t.Errorf("Newf() = %q", err.Error())
	}
	if err := Configf("bad value %q", "x"); err.Kind != KindConfig {
		t.Errorf("Configf() kind = %d, want %d", err.Kind, KindConfig)
	}
	if err := Environmentf("missing %s", "git"); err.Kind != KindEnvironment {
		t.Errorf("Environmentf() kind = %d, want %d", err.Kind, KindEnvironment)
	}
	if err := NotFound("component directory", "custom_components/places"); err.Kind != KindNotFound {
		t.Errorf("NotFound() kind = %d, want %d", err.Kind, KindNotFound)
	}
	cause := errors.New("walk failed")
	if err := StepError("archive", "failed to build archive", cause); err.Step != "archive" || !errors.Is(err, cause) {
		t.Errorf("StepError() = %v, want step %q wrapping cause", err, "archive")
	}

	wrapped := Wrap(cause, "context")
	if !errors.Is(wrapped, cause) {
		t.Error("Wrap() should match cause with errors.Is")
	}
}
