package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/relpack/relpack/internal/errors"
)

func TestParseGlobalFlags(t *testing.T) {
	tests := []struct {
		name          string
		args          []string
		wantQuiet     bool
		wantVerbose   bool
		wantDryRun    bool
		wantChdir     string
		wantRemaining []string
		wantErr       bool
	}{
		{
			name:          "no flags",
			args:          []string{"run"},
			wantRemaining: []string{"run"},
		},
		{
			name:          "--quiet flag",
			args:          []string{"--quiet", "run"},
			wantQuiet:     true,
			wantRemaining: []string{"run"},
		},
		{
			name:          "-v shorthand",
			args:          []string{"-v", "archive"},
			wantVerbose:   true,
			wantRemaining: []string{"archive"},
		},
		{
			name:          "--dry-run anywhere",
			args:          []string{"run", "--dry-run"},
			wantDryRun:    true,
			wantRemaining: []string{"run"},
		},
		{
			name:          "-C with space",
			args:          []string{"-C", "/work", "run"},
			wantChdir:     "/work",
			wantRemaining: []string{"run"},
		},
		{
			name:          "-C=value",
			args:          []string{"-C=/work", "run"},
			wantChdir:     "/work",
			wantRemaining: []string{"run"},
		},
		{
			name:          "command args preserved",
			args:          []string{"stamp", "v1.2.3", "--check"},
			wantRemaining: []string{"stamp", "v1.2.3", "--check"},
		},
		{
			name:    "quiet and verbose conflict",
			args:    []string{"-q", "-v", "run"},
			wantErr: true,
		},
		{
			name:    "-C without value",
			args:    []string{"run", "-C"},
			wantErr: true,
		},
		{
			name:          "empty args",
			args:          []string{},
			wantRemaining: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, remaining, err := parseGlobalFlags(tt.args)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if opts.Quiet != tt.wantQuiet {
				t.Errorf("Quiet = %v, want %v", opts.Quiet, tt.wantQuiet)
			}
			if opts.Verbose != tt.wantVerbose {
				t.Errorf("Verbose = %v, want %v", opts.Verbose, tt.wantVerbose)
			}
			if opts.DryRun != tt.wantDryRun {
				t.Errorf("DryRun = %v, want %v", opts.DryRun, tt.wantDryRun)
			}
			if opts.Chdir != tt.wantChdir {
				t.Errorf("Chdir = %q, want %q", opts.Chdir, tt.wantChdir)
			}
			if strings.Join(remaining, " ") != strings.Join(tt.wantRemaining, " ") {
				t.Errorf("remaining = %v, want %v", remaining, tt.wantRemaining)
			}
		})
	}
}

func TestWantsHelp(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"-h"}, true},
		{[]string{"--help"}, true},
		{[]string{"v1.2.3", "--help"}, true},
		{[]string{"v1.2.3"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := wantsHelp(tt.args); got != tt.want {
			t.Errorf("wantsHelp(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestRun_NoArgs_ShowsUsage(t *testing.T) {
	if code := Run(nil); code != 0 {
		t.Errorf("Run(nil) = %d, want 0", code)
	}
}

func TestRun_UnknownCommand_ReturnsConfigError(t *testing.T) {
	if code := Run([]string{"frobnicate"}); code != errors.ExitConfigError {
		t.Errorf("Run() = %d, want %d", code, errors.ExitConfigError)
	}
}

func TestRun_Version(t *testing.T) {
	if code := Run([]string{"version"}); code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}
}

// makeProjectDir creates a relpack project with a stampable component.
func makeProjectDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	if err := os.MkdirAll(filepath.Join(root, ".relpack"), 0755); err != nil {
		t.Fatal(err)
	}
	cfg := `{"component": {"directory": "custom_components/places"}}`
	if err := os.WriteFile(filepath.Join(root, ".relpack", "config.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	componentDir := filepath.Join(root, "custom_components", "places")
	if err := os.MkdirAll(componentDir, 0755); err != nil {
		t.Fatal(err)
	}
	manifest := `{"domain": "places", "version": "1.0.0"}` + "\n"
	if err := os.WriteFile(filepath.Join(componentDir, "manifest.json"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}
	constPy := `VERSION = "1.0.0"` + "\n"
	if err := os.WriteFile(filepath.Join(componentDir, "const.py"), []byte(constPy), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestRun_Stamp_UpdatesFiles(t *testing.T) {
	root := makeProjectDir(t)

	if code := Run([]string{"-q", "-C", root, "stamp", "v2.5.0"}); code != 0 {
		t.Fatalf("Run() = %d, want 0", code)
	}

	content, err := os.ReadFile(filepath.Join(root, "custom_components", "places", "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(content), `"version": "2.5.0"`) {
		t.Errorf("manifest not stamped: %s", content)
	}
}

func TestRun_Stamp_MissingTag_ReturnsConfigError(t *testing.T) {
	root := makeProjectDir(t)

	if code := Run([]string{"-q", "-C", root, "stamp"}); code != errors.ExitConfigError {
		t.Errorf("Run() = %d, want %d", code, errors.ExitConfigError)
	}
}

func TestRun_StampCheck_ReportsMismatch(t *testing.T) {
	root := makeProjectDir(t)

	// Files are at 1.0.0, so checking for 2.0.0 must fail
	if code := Run([]string{"-q", "-C", root, "stamp", "v2.0.0", "--check"}); code != errors.ExitRuntimeError {
		t.Errorf("Run() = %d, want %d", code, errors.ExitRuntimeError)
	}

	// And checking the version they are actually at must pass
	if code := Run([]string{"-q", "-C", root, "stamp", "v1.0.0", "--check"}); code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}
}

func TestRun_Archive_BuildsZip(t *testing.T) {
	root := makeProjectDir(t)

	if code := Run([]string{"-q", "-C", root, "archive"}); code != 0 {
		t.Fatalf("Run() = %d, want 0", code)
	}
	if _, err := os.Stat(filepath.Join(root, "places.zip")); err != nil {
		t.Errorf("archive not built: %v", err)
	}
}

func TestRun_ConfigValidate(t *testing.T) {
	root := makeProjectDir(t)

	if code := Run([]string{"-q", "-C", root, "config", "validate"}); code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}
}

func TestRun_InvalidComponentName_ReturnsConfigError(t *testing.T) {
	root := makeProjectDir(t)
	cfg := `{"component": {"name": "Bad Name", "directory": "custom_components/places"}}`
	if err := os.WriteFile(filepath.Join(root, ".relpack", "config.json"), []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}

	if code := Run([]string{"-q", "-C", root, "stamp", "v2.0.0"}); code != errors.ExitConfigError {
		t.Errorf("Run() = %d, want %d", code, errors.ExitConfigError)
	}
}

func TestRun_Run_DryRunWithTag(t *testing.T) {
	root := makeProjectDir(t)

	if code := Run([]string{"-q", "-C", root, "run", "--tag", "v2.0.0", "--dry-run"}); code != 0 {
		t.Errorf("Run() = %d, want 0", code)
	}
	if _, err := os.Stat(filepath.Join(root, "places.zip")); !os.IsNotExist(err) {
		t.Error("dry run must not build the archive")
	}
}

func TestRun_Run_NoEventNoTag_ReturnsConfigError(t *testing.T) {
	root := makeProjectDir(t)
	t.Setenv("GITHUB_EVENT_NAME", "")
	t.Setenv("GITHUB_EVENT_PATH", "")

	if code := Run([]string{"-q", "-C", root, "run"}); code != errors.ExitConfigError {
		t.Errorf("Run() = %d, want %d", code, errors.ExitConfigError)
	}
}

func TestRun_Run_ManualWithoutTag_ArchivesOnly(t *testing.T) {
	root := makeProjectDir(t)
	t.Setenv("GITHUB_OUTPUT", filepath.Join(t.TempDir(), "output"))

	if code := Run([]string{"-q", "-C", root, "run", "--manual"}); code != 0 {
		t.Fatalf("Run() = %d, want 0", code)
	}
	if _, err := os.Stat(filepath.Join(root, "places.zip")); err != nil {
		t.Errorf("archive not built: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(root, "custom_components", "places", "manifest.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"version": "1.0.0"`) {
		t.Errorf("manifest must not be stamped without a tag, got %s", data)
	}
}

func TestRun_Publish_MissingArchive_ReturnsError(t *testing.T) {
	root := makeProjectDir(t)

	if code := Run([]string{"-q", "-C", root, "publish", "v1.0.0"}); code != errors.ExitRuntimeError {
		t.Errorf("Run() = %d, want %d", code, errors.ExitRuntimeError)
	}
}

func TestRun_Publish_PrereleaseTag_StillRequiresArchive(t *testing.T) {
	root := makeProjectDir(t)

	if code := Run([]string{"-q", "-C", root, "publish", "v1.0.0-beta.1"}); code != errors.ExitRuntimeError {
		t.Errorf("Run() = %d, want %d", code, errors.ExitRuntimeError)
	}
}

func TestCmdInit_CreatesConfig(t *testing.T) {
	dir := t.TempDir()
	componentDir := filepath.Join(dir, "custom_components", "places")
	if err := os.MkdirAll(componentDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(componentDir, "manifest.json"), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if code := cmdInit(nil); code != 0 {
		t.Fatalf("cmdInit() = %d, want 0", code)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".relpack", "config.json"))
	if err != nil {
		t.Fatalf("config not created: %v", err)
	}
	if !strings.Contains(string(data), "custom_components/places") {
		t.Errorf("config should reference the detected component, got: %s", data)
	}

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	if err != nil {
		t.Fatalf(".gitignore not created: %v", err)
	}
	if !strings.Contains(string(gitignore), "# relpack") {
		t.Errorf(".gitignore should have a relpack section, got: %s", gitignore)
	}
}

func TestCmdInit_ThenConfigValidate_FreshProjectIsValid(t *testing.T) {
	dir := t.TempDir()
	componentDir := filepath.Join(dir, "custom_components", "places")
	if err := os.MkdirAll(componentDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(componentDir, "manifest.json"), []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	if code := cmdInit(nil); code != 0 {
		t.Fatalf("cmdInit() = %d, want 0", code)
	}

	data, err := os.ReadFile(filepath.Join(dir, ".relpack", "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"name": ""`) {
		t.Errorf("scaffolded config must not carry an empty name, got: %s", data)
	}

	if code := Run([]string{"-q", "-C", dir, "config", "validate"}); code != 0 {
		t.Errorf("config validate on a fresh project = %d, want 0", code)
	}
}

func TestCmdInit_Idempotent(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if code := cmdInit(nil); code != 0 {
		t.Fatalf("first cmdInit() = %d, want 0", code)
	}
	first, err := os.ReadFile(filepath.Join(dir, ".relpack", "config.json"))
	if err != nil {
		t.Fatal(err)
	}

	if code := cmdInit(nil); code != 0 {
		t.Fatalf("second cmdInit() = %d, want 0", code)
	}
	second, err := os.ReadFile(filepath.Join(dir, ".relpack", "config.json"))
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("re-running init must not rewrite the config")
	}
}

func TestCmdInit_UnknownOption_ReturnsConfigError(t *testing.T) {
	t.Chdir(t.TempDir())

	if code := cmdInit([]string{"--bogus"}); code != errors.ExitConfigError {
		t.Errorf("cmdInit() = %d, want %d", code, errors.ExitConfigError)
	}
}

func TestRun_Workflow_GeneratesFile(t *testing.T) {
	root := makeProjectDir(t)

	if code := Run([]string{"-q", "-C", root, "workflow"}); code != 0 {
		t.Fatalf("Run() = %d, want 0", code)
	}
	if _, err := os.Stat(filepath.Join(root, ".github", "workflows", "release.yml")); err != nil {
		t.Errorf("workflow not generated: %v", err)
	}

	// Second run without --force must leave the file alone and succeed
	if code := Run([]string{"-q", "-C", root, "workflow"}); code != 0 {
		t.Errorf("second Run() = %d, want 0", code)
	}
}
