// Package integration contains integration tests for relpack.
package integration

import (
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/relpack/relpack/internal/project"
)

var (
	fixturesDirOnce sync.Once
	fixturesDirPath string
)

// fixturesDir returns the path to the test fixtures directory.
// The result is cached for efficiency since runtime.Caller is relatively expensive.
func fixturesDir() string {
	fixturesDirOnce.Do(func() {
		_, filename, _, _ := runtime.Caller(0)
		fixturesDirPath = filepath.Join(filepath.Dir(filename), "..", "fixtures")
	})
	return fixturesDirPath
}

// copyFixture copies a fixture project into a temp directory so tests
// can mutate it freely.
func copyFixture(t *testing.T, name string) string {
	t.Helper()
	src := filepath.Join(fixturesDir(), name)
	dst := t.TempDir()

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
	if err != nil {
		t.Fatalf("failed to copy fixture %s: %v", name, err)
	}
	return dst
}

func TestPlacesProject_DefaultsApplied(t *testing.T) {
	t.Parallel()
	fixtureDir := filepath.Join(fixturesDir(), "places-project")

	proj, err := project.LoadProjectFrom(fixtureDir)
	if err != nil {
		t.Fatalf("failed to load places project: %v", err)
	}

	if proj.Config.Component.Name != "places" {
		t.Errorf("expected component name %q, got %q", "places", proj.Config.Component.Name)
	}
	if filepath.Base(proj.ArchivePath()) != "places.zip" {
		t.Errorf("expected archive places.zip, got %q", filepath.Base(proj.ArchivePath()))
	}

	targets := proj.StampTargets()
	if len(targets) != 2 {
		t.Fatalf("expected 2 default stamp targets, got %d", len(targets))
	}
	if filepath.Base(targets[0].Path) != "manifest.json" {
		t.Errorf("expected first target manifest.json, got %q", targets[0].Path)
	}
	if filepath.Base(targets[1].Path) != "const.py" {
		t.Errorf("expected second target const.py, got %q", targets[1].Path)
	}
}

func TestCustomConfigProject_OverridesApplied(t *testing.T) {
	t.Parallel()
	fixtureDir := filepath.Join(fixturesDir(), "custom-config")

	proj, err := project.LoadProjectFrom(fixtureDir)
	if err != nil {
		t.Fatalf("failed to load custom-config project: %v", err)
	}

	if proj.Config.Component.Name != "weather_station" {
		t.Errorf("expected component name %q, got %q", "weather_station", proj.Config.Component.Name)
	}
	if proj.ArchivePath() != filepath.Join(fixtureDir, "dist", "weather_station.zip") {
		t.Errorf("unexpected archive path %q", proj.ArchivePath())
	}

	targets := proj.StampTargets()
	if len(targets) != 1 {
		t.Fatalf("expected 1 explicit stamp target, got %d", len(targets))
	}

	pub := proj.Config.Publish
	if pub == nil {
		t.Fatal("expected publish config")
	}
	if pub.Remote != "upstream" {
		t.Errorf("expected remote upstream, got %q", pub.Remote)
	}
	if pub.CommitMessage != "release {version}" {
		t.Errorf("unexpected commit message %q", pub.CommitMessage)
	}
	if pub.Repository != "example/weather-station" {
		t.Errorf("unexpected repository %q", pub.Repository)
	}
}
