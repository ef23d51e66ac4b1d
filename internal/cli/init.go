package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/relpack/relpack/internal/config"
	"github.com/relpack/relpack/internal/errors"
	"github.com/relpack/relpack/internal/output"
	"github.com/relpack/relpack/internal/project"
)

// cmdInit initializes a new relpack project or updates an existing one.
// This command is idempotent - it only creates files that don't exist.
func cmdInit(args []string) int {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			fmt.Fprintf(os.Stderr, "relpack: init: unknown option %q\n", arg)
			return errors.ExitConfigError
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "relpack: error: %v\n", err)
		return errors.ExitRuntimeError
	}

	w := output.New()
	relpackDir := filepath.Join(cwd, project.ConfigDirName)
	configPath := filepath.Join(relpackDir, project.ConfigFileName)

	var created []string
	isNewProject := false

	if err := os.MkdirAll(relpackDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "relpack: error: %v\n", err)
		return errors.ExitRuntimeError
	}

	var cfg *config.Config
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		isNewProject = true

		// Auto-detect the component directory
		directory := detectComponentDirectory(cwd)
		if directory == "" {
			directory = "custom_components/my_component"
		}

		cfg = &config.Config{
			Component: config.ComponentConfig{
				Directory: filepath.ToSlash(directory),
			},
		}

		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "relpack: error: %v\n", err)
			return errors.ExitRuntimeError
		}
		data = append(data, '\n')

		if err := os.WriteFile(configPath, data, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "relpack: error: %v\n", err)
			return errors.ExitEnvironmentError
		}
		created = append(created, ".relpack/config.json")
	} else {
		cfg, _, err = config.LoadAndValidate(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "relpack: error loading config: %v\n", err)
			return errors.ExitRuntimeError
		}
	}

	updateGitignore(cwd, cfg)

	w.Println("")
	if isNewProject {
		w.Success("Initialized relpack project")
		w.Println("  Component directory: %s", cfg.Component.Directory)
	} else if len(created) > 0 {
		w.Success("Updated relpack project")
	} else {
		w.Info("Project already initialized (nothing to do)")
	}

	if len(created) > 0 {
		w.HelpSection("Created:")
		for _, f := range created {
			w.Println("  - %s", f)
		}
	}

	if isNewProject {
		printNextSteps(w)
	}

	return 0
}

// detectComponentDirectory looks for a Home Assistant custom component:
// a custom_components/<name>/ directory containing a manifest.json.
func detectComponentDirectory(root string) string {
	base := filepath.Join(root, "custom_components")
	entries, err := os.ReadDir(base)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest := filepath.Join(base, entry.Name(), "manifest.json")
		if _, err := os.Stat(manifest); err == nil {
			return filepath.Join("custom_components", entry.Name())
		}
	}
	return ""
}

// updateGitignore adds relpack entries to .gitignore.
func updateGitignore(root string, cfg *config.Config) {
	gitignorePath := filepath.Join(root, ".gitignore")

	archiveName := "*.zip"
	if cfg != nil && cfg.Archive != nil && cfg.Archive.Output != "" {
		archiveName = cfg.Archive.Output
	}

	entries := []string{
		"# relpack",
		archiveName,
	}

	existingContent := ""
	if data, err := os.ReadFile(gitignorePath); err == nil {
		existingContent = string(data)
	}

	if strings.Contains(existingContent, "# relpack") {
		return
	}

	var content strings.Builder
	if existingContent != "" {
		content.WriteString(existingContent)
		if !strings.HasSuffix(existingContent, "\n") {
			content.WriteString("\n")
		}
		content.WriteString("\n")
	}

	for _, entry := range entries {
		content.WriteString(entry)
		content.WriteString("\n")
	}

	if err := os.WriteFile(gitignorePath, []byte(content.String()), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "relpack: warning: could not update .gitignore: %v\n", err)
	}
}

// printNextSteps prints helpful guidance after initialization.
func printNextSteps(w *output.Writer) {
	w.HelpSection("Next steps:")
	w.Println("  1. Edit .relpack/config.json to configure the component")
	w.Println("  2. Run 'relpack config validate' to check the configuration")
	w.Println("  3. Run 'relpack workflow' to generate the release workflow")
	w.Println("  4. Run 'relpack run --tag v0.1.0 --dry-run' to preview a release")
	w.Println("")
}
