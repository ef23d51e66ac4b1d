// Package cli provides command-line interface functionality for relpack.
package cli

import (
	"fmt"
	"strings"

	"github.com/relpack/relpack/internal/errors"
	"github.com/relpack/relpack/internal/output"
)

// Version is set at build time.
var Version = "dev"

// wantsHelp returns true if args contain -h or --help.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 0
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage()
		return 0
	case "--version", "version":
		fmt.Printf("relpack %s\n", Version)
		return 0
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}

	// Re-extract command after flag parsing
	if len(remaining) == 0 {
		printUsage()
		return 0
	}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	// Project initialization (creates new project)
	case "init":
		return cmdInit(cmdArgs)

	// Pipeline commands
	case "run":
		return cmdRun(cmdArgs, opts)
	case "stamp":
		return cmdStamp(cmdArgs, opts)
	case "archive":
		return cmdArchive(cmdArgs, opts)
	case "publish":
		return cmdPublish(cmdArgs, opts)

	// Generation commands
	case "workflow":
		return cmdWorkflow(cmdArgs, opts)

	// Utility commands
	case "config":
		return cmdConfig(cmdArgs, opts)

	default:
		out.ErrorPrefix("unknown command %q", cmd)
		out.Hint("run 'relpack --help' for usage")
		return errors.ExitConfigError
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet   bool
	Verbose bool
	DryRun  bool
	Chdir   string
}

// parseGlobalFlags manually parses global flags from arguments.
//
// Manual parsing is used instead of stdlib flag package because:
// - Flags can appear anywhere in the argument list, not just before the command
// - Custom error messages with usage hints are needed
// - Flag package doesn't support these use cases cleanly
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--dry-run":
			opts.DryRun = true
			i++
		case arg == "-C":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("-C requires a directory")
			}
			opts.Chdir = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "-C="):
			opts.Chdir = strings.TrimPrefix(arg, "-C=")
			i++
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if opts.Quiet && opts.Verbose {
		return nil, nil, fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}

	// Apply verbosity settings to global output writer.
	applyVerbosityToOutput(opts)

	return opts, remaining, nil
}

func printUsage() {
	w := output.New()

	w.HelpTitle("relpack - release packager for Home Assistant custom components")

	w.HelpSection("Usage:")
	w.HelpUsage("relpack <command> [options]")

	w.HelpSection("Project Setup:")
	w.HelpCommand("init", "Initialize a new relpack project", widthCommand)
	w.HelpCommand("workflow", "Generate the GitHub Actions release workflow", widthCommand)

	w.HelpSection("Pipeline Commands:")
	w.HelpCommand("run", "Run the full pipeline (stamp, archive, publish)", widthCommand)
	w.HelpCommand("stamp <tag>", "Stamp the version into the configured files", widthCommand)
	w.HelpCommand("archive", "Build the component zip archive", widthCommand)
	w.HelpCommand("publish <tag>", "Commit, move the tag, push, upload the asset", widthCommand)

	w.HelpSection("Utility Commands:")
	w.HelpCommand("config validate", "Validate project configuration", widthCommand)
	w.HelpCommand("version", "Show version information", widthCommand)

	w.HelpSection("Global Flags:")
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", widthFlag)
	w.HelpFlag("-v, --verbose", "Maximum detail", widthFlag)
	w.HelpFlag("--dry-run", "Print what would be done", widthFlag)
	w.HelpFlag("-C <dir>", "Run as if started in <dir>", widthFlag)
	w.HelpFlag("-h, --help", "Show this help", widthFlag)
	w.HelpFlag("--version", "Show version", widthFlag)

	w.HelpSection("Environment:")
	w.HelpEnvVar("GITHUB_EVENT_NAME", "CI event name (release, workflow_dispatch)", widthEnvVar)
	w.HelpEnvVar("GITHUB_EVENT_PATH", "Path to the CI event payload", widthEnvVar)
	w.HelpEnvVar("GITHUB_TOKEN", "Token for release asset upload", widthEnvVar)

	w.HelpSection("Examples:")
	w.HelpExample("relpack init", "Initialize new project")
	w.HelpExample("relpack run", "Package the release described by the CI event")
	w.HelpExample("relpack run --tag v1.2.3", "Package a release locally")
	w.HelpExample("relpack stamp v1.2.3 --check", "Verify stamped versions without writing")
	w.Println("")
}
