package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/relpack/relpack/internal/archive"
	"github.com/relpack/relpack/internal/errors"
	"github.com/relpack/relpack/internal/event"
	"github.com/relpack/relpack/internal/output"
	"github.com/relpack/relpack/internal/project"
	"github.com/relpack/relpack/internal/publish"
	"github.com/relpack/relpack/internal/release"
	"github.com/relpack/relpack/internal/schema"
	"github.com/relpack/relpack/internal/stamp"
	"github.com/relpack/relpack/internal/version"
	"github.com/relpack/relpack/internal/workflow"
)

// out is the shared output writer for CLI commands.
var out = output.New()

// Help text alignment widths for consistent formatting.
const (
	widthCommand = 16 // Width for commands like "config validate"
	widthFlag    = 14 // Width for flags like "-v, --verbose"
	widthEnvVar  = 18 // Width for env vars like "GITHUB_EVENT_PATH"
)

// applyVerbosityToOutput configures the output writer based on verbosity settings.
func applyVerbosityToOutput(opts *GlobalOptions) {
	out.SetQuiet(opts.Quiet)
	out.SetVerbose(opts.Verbose)
}

// loadProject loads the project configuration and handles errors uniformly.
// Returns the project and exit code 0 on success, or nil and the
// appropriate exit code on failure.
func loadProject(opts *GlobalOptions) (*project.Project, int) {
	var proj *project.Project
	var err error
	if opts != nil && opts.Chdir != "" {
		var root string
		root, err = project.FindRootFrom(opts.Chdir)
		if err == nil {
			proj, err = project.LoadProjectFrom(root)
		}
	} else {
		proj, err = project.LoadProject()
	}
	if err != nil {
		out.ErrorPrefix("%v", err)
		return nil, errors.GetExitCode(err)
	}

	for _, w := range proj.Warnings {
		out.Warning("%s", w)
	}
	return proj, 0
}

// resolveEvent determines the release event for a pipeline run: the CI
// event payload when running inside GitHub Actions, otherwise a manual
// event built from the --tag argument.
func resolveEvent(args []string) (event.ReleaseEvent, []string, error) {
	var tag string
	manual := false
	var remaining []string

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "--tag":
			if i+1 >= len(args) {
				return event.ReleaseEvent{}, nil, errors.Config("--tag requires a value")
			}
			tag = args[i+1]
			i++
		case strings.HasPrefix(args[i], "--tag="):
			tag = strings.TrimPrefix(args[i], "--tag=")
		case args[i] == "--manual":
			manual = true
		default:
			remaining = append(remaining, args[i])
		}
	}

	if tag != "" || manual {
		return event.Manual(tag), remaining, nil
	}

	ev, ok, err := event.FromEnvironment()
	if err != nil {
		return event.ReleaseEvent{}, nil, err
	}
	if !ok {
		return event.ReleaseEvent{}, nil, errors.Config("no CI event found; pass --tag <tag> to run locally")
	}
	return ev, remaining, nil
}

// cmdRun executes the full packaging pipeline.
func cmdRun(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printRunUsage()
		return 0
	}

	ev, remaining, err := resolveEvent(args)
	if err != nil {
		out.ErrorPrefix("%v", err)
		return errors.GetExitCode(err)
	}
	if len(remaining) > 0 {
		out.ErrorPrefix("run: unexpected argument %q", remaining[0])
		return errors.ExitConfigError
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	packager := release.NewPackager(proj)
	packager.SetOutput(out)

	if err := packager.Run(context.Background(), ev, release.Options{DryRun: opts.DryRun}); err != nil {
		out.ErrorPrefix("run: %v", err)
		out.FinalFailure("Release packaging failed")
		return errors.GetExitCode(err)
	}
	return 0
}

// cmdStamp stamps the version into the configured files, or with
// --check verifies them without writing.
func cmdStamp(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printStampUsage()
		return 0
	}

	check := false
	var remaining []string
	for _, arg := range args {
		switch arg {
		case "--check":
			check = true
		default:
			if strings.HasPrefix(arg, "-") {
				out.ErrorPrefix("stamp: unknown option %q", arg)
				return errors.ExitConfigError
			}
			remaining = append(remaining, arg)
		}
	}

	if len(remaining) == 0 {
		out.ErrorPrefix("stamp: tag required")
		out.Errorln("usage: relpack stamp <tag> [--check]")
		return errors.ExitConfigError
	}

	ver, err := version.Normalize(remaining[0])
	if err != nil {
		out.ErrorPrefix("stamp: invalid tag %q: %v", remaining[0], err)
		return errors.ExitConfigError
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}
	targets := proj.StampTargets()

	if check {
		issues := stamp.CheckConsistency(ver, targets)
		for _, issue := range issues {
			out.Errorln("%s", issue)
		}
		if len(issues) > 0 {
			return errors.ExitRuntimeError
		}
		out.ValidationSuccess("All files are at version %s.", ver)
		return 0
	}

	if opts.DryRun {
		out.DryRunStart()
		out.Step(1, "Stamp version %s into:", ver)
		for _, t := range targets {
			out.StepDetail("%s", t.Path)
		}
		out.DryRunEnd()
		return 0
	}

	out.Action("Stamping version %s...", ver)
	results, warnings, err := stamp.Apply(ver, targets)
	if err != nil {
		out.ErrorPrefix("stamp: %v", err)
		return errors.ExitRuntimeError
	}
	for _, w := range warnings {
		out.Warning("%s", w)
	}
	changed := 0
	for _, res := range results {
		if res.Changed {
			changed++
			out.Detail("updated %s", res.Target.Path)
		}
	}
	out.Success("Stamped version %s (%d of %d files updated).", ver, changed, len(results))
	return 0
}

// cmdArchive builds the component zip archive.
func cmdArchive(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printArchiveUsage()
		return 0
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	archivePath := proj.ArchivePath()

	if opts.DryRun {
		out.DryRunStart()
		out.Step(1, "Build archive %s from %s", filepath.Base(archivePath), proj.ComponentDir())
		out.DryRunEnd()
		return 0
	}

	out.Action("Building %s...", filepath.Base(archivePath))
	count, err := archive.Build(proj.ComponentDir(), archivePath)
	if err != nil {
		out.ErrorPrefix("archive: %v", err)
		return errors.ExitRuntimeError
	}
	out.Success("Built %s (%d files).", filepath.Base(archivePath), count)
	return 0
}

// cmdPublish commits the stamped files, moves the tag, pushes, and
// uploads the archive as a release asset.
func cmdPublish(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printPublishUsage()
		return 0
	}

	if len(args) == 0 {
		out.ErrorPrefix("publish: tag required")
		out.Errorln("usage: relpack publish <tag>")
		return errors.ExitConfigError
	}
	tag := args[0]

	ver, err := version.Normalize(tag)
	if err != nil {
		out.ErrorPrefix("publish: invalid tag %q: %v", tag, err)
		return errors.ExitConfigError
	}
	if !version.IsStable(ver) {
		out.Warning("%s is a prerelease version", ver)
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	archivePath := proj.ArchivePath()
	if _, err := os.Stat(archivePath); err != nil {
		out.ErrorPrefix("publish: %s not found", filepath.Base(archivePath))
		out.Hint("run 'relpack archive' first")
		return errors.ExitRuntimeError
	}

	var files []string
	for _, t := range proj.StampTargets() {
		files = append(files, t.Path)
	}

	publisher := publish.NewPublisher(proj.Root, proj.Config.Publish)
	publisher.SetOutput(out)

	if err := publisher.Publish(context.Background(), publish.Options{
		Tag:         tag,
		Version:     ver,
		Files:       files,
		ArchivePath: archivePath,
		DryRun:      opts.DryRun,
	}); err != nil {
		out.ErrorPrefix("publish: %v", err)
		return errors.GetExitCode(err)
	}

	if !opts.DryRun {
		out.FinalSuccess("Published %s successfully!", tag)
	}
	return 0
}

// cmdWorkflow generates the GitHub Actions release workflow.
func cmdWorkflow(args []string, opts *GlobalOptions) int {
	if wantsHelp(args) {
		printWorkflowUsage()
		return 0
	}

	force := false
	for _, arg := range args {
		switch arg {
		case "--force":
			force = true
		default:
			out.ErrorPrefix("workflow: unknown option %q", arg)
			return errors.ExitConfigError
		}
	}

	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	if workflow.Exists(proj.Root) && !force {
		out.Info("%s already exists (use --force to overwrite)", workflow.FileName)
		return 0
	}

	path, err := workflow.WriteFile(proj.Root, proj.Config)
	if err != nil {
		out.ErrorPrefix("workflow: %v", err)
		return errors.ExitRuntimeError
	}
	out.Success("Generated %s", path)
	return 0
}

// cmdConfig handles configuration utilities.
func cmdConfig(args []string, opts *GlobalOptions) int {
	if len(args) == 0 {
		out.ErrorPrefix("config: subcommand required (validate)")
		return errors.ExitConfigError
	}

	switch args[0] {
	case "validate":
		return cmdConfigValidate(opts)
	case "-h", "--help":
		printConfigUsage()
		return 0
	default:
		out.ErrorPrefix("config: unknown subcommand %q", args[0])
		return errors.ExitConfigError
	}
}

func cmdConfigValidate(opts *GlobalOptions) int {
	proj, exitCode := loadProject(opts)
	if proj == nil {
		return exitCode
	}

	// Schema validation catches structural problems the loader tolerates
	data, err := os.ReadFile(proj.ConfigPath())
	if err != nil {
		out.ErrorPrefix("config: %v", err)
		return errors.ExitRuntimeError
	}
	if err := schema.ValidateConfig(data); err != nil {
		out.ErrorPrefix("config: %v", err)
		return errors.ExitConfigError
	}

	out.ValidationSuccess("Configuration is valid.")
	out.Println("  Component: %s (%s)", proj.Config.Component.Name, proj.Config.Component.Directory)
	out.Println("  Archive:   %s", filepath.Base(proj.ArchivePath()))
	out.Println("  Targets:   %d", len(proj.StampTargets()))
	if len(proj.Warnings) > 0 {
		out.Println("  Warnings:  %d", len(proj.Warnings))
	}
	return 0
}

// printRunUsage prints the help text for the run command.
func printRunUsage() {
	w := output.New()

	w.HelpTitle("relpack run - run the packaging pipeline")

	w.HelpSection("Usage:")
	w.HelpUsage("relpack run [--tag <tag>] [options]")

	w.HelpSection("Description:")
	w.Println("  Stamps the release version into the configured files, builds the")
	w.Println("  component archive, and publishes the result. Inside GitHub Actions")
	w.Println("  the release event payload decides what runs: draft releases are")
	w.Println("  archived but not stamped, prereleases are stamped and archived but")
	w.Println("  not published, and manual dispatches only record the artifact.")

	w.HelpSection("Options:")
	w.HelpFlag("--tag <tag>", "Release tag for a local (manual) run", widthFlag)
	w.HelpFlag("--manual", "Local run without a tag (archive only)", widthFlag)
	w.HelpFlag("--dry-run", "Print what would be done", widthFlag)
	w.HelpFlag("-h, --help", "Show this help", widthFlag)

	w.HelpSection("Examples:")
	titleCase := cases.Title(language.English)
	w.HelpExample("relpack run", titleCase.String("package")+" the release described by the CI event")
	w.HelpExample("relpack run --tag v1.2.3", titleCase.String("package")+" release v1.2.3 locally")
	w.HelpExample("relpack run --dry-run --tag v1.2.3", "Preview the pipeline without changes")
	w.Println("")
}

// printStampUsage prints the help text for the stamp command.
func printStampUsage() {
	w := output.New()

	w.HelpTitle("relpack stamp - stamp the version into configured files")

	w.HelpSection("Usage:")
	w.HelpUsage("relpack stamp <tag> [options]")

	w.HelpSection("Description:")
	w.Println("  Rewrites the version in each configured file (by default the")
	w.Println("  component manifest.json and const.py). Files whose pattern does")
	w.Println("  not match are left unchanged with a warning.")

	w.HelpSection("Arguments:")
	w.HelpFlag("<tag>", "Release tag or version (e.g. v1.2.3)", widthFlag)

	w.HelpSection("Options:")
	w.HelpFlag("--check", "Verify files are at the version, write nothing", widthFlag)
	w.HelpFlag("--dry-run", "Print what would be done", widthFlag)
	w.HelpFlag("-h, --help", "Show this help", widthFlag)

	w.HelpSection("Examples:")
	w.HelpExample("relpack stamp v1.2.3", "Stamp version 1.2.3")
	w.HelpExample("relpack stamp v1.2.3 --check", "Verify all files are at 1.2.3")
	w.Println("")
}

// printArchiveUsage prints the help text for the archive command.
func printArchiveUsage() {
	w := output.New()

	w.HelpTitle("relpack archive - build the component zip archive")

	w.HelpSection("Usage:")
	w.HelpUsage("relpack archive [options]")

	w.HelpSection("Description:")
	w.Println("  Packs the component directory into a zip archive with entries in")
	w.Println("  sorted order and fixed timestamps, so identical trees produce")
	w.Println("  byte-identical archives.")

	w.HelpSection("Options:")
	w.HelpFlag("--dry-run", "Print what would be done", widthFlag)
	w.HelpFlag("-h, --help", "Show this help", widthFlag)

	w.HelpSection("Examples:")
	w.HelpExample("relpack archive", "Build the archive")
	w.Println("")
}

// printPublishUsage prints the help text for the publish command.
func printPublishUsage() {
	w := output.New()

	w.HelpTitle("relpack publish - push the release")

	w.HelpSection("Usage:")
	w.HelpUsage("relpack publish <tag> [options]")

	w.HelpSection("Description:")
	w.Println("  Commits the stamped files, moves the release tag to the new commit,")
	w.Println("  force-pushes the tag, and uploads the archive as a release asset.")
	w.Println("  Requires the archive to exist; run 'relpack archive' first.")

	w.HelpSection("Arguments:")
	w.HelpFlag("<tag>", "Release tag (e.g. v1.2.3)", widthFlag)

	w.HelpSection("Options:")
	w.HelpFlag("--dry-run", "Print what would be done", widthFlag)
	w.HelpFlag("-h, --help", "Show this help", widthFlag)

	w.HelpSection("Environment:")
	w.HelpEnvVar("GITHUB_TOKEN", "Token for release asset upload", widthEnvVar)
	w.HelpEnvVar("GITHUB_REPOSITORY", "owner/name when not set in config", widthEnvVar)

	w.HelpSection("Examples:")
	w.HelpExample("relpack publish v1.2.3", "Publish release v1.2.3")
	w.Println("")
}

// printWorkflowUsage prints the help text for the workflow command.
func printWorkflowUsage() {
	w := output.New()

	w.HelpTitle("relpack workflow - generate the GitHub Actions workflow")

	w.HelpSection("Usage:")
	w.HelpUsage("relpack workflow [options]")

	w.HelpSection("Description:")
	w.Println("  Writes .github/workflows/release.yml, which runs the packaging")
	w.Println("  pipeline on release events and on manual dispatch.")

	w.HelpSection("Options:")
	w.HelpFlag("--force", "Overwrite an existing workflow file", widthFlag)
	w.HelpFlag("-h, --help", "Show this help", widthFlag)

	w.HelpSection("Examples:")
	w.HelpExample("relpack workflow", "Generate the workflow file")
	w.HelpExample("relpack workflow --force", "Regenerate, overwriting the existing file")
	w.Println("")
}

// printConfigUsage prints the help text for the config command.
func printConfigUsage() {
	w := output.New()

	w.HelpTitle("relpack config - configuration utilities")

	w.HelpSection("Usage:")
	w.HelpUsage("relpack config <subcommand>")

	w.HelpSection("Subcommands:")
	w.HelpCommand("validate", "Validate the project configuration", widthFlag)

	w.HelpSection("Options:")
	w.HelpFlag("-h, --help", "Show this help", widthFlag)

	w.HelpSection("Examples:")
	w.HelpExample("relpack config validate", "Validate project configuration")
	w.Println("")
}
