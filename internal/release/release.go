// Package release orchestrates the packaging pipeline: stamp the
// version, build the archive, publish the result.
package release

import (
	"context"
	"path/filepath"

	"github.com/relpack/relpack/internal/archive"
	relerrors "github.com/relpack/relpack/internal/errors"
	"github.com/relpack/relpack/internal/event"
	"github.com/relpack/relpack/internal/output"
	"github.com/relpack/relpack/internal/project"
	"github.com/relpack/relpack/internal/publish"
	"github.com/relpack/relpack/internal/stamp"
	"github.com/relpack/relpack/internal/version"
)

// Options configures a pipeline run.
type Options struct {
	DryRun bool // Print what would be done without doing it
}

// Packager runs the release pipeline for a single project.
type Packager struct {
	project   *project.Project
	out       *output.Writer
	publisher *publish.Publisher
}

// NewPackager creates a Packager for the given project.
func NewPackager(proj *project.Project) *Packager {
	return &Packager{
		project:   proj,
		out:       output.New(),
		publisher: publish.NewPublisher(proj.Root, proj.Config.Publish),
	}
}

// SetOutput sets a custom output writer (for testing).
func (p *Packager) SetOutput(out *output.Writer) {
	p.out = out
	p.publisher.SetOutput(out)
}

// SetPublisher sets a custom publisher (for testing).
func (p *Packager) SetPublisher(pub *publish.Publisher) {
	p.publisher = pub
}

// Run executes the pipeline for the given release event. Draft
// releases are archived but never stamped; prereleases are stamped and
// archived but never published; manual runs additionally record the
// artifact path for the workflow. A publish failure leaves the stamped
// files and the archive in place.
func (p *Packager) Run(ctx context.Context, ev event.ReleaseEvent, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	ver := ""
	if ev.ShouldStamp() {
		normalized, err := version.Normalize(ev.TagName)
		if err != nil {
			return relerrors.Configf("invalid release tag %q: %v", ev.TagName, err)
		}
		ver = normalized
	}

	if opts.DryRun {
		return p.dryRun(ev, ver)
	}

	stepNum := 1
	var changed []string

	// 1. Stamp the version into the configured files
	if ev.ShouldStamp() {
		p.out.Step(stepNum, "Stamping version %s...", ver)
		stepNum++
		results, warnings, err := stamp.Apply(ver, p.project.StampTargets())
		if err != nil {
			return relerrors.StepError("stamp", "failed to stamp version", err)
		}
		for _, w := range warnings {
			p.out.Warning("%s", w)
		}
		for _, res := range results {
			switch {
			case res.Changed:
				p.out.StepDetail("%s (updated)", res.Target.Path)
				changed = append(changed, res.Target.Path)
			case res.Matched:
				p.out.StepDetail("%s (already at %s)", res.Target.Path, ver)
			}
		}
	} else if ev.Draft {
		p.out.Info("Draft release, skipping version stamping")
	} else {
		p.out.Info("No tag provided, skipping version stamping")
	}

	// 2. Build the archive
	if err := ctx.Err(); err != nil {
		return err
	}
	archivePath := p.project.ArchivePath()
	p.out.Step(stepNum, "Building %s...", filepath.Base(archivePath))
	stepNum++
	count, err := archive.Build(p.project.ComponentDir(), archivePath)
	if err != nil {
		return relerrors.StepError("archive", "failed to build archive", err)
	}
	p.out.StepDetail("%d files archived", count)

	// 3. Publish or hand the artifact to the workflow
	if err := ctx.Err(); err != nil {
		return err
	}
	switch {
	case ev.Trigger == event.TriggerManual:
		p.out.Step(stepNum, "Recording artifact for the workflow...")
		p.out.StepDetail("%s", archivePath)
		if err := publish.ArtifactOutput(archivePath); err != nil {
			return relerrors.Wrap(err, "failed to record artifact output")
		}
	case ev.ShouldPublish():
		if err := p.publisher.Publish(ctx, publish.Options{
			Tag:         ev.TagName,
			Version:     ver,
			Files:       changed,
			ArchivePath: archivePath,
		}); err != nil {
			return err
		}
	case ev.Prerelease:
		p.out.Info("Prerelease, skipping publish")
	case ev.Draft:
		p.out.Info("Draft release, skipping publish")
	}

	p.out.FinalSuccess("Release packaging completed successfully!")
	return nil
}

// dryRun prints the pipeline plan without touching anything.
func (p *Packager) dryRun(ev event.ReleaseEvent, ver string) error {
	p.out.DryRunStart()

	stepNum := 1
	if ev.ShouldStamp() {
		p.out.Step(stepNum, "Stamp version %s into:", ver)
		stepNum++
		for _, t := range p.project.StampTargets() {
			p.out.StepDetail("%s", t.Path)
		}
	} else if ev.Draft {
		p.out.Step(stepNum, "Skip version stamping (draft release)")
		stepNum++
	} else {
		p.out.Step(stepNum, "Skip version stamping (no tag)")
		stepNum++
	}

	p.out.Step(stepNum, "Build archive: %s", filepath.Base(p.project.ArchivePath()))
	stepNum++

	switch {
	case ev.Trigger == event.TriggerManual:
		p.out.Step(stepNum, "Record artifact path for the workflow")
	case ev.ShouldPublish():
		p.out.Step(stepNum, "Publish: commit, move tag %s, push, upload asset", ev.TagName)
	default:
		p.out.Step(stepNum, "Skip publish")
	}

	p.out.DryRunEnd()
	return nil
}
