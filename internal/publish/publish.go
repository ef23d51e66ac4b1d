// Package publish pushes a stamped release: commit, force-tag,
// force-push, and release asset upload.
package publish

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/relpack/relpack/internal/config"
	relerrors "github.com/relpack/relpack/internal/errors"
	"github.com/relpack/relpack/internal/output"
)

// Options configures a single publish run.
type Options struct {
	Tag         string   // Release tag (as it appears on the release)
	Version     string   // Normalized version for the commit message
	Files       []string // Stamped files to stage; empty stages nothing
	ArchivePath string   // Artifact to upload as a release asset
	DryRun      bool     // Print what would be done without doing it
}

// Publisher performs the git and release API side of a release.
type Publisher struct {
	projectRoot string
	cfg         *config.PublishConfig
	out         *output.Writer
	client      *Client
}

// NewPublisher creates a Publisher for the project rooted at projectRoot.
// cfg must have defaults applied.
func NewPublisher(projectRoot string, cfg *config.PublishConfig) *Publisher {
	return &Publisher{
		projectRoot: projectRoot,
		cfg:         cfg,
		out:         output.New(),
	}
}

// SetOutput sets a custom output writer (for testing).
func (p *Publisher) SetOutput(out *output.Writer) {
	p.out = out
}

// SetClient sets a custom API client (for testing).
func (p *Publisher) SetClient(c *Client) {
	p.client = c
}

// Publish commits the stamped files, moves the release tag to the new
// commit, pushes it, and uploads the archive as a release asset.
// The stamped files stay stamped even when publishing fails.
func (p *Publisher) Publish(ctx context.Context, opts Options) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	commitMsg := p.commitMessage(opts.Version)
	remote := p.remote()

	if opts.DryRun {
		return p.dryRun(opts, commitMsg, remote)
	}

	stepNum := 1

	// 1. Commit the stamped files
	p.out.Step(stepNum, "Creating commit...")
	stepNum++
	if err := p.gitAdd(ctx, opts.Files); err != nil {
		return relerrors.Publish("git add failed", err)
	}
	staged, err := p.gitHasStagedChanges(ctx)
	if err != nil {
		return relerrors.Publish("git status failed", err)
	}
	if staged {
		if err := p.gitCommit(ctx, commitMsg); err != nil {
			return relerrors.Publish("git commit failed", err)
		}
	} else {
		p.out.StepDetail("Nothing to commit, files already at %s", opts.Version)
	}

	// 2. Move the release tag to the new commit
	if err := ctx.Err(); err != nil {
		return err
	}
	p.out.Step(stepNum, "Moving tag %s to HEAD...", opts.Tag)
	stepNum++
	if err := p.gitTagForce(ctx, opts.Tag); err != nil {
		return relerrors.Publish(fmt.Sprintf("failed to move tag %s", opts.Tag), err)
	}

	// 3. Push the tag
	if err := ctx.Err(); err != nil {
		return err
	}
	p.out.Step(stepNum, "Pushing %s to %s...", opts.Tag, remote)
	stepNum++
	if err := p.gitPushTagForce(ctx, remote, opts.Tag); err != nil {
		return relerrors.Publish(fmt.Sprintf("failed to push tag %s", opts.Tag), err)
	}

	// 4. Upload the archive to the release
	if opts.ArchivePath != "" {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.out.Step(stepNum, "Uploading %s...", filepath.Base(opts.ArchivePath))
		if err := p.uploadAsset(ctx, opts.Tag, opts.ArchivePath); err != nil {
			return err
		}
	}

	return nil
}

// dryRun prints what would be done without doing it.
func (p *Publisher) dryRun(opts Options, commitMsg, remote string) error {
	p.out.DryRunStart()

	stepNum := 1
	p.out.Step(stepNum, "Create commit: %q", commitMsg)
	stepNum++
	for _, f := range opts.Files {
		p.out.StepDetail("%s", f)
	}

	p.out.Step(stepNum, "Move tag %s to HEAD", opts.Tag)
	stepNum++

	p.out.Step(stepNum, "Push %s to %s (force)", opts.Tag, remote)
	stepNum++

	if opts.ArchivePath != "" {
		p.out.Step(stepNum, "Upload %s to the %s release", filepath.Base(opts.ArchivePath), opts.Tag)
	}

	p.out.DryRunEnd()
	return nil
}

// uploadAsset resolves the API client from config and environment and
// uploads the archive, replacing any same-name asset.
func (p *Publisher) uploadAsset(ctx context.Context, tag, archivePath string) error {
	client := p.client
	if client == nil {
		cfg := p.cfg
		if cfg == nil {
			cfg = &config.PublishConfig{}
		}
		repository := cfg.Repository
		if repository == "" {
			repository = os.Getenv("GITHUB_REPOSITORY")
		}
		if repository == "" {
			return relerrors.Environment("repository is not configured and GITHUB_REPOSITORY is not set")
		}
		tokenEnv := cfg.TokenEnv
		if tokenEnv == "" {
			tokenEnv = config.DefaultTokenEnv
		}
		token := os.Getenv(tokenEnv)
		if token == "" {
			return relerrors.Environmentf("environment variable %s is not set", tokenEnv)
		}
		client = NewClient(repository, token, cfg.APIBaseURL, cfg.UploadBaseURL)
	}

	rel, err := client.GetReleaseByTag(ctx, tag)
	if err != nil {
		return relerrors.Publish("failed to look up release", err)
	}

	asset, err := client.UploadAsset(ctx, rel, archivePath)
	if err != nil {
		return relerrors.Publish("failed to upload release asset", err)
	}
	p.out.StepDetail("Uploaded %s", asset.Name)
	return nil
}

// commitMessage expands the {version} placeholder in the configured
// commit message template.
func (p *Publisher) commitMessage(version string) string {
	template := config.DefaultCommitMessage
	if p.cfg != nil && p.cfg.CommitMessage != "" {
		template = p.cfg.CommitMessage
	}
	return strings.ReplaceAll(template, "{version}", version)
}

// remote returns the remote name from config or default.
func (p *Publisher) remote() string {
	if p.cfg != nil && p.cfg.Remote != "" {
		return p.cfg.Remote
	}
	return config.DefaultRemote
}

// gitAdd stages the given files.
func (p *Publisher) gitAdd(ctx context.Context, files []string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add", "--"}, files...)
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.projectRoot
	return cmd.Run()
}

// gitHasStagedChanges reports whether anything is staged for commit.
func (p *Publisher) gitHasStagedChanges(ctx context.Context) (bool, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--cached", "--quiet")
	cmd.Dir = p.projectRoot
	err := cmd.Run()
	if err == nil {
		return false, nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 1 {
		return true, nil
	}
	return false, err
}

// gitCommit creates a commit with the given message.
func (p *Publisher) gitCommit(ctx context.Context, message string) error {
	cmd := exec.CommandContext(ctx, "git", "commit", "-m", message)
	cmd.Dir = p.projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// gitTagForce moves a tag to HEAD, creating it if absent.
func (p *Publisher) gitTagForce(ctx context.Context, tag string) error {
	cmd := exec.CommandContext(ctx, "git", "tag", "-f", tag)
	cmd.Dir = p.projectRoot
	return cmd.Run()
}

// gitPushTagForce force-pushes a tag to the remote so the release tag
// follows the stamped commit.
func (p *Publisher) gitPushTagForce(ctx context.Context, remote, tag string) error {
	cmd := exec.CommandContext(ctx, "git", "push", "--force", remote, tag)
	cmd.Dir = p.projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
