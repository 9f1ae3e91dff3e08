package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autorelease/internal/changelog"
	"github.com/ariel-frischer/autorelease/internal/config"
	clierrors "github.com/ariel-frischer/autorelease/internal/errors"
	"github.com/ariel-frischer/autorelease/internal/git"
	"github.com/ariel-frischer/autorelease/internal/history"
	"github.com/ariel-frischer/autorelease/internal/output"
	"github.com/ariel-frischer/autorelease/internal/release"
)

type generateOptions struct {
	dryRun    bool
	noTag     bool
	noSummary bool
	yes       bool
	date      string
}

func newGenerateCmd(a *app) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Update the changelog and tag the next release",
		Long: `Read the commits since the last release tag, decide the next version,
merge a new section into the changelog and create the release tag.

The tag is only pushed after confirmation (or with --yes). A failure to
create the tag leaves the updated changelog in place.`,
		Example: `  # Full release
  autorelease generate

  # Preview the new section only
  autorelease generate --dry-run

  # Write the changelog without tagging, for a fixed date
  autorelease generate --no-tag --date 2026-10-17`,
		Args:    cobra.NoArgs,
		GroupID: GroupRelease,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Print the new section without writing or tagging")
	cmd.Flags().BoolVar(&opts.noTag, "no-tag", false, "Skip creating the release tag")
	cmd.Flags().BoolVar(&opts.noSummary, "no-summary", false, "Skip the AI summary")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Push the tag without asking")
	cmd.Flags().StringVar(&opts.date, "date", "", "Section date as YYYY-MM-DD (default: today)")
	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	started := time.Now()
	cfg, err := a.config()
	if err != nil {
		return err
	}

	entry := history.HistoryEntry{Command: "generate"}
	err = a.generate(cmd, cfg, opts, &entry)
	if opts.dryRun {
		return err
	}
	recordRun(a.historyWriter(cfg), started, entry, err)
	return err
}

func (a *app) generate(cmd *cobra.Command, cfg *config.Configuration, opts *generateOptions, entry *history.HistoryEntry) error {
	date, err := parseDate(opts.date)
	if err != nil {
		return err
	}
	repo, err := a.openRepo()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	p := a.newPipeline(repo, cfg, cmd.ErrOrStderr(), true)
	outcome, err := p.Run(cmd.Context(), release.RunOptions{
		DryRun:    opts.dryRun,
		NoTag:     opts.noTag,
		NoSummary: opts.noSummary,
		Date:      date,
	})
	if errors.Is(err, release.ErrNothingToRelease) {
		entry.Outcome = history.OutcomeNothing
		output.PrintNotice(out, "Nothing to release: no commits since the last tag.")
		return nil
	}
	if err != nil {
		return a.pipelineError(cfg, err)
	}
	fillEntry(entry, outcome.Plan)
	entry.Summarized = outcome.Summarized

	if opts.dryRun {
		fmt.Fprintf(out, "Dry run: %s\n\n", outcome.Plan)
		fmt.Fprint(out, outcome.Section)
		return nil
	}

	entry.Changelog = outcome.Written
	output.PrintStep(out, "Updated", fmt.Sprintf("%s for %s", a.changelogPath(cfg), outcome.Plan))

	if outcome.TagErr != nil {
		entry.Outcome = history.OutcomePartial
		entry.Tag = outcome.Tag.Name
		tagErr := clierrors.TagCreateFailed(outcome.Tag.Name, outcome.TagErr)
		if cfg.Tag.FailOnError {
			return WithExitCode(ExitTagFailed, tagErr)
		}
		entry.Error = tagErr.Error()
		return nil
	}

	entry.Outcome = history.OutcomeReleased
	if !outcome.Tag.Created {
		return nil
	}
	a.publishTag(cmd, repo, cfg, outcome.Tag, outcome.Section, opts.yes, entry)
	return nil
}

// publishTag reports a created tag, pushes it after confirmation and then
// creates the GitHub release. Push and release failures are warnings.
func (a *app) publishTag(cmd *cobra.Command, repo *git.Repository, cfg *config.Configuration, tag git.TagOutcome, notes string, yes bool, entry *history.HistoryEntry) {
	out := cmd.OutOrStdout()
	entry.Tag = tag.Name
	entry.TagCreated = true
	output.PrintStep(out, "Created", fmt.Sprintf("tag %s at %s", tag.Name, tag.Hash))

	if !confirm(cmd, cfg, yes, fmt.Sprintf("Push tag %s to %s?", tag.Name, cfg.Tag.Remote)) {
		output.PrintNotice(out, fmt.Sprintf("Tag kept locally. Push it with: git push %s %s", cfg.Tag.Remote, tag.Name))
		return
	}

	ctx := cmd.Context()
	if err := newTagPublisher(repo, cfg).PushTag(ctx, tag.Name); err != nil {
		log.Warnf("%v (push it later with: git push %s %s)", err, cfg.Tag.Remote, tag.Name)
		entry.Error = err.Error()
		return
	}
	entry.TagPushed = true
	output.PrintStep(out, "Pushed", fmt.Sprintf("%s to %s", tag.Name, cfg.Tag.Remote))

	if url := publishRelease(ctx, repo, cfg, tag.Name, notes); url != "" {
		entry.ReleaseURL = url
		output.PrintStep(out, "Published", "GitHub release "+url)
	}
}

func publishRelease(ctx context.Context, repo *git.Repository, cfg *config.Configuration, tag, notes string) string {
	pub := newReleasePublisher(ctx, repo, cfg)
	if pub == nil {
		return ""
	}
	rel, err := pub.Publish(ctx, tag, tag, notes)
	if err != nil {
		log.Warnf("GitHub release not created: %v", err)
		return ""
	}
	return rel.URL
}

// pipelineError maps a fatal pipeline failure to a reported CLI error.
func (a *app) pipelineError(cfg *config.Configuration, err error) error {
	switch release.StageOf(err) {
	case release.StageHistory:
		if errors.Is(err, context.DeadlineExceeded) {
			return WithExitCode(ExitTimeout, clierrors.HistoryTimeout(cfg.History.Timeout, err))
		}
		return WithExitCode(ExitHistoryFailed, clierrors.HistoryReadFailed(err))
	case release.StageWrite:
		return WithExitCode(ExitWriteFailed, clierrors.ChangelogWriteFailed(a.changelogPath(cfg), err))
	}
	return err
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(changelog.DateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, clierrors.InvalidDate(s)
	}
	return t, nil
}

func fillEntry(entry *history.HistoryEntry, plan *release.Plan) {
	entry.PreviousTag = plan.PreviousTag
	entry.Version = plan.Next.String()
	entry.Bump = plan.Bump.String()
	entry.Commits = len(plan.Commits)
}

// recordRun appends the run to the log. Errors never change the outcome.
func recordRun(w *history.Writer, started time.Time, entry history.HistoryEntry, err error) {
	if err != nil {
		entry.Outcome = history.OutcomeFailed
		entry.Error = err.Error()
	}
	entry.ExitCode = exitCodeOf(err)
	w.LogRun(started, entry)
}
