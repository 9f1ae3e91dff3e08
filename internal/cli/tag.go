package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autorelease/internal/changelog"
	"github.com/ariel-frischer/autorelease/internal/config"
	"github.com/ariel-frischer/autorelease/internal/conventional"
	clierrors "github.com/ariel-frischer/autorelease/internal/errors"
	"github.com/ariel-frischer/autorelease/internal/history"
	"github.com/ariel-frischer/autorelease/internal/output"
	"github.com/ariel-frischer/autorelease/internal/release"
	"github.com/ariel-frischer/autorelease/internal/semver"
)

func newTagCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "tag [major|minor|patch]",
		Short: "Create the release tag without touching the changelog",
		Long: `Create the annotated tag for the next version. Without an argument the
bump level is derived from the commits since the last tag; an explicit
level overrides it. The tag is pushed after confirmation.`,
		Example: `  autorelease tag
  autorelease tag minor --yes`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"major", "minor", "patch"},
		GroupID:   GroupRelease,
		RunE: func(cmd *cobra.Command, args []string) error {
			started := time.Now()
			cfg, err := a.config()
			if err != nil {
				return err
			}
			entry := history.HistoryEntry{Command: "tag"}
			err = a.tag(cmd, cfg, args, yes, &entry)
			recordRun(a.historyWriter(cfg), started, entry, err)
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Push the tag without asking")
	return cmd
}

func (a *app) tag(cmd *cobra.Command, cfg *config.Configuration, args []string, yes bool, entry *history.HistoryEntry) error {
	var level *semver.BumpLevel
	if len(args) == 1 {
		l, err := semver.ParseBumpLevel(args[0])
		if err != nil {
			return clierrors.InvalidBumpLevel(args[0])
		}
		level = &l
	}

	repo, err := a.openRepo()
	if err != nil {
		return err
	}

	plan, err := a.newPipeline(repo, cfg, cmd.ErrOrStderr(), false).Plan(cmd.Context(), level)
	if errors.Is(err, release.ErrNothingToRelease) {
		entry.Outcome = history.OutcomeNothing
		output.PrintNotice(cmd.OutOrStdout(), "Nothing to release: no commits since the last tag.")
		return nil
	}
	if err != nil {
		return a.pipelineError(cfg, err)
	}
	fillEntry(entry, plan)

	now := a.now()
	tag, err := newTagPublisher(repo, cfg).CreateTag(plan.Next, now)
	if err != nil {
		entry.Tag = tag.Name
		return WithExitCode(ExitTagFailed, clierrors.TagCreateFailed(tag.Name, err))
	}
	entry.Outcome = history.OutcomeReleased

	changes := plan.Changes
	if cfg.Changelog.OtherCommits == config.OtherCommitsDrop {
		changes = changes.Without(conventional.Other)
	}
	notes := changelog.RenderSection(changelog.Section{Version: plan.Next, Date: now, Changes: changes})
	a.publishTag(cmd, repo, cfg, tag, notes, yes, entry)
	return nil
}
