package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autorelease/internal/changelog"
	clierrors "github.com/ariel-frischer/autorelease/internal/errors"
	"github.com/ariel-frischer/autorelease/internal/semver"
)

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the current release tag and HEAD commit",
		Long: `Show the latest release tag with its parsed version, the HEAD commit,
the release remote and the newest version recorded in the changelog.`,
		Args:    cobra.NoArgs,
		GroupID: GroupInspect,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			repo, err := a.openRepo()
			if err != nil {
				return err
			}

			tag, _, err := newHistorySource(repo, cfg).LatestTag(cmd.Context())
			if err != nil {
				return WithExitCode(ExitHistoryFailed, clierrors.HistoryReadFailed(err))
			}
			head, hasHead, err := repo.Head()
			if err != nil {
				return WithExitCode(ExitHistoryFailed, clierrors.HistoryReadFailed(err))
			}

			out := cmd.OutOrStdout()
			current, _ := semver.ParseTag(tag, tagPrefixes(cfg))
			printField(out, "Current tag", describeTag(tag))
			printField(out, "Version", current.String())
			if hasHead {
				printField(out, "HEAD", fmt.Sprintf("%s %s", head.Hash, head.Subject))
				printField(out, "Date", head.Date.Format("2006-01-02 15:04:05"))
				if head.Branch != "" {
					printField(out, "Branch", head.Branch)
				}
			} else {
				printField(out, "HEAD", "(no commits)")
			}
			if url, err := repo.RemoteURL(cfg.Tag.Remote); err == nil {
				printField(out, "Remote", fmt.Sprintf("%s (%s)", cfg.Tag.Remote, url))
			}

			path := a.changelogPath(cfg)
			if doc, err := changelog.Load(path); err == nil && len(doc.Releases) > 0 {
				printField(out, "Changelog", fmt.Sprintf("%s (latest %s)", path, doc.Releases[0].Version))
			} else {
				printField(out, "Changelog", path+" (no releases)")
			}
			return nil
		},
	}
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.Bold).Sprintf("%-12s", label+":"), value)
}
