package cli

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	clierrors "github.com/ariel-frischer/autorelease/internal/errors"
	"github.com/ariel-frischer/autorelease/internal/release"
	"github.com/ariel-frischer/autorelease/internal/semver"
	"github.com/ariel-frischer/autorelease/internal/version"
)

func newVersionCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Display build information",
		Long:  "Display version, commit, build date and Go version of autorelease itself.",
		Example: `  autorelease version

  # Version of the project, from its latest release tag
  autorelease version current

  # Version the next release would get
  autorelease version next`,
		Args:    cobra.NoArgs,
		GroupID: GroupInspect,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if a.plain {
				fmt.Fprintf(out, "autorelease %s\n", version.Version)
				fmt.Fprintf(out, "commit: %s\n", version.Commit)
				fmt.Fprintf(out, "built: %s\n", version.BuildDate)
				fmt.Fprintf(out, "go: %s\n", runtime.Version())
				fmt.Fprintf(out, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
				return
			}

			label := color.New(color.FgCyan, color.Bold).SprintFunc()
			fmt.Fprintf(out, "%s %s\n", label("autorelease"), version.Version)
			fmt.Fprintf(out, "  %-9s %s\n", "Commit", truncateCommit(version.Commit))
			fmt.Fprintf(out, "  %-9s %s\n", "Built", version.BuildDate)
			fmt.Fprintf(out, "  %-9s %s\n", "Go", runtime.Version())
			fmt.Fprintf(out, "  %-9s %s/%s\n", "Platform", runtime.GOOS, runtime.GOARCH)
			if version.IsDevBuild() {
				fmt.Fprintln(out, color.New(color.Faint).Sprint("  development build"))
			}
		},
	}
	cmd.AddCommand(newVersionCurrentCmd(a), newVersionNextCmd(a))
	return cmd
}

func newVersionCurrentCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the project version from the latest release tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			repo, err := a.openRepo()
			if err != nil {
				return err
			}
			tag, ok, err := newHistorySource(repo, cfg).LatestTag(cmd.Context())
			if err != nil {
				return WithExitCode(ExitHistoryFailed, clierrors.HistoryReadFailed(err))
			}
			if !ok {
				log.Infof("no release tag found")
			}
			v, _ := semver.ParseTag(tag, tagPrefixes(cfg))
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newVersionNextCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Print the version the next release would get",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := a.plan(cmd, nil)
			if errors.Is(err, release.ErrNothingToRelease) {
				log.Infof("no commits since %s", describeTag(plan.PreviousTag))
				fmt.Fprintln(cmd.OutOrStdout(), plan.Current)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), plan.Next)
			return nil
		},
	}
}

// truncateCommit shortens a full commit hash for display.
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
