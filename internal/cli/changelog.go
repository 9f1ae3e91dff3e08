package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autorelease/internal/changelog"
	clierrors "github.com/ariel-frischer/autorelease/internal/errors"
)

func newChangelogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "changelog",
		Short:   "Inspect the existing changelog",
		GroupID: GroupInspect,
	}
	cmd.AddCommand(newChangelogShowCmd(a), newChangelogVersionsCmd(a))
	return cmd
}

func newChangelogShowCmd(a *app) *cobra.Command {
	var last, entries int
	var raw bool
	cmd := &cobra.Command{
		Use:   "show [version]",
		Short: "Print release sections from the changelog",
		Long: `Print release sections of the changelog. Without a version the newest
--last sections are shown. The version may be given with or without the
"v" prefix.`,
		Example: `  autorelease changelog show
  autorelease changelog show v1.3.0
  autorelease changelog show --last 3 --raw
  autorelease changelog show --entries 5`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if last < 1 {
				return clierrors.NewArgumentError(fmt.Sprintf("--last must be at least 1, got %d", last))
			}
			doc, err := a.loadChangelog()
			if err != nil {
				return err
			}

			if entries > 0 {
				printEntries(cmd, doc, entries)
				return nil
			}

			releases := doc.Latest(last)
			if len(args) == 1 {
				r, err := doc.GetVersion(args[0])
				var notFound *changelog.VersionNotFoundError
				if errors.As(err, &notFound) {
					fmt.Fprintf(cmd.ErrOrStderr(), "Version %q not found.\n\n", args[0])
					fmt.Fprintf(cmd.ErrOrStderr(), "Available versions:\n")
					for _, v := range doc.ListVersions() {
						fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", v)
					}
					return NewExitError(ExitInvalidArguments)
				}
				if err != nil {
					return err
				}
				releases = []changelog.Release{*r}
			}

			if len(releases) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No releases in the changelog.")
				return nil
			}
			if raw {
				for _, r := range releases {
					fmt.Fprint(cmd.OutOrStdout(), r.Raw)
				}
				return nil
			}
			return changelog.FormatReleases(releases, cmd.OutOrStdout(), changelog.FormatOptions{Plain: a.plain})
		},
	}
	cmd.Flags().IntVarP(&last, "last", "n", 1, "Number of most recent sections to show")
	cmd.Flags().BoolVar(&raw, "raw", false, "Print the Markdown exactly as stored")
	cmd.Flags().IntVar(&entries, "entries", 0, "Print the N most recent bullet entries instead of sections")
	return cmd
}

func printEntries(cmd *cobra.Command, doc *changelog.Document, n int) {
	out := cmd.OutOrStdout()
	for _, e := range doc.GetLastN(n) {
		fmt.Fprintf(out, "[%s] %s: %s\n", e.Version, e.Category, e.Text)
	}
	fmt.Fprintf(out, "(%d of %d entries)\n", min(n, doc.GetEntryCount()), doc.GetEntryCount())
}

func newChangelogVersionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "versions",
		Short: "List the versions recorded in the changelog, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.loadChangelog()
			if err != nil {
				return err
			}
			for _, v := range doc.ListVersions() {
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func (a *app) loadChangelog() (*changelog.Document, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	path := a.changelogPath(cfg)
	doc, err := changelog.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, clierrors.ChangelogNotFound(path)
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}
