package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ariel-frischer/autorelease/internal/conventional"
	clierrors "github.com/ariel-frischer/autorelease/internal/errors"
	"github.com/ariel-frischer/autorelease/internal/release"
	"github.com/ariel-frischer/autorelease/internal/semver"
)

var planFormats = []string{"text", "json", "yaml"}

// planReport is the serialized form of a release plan.
type planReport struct {
	PreviousTag string                      `json:"previous_tag,omitempty" yaml:"previous_tag,omitempty"`
	Current     string                      `json:"current" yaml:"current"`
	Next        string                      `json:"next" yaml:"next"`
	Tag         string                      `json:"tag" yaml:"tag"`
	Bump        semver.BumpLevel            `json:"bump" yaml:"bump"`
	Commits     int                         `json:"commits" yaml:"commits"`
	Changes     conventional.Classification `json:"changes" yaml:"changes"`
}

func newPlanCmd(a *app) *cobra.Command {
	var format string
	var level string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the next version and the classified commits",
		Long: `Classify the commits since the last release tag and show the bump level
and next version. Nothing is written.`,
		Example: `  autorelease plan
  autorelease plan --format json`,
		Args:    cobra.NoArgs,
		GroupID: GroupInspect,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validFormat(format) {
				return clierrors.InvalidFormat(format, planFormats...)
			}
			var lvl *semver.BumpLevel
			if level != "" {
				l, err := semver.ParseBumpLevel(level)
				if err != nil {
					return clierrors.InvalidBumpLevel(level)
				}
				lvl = &l
			}

			plan, err := a.plan(cmd, lvl)
			if errors.Is(err, release.ErrNothingToRelease) {
				if format == "text" {
					fmt.Fprintf(cmd.OutOrStdout(), "Nothing to release since %s.\n", describeTag(plan.PreviousTag))
					return nil
				}
			} else if err != nil {
				return err
			}

			report := planReport{
				PreviousTag: plan.PreviousTag,
				Current:     plan.Current.String(),
				Next:        plan.Next.String(),
				Tag:         releaseTagName(a.cfg, plan.Next),
				Bump:        plan.Bump,
				Commits:     len(plan.Commits),
				Changes:     plan.Changes,
			}
			return writePlan(cmd.OutOrStdout(), format, report)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json or yaml")
	cmd.Flags().StringVar(&level, "bump", "", "Override the bump level (major, minor or patch)")
	return cmd
}

// plan computes the release plan for the current repository. The plan is
// returned along with ErrNothingToRelease.
func (a *app) plan(cmd *cobra.Command, level *semver.BumpLevel) (*release.Plan, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	repo, err := a.openRepo()
	if err != nil {
		return nil, err
	}
	plan, err := a.newPipeline(repo, cfg, cmd.ErrOrStderr(), false).Plan(cmd.Context(), level)
	if err != nil && !errors.Is(err, release.ErrNothingToRelease) {
		return nil, a.pipelineError(cfg, err)
	}
	return plan, err
}

func validFormat(format string) bool {
	for _, f := range planFormats {
		if f == format {
			return true
		}
	}
	return false
}

func writePlan(w io.Writer, format string, r planReport) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	}

	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(w, "%s %s\n", bold("Previous tag:"), describeTag(r.PreviousTag))
	fmt.Fprintf(w, "%s %s -> %s (%s)\n", bold("Next version:"), r.Current, r.Next, r.Bump)
	fmt.Fprintf(w, "%s %s\n", bold("Tag:"), r.Tag)
	fmt.Fprintf(w, "%s %d\n", bold("Commits:"), r.Commits)
	for _, g := range r.Changes.Groups {
		fmt.Fprintf(w, "\n%s (%d)\n", color.CyanString(g.Category.String()), len(g.Commits))
		for _, c := range g.Commits {
			fmt.Fprintf(w, "  - %s", c.Subject)
			if c.Hash != "" {
				fmt.Fprintf(w, " (%s)", c.Hash)
			}
			fmt.Fprintln(w)
		}
	}
	return nil
}

func describeTag(tag string) string {
	if tag == "" {
		return "(none)"
	}
	return tag
}
