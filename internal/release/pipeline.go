package release

import (
	"context"
	"fmt"
	"time"

	"github.com/qiniu/x/log"

	"github.com/ariel-frischer/autorelease/internal/changelog"
	"github.com/ariel-frischer/autorelease/internal/conventional"
	"github.com/ariel-frischer/autorelease/internal/git"
	"github.com/ariel-frischer/autorelease/internal/semver"
)

// HistorySource supplies the last release tag and the commits made since.
type HistorySource interface {
	LatestTag(ctx context.Context) (tag string, ok bool, err error)
	CommitsSince(ctx context.Context, tag string) ([]conventional.Commit, error)
}

// Summarizer produces optional release prose. Failures yield ok=false.
type Summarizer interface {
	Summarize(ctx context.Context, version string, commits []conventional.Commit) (summary string, ok bool)
}

// TagCreator creates the release tag for a version.
type TagCreator interface {
	CreateTag(v semver.Version, when time.Time) (git.TagOutcome, error)
}

// Options configures a Pipeline.
type Options struct {
	ChangelogPath  string
	DropOther      bool   // omit the Other category from the rendered section
	Intro          string // intro line for a newly created changelog
	TagPrefixes    []string
	HistoryTimeout time.Duration // 0 disables the bound
	Bump           semver.Policy
	Now            func() time.Time
}

// Plan is the computed release before anything is written.
type Plan struct {
	PreviousTag string                      `json:"previous_tag,omitempty" yaml:"previous_tag,omitempty"`
	Current     semver.Version              `json:"current" yaml:"current"`
	Next        semver.Version              `json:"next" yaml:"next"`
	Bump        semver.BumpLevel            `json:"bump" yaml:"bump"`
	Commits     []conventional.Commit       `json:"-" yaml:"-"`
	Changes     conventional.Classification `json:"changes" yaml:"changes"`
}

// RunOptions selects which steps of Run are performed.
type RunOptions struct {
	DryRun    bool              // render only; nothing is written or tagged
	NoTag     bool              // skip tag creation
	NoSummary bool              // skip the summary request
	Level     *semver.BumpLevel // overrides the computed bump level
	Date      time.Time         // section date; zero means today
}

// Outcome reports what a run did. A non-nil TagErr with Written set is a
// partial success: the changelog is updated but the tag is missing.
type Outcome struct {
	*Plan
	Date       time.Time
	Summary    string
	Summarized bool
	Section    string
	Document   string
	Written    bool
	Tag        git.TagOutcome
	TagErr     error
}

// Pipeline wires the release components together.
type Pipeline struct {
	history    HistorySource
	summarizer Summarizer
	tagger     TagCreator
	opts       Options
}

// New returns a pipeline. summarizer and tagger may be nil.
func New(history HistorySource, summarizer Summarizer, tagger TagCreator, opts Options) *Pipeline {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{history: history, summarizer: summarizer, tagger: tagger, opts: opts}
}

// Plan reads history and computes the next version. It returns
// ErrNothingToRelease (with the plan) when there are no new commits.
func (p *Pipeline) Plan(ctx context.Context, level *semver.BumpLevel) (*Plan, error) {
	if p.opts.HistoryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.HistoryTimeout)
		defer cancel()
	}

	tag, _, err := p.history.LatestTag(ctx)
	if err != nil {
		return nil, &StageError{Stage: StageHistory, Err: err}
	}
	commits, err := p.history.CommitsSince(ctx, tag)
	if err != nil {
		return nil, &StageError{Stage: StageHistory, Err: err}
	}

	current, parsed := semver.ParseTag(tag, p.opts.TagPrefixes)
	if tag != "" && !parsed {
		log.Warnf("tag %q is not a version, starting from 0.0.0", tag)
	}

	changes := conventional.Classify(commits)
	next, bump := p.opts.Bump.Next(current, changes)
	if level != nil {
		bump = *level
		next = current.Bump(bump)
	}

	plan := &Plan{
		PreviousTag: tag,
		Current:     current,
		Next:        next,
		Bump:        bump,
		Commits:     commits,
		Changes:     changes,
	}
	if len(commits) == 0 {
		return plan, ErrNothingToRelease
	}

	log.Debugf("plan: %s -> %s (%s, %d commits)", current, next, bump, len(commits))
	return plan, nil
}

// Run executes the pipeline. History and write failures are returned as
// *StageError and nothing after them runs; a tag failure is reported in the
// outcome and never rolls back the written changelog.
func (p *Pipeline) Run(ctx context.Context, ro RunOptions) (*Outcome, error) {
	plan, err := p.Plan(ctx, ro.Level)
	if err != nil {
		return nil, err
	}

	out := &Outcome{Plan: plan, Date: ro.Date}
	if out.Date.IsZero() {
		out.Date = p.opts.Now()
	}

	if p.summarizer != nil && !ro.NoSummary {
		out.Summary, out.Summarized = p.summarizer.Summarize(ctx, plan.Next.String(), plan.Commits)
	}

	changes := plan.Changes
	if p.opts.DropOther {
		changes = changes.Without(conventional.Other)
	}
	out.Section = changelog.RenderSection(changelog.Section{
		Version: plan.Next,
		Date:    out.Date,
		Summary: out.Summary,
		Changes: changes,
	})

	existing, err := changelog.ReadFile(p.opts.ChangelogPath)
	if err != nil {
		return nil, &StageError{Stage: StageWrite, Err: err}
	}
	out.Document = changelog.MergeWithIntro(existing, out.Section, p.opts.Intro)

	if ro.DryRun {
		return out, nil
	}

	if err := changelog.WriteFile(p.opts.ChangelogPath, out.Document); err != nil {
		return nil, &StageError{Stage: StageWrite, Err: err}
	}
	out.Written = true
	log.Infof("updated %s for %s", p.opts.ChangelogPath, plan.Next)

	if p.tagger != nil && !ro.NoTag {
		out.Tag, out.TagErr = p.tagger.CreateTag(plan.Next, p.opts.Now())
		if out.TagErr != nil {
			log.Warnf("changelog written but tag not created: %v", out.TagErr)
		}
	}
	return out, nil
}

// String describes the plan in one line.
func (p *Plan) String() string {
	from := p.PreviousTag
	if from == "" {
		from = "(no tag)"
	}
	return fmt.Sprintf("%s -> %s (%s bump, %d commits)", from, p.Next, p.Bump, len(p.Commits))
}
