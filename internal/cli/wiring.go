package cli

import (
	"context"
	"io"
	"os"

	"github.com/ariel-frischer/autorelease/internal/config"
	"github.com/ariel-frischer/autorelease/internal/conventional"
	"github.com/ariel-frischer/autorelease/internal/git"
	"github.com/ariel-frischer/autorelease/internal/github"
	"github.com/ariel-frischer/autorelease/internal/progress"
	"github.com/ariel-frischer/autorelease/internal/release"
	"github.com/ariel-frischer/autorelease/internal/semver"
	"github.com/ariel-frischer/autorelease/internal/summary"
	"github.com/qiniu/x/log"
)

// tagPrefixes lists the prefixes stripped from tag names before parsing:
// the configured release prefix followed by the legacy ones.
func tagPrefixes(cfg *config.Configuration) []string {
	prefixes := make([]string, 0, len(cfg.Tag.LegacyPrefixes)+1)
	if cfg.Tag.Prefix != "" && cfg.Tag.Prefix != "v" {
		prefixes = append(prefixes, cfg.Tag.Prefix)
	}
	return append(prefixes, cfg.Tag.LegacyPrefixes...)
}

// releaseTagName is the tag CreateTag would use for v.
func releaseTagName(cfg *config.Configuration, v semver.Version) string {
	prefix := cfg.Tag.Prefix
	if prefix == "" {
		prefix = "v"
	}
	return v.TagName(prefix)
}

func newHistorySource(repo *git.Repository, cfg *config.Configuration) *git.HistorySource {
	return git.NewHistorySource(repo, git.HistoryOptions{
		TagPrefixes:  tagPrefixes(cfg),
		IncludePaths: cfg.History.IncludePaths,
		ExcludePaths: cfg.History.ExcludePaths,
	})
}

func newTagPublisher(repo *git.Repository, cfg *config.Configuration) *git.TagPublisher {
	return git.NewTagPublisher(repo, git.TagOptions{
		Prefix: cfg.Tag.Prefix,
		Remote: cfg.Tag.Remote,
		Token:  cfg.GitHub.Token,
	})
}

// newSummarizer returns nil when summaries are disabled or no key is set.
func newSummarizer(cfg *config.Configuration, stderr io.Writer) release.Summarizer {
	if !cfg.Summary.Active() {
		log.Debugf("summary disabled (enabled=%v, api key set=%v)", cfg.Summary.Enabled, cfg.Summary.APIKey != "")
		return nil
	}
	client, err := summary.NewClient(summary.ClientConfig{
		APIKey:      cfg.Summary.APIKey,
		BaseURL:     cfg.Summary.BaseURL,
		Model:       cfg.Summary.Model,
		MaxTokens:   cfg.Summary.MaxTokens,
		Temperature: cfg.Summary.Temperature,
	})
	if err != nil {
		log.Warnf("summary disabled: %v", err)
		return nil
	}
	enricher := summary.NewEnricher(client, cfg.Summary.Timeout)

	f, ok := stderr.(*os.File)
	if !ok {
		return enricher
	}
	return &spinningSummarizer{
		next:    enricher,
		spinner: progress.NewSpinner(stderr, progress.DetectTerminalCapabilities(f)),
		warnf:   log.Warnf,
	}
}

// summaryGenerator is the enricher seen by spinningSummarizer.
type summaryGenerator interface {
	Generate(ctx context.Context, version string, commits []conventional.Commit) (string, error)
}

// spinningSummarizer shows a spinner while the summary request is in flight.
// Failures are logged only after the spinner has stopped.
type spinningSummarizer struct {
	next    summaryGenerator
	spinner *progress.Spinner
	warnf   func(format string, args ...any)
}

func (s *spinningSummarizer) Summarize(ctx context.Context, version string, commits []conventional.Commit) (string, bool) {
	s.spinner.Start("Summarizing release " + version)
	text, err := s.next.Generate(ctx, version, commits)
	if err != nil {
		s.spinner.Stop(false, "skipped")
		summary.LogSkipped(s.warnf, err)
		return "", false
	}
	s.spinner.Stop(true, "")
	return text, true
}

func (a *app) newPipeline(repo *git.Repository, cfg *config.Configuration, stderr io.Writer, withTagger bool) *release.Pipeline {
	var tagger release.TagCreator
	if withTagger {
		tagger = newTagPublisher(repo, cfg)
	}
	return release.New(newHistorySource(repo, cfg), newSummarizer(cfg, stderr), tagger, release.Options{
		ChangelogPath:  a.changelogPath(cfg),
		DropOther:      cfg.Changelog.OtherCommits == config.OtherCommitsDrop,
		Intro:          cfg.Changelog.Header,
		TagPrefixes:    tagPrefixes(cfg),
		HistoryTimeout: cfg.History.Timeout,
		Bump:           semver.Policy{BreakingFooters: cfg.Bump.BreakingFooters},
		Now:            a.now,
	})
}

// newReleasePublisher returns nil when GitHub publication is off or cannot
// be configured; the reason is logged.
func newReleasePublisher(ctx context.Context, repo *git.Repository, cfg *config.Configuration) *github.ReleasePublisher {
	if !cfg.GitHub.Enabled {
		return nil
	}
	owner, name := cfg.GitHub.Owner, cfg.GitHub.Repo
	if owner == "" || name == "" {
		url, err := repo.RemoteURL(cfg.Tag.Remote)
		if err != nil {
			log.Warnf("GitHub release skipped: %v", err)
			return nil
		}
		parsedOwner, parsedRepo, ok := github.ParseRemote(url)
		if !ok {
			log.Warnf("GitHub release skipped: cannot derive owner/repo from %s", url)
			return nil
		}
		if owner == "" {
			owner = parsedOwner
		}
		if name == "" {
			name = parsedRepo
		}
	}

	pub, err := github.NewReleasePublisher(ctx, github.Options{
		Token:   cfg.GitHub.Token,
		Owner:   owner,
		Repo:    name,
		BaseURL: cfg.GitHub.BaseURL,
	})
	if err != nil {
		log.Warnf("GitHub release skipped: %v", err)
		return nil
	}
	return pub
}
