package config

import (
	"strconv"
	"strings"
)

// Values flattens the configuration into dotted keys, matching KnownKeys.
// Durations are rendered as strings and lists joined with ", ".
func (c Configuration) Values() map[string]string {
	list := func(items []string) string { return strings.Join(items, ", ") }
	return map[string]string{
		"changelog.path":          c.Changelog.Path,
		"changelog.other_commits": c.Changelog.OtherCommits,
		"changelog.header":        c.Changelog.Header,

		"tag.prefix":          c.Tag.Prefix,
		"tag.legacy_prefixes": list(c.Tag.LegacyPrefixes),
		"tag.remote":          c.Tag.Remote,
		"tag.fail_on_error":   strconv.FormatBool(c.Tag.FailOnError),

		"summary.enabled":     strconv.FormatBool(c.Summary.Enabled),
		"summary.api_key":     c.Summary.APIKey,
		"summary.base_url":    c.Summary.BaseURL,
		"summary.model":       c.Summary.Model,
		"summary.timeout":     c.Summary.Timeout.String(),
		"summary.max_tokens":  strconv.Itoa(c.Summary.MaxTokens),
		"summary.temperature": strconv.FormatFloat(c.Summary.Temperature, 'g', -1, 64),

		"history.timeout":       c.History.Timeout.String(),
		"history.include_paths": list(c.History.IncludePaths),
		"history.exclude_paths": list(c.History.ExcludePaths),

		"bump.breaking_footers": strconv.FormatBool(c.Bump.BreakingFooters),

		"github.enabled":  strconv.FormatBool(c.GitHub.Enabled),
		"github.token":    c.GitHub.Token,
		"github.owner":    c.GitHub.Owner,
		"github.repo":     c.GitHub.Repo,
		"github.base_url": c.GitHub.BaseURL,

		"skip_confirmations":  strconv.FormatBool(c.SkipConfirmations),
		"state_dir":           c.StateDir,
		"max_history_entries": strconv.Itoa(c.MaxHistoryEntries),
	}
}
