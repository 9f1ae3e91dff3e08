package config

import "time"

// GetDefaultConfigTemplate returns a fully commented config template
// that helps users understand all available options
func GetDefaultConfigTemplate() string {
	return `# Autorelease Configuration
# See 'autorelease config -h' for commands, 'autorelease config keys' for all options

# Changelog settings
changelog:
  path: CHANGELOG.md                  # Markdown document to update
  other_commits: include              # Unmatched commits: include | drop
  header: ""                          # Intro line for new documents (empty = default)

# Release tag settings
tag:
  prefix: v                           # Tag name prefix (v1.2.3)
  legacy_prefixes:                    # Prefixes accepted when reading the last tag
    - release-
  remote: origin                      # Remote to push tags to (after confirmation)
  fail_on_error: false                # Exit non-zero when tag creation fails

# Summary (OpenAI-compatible chat completions; OPENAI_API_KEY is used if api_key is empty)
summary:
  enabled: true                       # Attempted only when an API key is configured
  api_key: ""
  base_url: https://api.openai.com/v1
  model: gpt-4o-mini
  timeout: 60s                        # Single request, no retries (max 60s)
  max_tokens: 400
  temperature: 0.3

# Commit history
history:
  timeout: 30s                        # Bound on reading tags and commits
  include_paths: []                   # Only count commits touching these globs (e.g. services/api/**)
  exclude_paths: []                   # Ignore commits touching only these globs

# Bump policy
bump:
  breaking_footers: false             # Also treat a "BREAKING CHANGE:" body footer as major

# GitHub release (GITHUB_TOKEN is used if token is empty)
github:
  enabled: false
  token: ""
  owner: ""                           # Default: parsed from the remote URL
  repo: ""
  base_url: ""                        # GitHub Enterprise API URL

skip_confirmations: false             # Push tags without asking
state_dir: ~/.autorelease/state       # Run log location
max_history_entries: 500              # Max run log entries to retain
`
}

// GetDefaults returns the default configuration values
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"changelog.path":          "CHANGELOG.md",
		"changelog.other_commits": OtherCommitsInclude,
		"changelog.header":        "",

		"tag.prefix":          "v",
		"tag.legacy_prefixes": []string{"release-"},
		"tag.remote":          "origin",
		// fail_on_error: tag creation failures are reported but do not fail the run,
		// since the changelog has already been written.
		"tag.fail_on_error": false,

		// summary: attempted only when an API key is present.
		"summary.enabled":     true,
		"summary.api_key":     "",
		"summary.base_url":    "https://api.openai.com/v1",
		"summary.model":       "gpt-4o-mini",
		"summary.timeout":     (60 * time.Second).String(),
		"summary.max_tokens":  400,
		"summary.temperature": 0.3,

		"history.timeout":       (30 * time.Second).String(),
		"history.include_paths": []string{},
		"history.exclude_paths": []string{},

		// breaking_footers: only the subject decides Major unless enabled.
		"bump.breaking_footers": false,

		"github.enabled":  false,
		"github.token":    "",
		"github.owner":    "",
		"github.repo":     "",
		"github.base_url": "",

		"skip_confirmations": false,
		"state_dir":          "~/.autorelease/state",
		// max_history_entries: Maximum number of run log entries to retain.
		"max_history_entries": 500,
	}
}
