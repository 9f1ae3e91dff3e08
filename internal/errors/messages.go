package errors

import (
	"fmt"
	"time"
)

// Common error messages for the autorelease CLI.
// These templates ensure consistent, actionable error messages.

// NotARepository creates an error when the working directory is not inside a git repository.
func NotARepository(path string, err error) *CLIError {
	return WrapWithMessage(err, History,
		fmt.Sprintf("%s is not a git repository", path),
		"Run autorelease from inside a git working tree",
		"Or point at one explicitly: autorelease --repo <path> generate",
	)
}

// HistoryReadFailed creates an error when commits or tags cannot be read.
func HistoryReadFailed(err error) *CLIError {
	return WrapWithMessage(err, History,
		"failed to read commit history",
		"Check that HEAD points at a commit: git log -1",
		"For shallow clones, fetch tags and history: git fetch --tags --unshallow",
	)
}

// HistoryTimeout creates an error when the history walk exceeds history.timeout.
func HistoryTimeout(timeout time.Duration, err error) *CLIError {
	return WrapWithMessage(err, History,
		fmt.Sprintf("reading commit history timed out after %s", timeout),
		"Raise the limit: autorelease config set history.timeout 2m",
		"Or narrow the walk with history.include_paths",
	)
}

// ChangelogWriteFailed creates an error when the changelog cannot be written.
func ChangelogWriteFailed(path string, err error) *CLIError {
	return WrapWithMessage(err, Write,
		fmt.Sprintf("failed to write %s", path),
		"Check that the file and its directory are writable",
		"The existing changelog was left unchanged",
	)
}

// ChangelogNotFound creates an error when the changelog document does not exist.
func ChangelogNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("changelog not found at %s", path),
		"Run 'autorelease generate' to create it",
		"Or set changelog.path in .autorelease/config.yml",
	)
}

// TagCreateFailed creates an error when the release tag cannot be created.
func TagCreateFailed(tag string, err error) *CLIError {
	return WrapWithMessage(err, Publish,
		fmt.Sprintf("failed to create tag %s", tag),
		fmt.Sprintf("If the tag already exists, inspect it with: git show %s", tag),
		"The changelog was already written; create the tag manually once resolved",
	)
}

// TagPushFailed creates an error when the release tag cannot be pushed.
func TagPushFailed(tag, remote string, err error) *CLIError {
	return WrapWithMessage(err, Publish,
		fmt.Sprintf("failed to push tag %s to %s", tag, remote),
		fmt.Sprintf("The tag exists locally; push it later with: git push %s %s", remote, tag),
		"Check your credentials (SSH agent, or GITHUB_TOKEN for HTTPS remotes)",
	)
}

// InvalidBumpLevel creates an error for an unknown bump level argument.
func InvalidBumpLevel(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid bump level: %s", provided),
		"autorelease tag [major|minor|patch]",
		"Omit the level to derive it from the commits since the last tag",
	)
}

// InvalidFormat creates an error for an unsupported --format value.
func InvalidFormat(provided string, valid ...string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid format: %s", provided),
		fmt.Sprintf("Valid formats: %v", valid),
	)
}

// ConfigParseError creates an error for configuration file parse failures.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file %s", path),
		"Check the YAML syntax in your config file",
		"Show the effective configuration: autorelease config show",
	)
}

// InvalidDate creates an error for an unparsable --date value.
func InvalidDate(provided string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("invalid date: %s", provided),
		"autorelease generate --date YYYY-MM-DD",
		"Dates use the ISO form, e.g. 2026-10-17",
	)
}
