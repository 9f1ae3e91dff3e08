package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/autorelease/internal/history"
)

// These tests drive the full command tree. They change the global logger
// and color settings, so they do not run in parallel.

var fixedNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

type fixture struct {
	dir    string // repository root
	config string // project config passed with --config
	state  string
	repo   *gogit.Repository
	when   time.Time
	files  int
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "repo")
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	f := &fixture{
		dir:    dir,
		config: filepath.Join(root, "config.yml"),
		state:  filepath.Join(root, "state"),
		repo:   repo,
		when:   time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC),
	}
	f.writeConfig(t, "")
	return f
}

func (f *fixture) writeConfig(t *testing.T, extra string) {
	t.Helper()
	content := fmt.Sprintf("state_dir: %s\nsummary:\n  enabled: false\n%s", f.state, extra)
	require.NoError(t, os.WriteFile(f.config, []byte(content), 0o644))
}

func (f *fixture) commit(t *testing.T, subject string) {
	t.Helper()
	wt, err := f.repo.Worktree()
	require.NoError(t, err)

	f.files++
	name := fmt.Sprintf("file%d.txt", f.files)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), []byte(subject), 0o644))
	_, err = wt.Add(name)
	require.NoError(t, err)

	f.when = f.when.Add(time.Minute)
	_, err = wt.Commit(subject, &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@example.com", When: f.when},
	})
	require.NoError(t, err)
}

func (f *fixture) tag(t *testing.T, name string) {
	t.Helper()
	head, err := f.repo.Head()
	require.NoError(t, err)
	_, err = f.repo.CreateTag(name, head.Hash(), nil)
	require.NoError(t, err)
}

func (f *fixture) hasTag(t *testing.T, name string) bool {
	t.Helper()
	_, err := f.repo.Tag(name)
	return err == nil
}

// run executes the CLI against the fixture and returns the exit code with
// the captured stdout and stderr.
func (f *fixture) run(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	a := &app{
		now:            func() time.Time { return fixedNow },
		userConfigPath: filepath.Join(f.state, "user-config.yml"),
		getenv:         func(string) string { return "" },
	}
	root := newRootCmd(a)

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))

	base := []string{"--repo", f.dir, "--config", f.config, "--plain"}
	code := run(root, append(base, args...), &stderr)
	return code, stdout.String(), stderr.String()
}

func (f *fixture) changelog(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.dir, "CHANGELOG.md"))
	require.NoError(t, err)
	return string(data)
}

// released sets up v1.2.3 followed by a feature, a fix and a chore.
func released(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	f.commit(t, "chore: initial import")
	f.tag(t, "v1.2.3")
	f.commit(t, "feat: add export")
	f.commit(t, "fix: handle empty input")
	f.commit(t, "chore: bump deps")
	return f
}

func TestGenerate_WritesChangelogAndTag(t *testing.T) {
	f := released(t)

	code, stdout, stderr := f.run(t, "n\n", "generate", "--date", "2026-10-17")
	require.Equal(t, ExitSuccess, code, stderr)

	doc := f.changelog(t)
	assert.True(t, strings.HasPrefix(doc, "# Changelog\nAll notable changes to this project will be documented in this file.\n\n## [1.3.0] - 2026-10-17\n"), doc)
	assert.Contains(t, doc, "\n### Features\n- feat: add export (")
	assert.Contains(t, doc, "\n### Bug Fixes\n- fix: handle empty input (")
	assert.Contains(t, doc, "\n### Chores\n- chore: bump deps (")
	assert.NotContains(t, doc, "initial import")
	assert.NotContains(t, doc, "### Summary")

	assert.True(t, f.hasTag(t, "v1.3.0"))
	assert.Contains(t, stdout, "Push tag v1.3.0 to origin? [y/N]: ")
	assert.Contains(t, stdout, "Tag kept locally")

	hist, err := history.LoadHistory(f.state)
	require.NoError(t, err)
	require.Len(t, hist.Entries, 1)
	entry := hist.Entries[0]
	assert.Equal(t, "generate", entry.Command)
	assert.Equal(t, history.OutcomeReleased, entry.Outcome)
	assert.Equal(t, "v1.2.3", entry.PreviousTag)
	assert.Equal(t, "1.3.0", entry.Version)
	assert.Equal(t, "minor", entry.Bump)
	assert.Equal(t, 3, entry.Commits)
	assert.True(t, entry.Changelog)
	assert.True(t, entry.TagCreated)
	assert.False(t, entry.TagPushed)
	assert.Equal(t, ExitSuccess, entry.ExitCode)
}

func TestGenerate_SecondRunHasNothingToRelease(t *testing.T) {
	f := released(t)

	code, _, stderr := f.run(t, "n\n", "generate")
	require.Equal(t, ExitSuccess, code, stderr)
	before := f.changelog(t)

	code, stdout, stderr := f.run(t, "", "generate")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Nothing to release")
	assert.Equal(t, before, f.changelog(t))

	hist, err := history.LoadHistory(f.state)
	require.NoError(t, err)
	require.Len(t, hist.Entries, 2)
	assert.Equal(t, history.OutcomeNothing, hist.Entries[1].Outcome)
}

func TestGenerate_BreakingChangeOnExistingChangelog(t *testing.T) {
	f := newFixture(t)
	f.commit(t, "chore: initial import")
	f.tag(t, "v2.0.5")
	f.commit(t, "fix!: remove legacy endpoint")

	existing := "# Changelog\nCustom intro.\n\n## [2.0.5] - 2026-01-01\n\n### Bug Fixes\n- fix: old bug\n"
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "CHANGELOG.md"), []byte(existing), 0o644))

	code, _, stderr := f.run(t, "", "generate", "--no-tag", "--date", "2026-10-17")
	require.Equal(t, ExitSuccess, code, stderr)

	doc := f.changelog(t)
	assert.True(t, strings.HasPrefix(doc, "# Changelog\nCustom intro.\n\n## [3.0.0] - 2026-10-17\n"), doc)
	assert.True(t, strings.HasSuffix(doc, "## [2.0.5] - 2026-01-01\n\n### Bug Fixes\n- fix: old bug\n"), doc)
	assert.False(t, f.hasTag(t, "v3.0.0"))
}

func TestGenerate_DryRunWritesNothing(t *testing.T) {
	f := released(t)

	code, stdout, stderr := f.run(t, "", "generate", "--dry-run", "--date", "2026-10-17")
	require.Equal(t, ExitSuccess, code, stderr)

	assert.Contains(t, stdout, "## [1.3.0] - 2026-10-17")
	assert.NoFileExists(t, filepath.Join(f.dir, "CHANGELOG.md"))
	assert.False(t, f.hasTag(t, "v1.3.0"))

	assert.NoFileExists(t, history.Path(f.state), "a dry run leaves no run log entry")
}

func TestGenerate_DropOtherCommits(t *testing.T) {
	f := newFixture(t)
	f.writeConfig(t, "changelog:\n  other_commits: drop\n")
	f.commit(t, "feat: first feature")
	f.commit(t, "update readme")

	code, _, stderr := f.run(t, "", "generate", "--no-tag")
	require.Equal(t, ExitSuccess, code, stderr)

	doc := f.changelog(t)
	assert.Contains(t, doc, "## [0.1.0] - 2026-10-17")
	assert.NotContains(t, doc, "### Other")
	assert.NotContains(t, doc, "update readme")
}

func TestGenerate_ExistingTagIsPartialSuccess(t *testing.T) {
	tests := map[string]struct {
		failOnError bool
		wantCode    int
		wantOutcome string
	}{
		"warning by default":  {failOnError: false, wantCode: ExitSuccess, wantOutcome: history.OutcomePartial},
		"fatal when required": {failOnError: true, wantCode: ExitTagFailed, wantOutcome: history.OutcomeFailed},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := released(t)
			f.writeConfig(t, fmt.Sprintf("tag:\n  fail_on_error: %v\n", tt.failOnError))
			// v1.3.0 exists but marks no commit, so it is not the latest
			// release and creating it again fails.
			_, err := f.repo.CreateTag("v1.3.0", headTree(t, f), nil)
			require.NoError(t, err)

			code, _, stderr := f.run(t, "", "generate")
			assert.Equal(t, tt.wantCode, code, stderr)
			assert.Contains(t, f.changelog(t), "## [1.3.0]")

			hist, err := history.LoadHistory(f.state)
			require.NoError(t, err)
			require.Len(t, hist.Entries, 1)
			assert.Equal(t, tt.wantOutcome, hist.Entries[0].Outcome)
			assert.True(t, hist.Entries[0].Changelog || tt.failOnError)
			assert.False(t, hist.Entries[0].TagCreated)
		})
	}
}

func TestCommands_ExitCodes(t *testing.T) {
	tests := map[string]struct {
		args []string
		want int
	}{
		"invalid date":        {args: []string{"generate", "--date", "17/10/2026"}, want: ExitInvalidArguments},
		"invalid format":      {args: []string{"plan", "--format", "xml"}, want: ExitInvalidArguments},
		"invalid bump level":  {args: []string{"tag", "huge"}, want: ExitInvalidArguments},
		"unknown version":     {args: []string{"changelog", "show", "9.9.9"}, want: ExitInvalidArguments},
		"unknown config key":  {args: []string{"config", "set", "no.such.key", "1"}, want: ExitInvalidArguments},
		"invalid config enum": {args: []string{"config", "set", "changelog.other_commits", "maybe"}, want: ExitConfigInvalid},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := released(t)
			require.NoError(t, os.WriteFile(filepath.Join(f.dir, "CHANGELOG.md"), []byte("# Changelog\n\n## [1.2.3] - 2026-01-01\n"), 0o644))

			code, _, stderr := f.run(t, "", tt.args...)
			assert.Equal(t, tt.want, code, stderr)
		})
	}
}

func TestGenerate_NotARepository(t *testing.T) {
	f := newFixture(t)
	f.dir = filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.MkdirAll(f.dir, 0o755))

	code, _, stderr := f.run(t, "", "generate")
	assert.Equal(t, ExitHistoryFailed, code)
	assert.Contains(t, stderr, "is not a git repository")
}

func TestGenerate_BadConfig(t *testing.T) {
	f := released(t)
	require.NoError(t, os.WriteFile(f.config, []byte("changelog:\n  other_commits: sometimes\n"), 0o644))

	code, _, stderr := f.run(t, "", "generate")
	assert.Equal(t, ExitConfigInvalid, code)
	assert.Contains(t, stderr, "failed to parse config file")
}

func TestPlan_Formats(t *testing.T) {
	f := released(t)

	code, stdout, stderr := f.run(t, "", "plan")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Previous tag: v1.2.3")
	assert.Contains(t, stdout, "1.2.3 -> 1.3.0 (minor)")
	assert.Contains(t, stdout, "Features (1)")

	code, stdout, stderr = f.run(t, "", "plan", "--format", "json")
	require.Equal(t, ExitSuccess, code, stderr)
	var report map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "1.3.0", report["next"])
	assert.Equal(t, "minor", report["bump"])
	assert.Equal(t, "v1.3.0", report["tag"])
	assert.EqualValues(t, 3, report["commits"])

	code, stdout, stderr = f.run(t, "", "plan", "--format", "yaml", "--bump", "major")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "next: 2.0.0")
	assert.Contains(t, stdout, "bump: major")
	assert.NoFileExists(t, filepath.Join(f.dir, "CHANGELOG.md"))
}

func TestVersion_CurrentAndNext(t *testing.T) {
	f := released(t)

	code, stdout, _ := f.run(t, "", "version", "current")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "1.2.3\n", stdout)

	code, stdout, _ = f.run(t, "", "version", "next")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "1.3.0\n", stdout)

	code, stdout, _ = f.run(t, "", "version")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "autorelease dev")
}

func TestTag_ExplicitLevel(t *testing.T) {
	f := released(t)

	code, stdout, stderr := f.run(t, "n\n", "tag", "patch")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.True(t, f.hasTag(t, "v1.2.4"))
	assert.Contains(t, stdout, "Created tag v1.2.4")
	assert.NoFileExists(t, filepath.Join(f.dir, "CHANGELOG.md"))
}

func TestInfo(t *testing.T) {
	f := released(t)

	code, stdout, stderr := f.run(t, "", "info")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "v1.2.3")
	assert.Contains(t, stdout, "chore: bump deps")
	assert.Contains(t, stdout, "no releases")
}

func TestChangelogAndHistory_AfterRelease(t *testing.T) {
	f := released(t)
	code, _, stderr := f.run(t, "n\n", "generate", "--date", "2026-10-17")
	require.Equal(t, ExitSuccess, code, stderr)

	code, stdout, _ := f.run(t, "", "changelog", "show", "--raw")
	require.Equal(t, ExitSuccess, code)
	assert.True(t, strings.HasPrefix(stdout, "## [1.3.0] - 2026-10-17\n"), stdout)

	code, stdout, _ = f.run(t, "", "changelog", "versions")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "1.3.0\n", stdout)

	code, stdout, _ = f.run(t, "", "history")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "generate")
	assert.Contains(t, stdout, "1.3.0")

	code, stdout, _ = f.run(t, "", "history", "--clear")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "History cleared.")

	code, stdout, _ = f.run(t, "", "history")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "No history available.")
}

func TestChangelogShow_Entries(t *testing.T) {
	f := released(t)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "CHANGELOG.md"),
		[]byte("# Changelog\n\n## [1.2.3] - 2026-01-01\n\n### Features\n- feat: one\n- feat: two\n\n### Bug Fixes\n- fix: three\n"), 0o644))

	code, stdout, stderr := f.run(t, "", "changelog", "show", "--entries", "2")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "[1.2.3] Features: feat: one\n[1.2.3] Features: feat: two\n(2 of 3 entries)\n", stdout)
}

func TestChangelogShow_Missing(t *testing.T) {
	f := released(t)

	code, _, stderr := f.run(t, "", "changelog", "show")
	assert.Equal(t, ExitConfigInvalid, code)
	assert.Contains(t, stderr, "changelog not found")
}

func TestConfig_SetThenShow(t *testing.T) {
	f := released(t)

	code, stdout, stderr := f.run(t, "", "config", "set", "changelog.other_commits", "drop")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stdout, "Set changelog.other_commits = drop")

	code, stdout, stderr = f.run(t, "", "config", "show")
	require.Equal(t, ExitSuccess, code, stderr)
	var line string
	for _, l := range strings.Split(stdout, "\n") {
		if strings.HasPrefix(l, "changelog.other_commits ") {
			line = l
		}
	}
	assert.Contains(t, line, "drop")
	assert.Contains(t, line, "(project)")

	code, stdout, _ = f.run(t, "", "config", "keys")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout, "summary.model")
}

func headTree(t *testing.T, f *fixture) plumbing.Hash {
	t.Helper()
	head, err := f.repo.Head()
	require.NoError(t, err)
	commit, err := f.repo.CommitObject(head.Hash())
	require.NoError(t, err)
	return commit.TreeHash
}
