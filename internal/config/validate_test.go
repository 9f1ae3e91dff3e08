package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateYAMLSyntax(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.yml")
	bad := filepath.Join(dir, "bad.yml")
	empty := filepath.Join(dir, "empty.yml")
	writeFile(t, good, "tag:\n  prefix: v\n")
	writeFile(t, bad, "tag:\n  prefix: v\n bad indent: [\n")
	writeFile(t, empty, "   \n")

	assert.NoError(t, ValidateYAMLSyntax(good))
	assert.NoError(t, ValidateYAMLSyntax(empty))
	assert.NoError(t, ValidateYAMLSyntax(filepath.Join(dir, "missing.yml")))

	err := ValidateYAMLSyntax(bad)
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, bad, ve.FilePath)
}

func TestValidateConfigValues_FieldNames(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Changelog.Path = ""

	err := ValidateConfigValues(&cfg, "config.yml")
	require.Error(t, err)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "changelog.path", ve.Field)
	assert.Equal(t, "is required", ve.Message)
}

func TestValidateConfigValues_Valid(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	assert.NoError(t, ValidateConfigValues(&cfg, "config.yml"))
}

func TestValidateConfigValues_SemanticChecks(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate    func(*Configuration)
		wantField string
	}{
		"zero summary timeout": {
			mutate:    func(c *Configuration) { c.Summary.Timeout = 0 },
			wantField: "summary.timeout",
		},
		"summary timeout over cap": {
			mutate:    func(c *Configuration) { c.Summary.Timeout = 2 * maxSummaryTimeout },
			wantField: "summary.timeout",
		},
		"negative history timeout": {
			mutate:    func(c *Configuration) { c.History.Timeout = -1 },
			wantField: "history.timeout",
		},
		"blank line in header": {
			mutate:    func(c *Configuration) { c.Changelog.Header = "Notes.\r\n\r\nMore." },
			wantField: "changelog.header",
		},
		"bad include glob": {
			mutate:    func(c *Configuration) { c.History.IncludePaths = []string{"api/[**"} },
			wantField: "history.include_paths",
		},
		"bad exclude glob": {
			mutate:    func(c *Configuration) { c.History.ExcludePaths = []string{"{docs"} },
			wantField: "history.exclude_paths",
		},
	}

	for name, tt := range tests {
		name, tt := name, tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfigValues(&cfg, "config.yml")
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}

func validConfig() Configuration {
	cfg := Configuration{MaxHistoryEntries: 10}
	cfg.Changelog = ChangelogConfig{Path: "CHANGELOG.md", OtherCommits: OtherCommitsDrop, Header: "Notes."}
	cfg.Tag = TagConfig{Prefix: "v", Remote: "origin"}
	cfg.Summary = SummaryConfig{Model: "m", Timeout: defaultTestTimeout, BaseURL: "https://api.example.com/v1"}
	cfg.History = HistoryConfig{IncludePaths: []string{"api/**"}}
	return cfg
}

const defaultTestTimeout = maxSummaryTimeout / 2
