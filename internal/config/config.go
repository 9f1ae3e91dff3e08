// autorelease - Conventional Commits release automation
// Author: Ariel Frischer
// Source: https://github.com/ariel-frischer/autorelease

// Package config provides hierarchical configuration management for autorelease using koanf.
// Configuration is loaded with priority: environment variables > project config (.autorelease/config.yml)
// > user config (~/.config/autorelease/config.yml) > defaults. It supports both YAML and legacy JSON
// formats, with migration utilities for transitioning from JSON to YAML.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "AUTORELEASE_"

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Other-commit policies for changelog.other_commits.
const (
	OtherCommitsInclude = "include"
	OtherCommitsDrop    = "drop"
)

// Configuration represents the autorelease CLI tool configuration
type Configuration struct {
	Changelog ChangelogConfig `koanf:"changelog" yaml:"changelog"`
	Tag       TagConfig       `koanf:"tag" yaml:"tag"`
	Summary   SummaryConfig   `koanf:"summary" yaml:"summary"`
	History   HistoryConfig   `koanf:"history" yaml:"history"`
	Bump      BumpConfig      `koanf:"bump" yaml:"bump"`
	GitHub    GitHubConfig    `koanf:"github" yaml:"github"`

	// SkipConfirmations answers yes to the push prompt (can also be set via AUTORELEASE_YES env var)
	SkipConfirmations bool   `koanf:"skip_confirmations" yaml:"skip_confirmations"`
	StateDir          string `koanf:"state_dir" yaml:"state_dir"`

	// MaxHistoryEntries sets the maximum number of run log entries to retain.
	// Oldest entries are pruned when this limit is exceeded.
	MaxHistoryEntries int `koanf:"max_history_entries" yaml:"max_history_entries" validate:"min=0"`
}

// ChangelogConfig controls where and how the changelog is written.
type ChangelogConfig struct {
	Path string `koanf:"path" yaml:"path" validate:"required"`
	// OtherCommits is "include" to render unmatched commits under Other, or "drop".
	OtherCommits string `koanf:"other_commits" yaml:"other_commits" validate:"oneof=include drop"`
	// Header is the intro line written under "# Changelog" for new documents.
	Header string `koanf:"header" yaml:"header"`
}

// TagConfig controls release tag naming and publication.
type TagConfig struct {
	Prefix         string   `koanf:"prefix" yaml:"prefix"`
	LegacyPrefixes []string `koanf:"legacy_prefixes" yaml:"legacy_prefixes"`
	Remote         string   `koanf:"remote" yaml:"remote" validate:"required"`
	// FailOnError makes a failed tag creation exit non-zero.
	FailOnError bool `koanf:"fail_on_error" yaml:"fail_on_error"`
}

// SummaryConfig configures the optional summary service.
type SummaryConfig struct {
	Enabled     bool          `koanf:"enabled" yaml:"enabled"`
	APIKey      string        `koanf:"api_key" yaml:"api_key"`
	BaseURL     string        `koanf:"base_url" yaml:"base_url" validate:"omitempty,url"`
	Model       string        `koanf:"model" yaml:"model" validate:"required"`
	Timeout     time.Duration `koanf:"timeout" yaml:"timeout"`
	MaxTokens   int           `koanf:"max_tokens" yaml:"max_tokens" validate:"min=0"`
	Temperature float64       `koanf:"temperature" yaml:"temperature" validate:"min=0,max=2"`
}

// Active reports whether a summary request should be attempted.
func (s SummaryConfig) Active() bool {
	return s.Enabled && strings.TrimSpace(s.APIKey) != ""
}

// HistoryConfig bounds and filters the commit walk.
type HistoryConfig struct {
	Timeout      time.Duration `koanf:"timeout" yaml:"timeout"`
	IncludePaths []string      `koanf:"include_paths" yaml:"include_paths"`
	ExcludePaths []string      `koanf:"exclude_paths" yaml:"exclude_paths"`
}

// BumpConfig tunes the bump policy.
type BumpConfig struct {
	// BreakingFooters makes a BREAKING CHANGE footer in a commit body force
	// a major release. Off by default: only the subject line counts.
	BreakingFooters bool `koanf:"breaking_footers" yaml:"breaking_footers"`
}

// GitHubConfig configures optional GitHub release publication.
type GitHubConfig struct {
	Enabled bool   `koanf:"enabled" yaml:"enabled"`
	Token   string `koanf:"token" yaml:"token"`
	Owner   string `koanf:"owner" yaml:"owner"`
	Repo    string `koanf:"repo" yaml:"repo"`
	BaseURL string `koanf:"base_url" yaml:"base_url" validate:"omitempty,url"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .autorelease/config.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: ~/.config/autorelease/config.yml)
	UserConfigPath string
	// WarningWriter receives deprecation warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses deprecation warnings
	SkipWarnings bool
	// Getenv replaces os.Getenv for fallback credentials (tests)
	Getenv func(string) string
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	cfg, _, err := LoadWithSources(opts)
	return cfg, err
}

// LoadWithSources loads configuration and reports which layer set each key.
func LoadWithSources(opts LoadOptions) (*Configuration, map[string]ConfigSource, error) {
	l := &loader{
		k:        koanf.New("."),
		sources:  make(map[string]ConfigSource),
		warnings: getWarningWriter(opts.WarningWriter),
		quiet:    opts.SkipWarnings,
	}

	if err := l.loadDefaults(); err != nil {
		return nil, nil, err
	}
	if err := l.loadUserConfig(opts.UserConfigPath); err != nil {
		return nil, nil, err
	}
	if err := l.loadProjectConfig(opts.ProjectConfigPath); err != nil {
		return nil, nil, err
	}
	if err := l.loadEnvironmentConfig(); err != nil {
		return nil, nil, err
	}

	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg, err := l.finalize(getenv)
	if err != nil {
		return nil, nil, err
	}
	return cfg, l.sources, nil
}

type loader struct {
	k        *koanf.Koanf
	sources  map[string]ConfigSource
	warnings io.Writer
	quiet    bool
}

// merge loads one provider into its own layer, records the keys it set, and
// merges it over the accumulated configuration.
func (l *loader) merge(p koanf.Provider, parser koanf.Parser, src ConfigSource) error {
	layer := koanf.New(".")
	if err := layer.Load(p, parser); err != nil {
		return err
	}
	for _, key := range layer.Keys() {
		l.sources[key] = src
	}
	return l.k.Merge(layer)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func (l *loader) loadDefaults() error {
	for key, value := range GetDefaults() {
		if err := l.k.Set(key, value); err != nil {
			return fmt.Errorf("setting default %s: %w", key, err)
		}
	}
	for _, key := range l.k.Keys() {
		l.sources[key] = SourceDefault
	}
	return nil
}

// loadUserConfig loads user-level config (YAML preferred, legacy JSON supported).
// Warns if both exist (YAML used, JSON ignored) or if only legacy JSON exists.
func (l *loader) loadUserConfig(customPath string) error {
	userYAMLPath := customPath
	if userYAMLPath == "" {
		userYAMLPath, _ = UserConfigPath()
	}
	legacyUserPath, _ := LegacyUserConfigPath()
	if customPath != "" {
		legacyUserPath = ""
	}

	if err := l.loadLayer(userYAMLPath, legacyUserPath, SourceUser, "--user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config (YAML preferred, legacy JSON supported).
func (l *loader) loadProjectConfig(customPath string) error {
	projectYAMLPath := ProjectConfigPath("")
	if customPath != "" {
		projectYAMLPath = customPath
	}
	legacyProjectPath := legacyPathFor(projectYAMLPath)

	if err := l.loadLayer(projectYAMLPath, legacyProjectPath, SourceProject, "--project"); err != nil {
		return fmt.Errorf("loading project config: %w", err)
	}
	return nil
}

func (l *loader) loadLayer(yamlPath, legacyPath string, src ConfigSource, migrateFlag string) error {
	yamlExists := fileExists(yamlPath)
	legacyExists := fileExists(legacyPath)

	switch {
	case yamlExists:
		if err := ValidateYAMLSyntax(yamlPath); err != nil {
			return fmt.Errorf("validating YAML syntax for %s config: %w", src, err)
		}
		if err := l.merge(file.Provider(yamlPath), yaml.Parser(), src); err != nil {
			return fmt.Errorf("failed to load %s config %s: %w", src, yamlPath, err)
		}
		if legacyExists && !l.quiet {
			fmt.Fprintf(l.warnings, "Warning: Legacy JSON config found at %s (ignored, using %s)\n", legacyPath, yamlPath)
			fmt.Fprintf(l.warnings, "  Run 'autorelease config migrate %s' to remove the legacy file.\n\n", migrateFlag)
		}
	case legacyExists:
		if err := l.merge(file.Provider(legacyPath), json.Parser(), src); err != nil {
			return fmt.Errorf("failed to load legacy %s config %s: %w", src, legacyPath, err)
		}
		if !l.quiet {
			fmt.Fprintf(l.warnings, "Warning: Using deprecated JSON config at %s\n", legacyPath)
			fmt.Fprintf(l.warnings, "  Run 'autorelease config migrate %s' to migrate to YAML format.\n\n", migrateFlag)
		}
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func (l *loader) loadEnvironmentConfig() error {
	if err := l.merge(env.Provider(EnvPrefix, ".", envTransform), nil, SourceEnv); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalize unmarshals, applies credential fallbacks, and validates.
func (l *loader) finalize(getenv func(string) string) (*Configuration, error) {
	var cfg Configuration
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Summary.APIKey == "" {
		if key := getenv("OPENAI_API_KEY"); key != "" {
			cfg.Summary.APIKey = key
			l.sources["summary.api_key"] = SourceEnv
		}
	}
	if cfg.GitHub.Token == "" {
		if token := getenv("GITHUB_TOKEN"); token != "" {
			cfg.GitHub.Token = token
			l.sources["github.token"] = SourceEnv
		}
	}
	if getenv(EnvPrefix+"YES") != "" {
		cfg.SkipConfirmations = true
		l.sources["skip_confirmations"] = SourceEnv
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.StateDir = expandHomePath(cfg.StateDir)

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envKeys maps flattened env names (summary_api_key) to dotted config keys.
var envKeys = func() map[string]string {
	m := make(map[string]string, len(KnownKeys))
	for path := range KnownKeys {
		m[strings.ReplaceAll(path, ".", "_")] = path
	}
	return m
}()

// envTransform converts environment variable names to config keys
// Example: AUTORELEASE_SUMMARY_API_KEY -> summary.api_key
func envTransform(s string) string {
	name := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	if key, ok := envKeys[name]; ok {
		return key
	}
	return name
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// Redacted returns a copy with secrets masked for display.
func (c Configuration) Redacted() Configuration {
	c.Summary.APIKey = mask(c.Summary.APIKey)
	c.GitHub.Token = mask(c.GitHub.Token)
	c.Tag.LegacyPrefixes = append([]string(nil), c.Tag.LegacyPrefixes...)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "****"
}

// SortedSourceKeys returns the keys of a source map in stable order.
func SortedSourceKeys(sources map[string]ConfigSource) []string {
	keys := make([]string, 0, len(sources))
	for k := range sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
