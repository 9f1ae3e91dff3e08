// Package cli implements the autorelease command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/qiniu/x/log"
	"github.com/spf13/cobra"

	"github.com/ariel-frischer/autorelease/internal/config"
	clierrors "github.com/ariel-frischer/autorelease/internal/errors"
	"github.com/ariel-frischer/autorelease/internal/git"
	"github.com/ariel-frischer/autorelease/internal/history"
)

// Command groups shown in help output.
const (
	GroupRelease = "release"
	GroupInspect = "inspect"
	GroupConfig  = "config"
)

// app holds the state shared by one command execution.
type app struct {
	configPath string
	repoPath   string
	debug      bool
	verbose    bool
	plain      bool

	now func() time.Time

	// overridable in tests
	userConfigPath string
	getenv         func(string) string

	cfg     *config.Configuration
	sources map[string]config.ConfigSource
	repo    *git.Repository
}

// NewRootCmd builds the autorelease command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "autorelease",
		Short: "Changelog and semantic version automation from Conventional Commits",
		Long: `autorelease reads the commits made since the last release tag, groups them
by Conventional Commit type, decides the next semantic version, and merges a
new section into CHANGELOG.md. It can optionally ask an OpenAI-compatible
service for a short summary and create (and, after confirmation, push) the
release tag.`,
		Example: `  # Update CHANGELOG.md and tag the next version
  autorelease generate

  # Preview without writing anything
  autorelease generate --dry-run

  # Show what the next release would be
  autorelease plan`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setupOutput(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Project config file (default: .autorelease/config.yml)")
	root.PersistentFlags().StringVarP(&a.repoPath, "repo", "C", "", "Repository path (default: current directory)")
	root.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Enable debug logging")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable informational logging")
	root.PersistentFlags().BoolVar(&a.plain, "plain", false, "Plain output without colors")

	root.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupInspect, Title: "Inspection Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	root.AddCommand(
		newGenerateCmd(a),
		newTagCmd(a),
		newPlanCmd(a),
		newVersionCmd(a),
		newInfoCmd(a),
		newChangelogCmd(a),
		newHistoryCmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stderr)
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	if err == nil {
		return ExitSuccess
	}
	return reportError(stderr, err)
}

// reportError prints err and maps it to an exit code.
func reportError(w io.Writer, err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return exitErr.Code
	}

	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		clierrors.FprintError(w, cliErr)
	} else {
		fmt.Fprintf(w, "Error: %v\n", err)
	}
	return exitCodeOf(err)
}

// exitCodeOf maps err to a process exit code. An explicit ExitError wins
// over the category of a wrapped CLIError.
func exitCodeOf(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil {
		return codeForCategory(cliErr.Category)
	}
	return ExitFailure
}

func codeForCategory(c clierrors.ErrorCategory) int {
	switch c {
	case clierrors.Argument:
		return ExitInvalidArguments
	case clierrors.Configuration:
		return ExitConfigInvalid
	case clierrors.History:
		return ExitHistoryFailed
	case clierrors.Write:
		return ExitWriteFailed
	case clierrors.Publish:
		return ExitTagFailed
	default:
		return ExitFailure
	}
}

// setupOutput configures logging and colors from the global flags.
func (a *app) setupOutput(stderr io.Writer) {
	log.SetOutput(stderr)
	switch {
	case a.debug:
		log.SetOutputLevel(log.Ldebug)
		git.SetDebugLogger(log.Debugf)
	case a.verbose:
		log.SetOutputLevel(log.Linfo)
	default:
		log.SetOutputLevel(log.Lwarn)
	}
	if a.plain || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}
}

// openRepo opens the repository selected by --repo once per execution.
func (a *app) openRepo() (*git.Repository, error) {
	if a.repo != nil {
		return a.repo, nil
	}
	repo, err := git.Open(a.repoPath)
	if err != nil {
		path := a.repoPath
		if path == "" {
			path = "."
		}
		if errors.Is(err, git.ErrNotRepository) {
			return nil, clierrors.NotARepository(path, err)
		}
		return nil, clierrors.HistoryReadFailed(err)
	}
	a.repo = repo
	return repo, nil
}

// projectDir is the repository root when one is found, else --repo or ".".
func (a *app) projectDir() string {
	if repo, err := git.Open(a.repoPath); err == nil && repo.Root() != "" {
		return repo.Root()
	}
	if a.repoPath != "" {
		return a.repoPath
	}
	return "."
}

// projectConfigPath resolves --config or the default project config file.
func (a *app) projectConfigPath() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.ProjectConfigPath(a.projectDir())
}

// config loads the configuration once per execution.
func (a *app) config() (*config.Configuration, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, sources, err := config.LoadWithSources(config.LoadOptions{
		ProjectConfigPath: a.projectConfigPath(),
		UserConfigPath:    a.userConfigPath,
		Getenv:            a.getenv,
	})
	if err != nil {
		return nil, clierrors.ConfigParseError(a.projectConfigPath(), err)
	}
	a.cfg, a.sources = cfg, sources
	return cfg, nil
}

// changelogPath resolves changelog.path against the project directory.
func (a *app) changelogPath(cfg *config.Configuration) string {
	if filepath.IsAbs(cfg.Changelog.Path) {
		return cfg.Changelog.Path
	}
	return filepath.Join(a.projectDir(), cfg.Changelog.Path)
}

func (a *app) historyWriter(cfg *config.Configuration) *history.Writer {
	return history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries)
}
