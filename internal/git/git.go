// Package git reads release history from, and publishes release tags to, a Git
// repository. It uses the pure-Go go-git library, so no git CLI is required.
package git

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

// ShortHashLen is the number of hex digits shown for abbreviated hashes.
const ShortHashLen = 7

// ErrNotRepository is returned when no repository is found at or above a path.
var ErrNotRepository = errors.New("not a git repository")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging.
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repository is an opened Git repository.
type Repository struct {
	repo *git.Repository
	root string
}

// Open opens the repository containing path, walking up the directory tree
// to find the .git directory. An empty path means the working directory.
func Open(path string) (*Repository, error) {
	repo, err := openRepo(path)
	if err != nil {
		return nil, err
	}
	r := &Repository{repo: repo}
	if wt, err := repo.Worktree(); err == nil {
		r.root = wt.Filesystem.Root()
	}
	return r, nil
}

// openRepo opens a git repository at the specified path or current working directory.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
	}
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return repo, nil
}

// Root returns the worktree root, or "" for a bare repository.
func (r *Repository) Root() string {
	return r.root
}

// HeadInfo describes the commit HEAD points at.
type HeadInfo struct {
	Hash    string
	Branch  string // empty when HEAD is detached
	Subject string
	Date    time.Time
}

// Head returns information about the current HEAD commit.
// ok is false for a repository without commits.
func (r *Repository) Head() (info HeadInfo, ok bool, err error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return HeadInfo{}, false, nil
	}
	if err != nil {
		return HeadInfo{}, false, fmt.Errorf("getting HEAD reference: %w", err)
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return HeadInfo{}, false, fmt.Errorf("reading HEAD commit: %w", err)
	}

	info = HeadInfo{
		Hash:    shortHash(ref.Hash()),
		Subject: firstLine(commit.Message),
		Date:    commit.Committer.When,
	}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, true, nil
}

// RemoteURL returns the first URL configured for the named remote.
func (r *Repository) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", fmt.Errorf("looking up remote %q: %w", name, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}
	return urls[0], nil
}

// authForURL returns the authentication method for a remote URL.
// SSH URLs use SSH agent auth when an agent is available; HTTPS URLs use
// the token as a basic-auth password when one is configured.
func authForURL(url, token string) transport.AuthMethod {
	if isSSHURL(url) {
		if !isSSHAgentAvailable() {
			logDebug("[git] SSH URL without SSH agent, pushing without auth")
			return nil
		}
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			logDebug("[git] SSH agent auth failed: %v", err)
			return nil
		}
		return auth
	}

	if token != "" && strings.HasPrefix(url, "http") {
		return &http.BasicAuth{
			Username: "autorelease",
			Password: token,
		}
	}
	return nil
}

// isSSHURL checks if a URL is an SSH URL.
// Detects git@ (SCP-style), ssh://, and git+ssh:// schemes.
func isSSHURL(url string) bool {
	return strings.HasPrefix(url, "git@") ||
		strings.HasPrefix(url, "ssh://") ||
		strings.HasPrefix(url, "git+ssh://")
}

func isSSHAgentAvailable() bool {
	return strings.TrimSpace(os.Getenv("SSH_AUTH_SOCK")) != ""
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:ShortHashLen]
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimRight(s, "\r ")
}
