package git

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/ariel-frischer/autorelease/internal/conventional"
	"github.com/ariel-frischer/autorelease/internal/semver"
)

// HistoryOptions configures a HistorySource.
type HistoryOptions struct {
	// TagPrefixes are stripped before a tag name is parsed as a version
	// (the release prefix and any legacy prefixes). "v" is always accepted.
	TagPrefixes []string
	// IncludePaths keeps only commits touching at least one matching file.
	IncludePaths []string
	// ExcludePaths drops commits whose changed files all match.
	ExcludePaths []string
}

// HistorySource lists release tags and the commits made since them.
type HistorySource struct {
	repo *git.Repository
	opts HistoryOptions
}

// NewHistorySource returns a history source reading from r.
func NewHistorySource(r *Repository, opts HistoryOptions) *HistorySource {
	return &HistorySource{repo: r.repo, opts: opts}
}

// LatestTag returns the release tag nearest to HEAD: the first commit in
// HEAD's history (newest first) carrying a tag that parses as a version.
// When one commit has several such tags the highest version wins.
// ok is false when no release tag is reachable or the repository is empty.
func (h *HistorySource) LatestTag(ctx context.Context) (tag string, ok bool, err error) {
	head, err := h.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		logDebug("[git] LatestTag: repository has no commits")
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting HEAD reference: %w", err)
	}

	tagged, err := h.versionTags()
	if err != nil {
		return "", false, err
	}
	if len(tagged) == 0 {
		logDebug("[git] LatestTag: no version tags")
		return "", false, nil
	}

	iter, err := h.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return "", false, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if names, found := tagged[c.Hash]; found {
			tag, ok = names[0], true
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("walking history: %w", err)
	}

	logDebug("[git] LatestTag: %q (found: %v)", tag, ok)
	return tag, ok, nil
}

// versionTags maps commit hashes to the version tags pointing at them,
// highest version first. Annotated tags are peeled to their commit.
func (h *HistorySource) versionTags() (map[plumbing.Hash][]string, error) {
	iter, err := h.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	tagged := make(map[plumbing.Hash][]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if _, ok := semver.ParseTag(name, h.opts.TagPrefixes); !ok {
			return nil
		}
		hash, err := h.peel(ref)
		if err != nil {
			logDebug("[git] skipping tag %s: %v", name, err)
			return nil
		}
		tagged[hash] = append(tagged[hash], name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	for _, names := range tagged {
		sort.SliceStable(names, func(i, j int) bool {
			vi, _ := semver.ParseTag(names[i], h.opts.TagPrefixes)
			vj, _ := semver.ParseTag(names[j], h.opts.TagPrefixes)
			if c := vi.Compare(vj); c != 0 {
				return c > 0
			}
			return names[i] < names[j]
		})
	}
	return tagged, nil
}

// peel resolves a tag reference to the commit it marks.
func (h *HistorySource) peel(ref *plumbing.Reference) (plumbing.Hash, error) {
	obj, err := h.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := obj.Commit()
		if err != nil {
			return plumbing.ZeroHash, err
		}
		return commit.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash(), nil
	default:
		return plumbing.ZeroHash, err
	}
}

// CommitsSince returns the commits reachable from HEAD but not from tag,
// newest first. An empty tag returns the whole history. Commits are filtered
// by the configured include/exclude path globs.
func (h *HistorySource) CommitsSince(ctx context.Context, tag string) ([]conventional.Commit, error) {
	head, err := h.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	seen, err := h.ancestors(ctx, tag)
	if err != nil {
		return nil, err
	}

	iter, err := h.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	var commits []conventional.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if seen[c.Hash] {
			return nil
		}
		keep, err := h.touchesReleasedPaths(c)
		if err != nil {
			return err
		}
		if keep {
			commits = append(commits, toCommit(c))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading commits since %q: %w", tag, err)
	}

	logDebug("[git] CommitsSince(%q): %d commits", tag, len(commits))
	return commits, nil
}

// ancestors returns the set of commits reachable from tag (inclusive).
func (h *HistorySource) ancestors(ctx context.Context, tag string) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)
	if tag == "" {
		return seen, nil
	}

	ref, err := h.repo.Tag(tag)
	if err != nil {
		return nil, fmt.Errorf("resolving tag %q: %w", tag, err)
	}
	hash, err := h.peel(ref)
	if err != nil {
		return nil, fmt.Errorf("resolving tag %q: %w", tag, err)
	}

	iter, err := h.repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return nil, fmt.Errorf("walking history of %q: %w", tag, err)
	}
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history of %q: %w", tag, err)
	}
	return seen, nil
}

// touchesReleasedPaths applies the include/exclude globs to a commit's
// changed files. Without globs every commit is kept.
func (h *HistorySource) touchesReleasedPaths(c *object.Commit) (bool, error) {
	if len(h.opts.IncludePaths) == 0 && len(h.opts.ExcludePaths) == 0 {
		return true, nil
	}

	stats, err := c.Stats()
	if err != nil {
		return false, fmt.Errorf("reading changes of %s: %w", shortHash(c.Hash), err)
	}

	files := make([]string, 0, len(stats))
	for _, s := range stats {
		if !matchesAny(h.opts.ExcludePaths, s.Name) {
			files = append(files, s.Name)
		}
	}
	if len(stats) > 0 && len(files) == 0 {
		return false, nil
	}
	if len(h.opts.IncludePaths) == 0 {
		return true, nil
	}
	for _, f := range files {
		if matchesAny(h.opts.IncludePaths, f) {
			return true, nil
		}
	}
	return false, nil
}

func matchesAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, path); ok {
			return true
		}
	}
	return false
}

func toCommit(c *object.Commit) conventional.Commit {
	subject, body, _ := strings.Cut(strings.TrimRight(c.Message, "\n"), "\n")
	return conventional.Commit{
		Hash:    shortHash(c.Hash),
		Subject: strings.TrimRight(subject, "\r "),
		Body:    strings.TrimSpace(body),
	}
}
