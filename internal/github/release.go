// Package github publishes release notes as GitHub releases.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/go-github/v58/github"
	"github.com/qiniu/x/log"
	"golang.org/x/oauth2"
)

// ErrMissingToken is returned when no GitHub token is configured.
var ErrMissingToken = errors.New("GitHub token is not configured")

// Options configures a ReleasePublisher.
type Options struct {
	Token   string
	Owner   string
	Repo    string
	BaseURL string // GitHub Enterprise API URL; empty for github.com
}

// Release is a published GitHub release.
type Release struct {
	ID  int64
	URL string
}

// ReleasePublisher creates GitHub releases for pushed tags.
type ReleasePublisher struct {
	client *github.Client
	owner  string
	repo   string
}

// NewReleasePublisher returns a publisher authenticated with a personal
// access token.
func NewReleasePublisher(ctx context.Context, opts Options) (*ReleasePublisher, error) {
	if opts.Token == "" {
		return nil, ErrMissingToken
	}
	if opts.Owner == "" || opts.Repo == "" {
		return nil, fmt.Errorf("GitHub repository owner and name are required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))
	if opts.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("configuring GitHub base URL: %w", err)
		}
	}

	return &ReleasePublisher{client: client, owner: opts.Owner, repo: opts.Repo}, nil
}

// Publish creates a release for tag with the rendered changelog section as body.
func (p *ReleasePublisher) Publish(ctx context.Context, tag, title, body string) (Release, error) {
	rel, _, err := p.client.Repositories.CreateRelease(ctx, p.owner, p.repo, &github.RepositoryRelease{
		TagName: github.String(tag),
		Name:    github.String(title),
		Body:    github.String(body),
	})
	if err != nil {
		return Release{}, fmt.Errorf("creating GitHub release %s for %s/%s: %w", tag, p.owner, p.repo, err)
	}

	log.Debugf("created GitHub release %d for %s", rel.GetID(), tag)
	return Release{ID: rel.GetID(), URL: rel.GetHTMLURL()}, nil
}

// ParseRemote extracts owner and repository name from a remote URL.
// Handles https://host/owner/repo(.git), ssh://git@host/owner/repo.git
// and the scp-like git@host:owner/repo.git form.
func ParseRemote(remote string) (owner, repo string, ok bool) {
	remote = strings.TrimSpace(remote)
	var path string

	switch {
	case strings.Contains(remote, "://"):
		u, err := url.Parse(remote)
		if err != nil {
			return "", "", false
		}
		path = u.Path
	case strings.Contains(remote, ":"):
		_, path, _ = strings.Cut(remote, ":")
	default:
		return "", "", false
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 {
		return "", "", false
	}
	owner = parts[len(parts)-2]
	repo = strings.TrimSuffix(parts[len(parts)-1], ".git")
	if owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}
