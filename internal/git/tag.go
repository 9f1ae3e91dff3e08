package git

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ariel-frischer/autorelease/internal/semver"
)

// TagMessageLayout formats the timestamp embedded in release tag messages.
const TagMessageLayout = "2006-01-02 15:04:05"

// ErrTagExists is returned when the release tag is already present.
var ErrTagExists = git.ErrTagExists

// TagOptions configures a TagPublisher.
type TagOptions struct {
	Prefix string // tag name prefix, "v" when empty
	Remote string // remote the tag is pushed to
	Token  string // HTTPS push credential
}

// TagOutcome reports what happened to the release tag.
type TagOutcome struct {
	Name    string
	Version semver.Version
	Message string
	Hash    string // short hash of the tagged commit
	Created bool
	Pushed  bool
}

// TagPublisher creates annotated release tags at HEAD and pushes them.
type TagPublisher struct {
	repo *git.Repository
	opts TagOptions
}

// NewTagPublisher returns a publisher writing tags into r.
func NewTagPublisher(r *Repository, opts TagOptions) *TagPublisher {
	if opts.Prefix == "" {
		opts.Prefix = "v"
	}
	return &TagPublisher{repo: r.repo, opts: opts}
}

// TagName returns the tag name used for v.
func (p *TagPublisher) TagName(v semver.Version) string {
	return v.TagName(p.opts.Prefix)
}

// TagMessage is the annotation of the release tag name created at when.
func TagMessage(name string, when time.Time) string {
	return fmt.Sprintf("Release %s - %s", name, when.Format(TagMessageLayout))
}

// CreateTag creates the annotated tag for v on HEAD. It is attempted once;
// an existing tag yields an error wrapping ErrTagExists.
func (p *TagPublisher) CreateTag(v semver.Version, when time.Time) (TagOutcome, error) {
	name := p.TagName(v)
	out := TagOutcome{Name: name, Version: v, Message: TagMessage(name, when)}

	head, err := p.repo.Head()
	if err != nil {
		return out, fmt.Errorf("getting HEAD reference: %w", err)
	}
	out.Hash = shortHash(head.Hash())

	_, err = p.repo.CreateTag(out.Name, head.Hash(), &git.CreateTagOptions{
		Tagger:  p.tagger(when),
		Message: out.Message,
	})
	if err != nil {
		return out, fmt.Errorf("creating tag %s: %w", out.Name, err)
	}

	out.Created = true
	logDebug("[git] CreateTag: %s at %s", out.Name, out.Hash)
	return out, nil
}

// tagger builds the tag signature from the repository's user settings,
// falling back to a fixed identity when none is configured.
func (p *TagPublisher) tagger(when time.Time) *object.Signature {
	sig := &object.Signature{Name: "autorelease", Email: "autorelease@localhost", When: when}
	cfg, err := p.repo.ConfigScoped(config.GlobalScope)
	if err != nil {
		return sig
	}
	if cfg.User.Name != "" {
		sig.Name = cfg.User.Name
	}
	if cfg.User.Email != "" {
		sig.Email = cfg.User.Email
	}
	return sig
}

// PushTag pushes a single tag to the configured remote. Nothing else is pushed.
func (p *TagPublisher) PushTag(ctx context.Context, name string) error {
	remote, err := p.repo.Remote(p.opts.Remote)
	if err != nil {
		return fmt.Errorf("looking up remote %q: %w", p.opts.Remote, err)
	}

	auth := authForURL(firstURL(remote.Config()), p.opts.Token)
	ref := "refs/tags/" + name
	logDebug("[git] pushing %s to %s", ref, p.opts.Remote)

	err = p.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: p.opts.Remote,
		RefSpecs:   []config.RefSpec{config.RefSpec(ref + ":" + ref)},
		Auth:       auth,
	})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pushing tag %s to %s: %w", name, p.opts.Remote, err)
	}
	return nil
}

func firstURL(c *config.RemoteConfig) string {
	if len(c.URLs) == 0 {
		return ""
	}
	return c.URLs[0]
}
