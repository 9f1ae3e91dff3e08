package semver

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/autorelease/internal/conventional"
)

// BumpLevel is how far a release advances the version.
type BumpLevel int

const (
	Patch BumpLevel = iota
	Minor
	Major
)

func (l BumpLevel) String() string {
	switch l {
	case Major:
		return "major"
	case Minor:
		return "minor"
	default:
		return "patch"
	}
}

// MarshalText encodes the level as its lowercase name.
func (l BumpLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// ParseBumpLevel accepts "major", "minor" or "patch" in any case.
func ParseBumpLevel(s string) (BumpLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	}
	return Patch, fmt.Errorf("invalid bump level %q: must be major, minor or patch", s)
}

// Policy decides bump levels. The zero value reads subjects only.
type Policy struct {
	// BreakingFooters also treats a BREAKING CHANGE footer in a commit
	// body as a major change.
	BreakingFooters bool
}

// Decide returns the bump level for a classified commit set:
// Major if any commit is breaking, else Minor if any commit is a feature,
// else Patch. The empty set yields Patch.
func (p Policy) Decide(c conventional.Classification) BumpLevel {
	for _, commit := range c.Commits() {
		if commit.IsBreaking() || (p.BreakingFooters && commit.HasBreakingFooter()) {
			return Major
		}
	}
	if c.Has(conventional.Features) {
		return Minor
	}
	return Patch
}

// Next computes the version following current for commits.
func (p Policy) Next(current Version, c conventional.Classification) (Version, BumpLevel) {
	level := p.Decide(c)
	return current.Bump(level), level
}

// DecideBump applies the subject-only policy.
func DecideBump(c conventional.Classification) BumpLevel {
	return Policy{}.Decide(c)
}

// Next computes the next version with the subject-only policy.
func Next(current Version, c conventional.Classification) (Version, BumpLevel) {
	return Policy{}.Next(current, c)
}
