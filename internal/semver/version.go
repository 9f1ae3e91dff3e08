// Package semver holds release version arithmetic and the bump policy
// that decides how far a version advances for a set of commits.
package semver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Version is a MAJOR.MINOR.PATCH triple. All components are non-negative.
type Version struct {
	Major int `json:"major" yaml:"major"`
	Minor int `json:"minor" yaml:"minor"`
	Patch int `json:"patch" yaml:"patch"`
}

// String renders the version without a prefix, e.g. "1.3.0".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// TagName renders the version with a tag prefix, e.g. "v1.3.0".
func (v Version) TagName(prefix string) string {
	return prefix + v.String()
}

// IsZero reports whether v is 0.0.0.
func (v Version) IsZero() bool {
	return v == Version{}
}

// Bump returns the version advanced by exactly one step of level.
func (v Version) Bump(level BumpLevel) Version {
	switch level {
	case Major:
		return Version{Major: v.Major + 1}
	case Minor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to,
// or after other.
func (v Version) Compare(other Version) int {
	switch {
	case v.Major != other.Major:
		return sign(v.Major - other.Major)
	case v.Minor != other.Minor:
		return sign(v.Minor - other.Minor)
	default:
		return sign(v.Patch - other.Patch)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

var versionPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)(?:[-+].*)?$`)

// ErrInvalidVersion is returned by Parse for strings that are not MAJOR.MINOR.PATCH.
type ErrInvalidVersion struct {
	Input string
}

func (e *ErrInvalidVersion) Error() string {
	return fmt.Sprintf("invalid version %q: expected MAJOR.MINOR.PATCH", e.Input)
}

// Parse parses "1.2.3" or "v1.2.3". Pre-release and build metadata are ignored.
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, &ErrInvalidVersion{Input: s}
	}
	parts := [3]int{}
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, &ErrInvalidVersion{Input: s}
		}
		parts[i] = n
	}
	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// ParseTag derives the current version from a release tag name.
// One of legacyPrefixes (e.g. "release-") is stripped first, then an optional "v".
// An empty or unparsable tag yields 0.0.0 with ok=false.
func ParseTag(tag string, legacyPrefixes []string) (v Version, ok bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return Version{}, false
	}
	for _, p := range legacyPrefixes {
		if p != "" && strings.HasPrefix(tag, p) {
			tag = strings.TrimPrefix(tag, p)
			break
		}
	}
	v, err := Parse(tag)
	if err != nil {
		return Version{}, false
	}
	return v, true
}
