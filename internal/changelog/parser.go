package changelog

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/ariel-frischer/autorelease/internal/conventional"
	"github.com/ariel-frischer/autorelease/internal/semver"
)

// ValidationError represents a changelog validation error with context.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

var releaseHeading = regexp.MustCompile(`^## \[?([^\]\s]+)\]?(?:\s+-\s+(\S+))?\s*$`)

const summaryHeading = "Summary"

// Load reads and parses a CHANGELOG.md file from the given path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading changelog file: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse splits a Markdown changelog into its header and release sections.
// Everything before the first "## " heading is the header. Parsing never
// fails; lines it does not understand are kept in Release.Raw only.
func Parse(text string) *Document {
	p := &parser{}
	for _, line := range strings.SplitAfter(text, "\n") {
		p.line(line)
	}
	p.flush()

	return &Document{Header: p.header.String(), Releases: p.releases}
}

type parser struct {
	header    strings.Builder
	raw       strings.Builder
	summary   strings.Builder
	current   *Release
	inSummary bool
	releases  []Release
}

func (p *parser) line(line string) {
	trimmed := strings.TrimRight(line, "\r\n")

	if m := releaseHeading.FindStringSubmatch(trimmed); m != nil {
		p.flush()
		p.current = &Release{Version: m[1], Date: m[2]}
		p.raw.WriteString(line)
		return
	}
	if p.current == nil {
		p.header.WriteString(line)
		return
	}
	p.raw.WriteString(line)

	if heading, ok := strings.CutPrefix(trimmed, "### "); ok {
		heading = strings.TrimSpace(heading)
		p.inSummary = heading == summaryHeading
		if !p.inSummary {
			cat, known := conventional.CategoryFromHeading(heading)
			p.current.Blocks = append(p.current.Blocks, Block{Heading: heading, Category: cat, Known: known})
		}
		return
	}

	if p.inSummary {
		p.summary.WriteString(trimmed + "\n")
		return
	}
	if len(p.current.Blocks) == 0 {
		return
	}

	last := &p.current.Blocks[len(p.current.Blocks)-1]
	switch {
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
		last.Entries = append(last.Entries, strings.TrimSpace(trimmed[2:]))
	case strings.TrimSpace(trimmed) != "" && len(last.Entries) > 0:
		// Wrapped bullet continuation.
		last.Entries[len(last.Entries)-1] += " " + strings.TrimSpace(trimmed)
	}
}

func (p *parser) flush() {
	if p.current == nil {
		return
	}
	p.current.Raw = p.raw.String()
	p.current.Summary = strings.TrimSpace(p.summary.String())
	p.releases = append(p.releases, *p.current)

	p.current = nil
	p.inSummary = false
	p.raw.Reset()
	p.summary.Reset()
}

// Validate checks that release sections are unique and ordered newest first.
// Sections whose heading is not a semantic version (e.g. "Unreleased") are
// skipped by the ordering check.
func Validate(d *Document) error {
	seen := make(map[string]bool)
	var prev *semver.Version

	for i, r := range d.Releases {
		field := fmt.Sprintf("releases[%d]", i)
		normalized := NormalizeVersion(r.Version)
		if seen[normalized] {
			return &ValidationError{Field: field, Message: fmt.Sprintf("duplicate version %q", r.Version)}
		}
		seen[normalized] = true

		v, err := semver.Parse(r.Version)
		if err != nil {
			continue
		}
		if prev != nil && v.Compare(*prev) >= 0 {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("version %s is listed after %s (expected newest first)", v, prev),
			}
		}
		prev = &v
	}
	return nil
}

// NormalizeVersion normalizes a version string by removing the "v" prefix.
// This allows accepting both "v0.6.0" and "0.6.0" as input.
func NormalizeVersion(version string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(version)), "v")
}

// IsValidationError returns true if the error is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
