package changelog

import (
	"time"

	"github.com/ariel-frischer/autorelease/internal/conventional"
	"github.com/ariel-frischer/autorelease/internal/semver"
)

// Section is a new release about to be rendered into the changelog.
// Summary is optional; an empty Summary omits the Summary subsection.
type Section struct {
	Version semver.Version
	Date    time.Time
	Summary string
	Changes conventional.Classification
}

// Document is a parsed CHANGELOG.md: the header region followed by
// release sections, newest first.
type Document struct {
	Header   string    `json:"header" yaml:"header"`
	Releases []Release `json:"releases" yaml:"releases"`
}

// Release is one "## [X.Y.Z] - YYYY-MM-DD" section read back from a document.
// Raw holds the section text exactly as it appears in the document.
type Release struct {
	Version string  `json:"version" yaml:"version"`
	Date    string  `json:"date,omitempty" yaml:"date,omitempty"`
	Summary string  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Blocks  []Block `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	Raw     string  `json:"-" yaml:"-"`
}

// Block is one "### <Category>" subsection and its bullet entries.
// Headings that do not name a known category keep Known=false and map to Other.
type Block struct {
	Heading  string                `json:"heading" yaml:"heading"`
	Category conventional.Category `json:"category" yaml:"category"`
	Known    bool                  `json:"-" yaml:"-"`
	Entries  []string              `json:"entries" yaml:"entries"`
}

// Entry is a flattened view of a single bullet with its release context.
type Entry struct {
	Text     string `json:"text" yaml:"text"`
	Category string `json:"category" yaml:"category"`
	Version  string `json:"version" yaml:"version"`
}

// Count returns the number of bullet entries in the release.
func (r Release) Count() int {
	n := 0
	for _, b := range r.Blocks {
		n += len(b.Entries)
	}
	return n
}

// Entries returns the release bullets in block order.
func (r Release) Entries() []Entry {
	entries := make([]Entry, 0, r.Count())
	for _, b := range r.Blocks {
		for _, text := range b.Entries {
			entries = append(entries, Entry{Text: text, Category: b.Heading, Version: r.Version})
		}
	}
	return entries
}
