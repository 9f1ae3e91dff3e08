package changelog

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/autorelease/internal/conventional"
)

// DateLayout is the date format used in section headings.
const DateLayout = "2006-01-02"

// DefaultIntro is the description line placed under "# Changelog" when a
// document is created from scratch.
const DefaultIntro = "All notable changes to this project will be documented in this file."

const title = "# Changelog"

// RenderSection renders a release section. The result always ends with a
// blank line so consecutive sections stay separated after a merge.
//
// The function is idempotent - given the same input, it produces identical output.
func RenderSection(s Section) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## [%s] - %s\n", s.Version, s.Date.Format(DateLayout))

	if summary := strings.TrimSpace(s.Summary); summary != "" {
		b.WriteString("\n### Summary\n")
		b.WriteString(summary)
		b.WriteString("\n")
	}

	for _, g := range s.Changes.Groups {
		renderGroup(&b, g)
	}

	b.WriteString("\n")
	return b.String()
}

// renderGroup writes one category subsection with its commit bullets.
func renderGroup(b *strings.Builder, g conventional.Group) {
	b.WriteString("\n### " + g.Category.String() + "\n")
	for _, c := range g.Commits {
		b.WriteString("- " + formatBullet(c) + "\n")
	}
}

func formatBullet(c conventional.Commit) string {
	subject := strings.TrimSpace(c.Subject)
	if c.Hash == "" {
		return subject
	}
	return fmt.Sprintf("%s (%s)", subject, c.Hash)
}

// NewHeader builds the header region for a new document. An empty intro
// uses DefaultIntro. The intro sits directly under the title so the first
// blank line of the document marks the end of the whole header.
func NewHeader(intro string) string {
	intro = strings.TrimSpace(intro)
	if intro == "" {
		intro = DefaultIntro
	}
	return title + "\n" + intro + "\n\n"
}
