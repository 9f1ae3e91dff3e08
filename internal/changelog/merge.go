package changelog

import (
	"regexp"
	"strings"
)

// headerBoundary matches the first blank line, tolerating CRLF documents.
var headerBoundary = regexp.MustCompile(`\r?\n\r?\n`)

// Merge inserts section into an existing document directly after its header
// and returns the new document text. A nil or blank document is replaced by
// a synthesized header followed by section.
//
// The header ends at the first blank line after its first non-blank line.
// Text before and after that boundary is preserved byte for byte. A
// document with no such blank line is treated as header-only and gets a
// boundary appended.
func Merge(existing *string, section string) string {
	return MergeWithIntro(existing, section, "")
}

// MergeWithIntro is Merge with a custom intro line for synthesized headers.
func MergeWithIntro(existing *string, section, intro string) string {
	if existing == nil || strings.TrimSpace(*existing) == "" {
		return NewHeader(intro) + section
	}

	doc := *existing
	end := HeaderEnd(doc)
	if end < 0 {
		return doc + missingBoundary(doc) + section
	}
	return doc[:end] + section + doc[end:]
}

// HeaderEnd returns the offset just past the header boundary, or -1 when
// the document has no blank line after its header. Blank lines before the
// header belong to it and are not a boundary.
func HeaderEnd(doc string) int {
	lead := leadingBlankLines(doc)
	loc := headerBoundary.FindStringIndex(doc[lead:])
	if loc == nil {
		return -1
	}
	return lead + loc[1]
}

// leadingBlankLines returns the length of the whitespace-only lines that
// open doc.
func leadingBlankLines(doc string) int {
	content := len(doc) - len(strings.TrimLeft(doc, " \t\r\n"))
	return strings.LastIndexByte(doc[:content], '\n') + 1
}

func missingBoundary(doc string) string {
	if strings.HasSuffix(doc, "\n") {
		return "\n"
	}
	return "\n\n"
}
