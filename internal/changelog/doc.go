// Package changelog renders release sections and merges them into a
// Markdown CHANGELOG document.
//
// This package implements:
//   - Section rendering from a commit classification and optional summary
//   - Header-preserving merge of a new section into an existing document
//   - Parsing an existing document back into header and release sections
//   - Version querying and terminal formatting for CLI display
//   - All-or-nothing writes of the merged document
//
// The document header is everything up to the first blank line. Merge never
// rewrites the header or any prior section; new sections always land directly
// under the header so the document reads newest first.
package changelog
