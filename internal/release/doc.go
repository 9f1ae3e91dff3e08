// Package release runs the release pipeline: read history, classify commits,
// decide the next version, summarize, merge the changelog and tag.
package release
