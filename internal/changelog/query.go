package changelog

import (
	"fmt"
	"strings"
)

// VersionNotFoundError is returned when a requested version doesn't exist.
type VersionNotFoundError struct {
	Version           string
	AvailableVersions []string
}

func (e *VersionNotFoundError) Error() string {
	if len(e.AvailableVersions) == 0 {
		return fmt.Sprintf("version %q not found (changelog has no releases)", e.Version)
	}
	return fmt.Sprintf("version %q not found (available: %s)",
		e.Version, strings.Join(e.AvailableVersions, ", "))
}

// GetVersion retrieves a specific release from the document.
// Accepts both "v0.6.0" and "0.6.0" formats (normalizes the input).
// Returns VersionNotFoundError if the version doesn't exist.
func (d *Document) GetVersion(version string) (*Release, error) {
	normalized := NormalizeVersion(version)

	for i := range d.Releases {
		if NormalizeVersion(d.Releases[i].Version) == normalized {
			return &d.Releases[i], nil
		}
	}

	return nil, &VersionNotFoundError{
		Version:           version,
		AvailableVersions: d.ListVersions(),
	}
}

// ListVersions returns all version identifiers in document order (newest first).
func (d *Document) ListVersions() []string {
	versions := make([]string, len(d.Releases))
	for i, r := range d.Releases {
		versions[i] = r.Version
	}
	return versions
}

// Latest returns the n most recent releases. n <= 0 returns none.
func (d *Document) Latest(n int) []Release {
	if n <= 0 {
		return []Release{}
	}
	if n >= len(d.Releases) {
		return d.Releases
	}
	return d.Releases[:n]
}

// GetLastN retrieves the N most recent entries across all releases.
func (d *Document) GetLastN(n int) []Entry {
	if n <= 0 {
		return []Entry{}
	}

	entries := d.AllEntries()
	if len(entries) <= n {
		return entries
	}
	return entries[:n]
}

// AllEntries returns all entries from all releases, newest first.
func (d *Document) AllEntries() []Entry {
	var entries []Entry
	for _, r := range d.Releases {
		entries = append(entries, r.Entries()...)
	}
	return entries
}

// GetEntryCount returns the total number of entries across all releases.
func (d *Document) GetEntryCount() int {
	count := 0
	for _, r := range d.Releases {
		count += r.Count()
	}
	return count
}
