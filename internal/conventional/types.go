package conventional

import "strings"

// Commit is a single commit read from the history source.
// Subject is the first line of the message; Hash is the optional short hash.
// Body holds the remaining message lines; only the opt-in breaking-footer
// bump policy reads it.
type Commit struct {
	Hash    string `json:"hash,omitempty" yaml:"hash,omitempty"`
	Subject string `json:"subject" yaml:"subject"`
	Body    string `json:"-" yaml:"-"`
}

// Header returns the parsed Conventional Commit header of the subject.
func (c Commit) Header() Header {
	return ParseHeader(c.Subject)
}

// IsBreaking reports whether the subject carries a breaking-change marker:
// "!" immediately before the header colon, or the literal "BREAKING CHANGE"
// anywhere in the subject. The body is not consulted.
func (c Commit) IsBreaking() bool {
	return strings.Contains(c.Subject, BreakingChangeToken) || c.Header().Breaking
}

// HasBreakingFooter reports whether the body carries a "BREAKING CHANGE:"
// (or "BREAKING-CHANGE:") footer.
func (c Commit) HasBreakingFooter() bool {
	return c.Body != "" && hasBreakingFooter(c.Subject, c.Body)
}

// BreakingChangeToken is the literal text that forces a major release.
const BreakingChangeToken = "BREAKING CHANGE"

// Category is one of the fixed changelog categories.
// The numeric order of the constants is the rendering priority.
type Category int

const (
	Features Category = iota
	BugFixes
	Documentation
	Style
	Refactoring
	Performance
	Tests
	Build
	CI
	Chores
	Reverts
	Other
)

var categoryNames = [...]string{
	Features:      "Features",
	BugFixes:      "Bug Fixes",
	Documentation: "Documentation",
	Style:         "Style",
	Refactoring:   "Refactoring",
	Performance:   "Performance",
	Tests:         "Tests",
	Build:         "Build",
	CI:            "CI",
	Chores:        "Chores",
	Reverts:       "Reverts",
	Other:         "Other",
}

var categorySlugs = [...]string{
	Features:      "features",
	BugFixes:      "bug_fixes",
	Documentation: "documentation",
	Style:         "style",
	Refactoring:   "refactoring",
	Performance:   "performance",
	Tests:         "tests",
	Build:         "build",
	CI:            "ci",
	Chores:        "chores",
	Reverts:       "reverts",
	Other:         "other",
}

// String returns the human-readable heading used in the changelog.
func (c Category) String() string {
	if c < Features || c > Other {
		return "Unknown"
	}
	return categoryNames[c]
}

// Slug returns a stable machine-readable key for JSON and YAML output.
func (c Category) Slug() string {
	if c < Features || c > Other {
		return "unknown"
	}
	return categorySlugs[c]
}

// MarshalText encodes the category as its slug.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.Slug()), nil
}

// Categories returns every category in priority order.
func Categories() []Category {
	return []Category{
		Features, BugFixes, Documentation, Style, Refactoring, Performance,
		Tests, Build, CI, Chores, Reverts, Other,
	}
}

// CategoryFromHeading maps a rendered heading ("Bug Fixes") back to its category.
func CategoryFromHeading(heading string) (Category, bool) {
	heading = strings.TrimSpace(heading)
	for _, c := range Categories() {
		if strings.EqualFold(c.String(), heading) {
			return c, true
		}
	}
	return Other, false
}
