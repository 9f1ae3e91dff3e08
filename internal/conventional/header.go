package conventional

import (
	"regexp"
	"strings"

	cc "github.com/leodido/go-conventionalcommits"
	"github.com/leodido/go-conventionalcommits/parser"
)

// Header is the parsed first line of a Conventional Commit.
// Type is empty when the subject does not follow the convention.
type Header struct {
	Type        string
	Scope       string
	Breaking    bool
	Description string
}

// IsConventional reports whether a type token was found.
func (h Header) IsConventional() bool {
	return h.Type != ""
}

// headerPattern matches "type(scope)!: description" at the start of a subject.
// The type token is case-sensitive; scope and "!" are optional and the space
// after the colon is not required.
var headerPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_-]*)(?:\(([^()]*)\))?(!)?:\s*(.*)$`)

// ParseHeader splits a subject line into its Conventional Commit parts.
// Subjects that do not match keep their full text as Description.
func ParseHeader(subject string) Header {
	subject = firstLine(subject)
	m := headerPattern.FindStringSubmatch(subject)
	if m == nil {
		return Header{Description: strings.TrimSpace(subject)}
	}
	return Header{
		Type:        m[1],
		Scope:       m[2],
		Breaking:    m[3] == "!",
		Description: strings.TrimSpace(m[4]),
	}
}

// hasBreakingFooter checks the full message for a BREAKING CHANGE footer.
// The strict grammar parser is tried first; messages it rejects (for example
// a non-conventional subject) fall back to a line scan of the body.
func hasBreakingFooter(subject, body string) bool {
	msg, err := parser.NewMachine(parser.WithTypes(cc.TypesFreeForm)).Parse([]byte(subject + "\n\n" + body))
	if err == nil {
		if commit, ok := msg.(*cc.ConventionalCommit); ok {
			return commit.IsBreakingChange()
		}
	}
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "BREAKING CHANGE:") || strings.HasPrefix(line, "BREAKING-CHANGE:") {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimRight(s, "\r")
}
