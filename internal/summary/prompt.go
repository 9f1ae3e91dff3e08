package summary

import (
	"fmt"
	"strings"

	"github.com/ariel-frischer/autorelease/internal/conventional"
)

const systemPrompt = "You are a helpful changelog writer. " +
	"Write clear, concise summaries focused on user impact."

// BuildUserPrompt lists every raw commit subject for the model.
func BuildUserPrompt(version string, commits []conventional.Commit) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Given these git commits for release %s, write a concise, user-friendly summary.\n", version)
	b.WriteString("Focus on the most important changes and their impact on users.\n")
	b.WriteString("Keep technical details minimal unless they're important for users.\n")
	b.WriteString("Reply with one or two short plain-text paragraphs. Do NOT use Markdown headings.\n\n")

	b.WriteString("Commits:\n")
	for _, c := range commits {
		if c.Hash != "" {
			fmt.Fprintf(&b, "- %s (%s)\n", c.Subject, c.Hash)
			continue
		}
		fmt.Fprintf(&b, "- %s\n", c.Subject)
	}
	return b.String()
}

// sanitize trims the reply and demotes heading lines to plain text so the
// summary cannot open new sections in the changelog.
func sanitize(reply string) string {
	lines := strings.Split(strings.TrimSpace(reply), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "#") {
			lines[i] = strings.TrimSpace(strings.TrimLeft(trimmed, "#"))
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
