package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette styles the parts of a rendered error. The zero value renders plain text.
type palette struct {
	label, message, category, usage, usageText, fix, bullet func(a ...interface{}) string
}

func plain(a ...interface{}) string { return fmt.Sprint(a...) }

var plainPalette = palette{
	label: plain, message: plain, category: plain,
	usage: plain, usageText: plain, fix: plain, bullet: plain,
}

var colorPalette = palette{
	label:     color.New(color.FgRed, color.Bold).SprintFunc(),
	message:   color.New(color.FgRed).SprintFunc(),
	category:  color.New(color.FgYellow).SprintFunc(),
	usage:     color.New(color.FgCyan, color.Bold).SprintFunc(),
	usageText: color.New(color.FgCyan).SprintFunc(),
	fix:       color.New(color.FgGreen, color.Bold).SprintFunc(),
	bullet:    color.New(color.FgGreen).SprintFunc(),
}

// FormatError renders err for the terminal, in color unless color output
// is disabled (--plain, NO_COLOR or a non-terminal stdout).
func FormatError(err *CLIError) string {
	if color.NoColor {
		return FormatErrorPlain(err)
	}
	return render(err, colorPalette)
}

// FormatErrorPlain renders err without escape sequences.
func FormatErrorPlain(err *CLIError) string {
	return render(err, plainPalette)
}

func render(err *CLIError, p palette) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usage("Usage: "), p.usageText(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}
	return sb.String()
}

// FprintError writes the rendered error to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
