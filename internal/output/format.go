// Package output prints release progress lines for the autorelease CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// PrintStep prints a completed release step, e.g. "✓ Created tag v1.3.0".
// Uses a green checkmark and bold verb; the detail is left unstyled.
func PrintStep(out io.Writer, verb, detail string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s %s\n", green(checkmark()), bold(verb), detail)
}

// PrintNotice prints an informational line that needs no action.
func PrintNotice(out io.Writer, message string) {
	dim := color.New(color.Faint).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", dim("→"), message)
}

func checkmark() string {
	if color.NoColor {
		return "[OK]"
	}
	return "✓"
}
