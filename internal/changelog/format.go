package changelog

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ariel-frischer/autorelease/internal/conventional"
	"github.com/ariel-frischer/autorelease/internal/semver"
	"github.com/fatih/color"
	"golang.org/x/term"
)

// FormatOptions controls terminal rendering of changelog sections.
type FormatOptions struct {
	Plain    bool // markdown headings, no color or icons
	MaxWidth int  // wrap width; 0 uses the terminal width
}

type marker struct {
	icon string
	c    *color.Color
}

var (
	markers = map[conventional.Category]marker{
		conventional.Features:      {"✓", color.New(color.FgGreen)},
		conventional.BugFixes:      {"⚡", color.New(color.FgYellow)},
		conventional.Documentation: {"📖", color.New(color.FgCyan)},
		conventional.Refactoring:   {"~", color.New(color.FgBlue)},
		conventional.Performance:   {"»", color.New(color.FgMagenta)},
		conventional.Reverts:       {"↺", color.New(color.FgRed)},
	}
	dimMarker     = marker{"·", color.New(color.FgHiBlack)}
	summaryMarker = marker{"✎", color.New(color.FgCyan)}
)

func markerFor(c conventional.Category) marker {
	if m, ok := markers[c]; ok {
		return m
	}
	return dimMarker
}

// printer writes releases to a terminal, collecting the first write error.
type printer struct {
	w     io.Writer
	plain bool
	width int
	err   error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) heading(text string, m marker) {
	if p.plain {
		p.printf("\n### %s\n", text)
		return
	}
	paint := m.c.SprintFunc()
	p.printf("\n%s %s\n", paint(m.icon), paint(text))
}

func (p *printer) release(r *Release) {
	title := r.Version
	if v, err := semver.Parse(r.Version); err == nil {
		title = v.TagName("v")
	}
	if r.Date != "" {
		title += " (" + r.Date + ")"
	}
	if !p.plain {
		title = color.New(color.Bold).Sprint(title)
	}
	p.printf("## %s\n", title)

	if r.Summary != "" {
		p.heading(summaryHeading, summaryMarker)
		p.printf("  %s\n", wrapText(r.Summary, p.width-2, "  "))
	}
	for _, b := range r.Blocks {
		m := markerFor(b.Category)
		p.heading(b.Heading, m)
		for _, e := range b.Entries {
			if p.plain {
				p.printf("  - %s\n", e)
				continue
			}
			p.printf("  - %s\n", m.c.Sprint(wrapText(e, p.width-4, "    ")))
		}
	}
}

// FormatRelease writes one release for the terminal.
func FormatRelease(r *Release, w io.Writer, opts FormatOptions) error {
	return FormatReleases([]Release{*r}, w, opts)
}

// FormatReleases writes releases separated by blank lines.
func FormatReleases(releases []Release, w io.Writer, opts FormatOptions) error {
	p := &printer{w: w, plain: opts.Plain, width: opts.MaxWidth}
	if p.width <= 0 {
		p.width = terminalWidth()
	}
	for i := range releases {
		if i > 0 {
			p.printf("\n")
		}
		p.release(&releases[i])
		if p.err != nil {
			return fmt.Errorf("formatting version %s: %w", releases[i].Version, p.err)
		}
	}
	return nil
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText breaks text at spaces so no line exceeds width, prefixing
// continuation lines with indent.
func wrapText(text string, width int, indent string) string {
	if width <= 0 || len(text) <= width {
		return text
	}
	var lines []string
	for len(text) > width {
		cut := strings.LastIndexByte(text[:width], ' ')
		if cut <= 0 {
			cut = width
		}
		lines = append(lines, text[:cut])
		text = strings.TrimLeft(text[cut:], " ")
	}
	if text != "" {
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n"+indent)
}
