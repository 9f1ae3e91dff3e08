package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows an animated indicator while a blocking call is in flight.
// On a non-TTY it draws nothing and only prints the final result line.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	s       *spinner.Spinner
	message string
}

// NewSpinner returns a spinner drawing to out with the given capabilities.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{out: out, caps: caps, symbols: SelectSymbols(caps)}
}

// Start begins animating with message. It is a no-op without a TTY.
func (p *Spinner) Start(message string) {
	p.message = message
	if !p.caps.IsTTY {
		return
	}
	p.s = spinner.New(spinner.CharSets[p.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(p.out))
	p.s.Suffix = " " + message
	p.s.Start()
}

// Stop ends the animation and prints a result line when ok or detail is set.
func (p *Spinner) Stop(ok bool, detail string) {
	if p.s != nil {
		p.s.Stop()
		p.s = nil
	}
	symbol := p.symbols.Checkmark
	if !ok {
		symbol = p.symbols.Failure
	}
	line := fmt.Sprintf("%s %s", symbol, p.message)
	if detail != "" {
		line += " (" + detail + ")"
	}
	if p.caps.IsTTY || !ok {
		fmt.Fprintln(p.out, line)
	}
}
