package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

const spinnerDelay = 100 * time.Millisecond

// Spinner shows activity while a slow call runs. On anything that is not a
// terminal it stays silent, so piped and redirected output is never polluted.
type Spinner struct {
	out     io.Writer
	enabled bool
	symbols ProgressSymbols
	s       *spinner.Spinner
	msg     string
}

// NewSpinner returns a spinner writing to out. It animates only when caps
// reports a TTY.
func NewSpinner(out io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{
		out:     out,
		enabled: caps.IsTTY,
		symbols: SelectSymbols(caps),
	}
}

// Enabled reports whether Start will draw anything.
func (p *Spinner) Enabled() bool {
	return p.enabled
}

// Start begins animating with msg as the suffix.
func (p *Spinner) Start(msg string) {
	p.msg = msg
	if !p.enabled || p.s != nil {
		return
	}
	p.s = spinner.New(spinner.CharSets[p.symbols.SpinnerSet], spinnerDelay, spinner.WithWriter(p.out))
	p.s.Suffix = " " + msg
	p.s.Start()
}

// Stop clears the spinner and prints a completion line. The line is the
// same whatever the wrapped call did, since its failures stay silent.
func (p *Spinner) Stop() {
	if p.s == nil {
		return
	}
	p.s.Stop()
	p.s = nil
	fmt.Fprintf(p.out, "%s %s\n", p.symbols.Checkmark, p.msg)
}
