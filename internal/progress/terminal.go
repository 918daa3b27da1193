package progress

import (
	"os"

	"golang.org/x/term"
)

// DetectTerminalCapabilities inspects stderr, where progress output goes.
func DetectTerminalCapabilities() TerminalCapabilities {
	return DetectFileCapabilities(os.Stderr)
}

// DetectFileCapabilities detects terminal features of f.
// Checks: isatty, NO_COLOR env, RELNOTES_ASCII env, terminal width.
// Used to select symbols (Unicode vs ASCII) and to enable or disable the spinner.
func DetectFileCapabilities(f *os.File) TerminalCapabilities {
	fd := int(f.Fd())
	isTTY := term.IsTerminal(fd)

	noColor := os.Getenv("NO_COLOR") != ""
	forceASCII := os.Getenv("RELNOTES_ASCII") == "1"

	width := 0
	if isTTY {
		if w, _, err := term.GetSize(fd); err == nil {
			width = w
		}
	}

	return TerminalCapabilities{
		IsTTY:           isTTY,
		SupportsColor:   isTTY && !noColor,
		SupportsUnicode: isTTY && !forceASCII,
		Width:           width,
	}
}

// SelectSymbols returns the symbol set for caps.
// Unicode: ✓ with braille spinner (set 14). ASCII: [OK] with |/-\ spinner (set 9).
func SelectSymbols(caps TerminalCapabilities) ProgressSymbols {
	if caps.SupportsUnicode {
		return ProgressSymbols{
			Checkmark:  "✓",
			SpinnerSet: 14, // ⠋ ⠙ ⠹ ⠸ ⠼ ⠴ ⠦ ⠧ ⠇ ⠏
		}
	}

	return ProgressSymbols{
		Checkmark:  "[OK]",
		SpinnerSet: 9, // | / - \
	}
}
