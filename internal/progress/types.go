package progress

// TerminalCapabilities describes what the attached terminal can display.
type TerminalCapabilities struct {
	IsTTY           bool
	SupportsColor   bool
	SupportsUnicode bool
	Width           int
}

// ProgressSymbols holds the glyphs used for status output.
type ProgressSymbols struct {
	Checkmark  string
	SpinnerSet int // index into spinner.CharSets
}
