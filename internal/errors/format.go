package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions with auto-detection for terminal support.
	// fatih/color disables them when NO_COLOR is set or output is not a TTY.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
	warnLabel   = color.New(color.FgYellow, color.Bold).SprintFunc()
)

// palette holds the decorators used by formatError.
type palette struct {
	label, msg, fix, usageLabel, usage, bullet, category func(a ...any) string
}

func plain(a ...any) string { return fmt.Sprint(a...) }

var (
	colored = palette{errorLabel, errorMsg, fixLabel, usageLabel, usageText, bullet, categoryFmt}
	noColor = palette{plain, plain, plain, plain, plain, plain, plain}
)

// FormatError formats a CLIError for display in the terminal.
// It uses colors when available and falls back to plain text otherwise.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, noColor)
}

func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.msg(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usageLabel("Usage: "), p.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted error to w. Errors that are not CLIErrors
// are shown as runtime errors.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	cliErr := AsCLIError(err)
	if cliErr == nil {
		cliErr = &CLIError{Category: Runtime, Message: err.Error(), Err: err}
	}
	fmt.Fprint(w, FormatError(cliErr))
}

// FprintWarning prints a one-line warning to w.
func FprintWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", warnLabel("Warning:"), fmt.Sprintf(format, args...))
}
