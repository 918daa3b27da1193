package changelog

import (
	"strings"
)

const headingPrefix = "## "

// Extract returns the section of a CHANGELOG.md document whose heading names
// version, e.g. "## v1.2.3 - 2024-01-01". The result runs up to (excluding)
// the next "## " heading, has trailing blank lines removed and ends with a
// single newline. An empty string means no such section exists.
func Extract(doc, version string) string {
	lines := splitLines(doc)
	start, end := findSection(lines, version)
	if start < 0 {
		return ""
	}

	out := lines[start:end]
	for len(out) > 0 && strings.TrimSpace(out[len(out)-1]) == "" {
		out = out[:len(out)-1]
	}

	return strings.TrimSpace(strings.Join(out, "\n")) + "\n"
}

// NotFoundNotes is the placeholder written when a version has no section.
func NotFoundNotes(version string) string {
	return headingPrefix + version + "\n\n- No release notes found.\n"
}

// Prepend inserts a rendered section into a CHANGELOG.md document for version.
// An existing section for the same version is replaced in place; otherwise the
// section goes above the first "## " heading, after any title preamble.
// Applying Prepend twice with the same section yields the same document.
func Prepend(doc, section, version string) string {
	block := strings.TrimRight(section, "\n") + "\n"
	if strings.TrimSpace(doc) == "" {
		return block
	}

	lines := splitLines(doc)
	start, end := findSection(lines, version)
	if start < 0 {
		start = firstHeading(lines)
		end = start
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(strings.Join(lines[:start], "\n"))
		b.WriteString("\n")
		if strings.TrimSpace(lines[start-1]) != "" {
			b.WriteString("\n")
		}
	}
	b.WriteString(block)

	if tail := strings.Join(lines[end:], "\n"); tail != "" {
		b.WriteString("\n")
		b.WriteString(tail)
	}

	return b.String()
}

// findSection locates the heading line for version and the index of the next
// heading (or len(lines)). start is -1 when the version is absent.
func findSection(lines []string, version string) (start, end int) {
	start = -1
	for i, line := range lines {
		if isHeadingFor(line, version) {
			start = i
			break
		}
	}
	if start < 0 {
		return -1, -1
	}

	end = len(lines)
	for j := start + 1; j < len(lines); j++ {
		if strings.HasPrefix(lines[j], headingPrefix) {
			end = j
			break
		}
	}
	return start, end
}

// isHeadingFor reports whether line is a "## " heading whose first token is version.
func isHeadingFor(line, version string) bool {
	if !strings.HasPrefix(line, headingPrefix) {
		return false
	}
	parts := strings.SplitN(line, " ", 3)
	return len(parts) >= 2 && parts[1] == version
}

// firstHeading returns the index of the first "## " line, or len(lines).
func firstHeading(lines []string) int {
	for i, line := range lines {
		if strings.HasPrefix(line, headingPrefix) {
			return i
		}
	}
	return len(lines)
}

// splitLines splits on LF after folding CRLF.
func splitLines(doc string) []string {
	return strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")
}
