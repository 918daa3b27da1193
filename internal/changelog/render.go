package changelog

import (
	"fmt"
	"io"
	"strings"
)

// RenderMarkdown writes a section as a heading, a blank line, one "- " line
// per bullet and a trailing newline. Bullets are written verbatim.
//
// The function is idempotent - given the same input, it produces identical output.
func RenderMarkdown(s Section, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", formatHeading(s)); err != nil {
		return fmt.Errorf("rendering heading: %w", err)
	}

	for _, b := range s.Bullets {
		if _, err := w.Write([]byte("- " + b + "\n")); err != nil {
			return fmt.Errorf("rendering bullet: %w", err)
		}
	}

	return nil
}

// Render is a convenience function that renders to a string.
func Render(s Section) string {
	var b strings.Builder
	_ = RenderMarkdown(s, &b)
	return b.String()
}

// formatHeading formats the section heading line.
func formatHeading(s Section) string {
	return fmt.Sprintf("## %s - %s", s.Version, s.Date)
}
