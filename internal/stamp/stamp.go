// Package stamp writes the release version into a Godot project file.
//
// Only the config/version key of the [application] section is touched. An
// existing key is replaced in place; otherwise the key is inserted before
// run/main_scene or at the end of the section. Applying the same version
// twice yields the same file.
package stamp

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	applicationHeader = "[application]"
	versionKey        = "config/version="
	mainSceneKey      = "run/main_scene="
)

// godotQuoter escapes a value for a Godot config string literal.
var godotQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// ErrNoApplicationSection is returned by File when the project has no
// [application] section to stamp.
var ErrNoApplicationSection = errors.New("no [application] section")

// Apply returns content with config/version set to version. Content without
// an [application] section is returned unchanged.
func Apply(content, version string) string {
	out, _ := patch(content, version)
	return out
}

// File stamps version into the project file at path, preserving its mode.
func File(path, version string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading project file: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading project file: %w", err)
	}

	out, ok := patch(string(data), version)
	if !ok {
		return fmt.Errorf("%s: %w", path, ErrNoApplicationSection)
	}
	if out == string(data) {
		return nil
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing project file: %w", err)
	}
	return nil
}

// patch does the work for Apply and reports whether [application] was seen.
func patch(content, version string) (string, bool) {
	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}
	entry := versionKey + `"` + godotQuoter.Replace(version) + `"`

	lines := strings.SplitAfter(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	// An existing key is replaced where it stands, never moved.
	done := hasVersionKey(lines)

	var b strings.Builder
	inApp, seen := false, false

	insert := func() {
		if s := b.String(); s != "" && !strings.HasSuffix(s, "\n") {
			b.WriteString(eol)
		}
		b.WriteString(entry + eol)
		done = true
	}

	for _, line := range lines {
		stripped := strings.TrimSpace(line)

		if isSectionHeader(stripped) {
			if inApp && !done {
				insert()
			}
			inApp = stripped == applicationHeader
			seen = seen || inApp
			b.WriteString(line)
			continue
		}

		if !inApp {
			b.WriteString(line)
			continue
		}

		switch {
		case strings.HasPrefix(stripped, versionKey):
			b.WriteString(entry + lineEnding(line))
		case !done && strings.HasPrefix(stripped, mainSceneKey):
			insert()
			b.WriteString(line)
		default:
			b.WriteString(line)
		}
	}

	if inApp && !done {
		insert()
	}

	return b.String(), seen
}

// hasVersionKey reports whether [application] already carries config/version.
func hasVersionKey(lines []string) bool {
	inApp := false
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if isSectionHeader(stripped) {
			inApp = stripped == applicationHeader
			continue
		}
		if inApp && strings.HasPrefix(stripped, versionKey) {
			return true
		}
	}
	return false
}

func isSectionHeader(s string) bool {
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

// lineEnding keeps a replaced line's own terminator; the final line of a
// file without a trailing newline stays unterminated.
func lineEnding(line string) string {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return "\r\n"
	case strings.HasSuffix(line, "\n"):
		return "\n"
	default:
		return ""
	}
}
