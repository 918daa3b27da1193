package changelog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// commitTags are stripped from the start of a subject, first match wins.
var commitTags = []string{
	"feat:",
	"feature:",
	"fix:",
	"chore:",
	"docs:",
	"refactor:",
	"test:",
	"perf:",
}

// Normalize maps a raw commit subject to a bullet. An empty result means the
// subject carries nothing worth listing and must be discarded.
//
// Normalize(Normalize(s)) == Normalize(s) for every s: tag stripping repeats
// until no tag is left, so "fix: feat: x" and "feat: x" both end up as "X".
func Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "\t", " ")
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}

	for {
		tag := matchTag(s)
		if tag == "" {
			break
		}
		s = strings.TrimSpace(s[len(tag):])
	}

	return capitalizeFirst(s)
}

// matchTag returns the first commit tag that prefixes s, ignoring case.
// The returned tag has the byte length of the prefix to remove.
func matchTag(s string) string {
	for _, tag := range commitTags {
		if len(s) >= len(tag) && strings.EqualFold(s[:len(tag)], tag) {
			return tag
		}
	}
	return ""
}

// capitalizeFirst uppercases the first rune of s if it is a lowercase letter.
func capitalizeFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsLower(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// NormalizeAll normalizes each subject, drops empties and duplicates, and
// keeps the first occurrence of every bullet in its original position.
func NormalizeAll(subjects []string) []string {
	seen := make(map[string]bool, len(subjects))
	bullets := make([]string, 0, len(subjects))

	for _, subject := range subjects {
		b := Normalize(subject)
		if b == "" || seen[b] {
			continue
		}
		seen[b] = true
		bullets = append(bullets, b)
	}

	return bullets
}
