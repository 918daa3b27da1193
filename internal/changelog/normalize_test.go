// Package changelog tests bullet normalization of raw commit subjects.
// Related: internal/changelog/normalize.go
// Tags: changelog, normalize, bullets

package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  string
	}{
		"feat prefix":                {input: "feat: Add login", want: "Add login"},
		"fix prefix with spaces":     {input: "  fix:   broken   thing  ", want: "Broken thing"},
		"uppercase tag":              {input: "FEAT: shiny", want: "Shiny"},
		"mixed case tag":             {input: "Docs: update readme", want: "Update readme"},
		"feature tag":                {input: "feature: dark mode", want: "Dark mode"},
		"chore tag":                  {input: "chore: bump deps", want: "Bump deps"},
		"refactor tag":               {input: "refactor: split parser", want: "Split parser"},
		"test tag":                   {input: "test: cover edge", want: "Cover edge"},
		"perf tag":                   {input: "perf: faster load", want: "Faster load"},
		"tabs become spaces":         {input: "add\tnew\t\tmenu", want: "Add new menu"},
		"no tag":                     {input: "improve save flow", want: "Improve save flow"},
		"already capitalized":        {input: "Improve save flow", want: "Improve save flow"},
		"tag only":                   {input: "fix:", want: ""},
		"tag with blanks only":       {input: "  docs:   ", want: ""},
		"whitespace only":            {input: " \t  ", want: ""},
		"empty":                      {input: "", want: ""},
		"tag not at start":           {input: "add fix: for crash", want: "Add fix: for crash"},
		"scoped tag is not stripped": {input: "feat(ui): button", want: "Feat(ui): button"},
		"stacked tags":               {input: "fix: feat: nested", want: "Nested"},
		"digit first":                {input: "2 new levels", want: "2 new levels"},
		"unicode lowercase":          {input: "élan restored", want: "Élan restored"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Normalize(tc.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"feat: Add login",
		"  fix:   broken   thing  ",
		"fix: feat: nested",
		"FIX:   feature:   deep",
		"feat(ui): button",
		"a\t\t\tb",
		"chore:",
		"   ",
		"Feat: already upper",
		"ß lower sharp s",
		"x",
		"docs: nbsp",
	}

	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestNormalizeAll(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input []string
		want  []string
	}{
		"keeps first occurrence order": {
			input: []string{"feat: b", "a", "fix: b", "c", "a"},
			want:  []string{"B", "A", "C"},
		},
		"drops empties": {
			input: []string{"", "fix:", "  ", "real change"},
			want:  []string{"Real change"},
		},
		"case sensitive after normalize": {
			input: []string{"Add Menu", "add menu", "Add menu"},
			want:  []string{"Add Menu", "Add menu"},
		},
		"nil input": {
			input: nil,
			want:  []string{},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, NormalizeAll(tc.input))
		})
	}
}
