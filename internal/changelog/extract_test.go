// Package changelog tests section extraction and insertion in CHANGELOG.md.
// Related: internal/changelog/extract.go
// Tags: changelog, extract, prepend, release-notes

package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleChangelog = "## v1.2.3 - 2024-01-01\n\n- A\n- B\n\n## v1.2.2 - 2023-12-01\n- C\n"

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		doc     string
		version string
		want    string
	}{
		"first section stops at next heading": {
			doc:     sampleChangelog,
			version: "v1.2.3",
			want:    "## v1.2.3 - 2024-01-01\n\n- A\n- B\n",
		},
		"last section": {
			doc:     sampleChangelog,
			version: "v1.2.2",
			want:    "## v1.2.2 - 2023-12-01\n- C\n",
		},
		"missing version": {
			doc:     sampleChangelog,
			version: "v9.9.9",
			want:    "",
		},
		"prefix of another version does not match": {
			doc:     sampleChangelog,
			version: "v1.2",
			want:    "",
		},
		"title preamble is skipped": {
			doc:     "# Changelog\n\nIntro text.\n\n## v1.0.0 - 2024-02-02\n\n- First\n\n\n",
			version: "v1.0.0",
			want:    "## v1.0.0 - 2024-02-02\n\n- First\n",
		},
		"crlf line endings": {
			doc:     "## v1 - 2024-01-01\r\n\r\n- A\r\n\r\n## v0 - 2023-01-01\r\n",
			version: "v1",
			want:    "## v1 - 2024-01-01\n\n- A\n",
		},
		"heading without date": {
			doc:     "## v2\n\n- Only\n",
			version: "v2",
			want:    "## v2\n\n- Only\n",
		},
		"empty document": {
			doc:     "",
			version: "v1",
			want:    "",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Extract(tc.doc, tc.version))
		})
	}
}

func TestNotFoundNotes(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "## v3.0.0\n\n- No release notes found.\n", NotFoundNotes("v3.0.0"))
}

func TestPrepend(t *testing.T) {
	t.Parallel()

	section := "## v1.3.0 - 2024-03-01\n\n- New\n"

	tests := map[string]struct {
		doc  string
		want string
	}{
		"empty document": {
			doc:  "",
			want: section,
		},
		"above first heading": {
			doc:  sampleChangelog,
			want: section + "\n" + sampleChangelog,
		},
		"after title preamble": {
			doc:  "# Changelog\n\n" + sampleChangelog,
			want: "# Changelog\n\n" + section + "\n" + sampleChangelog,
		},
		"preamble without blank line": {
			doc:  "# Changelog",
			want: "# Changelog\n\n" + section,
		},
		"replaces existing section": {
			doc:  "# Changelog\n\n## v1.3.0 - 2024-02-28\n\n- Old\n\n" + sampleChangelog,
			want: "# Changelog\n\n" + section + "\n" + sampleChangelog,
		},
		"replaces trailing section": {
			doc:  "## v1.3.0 - 2024-02-28\n\n- Old\n",
			want: section,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, Prepend(tc.doc, section, "v1.3.0"))
		})
	}
}

func TestPrepend_Idempotent(t *testing.T) {
	t.Parallel()

	section := "## v1.3.0 - 2024-03-01\n\n- New\n"
	docs := []string{
		"",
		"# Changelog",
		sampleChangelog,
		"# Changelog\n\nIntro\n\n" + sampleChangelog,
	}

	for _, doc := range docs {
		once := Prepend(doc, section, "v1.3.0")
		assert.Equal(t, once, Prepend(once, section, "v1.3.0"), "doc %q", doc)
		assert.Equal(t, section, Extract(once, "v1.3.0"))
	}
}
