package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "dev", Version)
	assert.True(t, IsDevBuild())
}

func TestShortCommit(t *testing.T) {
	tests := map[string]struct {
		commit string
		want   string
	}{
		"full hash": {commit: "0123456789abcdef", want: "01234567"},
		"short":     {commit: "abc", want: "abc"},
		"unknown":   {commit: "unknown", want: "unknown"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			orig := Commit
			t.Cleanup(func() { Commit = orig })
			Commit = tc.commit
			assert.Equal(t, tc.want, ShortCommit())
		})
	}
}
