package cli

import (
	"bytes"
	"context"
	"os"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// execute runs the relnotes command tree with args and captures both streams.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

// isolate clears relnotes and OpenAI variables and moves into a fresh
// directory so neither the host environment nor a stray config file leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	for _, name := range []string{
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"RELNOTES_BASE", "RELNOTES_CHANGELOG", "RELNOTES_NOTES_OUT", "RELNOTES_PROJECT",
		"RELNOTES_OPENAI_API_KEY", "RELNOTES_OPENAI_MODEL", "RELNOTES_OPENAI_BASE_URL",
		"RELNOTES_OPENAI_TIMEOUT", "RELNOTES_OPENAI_TEMPERATURE",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

// repoBuilder makes commits with increasing timestamps in a temp repository.
type repoBuilder struct {
	t    *testing.T
	repo *git.Repository
	when time.Time
}

func newRepo(t *testing.T, dir string) *repoBuilder {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return &repoBuilder{t: t, repo: repo, when: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
}

func (r *repoBuilder) commit(msg string) plumbing.Hash {
	r.t.Helper()
	wt, err := r.repo.Worktree()
	require.NoError(r.t, err)
	r.when = r.when.Add(time.Minute)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author:            &object.Signature{Name: "Dev", Email: "dev@example.com", When: r.when},
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return hash
}

func (r *repoBuilder) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, nil)
	require.NoError(r.t, err)
}

func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
