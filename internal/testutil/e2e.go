// Package testutil provides test utilities and helpers for relnotes tests.
package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	// relnotesBinaryPath caches the built relnotes binary path.
	relnotesBinaryPath string
	relnotesBuildOnce  sync.Once
	relnotesBuildErr   error
)

// E2EEnv provides an isolated environment for E2E testing: a temp working
// directory, the freshly built binary and a sanitized environment that never
// carries real API credentials.
type E2EEnv struct {
	t       *testing.T
	workDir string
	binary  string
	extra   []string
	commits int
}

// CommandResult captures the result of running a relnotes command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates a new E2E test environment.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	relnotesBuildOnce.Do(func() {
		relnotesBinaryPath, relnotesBuildErr = buildRelnotes()
	})
	if relnotesBuildErr != nil {
		t.Fatalf("building relnotes: %v", relnotesBuildErr)
	}

	return &E2EEnv{
		t:       t,
		workDir: t.TempDir(),
		binary:  relnotesBinaryPath,
	}
}

func buildRelnotes() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "relnotes-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}

	binaryPath := filepath.Join(tmpDir, "relnotes")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/relnotes")
	cmd.Dir = repoRoot
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("building relnotes: %w\nOutput: %s", err, output)
	}

	return binaryPath, nil
}

// WorkDir returns the directory commands run in.
func (e *E2EEnv) WorkDir() string {
	return e.workDir
}

// Setenv adds a variable to the environment of subsequent Run calls.
func (e *E2EEnv) Setenv(key, value string) {
	e.extra = append(e.extra, key+"="+value)
}

// Run executes relnotes with args in the isolated environment.
func (e *E2EEnv) Run(args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(e.binary, args...)
	cmd.Dir = e.workDir
	cmd.Env = append(e.isolatedEnv(), e.extra...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}

	return result
}

// isolatedEnv keeps only harmless variables from the host environment.
// OPENAI_* and RELNOTES_* are never copied, so a developer's credentials or
// overrides cannot reach the binary under test.
func (e *E2EEnv) isolatedEnv() []string {
	env := []string{
		"HOME=" + e.workDir,
		"NO_COLOR=1",
	}
	for _, key := range []string{"PATH", "LANG", "LC_ALL", "TMPDIR", "TMP", "TEMP"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	return env
}

// WriteFile writes content to a path relative to the work directory.
func (e *E2EEnv) WriteFile(rel, content string) {
	e.t.Helper()
	path := filepath.Join(e.workDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", rel, err)
	}
}

// ReadFile reads a path relative to the work directory.
func (e *E2EEnv) ReadFile(rel string) string {
	e.t.Helper()
	data, err := os.ReadFile(filepath.Join(e.workDir, rel))
	if err != nil {
		e.t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// InitGitRepo initializes a git repository in the work directory with the
// git binary, so repositories written by real git are covered too.
func (e *E2EEnv) InitGitRepo() {
	e.t.Helper()
	e.git("init", "-q")
	e.git("config", "user.email", "test@test.com")
	e.git("config", "user.name", "Test")
	e.git("config", "commit.gpgsign", "false")
	e.git("config", "tag.gpgsign", "false")
}

// Commit records an empty commit one minute newer than the previous one.
func (e *E2EEnv) Commit(message string) {
	e.t.Helper()
	e.commits++
	date := time.Date(2025, 1, 1, 0, e.commits, 0, 0, time.UTC).Format(time.RFC3339)
	e.gitWithEnv([]string{"GIT_AUTHOR_DATE=" + date, "GIT_COMMITTER_DATE=" + date},
		"commit", "-q", "--allow-empty", "-m", message)
}

// Tag creates a lightweight tag at HEAD.
func (e *E2EEnv) Tag(name string) {
	e.t.Helper()
	e.git("tag", name)
}

// AnnotatedTag creates an annotated tag at HEAD.
func (e *E2EEnv) AnnotatedTag(name string) {
	e.t.Helper()
	e.git("tag", "-a", name, "-m", "release "+name)
}

// ShallowClone clones the work directory with --depth and returns an
// environment rooted in the clone, the checkout a CI release job starts from.
func (e *E2EEnv) ShallowClone(depth int) *E2EEnv {
	e.t.Helper()
	dst := filepath.Join(e.t.TempDir(), "clone")
	e.git("clone", "-q", "--depth", fmt.Sprint(depth), "file://"+e.workDir, dst)
	return &E2EEnv{
		t:       e.t,
		workDir: dst,
		binary:  e.binary,
		extra:   append([]string(nil), e.extra...),
	}
}

func (e *E2EEnv) git(args ...string) {
	e.t.Helper()
	e.gitWithEnv(nil, args...)
}

func (e *E2EEnv) gitWithEnv(extra []string, args ...string) {
	e.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = e.workDir
	cmd.Env = append(append(e.isolatedEnv(), extra...), "GIT_CONFIG_NOSYSTEM=1")
	if output, err := cmd.CombinedOutput(); err != nil {
		e.t.Fatalf("git %v failed: %v\nOutput: %s", args, err, output)
	}
}
