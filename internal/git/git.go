// Package git reads commit history for release notes. It uses the go-git
// library for all repository access, so no git binary is needed at runtime.
// Only two questions are ever asked of a repository: which tag is the most
// recent one reachable from HEAD, and which non-merge commit subjects are new
// since a base reference.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// BaseAuto selects the latest reachable tag as the base reference.
const BaseAuto = "auto"

// ErrNoHistory is returned when the repository has no commits yet.
var ErrNoHistory = errors.New("repository has no commits")

// debugLogger is a function that logs debug messages when debug mode is enabled.
// By default, it's a no-op. Set it via SetDebugLogger to enable debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// openRepo opens a git repository at the specified path or current working directory.
// It uses go-git's PlainOpenWithOptions with DetectDotGit enabled to traverse
// up the directory tree to find the repository root.
// If path is empty, the current working directory is used.
func openRepo(path string) (*git.Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return repo, nil
}

// IsGitRepository checks if path (or the current directory when empty) is
// within a git repository.
func IsGitRepository(path string) bool {
	_, err := openRepo(path)
	result := err == nil
	logDebug("[git] IsGitRepository: %v", result)
	return result
}

// Reader reads commit subjects from the repository at Path.
// An empty Path means the current working directory.
type Reader struct {
	Path string
}

// NewReader creates a Reader for the repository containing path.
func NewReader(path string) *Reader {
	return &Reader{Path: path}
}

// Subjects returns the non-merge commit subjects reachable from HEAD and not
// from baseRef, newest first. An empty baseRef means the full history.
func (r *Reader) Subjects(ctx context.Context, baseRef string) ([]string, error) {
	repo, err := openRepo(r.Path)
	if err != nil {
		return nil, err
	}
	return subjectsSince(ctx, repo, baseRef)
}

// LatestTag returns the most recent tag reachable from HEAD, or "" when
// there is none.
func (r *Reader) LatestTag(ctx context.Context) (string, error) {
	repo, err := openRepo(r.Path)
	if err != nil {
		return "", err
	}
	return latestTag(ctx, repo)
}

// ResolveBase turns a base selection into a concrete reference:
// "auto" picks the latest reachable tag (empty when untagged), a blank value
// means the full history, anything else is used as given.
func (r *Reader) ResolveBase(ctx context.Context, mode string) (string, error) {
	switch {
	case mode == BaseAuto:
		tag, err := r.LatestTag(ctx)
		if err != nil {
			return "", err
		}
		logDebug("[git] ResolveBase: auto -> %q", tag)
		return tag, nil
	case strings.TrimSpace(mode) == "":
		return "", nil
	default:
		return mode, nil
	}
}

// headCommit returns the hash HEAD points at.
func headCommit(repo *git.Repository) (plumbing.Hash, error) {
	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, ErrNoHistory
		}
		return plumbing.ZeroHash, fmt.Errorf("getting HEAD reference: %w", err)
	}
	return head.Hash(), nil
}

// subjectsSince walks history from HEAD in committer-time order.
func subjectsSince(ctx context.Context, repo *git.Repository, baseRef string) ([]string, error) {
	from, err := headCommit(repo)
	if err != nil {
		return nil, err
	}

	var exclude map[plumbing.Hash]bool
	if baseRef != "" {
		base, err := resolveCommit(repo, baseRef)
		if err != nil {
			return nil, err
		}
		exclude, err = ancestors(ctx, repo, base)
		if err != nil {
			return nil, err
		}
	}

	iter, err := walk(repo, from, exclude)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var subjects []string
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.NumParents() > 1 {
			return nil
		}
		if s := subject(c.Message); s != "" {
			subjects = append(subjects, s)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking log: %w", err)
	}

	logDebug("[git] subjectsSince(%q): %d subjects", baseRef, len(subjects))
	return subjects, nil
}

// walk iterates the commits reachable from from in committer-time order,
// skipping skip and everything only reachable through it. Parents cut off
// by a shallow clone are skipped too, so the walk ends at the clone boundary
// the way git log does.
func walk(repo *git.Repository, from plumbing.Hash, skip map[plumbing.Hash]bool) (object.CommitIter, error) {
	start, err := repo.CommitObject(from)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", from, err)
	}

	stop, err := shallowBoundary(repo)
	if err != nil {
		return nil, err
	}
	for h := range skip {
		stop[h] = true
	}

	return object.NewCommitIterCTime(start, stop, nil), nil
}

// shallowBoundary returns the parents of shallow commits that are missing
// from the object store.
func shallowBoundary(repo *git.Repository) (map[plumbing.Hash]bool, error) {
	shallow, err := repo.Storer.Shallow()
	if err != nil {
		return nil, fmt.Errorf("reading shallow commits: %w", err)
	}

	boundary := make(map[plumbing.Hash]bool)
	for _, h := range shallow {
		c, err := repo.CommitObject(h)
		if err != nil {
			continue
		}
		for _, p := range c.ParentHashes {
			if repo.Storer.HasEncodedObject(p) != nil {
				boundary[p] = true
			}
		}
	}
	if len(boundary) > 0 {
		logDebug("[git] shallow clone: history ends at %d commit(s)", len(shallow))
	}
	return boundary, nil
}

// resolveCommit resolves a revision to a commit hash, peeling annotated tags.
func resolveCommit(repo *git.Repository, rev string) (plumbing.Hash, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("resolving base reference %q: %w", rev, err)
	}
	return peel(repo, *hash)
}

// peel follows an annotated tag object to its commit; other hashes pass through.
func peel(repo *git.Repository, hash plumbing.Hash) (plumbing.Hash, error) {
	tag, err := repo.TagObject(hash)
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return hash, nil
	}
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("reading tag object %s: %w", hash, err)
	}
	commit, err := tag.Commit()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("peeling tag %s: %w", tag.Name, err)
	}
	return commit.Hash, nil
}

// ancestors returns every commit reachable from base, base included.
func ancestors(ctx context.Context, repo *git.Repository, base plumbing.Hash) (map[plumbing.Hash]bool, error) {
	iter, err := walk(repo, base, nil)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]bool)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking log from %s: %w", base, err)
	}
	return seen, nil
}

// latestTag finds the first tagged commit walking back from HEAD.
// When one commit carries several tags, the greatest name wins so the
// result does not depend on ref iteration order.
func latestTag(ctx context.Context, repo *git.Repository) (string, error) {
	from, err := headCommit(repo)
	if err != nil {
		if errors.Is(err, ErrNoHistory) {
			return "", nil
		}
		return "", err
	}

	tagged, err := tagsByCommit(repo)
	if err != nil {
		return "", err
	}
	if len(tagged) == 0 {
		return "", nil
	}

	iter, err := walk(repo, from, nil)
	if err != nil {
		return "", err
	}
	defer iter.Close()

	var found string
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		names, ok := tagged[c.Hash]
		if !ok {
			return nil
		}
		sort.Strings(names)
		found = names[len(names)-1]
		return storer.ErrStop
	})
	if err != nil {
		return "", fmt.Errorf("walking log: %w", err)
	}

	logDebug("[git] latestTag: %q", found)
	return found, nil
}

// tagsByCommit maps each tagged commit to its tag names.
func tagsByCommit(repo *git.Repository) (map[plumbing.Hash][]string, error) {
	refs, err := repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer refs.Close()

	tagged := make(map[plumbing.Hash][]string)
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		hash, err := peel(repo, ref.Hash())
		if err != nil {
			logDebug("[git] skipping tag %s: %v", ref.Name().Short(), err)
			return nil
		}
		tagged[hash] = append(tagged[hash], ref.Name().Short())
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}
	return tagged, nil
}

// subject returns the trimmed first line of a commit message.
func subject(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return strings.TrimSpace(line)
}
