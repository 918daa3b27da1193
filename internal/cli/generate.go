package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/ariel-frischer/relnotes/internal/changelog"
	"github.com/ariel-frischer/relnotes/internal/config"
	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/ariel-frischer/relnotes/internal/git"
	"github.com/ariel-frischer/relnotes/internal/progress"
	"github.com/ariel-frischer/relnotes/internal/rewrite"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate --version <version>",
		Short: "Build a changelog section from commits since the last release",
		Long: `Build a changelog section from the non-merge commit subjects reachable from
HEAD and not from the base reference.

--base selects the starting point:
  auto    the most recent tag reachable from HEAD (full history when untagged)
  ""      the full history
  <ref>   any tag, branch or commit

The section is printed to stdout unless --out is given. With --changelog it is
also placed at the top of that file, replacing an earlier section for the same
version.`,
		Example: `  relnotes generate --version v1.4.0
  relnotes generate --version v1.4.0 --base v1.2.0
  relnotes generate --version v1.4.0 --base "" --out dist/SECTION.md
  relnotes generate --version v1.4.0 --changelog CHANGELOG.md`,
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		RunE:    runGenerate,
	}

	cmd.Flags().String("version", "", "Release version for the heading, e.g. v1.2.3 (required)")
	cmd.Flags().String("base", git.BaseAuto, `Base reference: "auto", "" for full history, or a git ref`)
	cmd.Flags().StringP("out", "o", "", "Write the section to this file instead of stdout")
	cmd.Flags().String("changelog", "", "Prepend the section to this changelog file")
	cmd.Flags().String("repo", "", "Path inside the git repository (default: current directory)")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	version, err := requireVersion(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	repoPath, _ := cmd.Flags().GetString("repo")
	if !git.IsGitRepository(repoPath) {
		return withExitCode(ExitNotGitRepository, clierrors.NotGitRepository(repoPath))
	}

	ctx := commandContext(cmd)
	reader := git.NewReader(repoPath)

	baseRef, err := reader.ResolveBase(ctx, stringFlagOr(cmd, "base", cfg.Base))
	if err != nil {
		return clierrors.HistoryUnavailable(err)
	}

	builder := changelog.NewBuilder(reader, changelog.WithRewriter(newRewriter(cmd, cfg.OpenAI)))
	section, err := builder.Build(ctx, version, baseRef)
	if err != nil {
		return clierrors.HistoryUnavailable(err)
	}
	rendered := changelog.Render(section)

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		if err := writeFile(out, rendered); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
	} else {
		fmt.Fprint(cmd.OutOrStdout(), rendered)
	}

	if path, _ := cmd.Flags().GetString("changelog"); path != "" {
		if err := prependToChangelog(path, rendered, version); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Updated %s\n", path)
	}

	return nil
}

// newRewriter returns the configured rewriter, wrapped in a spinner when it
// will actually call out.
func newRewriter(cmd *cobra.Command, cfg config.OpenAIConfig) changelog.Rewriter {
	rw := rewrite.New(rewrite.Config{
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		Temperature: cfg.Temperature,
	})
	if _, noop := rw.(rewrite.Noop); noop {
		return rw
	}
	spin := progress.NewSpinner(cmd.ErrOrStderr(), progress.DetectTerminalCapabilities())
	return spinningRewriter{next: rw, spin: spin}
}

// spinningRewriter shows a spinner for the duration of the wrapped rewrite.
type spinningRewriter struct {
	next changelog.Rewriter
	spin *progress.Spinner
}

func (s spinningRewriter) Rewrite(ctx context.Context, bullets []string) []string {
	s.spin.Start("Rewriting release notes")
	out := s.next.Rewrite(ctx, bullets)
	s.spin.Stop()
	return out
}

// prependToChangelog places rendered at the top of the changelog at path.
// A missing file is created.
func prependToChangelog(path, rendered, version string) error {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return clierrors.FileNotReadable(path, err)
	}
	return writeFile(path, changelog.Prepend(string(existing), rendered, version))
}
