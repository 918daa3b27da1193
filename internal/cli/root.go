package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ariel-frischer/relnotes/internal/config"
	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/ariel-frischer/relnotes/internal/git"
	"github.com/ariel-frischer/relnotes/internal/rewrite"
	"github.com/spf13/cobra"
)

// Command group IDs for help output.
const (
	GroupRelease  = "release"
	GroupInternal = "internal"
)

// NewRootCmd builds the relnotes command tree. Each call returns a fresh tree
// so flag state never leaks between executions.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "relnotes",
		Short: "Release notes from git history",
		Long: `relnotes turns the commit subjects since the last release into a short,
user-facing changelog section.

Subjects are cleaned of conventional-commit prefixes, deduplicated and capped.
When an OpenAI-compatible endpoint is configured the bullets are rewritten into
plainer language; any failure there silently keeps the original bullets.`,
		Example: `  # Print the section for v1.4.0 using commits since the latest tag
  relnotes generate --version v1.4.0

  # Prepend it to CHANGELOG.md
  relnotes generate --version v1.4.0 --changelog CHANGELOG.md

  # Pull that section back out for a release page
  relnotes extract --version v1.4.0

  # Stamp the version into project.godot
  relnotes stamp --version v1.4.0`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				enableDebugLogging(cmd.ErrOrStderr())
			}
		},
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to config file (default: .relnotes.yml)")
	root.PersistentFlags().Bool("debug", false, "Print debug logs to stderr")

	root.AddGroup(
		&cobra.Group{ID: GroupRelease, Title: "Release Commands:"},
		&cobra.Group{ID: GroupInternal, Title: "Other Commands:"},
	)
	root.SetHelpCommandGroupID(GroupInternal)
	root.SetCompletionCommandGroupID(GroupInternal)

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return clierrors.NewArgumentErrorWithUsage(err.Error(), cmd.UseLine())
	})

	root.AddCommand(
		newGenerateCmd(),
		newExtractCmd(),
		newStampCmd(),
		newInitCmd(),
		newVersionCmd(),
	)

	return root
}

// Execute runs relnotes with the process arguments and prints any error.
func Execute() error {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err != nil {
		clierrors.FprintError(stderr, err)
	}
	return err
}

// enableDebugLogging routes config, git and rewrite debug output to w.
func enableDebugLogging(w io.Writer) {
	logger := func(format string, args ...any) {
		fmt.Fprintf(w, "[debug] "+format+"\n", args...)
	}
	config.SetDebugLogger(logger)
	git.SetDebugLogger(logger)
	rewrite.SetDebugLogger(logger)
}

// commandContext returns the command's context, never nil.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
