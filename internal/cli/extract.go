package cli

import (
	"fmt"
	"os"

	"github.com/ariel-frischer/relnotes/internal/changelog"
	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract --version <version>",
		Short: "Extract one version's section from the changelog",
		Long: `Extract the section for one version from a markdown changelog.

The section starts at the "## <version>" heading and ends before the next
"## " heading. Trailing blank lines are dropped. When the version has no
section a placeholder is written instead, so release jobs never fail on a
missing entry.

Use --out - to print to stdout.`,
		Example: `  relnotes extract --version v1.4.0
  relnotes extract --version v1.4.0 --changelog docs/CHANGELOG.md --out -`,
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		RunE:    runExtract,
	}

	cmd.Flags().String("version", "", "Version whose section to extract (required)")
	cmd.Flags().String("changelog", "CHANGELOG.md", "Changelog file to read")
	cmd.Flags().StringP("out", "o", "dist/RELEASE_NOTES.md", `Output file, or "-" for stdout`)

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	version, err := requireVersion(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := stringFlagOr(cmd, "changelog", cfg.Changelog)
	out := stringFlagOr(cmd, "out", cfg.NotesOut)

	data, err := os.ReadFile(path)
	if err != nil {
		return clierrors.FileNotReadable(path, err)
	}

	notes := changelog.Extract(string(data), version)
	if notes == "" {
		clierrors.FprintWarning(cmd.ErrOrStderr(), "no section for %s in %s", version, path)
		notes = changelog.NotFoundNotes(version)
	}

	if out == "-" {
		fmt.Fprint(cmd.OutOrStdout(), notes)
		return nil
	}
	if err := writeFile(out, notes); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", out)
	return nil
}
