package cli

import (
	"errors"
	"fmt"
	"io/fs"

	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/ariel-frischer/relnotes/internal/stamp"
	"github.com/spf13/cobra"
)

func newStampCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stamp --version <version>",
		Short: "Write the version into project.godot",
		Long: `Set config/version in the [application] section of a Godot project file.

An existing value is replaced in place. Otherwise the key is added before
run/main_scene, or at the end of the section. Running it twice with the same
version leaves the file unchanged.`,
		Example: `  relnotes stamp --version v1.4.0
  relnotes stamp --version 1.4.0 --project game/project.godot`,
		GroupID: GroupRelease,
		Args:    cobra.NoArgs,
		RunE:    runStamp,
	}

	cmd.Flags().String("version", "", "Version to write (required)")
	cmd.Flags().String("project", "project.godot", "Godot project file")

	return cmd
}

func runStamp(cmd *cobra.Command, args []string) error {
	version, err := requireVersion(cmd)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := stringFlagOr(cmd, "project", cfg.Project)

	if err := stamp.File(path, version); err != nil {
		switch {
		case errors.Is(err, stamp.ErrNoApplicationSection):
			return clierrors.MissingApplicationSection(path)
		case errors.Is(err, fs.ErrNotExist):
			return clierrors.FileNotReadable(path, err)
		default:
			return clierrors.FileNotWritable(path, err)
		}
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Stamped %s into %s\n", version, path)
	return nil
}
