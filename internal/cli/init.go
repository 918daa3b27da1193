package cli

import (
	"fmt"
	"os"

	"github.com/ariel-frischer/relnotes/internal/config"
	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented .relnotes.yml",
		Long: `Write a commented .relnotes.yml with every key at its default value.

An existing file is left alone unless --force is given.`,
		GroupID: GroupInternal,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			path := config.ProjectConfigPath()

			if _, err := os.Stat(path); err == nil && !force {
				clierrors.FprintWarning(cmd.ErrOrStderr(), "%s already exists (use --force to overwrite)", path)
				return nil
			}

			if err := writeFile(path, config.GetDefaultConfigTemplate()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Created %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing config file")
	return cmd
}
