package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/ariel-frischer/relnotes/internal/build"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for relnotes",
		Example: `  # Show version info
  relnotes version

  # Plain output (for scripts)
  relnotes version --plain`,
		GroupID: GroupInternal,
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			plain, _ := cmd.Flags().GetBool("plain")
			if plain {
				printPlainVersion(cmd.OutOrStdout())
				return
			}
			printPrettyVersion(cmd.OutOrStdout())
		},
	}

	cmd.Flags().Bool("plain", false, "Plain output without formatting")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer) {
	fmt.Fprintf(w, "relnotes %s\n", build.Version)
	fmt.Fprintf(w, "commit: %s\n", build.Commit)
	fmt.Fprintf(w, "built: %s\n", build.BuildDate)
	fmt.Fprintf(w, "go: %s\n", runtime.Version())
	fmt.Fprintf(w, "platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

func printPrettyVersion(w io.Writer) {
	label := color.New(color.FgYellow).SprintFunc()
	value := color.New(color.FgWhite, color.Bold).SprintFunc()

	info := []struct {
		label string
		value string
	}{
		{"Version", build.Version},
		{"Commit", build.ShortCommit()},
		{"Built", build.BuildDate},
		{"Go", runtime.Version()},
		{"Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)},
	}

	fmt.Fprintln(w, color.New(color.FgCyan, color.Bold).Sprint("relnotes"))
	for _, item := range info {
		fmt.Fprintf(w, "  %s  %s\n", label(fmt.Sprintf("%-8s", item.label)), value(item.value))
	}
}
