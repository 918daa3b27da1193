package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/relnotes/internal/config"
	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/spf13/cobra"
)

// loadConfig loads configuration honoring the global --config flag.
func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		name := path
		if name == "" {
			name = "project config"
		}
		return nil, clierrors.ConfigParseError(name, err)
	}
	return cfg, nil
}

// requireVersion returns the --version value as given, or an argument error
// when it is blank.
func requireVersion(cmd *cobra.Command) (string, error) {
	v, _ := cmd.Flags().GetString("version")
	if strings.TrimSpace(v) == "" {
		return "", clierrors.MissingVersion(cmd.UseLine())
	}
	return v, nil
}

// stringFlagOr returns the flag value when it was set on the command line,
// otherwise fallback from config.
func stringFlagOr(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

// writeFile writes content to path, creating parent directories.
func writeFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return clierrors.FileNotWritable(path, fmt.Errorf("creating directory: %w", err))
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return clierrors.FileNotWritable(path, err)
	}
	return nil
}
