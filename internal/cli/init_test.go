package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/relnotes/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, ".relnotes.yml")

	_, stderr, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Created .relnotes.yml")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "auto", cfg.Base)
}

func TestInit_KeepsExistingFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, ".relnotes.yml")
	require.NoError(t, os.WriteFile(path, []byte("base: v1.0.0\n"), 0o644))

	_, stderr, err := execute(t, "init")
	require.NoError(t, err)
	assert.Contains(t, stderr, "already exists")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "base: v1.0.0\n", string(data))

	_, _, err = execute(t, "init", "--force")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.GetDefaultConfigTemplate(), string(data))
}
