package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlasview/codeatlas/internal/guard"
)

// Test Plan for configuration loading:
// - Defaults match the guard limits when no file exists
// - An explicit config file overrides defaults
// - A missing explicit file is fatal; a missing search-path file is not
// - A malformed file is fatal

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)

	limits := guard.DefaultLimits()
	assert.Equal(t, limits.MaxFiles, cfg.Limits.MaxFiles)
	assert.Equal(t, limits.MaxDepth, cfg.Limits.MaxDepth)
	assert.Equal(t, limits.ParseTimeout, cfg.Limits.ParseTimeout)
	assert.Equal(t, "output", cfg.OutputDir)
	assert.Equal(t, "mermaid", cfg.Format)
	assert.False(t, cfg.NoCache)
	assert.NotEmpty(t, cfg.CacheDir)
}

func TestLoad_ExplicitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
output_dir: diagrams
format: both
excludes:
  - "gen/**"
limits:
  max_files: 500
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "diagrams", cfg.OutputDir)
	assert.Equal(t, "both", cfg.Format)
	assert.Equal(t, []string{"gen/**"}, cfg.Excludes)
	assert.Equal(t, 500, cfg.Limits.MaxFiles)

	// Unset keys keep their defaults.
	assert.Equal(t, guard.DefaultLimits().MaxDepth, cfg.Limits.MaxDepth)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}
