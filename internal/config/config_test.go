package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "product_store.json", cfg.DataFile)
	assert.Equal(t, "normal", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.AutosaveInterval)
	assert.True(t, cfg.Seed)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PANTRY_DATA_FILE", "/tmp/pantry.json")
	t.Setenv("PANTRY_AUTOSAVE_INTERVAL", "5s")
	t.Setenv("PANTRY_SEED", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/pantry.json", cfg.DataFile)
	assert.Equal(t, 5*time.Second, cfg.AutosaveInterval)
	assert.False(t, cfg.Seed)
}

func TestLoadDefaultIcon(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PANTRY_DEFAULT_ICON", "leaf")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "leaf", cfg.DefaultIcon)
}

func TestLoadOnlyReadsEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PANTRY_DATA_FILE=from-file.json\nnot a valid line\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "product_store.json", cfg.DataFile)

	t.Setenv("PANTRY_DATA_FILE", "from-env.json")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env.json", cfg.DataFile)
}
