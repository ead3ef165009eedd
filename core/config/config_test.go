package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "environments", cfg.Storage.Bucket)
	assert.False(t, cfg.Storage.Enabled)
	assert.Equal(t, "Gamemaster", cfg.World.Actor)
	assert.Equal(t, "snapshots", cfg.World.SnapshotPrefix)
	assert.False(t, cfg.World.AutoMigrate)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("WORLD_ACTOR", "Assistant")
	t.Setenv("WORLD_DIFF_LENGTH", "40")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "Assistant", cfg.World.Actor)
	assert.Equal(t, 40, cfg.World.DiffLength)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WORLD_SNAPSHOT_PREFIX=backups\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("WORLD_SNAPSHOT_PREFIX") })

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "backups", cfg.World.SnapshotPrefix)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "postgres")
	t.Setenv("SERVER_PORT", "http")

	_, err := LoadConfig(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
	assert.Contains(t, err.Error(), "server.port")
}
