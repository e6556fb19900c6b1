package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiredFieldMissing(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required config")
	assert.Contains(t, err.Error(), "DATABASE_FILE_PATH")
}

func TestNewWithEnvVars(t *testing.T) {
	t.Setenv("DATABASE_FILE_PATH", "/tmp/test.db")
	t.Setenv("DATA_DIRECTORY", "/comics")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/test.db", cfg.DatabaseFilePath)
	assert.Equal(t, "/comics", cfg.DataDirectory)
	assert.Equal(t, 2, cfg.WorkerProcesses)
	assert.Equal(t, 5*time.Second, cfg.DatabaseBusyTimeout)
}

func TestNewWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/longbox.db
data_directory: /data/comics
server_port: 8080
database_debug: true
worker_processes: 8
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/longbox.db", cfg.DatabaseFilePath)
	assert.Equal(t, "/data/comics", cfg.DataDirectory)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 8, cfg.WorkerProcesses)
	assert.True(t, cfg.DatabaseDebug)
}

func TestNewEnvVarOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database_file_path: /data/longbox.db
data_directory: /data/comics
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("DATA_DIRECTORY", "/mnt/library")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "/data/longbox.db", cfg.DatabaseFilePath)
	assert.Equal(t, "/mnt/library", cfg.DataDirectory)
}
