package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staticdex/staticdex/internal/config"
)

func TestBackupConfig_NoConfigFile(t *testing.T) {
	dir := t.TempDir()

	path, err := config.BackupConfig(dir)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestBackupConfig_CreatesBackup(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, ".staticdex.yaml")
	require.NoError(t, os.WriteFile(original, []byte("version: 1\n"), 0o644))

	backupPath, err := config.BackupConfig(dir)
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)

	data, err := os.ReadFile(backupPath)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data))
}

func TestBackupConfig_KeepsOnlyMaxBackups(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, ".staticdex.yaml")
	require.NoError(t, os.WriteFile(original, []byte("version: 1\n"), 0o644))

	for i := 0; i < config.MaxBackups+2; i++ {
		_, err := config.BackupConfig(dir)
		require.NoError(t, err)
		time.Sleep(1100 * time.Millisecond)
	}

	backups, err := config.ListConfigBackups(dir)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(backups), config.MaxBackups)
}

func TestRestoreConfig(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, ".staticdex.yaml")
	require.NoError(t, os.WriteFile(original, []byte("default_result_limit: 1\n"), 0o644))

	backupPath, err := config.BackupConfig(dir)
	require.NoError(t, err)
	require.NotEmpty(t, backupPath)

	require.NoError(t, os.WriteFile(original, []byte("default_result_limit: 2\n"), 0o644))

	require.NoError(t, config.RestoreConfig(dir, backupPath))

	data, err := os.ReadFile(original)
	require.NoError(t, err)
	assert.Equal(t, "default_result_limit: 1\n", string(data))
}

func TestRestoreConfig_MissingBackup(t *testing.T) {
	dir := t.TempDir()
	err := config.RestoreConfig(dir, filepath.Join(dir, "nonexistent.bak"))
	assert.Error(t, err)
}

func TestListConfigBackups_EmptyWhenNoBackups(t *testing.T) {
	dir := t.TempDir()
	backups, err := config.ListConfigBackups(dir)
	require.NoError(t, err)
	assert.Empty(t, backups)
}
