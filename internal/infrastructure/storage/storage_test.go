package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmicodes/catalog/internal/infrastructure/config"
)

func TestNew_CreatesDirectoryNotFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "error_codes.csv")

	dataFile, err := New(config.StoreConfig{Path: path, Delimiter: ";"})
	require.NoError(t, err)
	assert.Equal(t, path, dataFile.Path())

	info, err := os.Stat(filepath.Dir(path))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestHealthCheck(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "error_codes.csv")
	dataFile, err := New(config.StoreConfig{Path: path, Delimiter: ";"})
	require.NoError(t, err)

	require.NoError(t, dataFile.Ping())
	require.NoError(t, dataFile.HealthCheck())
	assert.Equal(t, false, dataFile.GetFileInfo()["exists"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "health check must not leave temp files behind")

	require.NoError(t, os.WriteFile(path, []byte("Code;HMI Message;Cause;Action;Platforms\n"), 0o644))
	require.NoError(t, dataFile.HealthCheck())

	info := dataFile.GetFileInfo()
	assert.Equal(t, true, info["exists"])
	assert.Equal(t, int64(40), info["size_bytes"])
	assert.Equal(t, ";", info["delimiter"])
}

func TestPing_DirectoryRemoved(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	dataFile, err := New(config.StoreConfig{Path: filepath.Join(dir, "error_codes.csv"), Delimiter: ";"})
	require.NoError(t, err)

	require.NoError(t, os.RemoveAll(dir))

	assert.Error(t, dataFile.Ping())
	assert.Error(t, dataFile.HealthCheck())
}

func TestHealthCheck_ReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	dataFile, err := New(config.StoreConfig{Path: filepath.Join(dir, "error_codes.csv"), Delimiter: ";"})
	require.NoError(t, err)

	require.NoError(t, os.Chmod(dir, 0o500))
	t.Cleanup(func() { os.Chmod(dir, 0o755) })

	assert.Error(t, dataFile.HealthCheck())
	require.NoError(t, dataFile.Ping())
}
