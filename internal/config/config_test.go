package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Thrift Corner")
	cfg.Import.MaxInputBytes = 4096
	cfg.Git.AutoCommit = false
	cfg.Log.Level = "debug"

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Shop")

	assert.Equal(t, "My Shop", cfg.Shop.Name)
	assert.Equal(t, int64(1<<20), cfg.Import.MaxInputBytes)
	assert.Equal(t, "inbox", cfg.Import.InboxDir)
	assert.True(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Resale", cfg.Git.AuthorName)
	assert.Equal(t, "resale@localhost", cfg.Git.AuthorEmail)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("shop:\n  name: Attic Finds\ngit:\n  auto_commit: false\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Attic Finds", cfg.Shop.Name)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Equal(t, "Resale", cfg.Git.AuthorName)
	assert.Equal(t, int64(DefaultMaxInputBytes), cfg.Import.MaxInputBytes)
	assert.Equal(t, "inbox", cfg.Import.InboxDir)
}

func TestLoadNegativeLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("import:\n  max_input_bytes: -1\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "max_input_bytes")
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("shop: [unclosed\n"), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Thrift Corner")
	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Thrift Corner")
	assert.Contains(t, contents, "max_input_bytes: 1048576")
	assert.Contains(t, contents, "inbox_dir: inbox")
	assert.Contains(t, contents, "auto_commit: true")
	assert.Contains(t, contents, "level: info")
}
