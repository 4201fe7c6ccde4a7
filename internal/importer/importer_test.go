package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_FindsTextFiles(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, DefaultInbox)
	require.NoError(t, os.MkdirAll(inbox, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(inbox, "b.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "a.TXT"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "photo.jpg"), []byte("data"), 0o644))

	files, err := Scan(dir, DefaultInbox)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.TXT", files[0].Name)
	assert.Equal(t, "b.txt", files[1].Name)
	assert.Equal(t, int64(4), files[1].Size)
}

func TestScan_IgnoresProcessedDir(t *testing.T) {
	dir := t.TempDir()
	processed := filepath.Join(dir, DefaultInbox, processedDir)
	require.NoError(t, os.MkdirAll(processed, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultInbox, "new.txt"), []byte("data"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(processed, "old.txt"), []byte("data"), 0o644))

	files, err := Scan(dir, DefaultInbox)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "new.txt", files[0].Name)
}

func TestScan_MissingInbox(t *testing.T) {
	files, err := Scan(t.TempDir(), DefaultInbox)
	require.NoError(t, err)
	assert.Nil(t, files)
}

func TestRead_Limit(t *testing.T) {
	text, err := Read(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", text)

	_, err = Read(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrTooLarge)

	text, err = Read(strings.NewReader("123456"), 0)
	require.NoError(t, err)
	assert.Equal(t, "123456", text)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Total: $5.00"), 0o644))

	text, err := ReadFile(path, 1024)
	require.NoError(t, err)
	assert.Equal(t, "Total: $5.00", text)

	_, err = ReadFile(path, 4)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.Contains(t, err.Error(), "inv.txt")

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.txt"), 0)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarkProcessed(t *testing.T) {
	dir := t.TempDir()
	inbox := filepath.Join(dir, DefaultInbox)
	require.NoError(t, os.MkdirAll(inbox, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(inbox, "inv.txt"), []byte("data"), 0o644))

	require.NoError(t, MarkProcessed(dir, DefaultInbox, "inv.txt"))

	_, err := os.Stat(filepath.Join(inbox, "inv.txt"))
	assert.True(t, os.IsNotExist(err))

	_, err = os.Stat(filepath.Join(inbox, processedDir, "inv.txt"))
	assert.NoError(t, err)
}
