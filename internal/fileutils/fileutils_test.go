package fileutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPDFFiles_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "2025")
	require.NoError(t, os.MkdirAll(sub, 0750))

	for _, name := range []string{
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "a.PDF"),
		filepath.Join(sub, "c.pdf"),
		filepath.Join(dir, "notes.txt"),
	} {
		require.NoError(t, os.WriteFile(name, []byte("%PDF-1.4"), 0644))
	}

	pdfs, err := ListPDFFiles(dir)
	require.NoError(t, err)
	require.Len(t, pdfs, 3)
	assert.Equal(t, filepath.Join(dir, "2025", "c.pdf"), pdfs[0])
	assert.Equal(t, filepath.Join(dir, "a.PDF"), pdfs[1])
	assert.Equal(t, filepath.Join(dir, "b.pdf"), pdfs[2])
}

func TestListPDFFiles_MissingDir(t *testing.T) {
	_, err := ListPDFFiles(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestFileAndDirectoryExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "x.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.False(t, FileExists(dir))
	assert.True(t, DirectoryExists(dir))
	assert.False(t, DirectoryExists(file))
}

func TestStem(t *testing.T) {
	assert.Equal(t, "factura_001", Stem("/tmp/in/factura_001.pdf"))
	assert.Equal(t, "archive.tar", Stem("archive.tar.gz"))
}
