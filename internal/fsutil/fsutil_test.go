package fsutil

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_ReturnsAbsoluteCleanedPath(t *testing.T) {
	got, err := Normalize("./a/../b")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
	assert.Equal(t, "b", filepath.Base(got))
}

func TestStemAndExtension(t *testing.T) {
	assert.Equal(t, "message", Stem("/a/b/message.proto"))
	assert.Equal(t, ".proto", Extension("/a/b/MESSAGE.PROTO"))
}

func TestHasSuffixFold_IsCaseInsensitive(t *testing.T) {
	assert.True(t, HasSuffixFold("path/to/File.PROTO", ".proto"))
	assert.False(t, HasSuffixFold("path/to/file.txt", ".proto"))
	assert.False(t, HasSuffixFold("a", ".proto"))
}

func TestStripLeadingDotSlash(t *testing.T) {
	assert.Equal(t, "bin/tool", StripLeadingDotSlash("./bin/tool"))
	assert.Equal(t, "bin/tool", StripLeadingDotSlash("bin/tool"))
}

func TestTemporarySpace_DirReusesIdenticalTagTuple(t *testing.T) {
	ts, err := NewTemporarySpace(t.TempDir(), "exec-1")
	require.NoError(t, err)

	d1, err := ts.Dir("protoc-bin")
	require.NoError(t, err)
	d2, err := ts.Dir("protoc-bin")
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	d3, err := ts.Dir("plugin-bin")
	require.NoError(t, err)
	assert.NotEqual(t, d1, d3)
}

func TestTemporarySpace_UniqueFileAvoidsCollision(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "tool")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0o644))

	got, err := UniqueFile(dir, "tool")
	require.NoError(t, err)
	assert.NotEqual(t, existing, got)
}

func TestMakeExecutable_SetsOwnerExecBit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	require.NoError(t, MakeExecutable(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100)
}

func TestCopyExecutable_CreatesDestAndMarksExecutable(t *testing.T) {
	src := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(src, []byte("binary"), 0o644))

	dest := filepath.Join(t.TempDir(), "nested", "dir", "tool")
	require.NoError(t, CopyExecutable(src, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "binary", string(data))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100)
}

func TestRemoveTree_DeletesNestedDirectories(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(nested, "f.txt"), []byte("x"), 0o644))

	require.NoError(t, RemoveTree(root))
	_, err := os.Stat(root)
	assert.True(t, os.IsNotExist(err))
}

func TestWalkFiles_VisitsAllRegularFiles(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("x"), 0o644))

	var visited []string
	require.NoError(t, WalkFiles(root, func(path string) error {
		visited = append(visited, path)
		return nil
	}))

	assert.Len(t, visited, 2)
}

func TestOpenZipFSAndRebaseFS_MaterializesEntriesOnDisk(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("nested/file.proto")
	require.NoError(t, err)
	_, err = w.Write([]byte("syntax = \"proto3\";"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	zipPath := filepath.Join(t.TempDir(), "archive.zip")
	require.NoError(t, os.WriteFile(zipPath, buf.Bytes(), 0o644))

	overlay, closer, err := OpenZipFS(zipPath)
	require.NoError(t, err)
	defer closer.Close()

	dstDir := t.TempDir()
	require.NoError(t, RebaseFS(overlay, dstDir))

	data, err := os.ReadFile(filepath.Join(dstDir, "nested", "file.proto"))
	require.NoError(t, err)
	assert.Equal(t, "syntax = \"proto3\";", string(data))
}
