package uriresolve

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_CopiesLocalFileIntoTempDir(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "protoc-gen-foo")
	require.NoError(t, os.WriteFile(src, []byte("plugin-bytes"), 0o644))

	destDir := t.TempDir()
	f := NewUriResourceFetcher(destDir, false)

	dest, err := f.Fetch(context.Background(), src, "", true)
	require.NoError(t, err)
	assert.FileExists(t, dest)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "plugin-bytes", string(data))

	info, err := os.Stat(dest)
	require.NoError(t, err)
	assert.NotZero(t, info.Mode()&0o100, "destination should be marked executable")
}

func TestFetch_OfflineRefusesNonFileScheme(t *testing.T) {
	destDir := t.TempDir()
	f := NewUriResourceFetcher(destDir, true)

	_, err := f.Fetch(context.Background(), "https://example.com/plugin.zip", "", false)
	assert.Error(t, err)
}

func TestFetch_OfflineAllowsFileScheme(t *testing.T) {
	srcDir := t.TempDir()
	src := filepath.Join(srcDir, "plugin")
	require.NoError(t, os.WriteFile(src, []byte("ok"), 0o644))

	destDir := t.TempDir()
	f := NewUriResourceFetcher(destDir, true)

	dest, err := f.Fetch(context.Background(), "file://"+src, "", false)
	require.NoError(t, err)
	assert.FileExists(t, dest)
}

func TestFetchFileName_UsesLastSegmentAndExtensionHint(t *testing.T) {
	name := fetchFileName("/some/path/protoc.exe", "bin")
	assert.Contains(t, name, "protoc.exe-")
	assert.Contains(t, name, ".bin")
}
