package localrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protoc-build/protocgen/internal/model"
)

func TestResolveArtifactFile_BuildsMavenLayoutPath(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "com", "google", "protobuf", "protoc", "3.25.0")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	file := filepath.Join(dir, "protoc-3.25.0-linux-x86_64.exe")
	require.NoError(t, os.WriteFile(file, []byte("binary"), 0o644))

	repo := New(root)
	path, err := repo.ResolveArtifactFile(context.Background(), model.ArtifactKey{
		GroupID: "com.google.protobuf", ArtifactID: "protoc", Version: "3.25.0",
		Classifier: "linux-x86_64", Type: "exe",
	})
	require.NoError(t, err)
	assert.Equal(t, file, path)
}

func TestResolveArtifactFile_DefaultsTypeToJar(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "io", "grpc", "grpc-protobuf", "1.60.0")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	file := filepath.Join(dir, "grpc-protobuf-1.60.0.jar")
	require.NoError(t, os.WriteFile(file, []byte("jar"), 0o644))

	repo := New(root)
	path, err := repo.ResolveArtifactFile(context.Background(), model.ArtifactKey{
		GroupID: "io.grpc", ArtifactID: "grpc-protobuf", Version: "1.60.0",
	})
	require.NoError(t, err)
	assert.Equal(t, file, path)
}

func TestResolveArtifactFile_MissingVersionIsResolutionError(t *testing.T) {
	repo := New(t.TempDir())
	_, err := repo.ResolveArtifactFile(context.Background(), model.ArtifactKey{
		GroupID: "com.example", ArtifactID: "thing",
	})
	require.Error(t, err)
	var resErr *model.ResolutionError
	assert.ErrorAs(t, err, &resErr)
}

func TestResolveArtifactFile_MissingFileIsResolutionError(t *testing.T) {
	repo := New(t.TempDir())
	_, err := repo.ResolveArtifactFile(context.Background(), model.ArtifactKey{
		GroupID: "com.example", ArtifactID: "thing", Version: "1.0.0",
	})
	require.Error(t, err)
	var resErr *model.ResolutionError
	assert.ErrorAs(t, err, &resErr)
}

func TestDirectDependencies_AlwaysEmpty(t *testing.T) {
	repo := New(t.TempDir())
	deps, err := repo.DirectDependencies(context.Background(), model.ArtifactKey{GroupID: "g", ArtifactID: "a"})
	require.NoError(t, err)
	assert.Nil(t, deps)
}
