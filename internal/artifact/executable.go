package artifact

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/protoc-build/protocgen/internal/digest"
	"github.com/protoc-build/protocgen/internal/fsutil"
	"github.com/protoc-build/protocgen/internal/model"
)

// ResolveExecutable resolves key through the adapter and copies the
// result into destDir as "<artifactId>-<sha1(key.String())>.<ext>",
// marking it executable. Copying rather than referencing the repository
// cache directly keeps callers free to mutate or relocate the file
// (spec.md §4.3, §4.10).
func (a *Adapter) ResolveExecutable(ctx context.Context, key model.ArtifactKey, destDir string, ext string) (string, error) {
	srcPath, err := a.ResolveArtifact(ctx, key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", model.NewIoError(destDir, err)
	}

	name := key.ArtifactID + "-" + digest.SHA1Hex(key.String())
	if ext != "" {
		name += "." + ext
	}
	destPath := filepath.Join(destDir, name)

	if err := copyFile(srcPath, destPath); err != nil {
		return "", model.NewIoError(destPath, err)
	}
	if err := fsutil.MakeExecutable(destPath); err != nil {
		return "", model.NewIoError(destPath, err)
	}
	return destPath, nil
}

func copyFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dest, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		return err
	}
	return dest.Close()
}
