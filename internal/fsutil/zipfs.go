package fsutil

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// OpenZipFS opens path as a ZIP file and returns an overlay file system
// over its entries, implementing fs.FS. The returned closer must be
// invoked once the caller is done reading from the file system.
func OpenZipFS(path string) (fs.FS, io.Closer, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, err
	}
	return r, r, nil
}

// RebaseFS materialises every regular file in src under dstDir,
// preserving relative paths, creating directories as needed. This is the
// "rebasing between file systems" operation spec.md §4.2 requires for
// moving a ZIP-as-filesystem overlay onto real disk so protoc (which
// only understands real paths) can read it.
func RebaseFS(src fs.FS, dstDir string) error {
	return fs.WalkDir(src, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		dstPath := filepath.Join(dstDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
			return err
		}
		srcFile, err := src.Open(name)
		if err != nil {
			return err
		}
		defer srcFile.Close()
		dstFile, err := os.Create(dstPath)
		if err != nil {
			return err
		}
		defer dstFile.Close()
		_, err = io.Copy(dstFile, srcFile)
		return err
	})
}
