package fsutil

import (
	"os"
	"path/filepath"
)

// RemoveTree recursively deletes root. Unlike os.RemoveAll, it walks the
// tree itself so that it never follows symbolic links into directories
// outside root — a symlink entry is removed as a link, its target is
// left untouched.
func RemoveTree(root string) error {
	info, err := os.Lstat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return os.Remove(root)
	}
	if !info.IsDir() {
		return os.Remove(root)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := RemoveTree(filepath.Join(root, entry.Name())); err != nil {
			return err
		}
	}
	return os.Remove(root)
}

// WalkFiles walks root depth-first, invoking fn with the path (root
// joined with the entry's relative path) of every regular file found. Symbolic links are reported but not
// followed (their target is never descended into).
func WalkFiles(root string, fn func(path string) error) error {
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		path := filepath.Join(root, entry.Name())
		if entry.Type()&os.ModeSymlink != 0 {
			if err := fn(path); err != nil {
				return err
			}
			continue
		}
		if entry.IsDir() {
			if err := WalkFiles(path, fn); err != nil {
				return err
			}
			continue
		}
		if err := fn(path); err != nil {
			return err
		}
	}
	return nil
}
