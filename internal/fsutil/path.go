// Package fsutil provides normalised-path helpers, executable-bit
// toggling, ZIP-as-filesystem access, and scoped temporary directories.
// Grounded on the teacher's internal/pkg/normalpath and internal/pkg/tmp
// packages, generalised to the operations spec.md §4.2 requires.
package fsutil

import (
	"path/filepath"
	"strings"
)

// Normalize returns the absolute, lexically-cleaned form of path.
func Normalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Stem returns the file name without its final extension.
func Stem(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext)
}

// Extension returns the file name's extension, lowercased, with a
// leading dot, or "" if there is none.
func Extension(path string) string {
	ext := filepath.Ext(path)
	return strings.ToLower(ext)
}

// HasSuffixFold reports whether path ends with suffix, ignoring case —
// used for ".proto"/".protobin"/".desc" matching regardless of how the
// source tree capitalises extensions.
func HasSuffixFold(path, suffix string) bool {
	if len(path) < len(suffix) {
		return false
	}
	return strings.EqualFold(path[len(path)-len(suffix):], suffix)
}

// StripLeadingDotSlash normalises an archive entry name by stripping a
// leading "./", per spec.md §4.5's archive-entry normalisation rule.
func StripLeadingDotSlash(name string) string {
	return strings.TrimPrefix(name, "./")
}
