// Package digest computes SHA-1/-256/-512 digests of strings and file
// contents, hex-encoded. Deliberately built on the standard library:
// no example in the corpus reaches for a third-party hashing library for
// plain content digests, and crypto/sha1, crypto/sha256, and
// crypto/sha512 are exactly the right tool (see DESIGN.md).
package digest

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"io"
	"os"
)

// Algorithm selects which hash function to use.
type Algorithm int

const (
	SHA1 Algorithm = iota
	SHA256
	SHA512
)

func (a Algorithm) new() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case SHA512:
		return sha512.New()
	default:
		return sha1.New()
	}
}

// String returns the hex-encoded digest of s.
func String(alg Algorithm, s string) string {
	h := alg.new()
	_, _ = io.WriteString(h, s)
	return hex.EncodeToString(h.Sum(nil))
}

// File returns the hex-encoded digest of the contents of path.
func File(alg Algorithm, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	h := alg.new()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SHA1Hex is a convenience helper for the common "sha1 of a string" case
// used throughout plugin/path identity (spec.md §3's ResolvedPlugin.ID,
// §4.5's downloaded-file naming).
func SHA1Hex(s string) string {
	return String(SHA1, s)
}

// FileOrDirSHA256 digests a regular file's content, or — for a
// directory — the canonical path string, acting as a cheap identity
// stand-in per spec.md §4.8.
func FileOrDirSHA256(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		abs, err := canonicalPath(path)
		if err != nil {
			return "", err
		}
		return String(SHA256, abs), nil
	}
	return File(SHA256, path)
}
