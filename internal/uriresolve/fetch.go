package uriresolve

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/protoc-build/protocgen/internal/digest"
	"github.com/protoc-build/protocgen/internal/fsutil"
	"github.com/protoc-build/protocgen/internal/model"
)

// UriResourceFetcher downloads the byte stream a composite URI resolves
// to into a uniquely-named temporary file (spec.md §4.5).
type UriResourceFetcher struct {
	resolver *Resolver
	tempDir  string
	offline  bool
}

// NewUriResourceFetcher returns a fetcher that materialises files under
// tempDir. When offline is true, Fetch refuses any URI whose innermost
// scheme is neither "file:" nor absent (a bare local path).
func NewUriResourceFetcher(tempDir string, offline bool) *UriResourceFetcher {
	return &UriResourceFetcher{resolver: NewResolver(), tempDir: tempDir, offline: offline}
}

// Fetch downloads uri into a temp file named
// "<lastPathSegment>-<sha1(uri)>.<extensionHint>" (or
// "<sha1(uri)>.<extensionHint>" if the URI has no path segment to borrow
// a name from). When setExecutable is true, the file's executable bit is
// set (best effort) after the transfer completes.
func (f *UriResourceFetcher) Fetch(ctx context.Context, uri string, extensionHint string, setExecutable bool) (string, error) {
	if f.offline {
		parsed, err := Parse(uri)
		if err != nil {
			return "", err
		}
		if parsed.InnermostScheme() != "file" && parsed.InnermostScheme() != "" {
			return "", model.NewOfflineRefusedError(uri)
		}
	}
	stream, err := f.resolver.Open(ctx, uri)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	fileName := fetchFileName(uri, extensionHint)
	destPath := filepath.Join(f.tempDir, fileName)
	if err := os.MkdirAll(f.tempDir, 0o755); err != nil {
		return "", err
	}
	dest, err := os.Create(destPath)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dest, stream); err != nil {
		dest.Close()
		return "", err
	}
	if err := dest.Close(); err != nil {
		return "", err
	}
	if setExecutable {
		if err := fsutil.MakeExecutable(destPath); err != nil {
			return "", err
		}
	}
	return destPath, nil
}

func fetchFileName(uri, extensionHint string) string {
	lastSegment := lastPathSegment(uri)
	hash := digest.SHA1Hex(uri)
	ext := ""
	if extensionHint != "" {
		ext = "." + extensionHint
	}
	if lastSegment == "" {
		return hash + ext
	}
	return lastSegment + "-" + hash + ext
}

func lastPathSegment(uri string) string {
	parsed, err := Parse(uri)
	if err != nil {
		return ""
	}
	base := parsed.Underlying
	if len(parsed.EntryPaths) > 0 {
		base = parsed.EntryPaths[len(parsed.EntryPaths)-1]
	}
	return filepath.Base(filepath.FromSlash(trimQuery(base)))
}

func trimQuery(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '?' || s[i] == '#' {
			return s[:i]
		}
	}
	return s
}
