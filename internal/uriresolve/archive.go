package uriresolve

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"io"

	"github.com/protoc-build/protocgen/internal/model"
)

// selectArchiveEntry fully buffers src, parses it as the given archive
// type, and returns the bytes of the requested entry. src is always
// closed before this returns — successfully or not — so the inner
// resource (network socket, file handle) is released before the caller
// reads the (buffered, in-memory) result, per spec.md §4.5.
func selectArchiveEntry(kind ArchiveType, src io.ReadCloser, entryName string) (io.ReadCloser, error) {
	defer src.Close()
	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	switch kind {
	case ArchiveZip:
		return selectZipEntry(raw, entryName)
	case ArchiveTar:
		return selectTarEntry(raw, entryName)
	default:
		return nil, newUnsupportedSchemeError("archive")
	}
}

func selectZipEntry(raw []byte, entryName string) (io.ReadCloser, error) {
	r, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, err
	}
	for _, f := range r.File {
		if normalizeEntryName(f.Name) != entryName {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil, model.NewNotFoundError("zip entry " + entryName)
}

func selectTarEntry(raw []byte, entryName string) (io.ReadCloser, error) {
	tr := tar.NewReader(bytes.NewReader(raw))
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if normalizeEntryName(hdr.Name) != entryName {
			continue
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return nil, model.NewNotFoundError("tar entry " + entryName)
}
