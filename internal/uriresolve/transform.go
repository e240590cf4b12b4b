package uriresolve

import (
	"compress/bzip2"
	"io"

	"github.com/klauspost/pgzip"
)

// applyTransform wraps src with the one-to-one stream transform t
// selects. The returned ReadCloser's Close also closes src.
func applyTransform(t TransformType, src io.ReadCloser) (io.ReadCloser, error) {
	switch t {
	case TransformGunzip:
		gz, err := pgzip.NewReader(src)
		if err != nil {
			_ = src.Close()
			return nil, err
		}
		return &gunzipReadCloser{Reader: gz, underlying: src}, nil
	case TransformBunzip2:
		// compress/bzip2 only implements decompression, which is exactly
		// what a read-side decorator needs; there is no streaming bzip2
		// compressor in the standard library, but none is needed here.
		return &bunzip2ReadCloser{Reader: bzip2.NewReader(src), underlying: src}, nil
	default:
		return src, nil
	}
}

type gunzipReadCloser struct {
	*pgzip.Reader
	underlying io.ReadCloser
}

func (g *gunzipReadCloser) Close() error {
	gzErr := g.Reader.Close()
	underErr := g.underlying.Close()
	if gzErr != nil {
		return gzErr
	}
	return underErr
}

type bunzip2ReadCloser struct {
	io.Reader
	underlying io.ReadCloser
}

func (b *bunzip2ReadCloser) Close() error {
	return b.underlying.Close()
}
