package uriresolve

import (
	"context"
	"strings"
)

// Resolver opens composite URIs per spec.md §4.5, recursively applying
// decorators over the innermost URI's byte stream.
type Resolver struct{}

// NewResolver returns a Resolver. It holds no state; it exists as a type
// so call sites read like the rest of the collaborator graph (explicit,
// constructed, passed down) rather than a package-level function.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Open resolves raw into a readable stream. The caller must Close the
// result. A missing archive entry or a 404 from the innermost HTTP
// fetch surfaces as a *model.NotFoundError.
func (r *Resolver) Open(ctx context.Context, raw string) (ReadCloser, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return nil, err
	}
	stream, err := openUnderlying(ctx, parsed.Underlying)
	if err != nil {
		return nil, err
	}
	entryIdx := 0
	// Process decorators innermost (schemeN) to outermost (scheme1):
	// that is the reverse of how they are written.
	for i := len(parsed.Decorators) - 1; i >= 0; i-- {
		d := parsed.Decorators[i]
		switch d.Kind {
		case KindTransform:
			stream, err = applyTransform(d.Transform, stream)
			if err != nil {
				return nil, err
			}
		case KindArchive:
			entry := parsed.EntryPaths[entryIdx]
			entryIdx++
			stream, err = selectArchiveEntry(d.Archive, stream, entry)
			if err != nil {
				return nil, err
			}
		}
	}
	return stream, nil
}

// ReadCloser is the stream type the pipeline produces.
type ReadCloser = interface {
	Read(p []byte) (n int, err error)
	Close() error
}

func openUnderlying(ctx context.Context, uri string) (ReadCloser, error) {
	switch {
	case strings.HasPrefix(uri, "http://"), strings.HasPrefix(uri, "https://"):
		return fetchHTTP(ctx, uri)
	case strings.HasPrefix(uri, "file://"):
		return fetchFile(strings.TrimPrefix(uri, "file://"))
	case strings.Contains(uri, "://"):
		scheme := uri[:strings.Index(uri, "://")]
		return nil, newUnsupportedSchemeError(scheme)
	default:
		// Bare paths are treated as local files, matching the teacher's
		// refParser defaulting an un-prefixed path to FileSchemeLocal.
		return fetchFile(uri)
	}
}
