// Package uriresolve implements the composable URL-stream decorator
// pipeline from spec.md §4.5: URIs of the form
//
//	scheme1:scheme2:...:schemeN:<underlying-uri>[!/<path-inside>]*
//
// where each scheme_i transforms or selects an archive entry from the
// byte stream produced by scheme_{i+1}. Grounded on the teacher's
// fetch.refParser (prefix/option parsing discipline) but purpose-built
// as an explicit decorator tree rather than a java.net.URL
// StreamHandler registry, per spec.md §9's redesign note.
package uriresolve

import "strings"

// DecoratorKind distinguishes the two families of decorator spec.md
// §4.5 recognises.
type DecoratorKind int

const (
	KindTransform DecoratorKind = iota
	KindArchive
)

// TransformType selects which one-to-one stream transform a transforming
// decorator applies.
type TransformType int

const (
	TransformGunzip TransformType = iota
	TransformBunzip2
)

// ArchiveType selects which archive format an archive decorator parses.
type ArchiveType int

const (
	ArchiveZip ArchiveType = iota
	ArchiveTar
)

// DecoratorSpec is one parsed scheme segment.
type DecoratorSpec struct {
	Scheme    string
	Kind      DecoratorKind
	Transform TransformType
	Archive   ArchiveType
}

var decoratorTable = map[string]DecoratorSpec{
	"gz":     {Kind: KindTransform, Transform: TransformGunzip},
	"gzip":   {Kind: KindTransform, Transform: TransformGunzip},
	"bz":     {Kind: KindTransform, Transform: TransformBunzip2},
	"bz2":    {Kind: KindTransform, Transform: TransformBunzip2},
	"bzip":   {Kind: KindTransform, Transform: TransformBunzip2},
	"bzip2":  {Kind: KindTransform, Transform: TransformBunzip2},
	"zip":    {Kind: KindArchive, Archive: ArchiveZip},
	"jar":    {Kind: KindArchive, Archive: ArchiveZip},
	"ear":    {Kind: KindArchive, Archive: ArchiveZip},
	"war":    {Kind: KindArchive, Archive: ArchiveZip},
	"kar":    {Kind: KindArchive, Archive: ArchiveZip},
	"tar":    {Kind: KindArchive, Archive: ArchiveTar},
}

// ParsedURI is the result of parsing a composite URI.
type ParsedURI struct {
	// Decorators is ordered outermost (scheme1) to innermost (schemeN).
	Decorators []DecoratorSpec
	// Underlying is the innermost URI (e.g. "http://host/x.tgz").
	Underlying string
	// EntryPaths are the "!/path" suffixes, in the order written, which
	// corresponds to archive decorators in innermost-to-outermost order
	// (the outermost archive decorator's entry path is written last).
	EntryPaths []string
}

// Parse splits a composite URI into its decorator chain, underlying URI,
// and archive entry-path suffixes.
func Parse(raw string) (*ParsedURI, error) {
	rest := raw
	var decorators []DecoratorSpec
	for {
		idx := strings.Index(rest, ":")
		if idx < 0 {
			break
		}
		candidate := rest[:idx]
		spec, ok := decoratorTable[strings.ToLower(candidate)]
		if !ok {
			break
		}
		spec.Scheme = strings.ToLower(candidate)
		decorators = append(decorators, spec)
		rest = rest[idx+1:]
	}
	segments := strings.Split(rest, "!/")
	underlying := segments[0]
	if underlying == "" {
		return nil, newEmptyUnderlyingError(raw)
	}
	entryPaths := make([]string, 0, len(segments)-1)
	for _, seg := range segments[1:] {
		entryPaths = append(entryPaths, normalizeEntryName(seg))
	}
	archiveDecoratorCount := 0
	for _, d := range decorators {
		if d.Kind == KindArchive {
			archiveDecoratorCount++
		}
	}
	if archiveDecoratorCount != len(entryPaths) {
		return nil, newEntryPathCountMismatchError(raw, archiveDecoratorCount, len(entryPaths))
	}
	return &ParsedURI{Decorators: decorators, Underlying: underlying, EntryPaths: entryPaths}, nil
}

// normalizeEntryName strips a leading "./" per spec.md §4.5's archive
// entry-name normalisation rule. Matching is exact after normalisation.
func normalizeEntryName(name string) string {
	return strings.TrimPrefix(name, "./")
}

// InnermostScheme returns the scheme of the Underlying URI (e.g. "http",
// "file"), used by offline-mode enforcement in §4.5.
func (p *ParsedURI) InnermostScheme() string {
	idx := strings.Index(p.Underlying, ":")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(p.Underlying[:idx])
}
