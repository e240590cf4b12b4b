package model

import "sort"

// SourceListing is the set of .proto files found under one source root.
// sourceRoot may be a real directory or a directory inside an extracted
// archive; it must always be absolute and normalised.
type SourceListing struct {
	SourceRoot string
	Files      []string
}

// DescriptorListing is the set of descriptor-set files (per
// DescriptorExtensions) found under one source root.
type DescriptorListing struct {
	SourceRoot string
	Files      []string
}

// DescriptorExtensions is the set of file extensions (lowercase, with
// leading dot) recognised as pre-compiled descriptor sets. This resolves
// the Open Question in spec.md §9 by picking the broadest of the three
// extensions the distillation mentions.
var DescriptorExtensions = map[string]struct{}{
	".protobin": {},
	".desc":     {},
	".pb":       {},
}

// ProjectInputListing is the aggregate result of ProjectInputResolver.
type ProjectInputListing struct {
	CompilableProtoSources    []SourceListing
	DependencyProtoSources    []SourceListing
	CompilableDescriptorFiles []DescriptorListing
	DependencyDescriptorFiles []DescriptorListing
}

// HasCompilableInputs reports whether there is anything to feed protoc.
func (l ProjectInputListing) HasCompilableInputs() bool {
	return listingFileCount(l.CompilableProtoSources) > 0 || descriptorFileCount(l.CompilableDescriptorFiles) > 0
}

func listingFileCount(listings []SourceListing) int {
	n := 0
	for _, l := range listings {
		n += len(l.Files)
	}
	return n
}

func descriptorFileCount(listings []DescriptorListing) int {
	n := 0
	for _, l := range listings {
		n += len(l.Files)
	}
	return n
}

// AllCompilableProtoFiles flattens every compilable proto source path,
// sorted for deterministic ordering.
func (l ProjectInputListing) AllCompilableProtoFiles() []string {
	return flattenSourcePaths(l.CompilableProtoSources)
}

// AllDependencyProtoFiles flattens every dependency (import-path-only)
// proto source path, sorted for deterministic ordering.
func (l ProjectInputListing) AllDependencyProtoFiles() []string {
	return flattenSourcePaths(l.DependencyProtoSources)
}

// AllCompilableDescriptorFiles flattens every compilable descriptor file
// path, sorted for deterministic ordering.
func (l ProjectInputListing) AllCompilableDescriptorFiles() []string {
	return flattenDescriptorPaths(l.CompilableDescriptorFiles)
}

// AllDependencyDescriptorFiles flattens every dependency descriptor file
// path, sorted for deterministic ordering.
func (l ProjectInputListing) AllDependencyDescriptorFiles() []string {
	return flattenDescriptorPaths(l.DependencyDescriptorFiles)
}

// DependencyProtoSourceRoots returns the distinct source-root directories
// backing DependencyProtoSources, sorted for deterministic ordering. This
// is what protoc's --proto_path expects — the directories dependency
// imports resolve against — not the individual files
// AllDependencyProtoFiles flattens.
func (l ProjectInputListing) DependencyProtoSourceRoots() []string {
	return sourceRoots(l.DependencyProtoSources)
}

// DependencyDescriptorSourceRoots returns the distinct source-root
// directories backing DependencyDescriptorFiles, sorted for
// deterministic ordering.
func (l ProjectInputListing) DependencyDescriptorSourceRoots() []string {
	return descriptorRoots(l.DependencyDescriptorFiles)
}

func sourceRoots(listings []SourceListing) []string {
	seen := make(map[string]struct{}, len(listings))
	var out []string
	for _, l := range listings {
		if _, ok := seen[l.SourceRoot]; ok {
			continue
		}
		seen[l.SourceRoot] = struct{}{}
		out = append(out, l.SourceRoot)
	}
	sort.Strings(out)
	return out
}

func descriptorRoots(listings []DescriptorListing) []string {
	seen := make(map[string]struct{}, len(listings))
	var out []string
	for _, l := range listings {
		if _, ok := seen[l.SourceRoot]; ok {
			continue
		}
		seen[l.SourceRoot] = struct{}{}
		out = append(out, l.SourceRoot)
	}
	sort.Strings(out)
	return out
}

func flattenSourcePaths(listings []SourceListing) []string {
	var out []string
	for _, l := range listings {
		out = append(out, l.Files...)
	}
	sort.Strings(out)
	return out
}

func flattenDescriptorPaths(listings []DescriptorListing) []string {
	var out []string
	for _, l := range listings {
		out = append(out, l.Files...)
	}
	sort.Strings(out)
	return out
}

// FilesToCompile is the subset of the project's inputs that the current
// run must actually feed to protoc.
type FilesToCompile struct {
	ProtoSources    []string
	DescriptorFiles []string
}

// Empty reports whether there is nothing to compile.
func (f FilesToCompile) Empty() bool {
	return len(f.ProtoSources) == 0 && len(f.DescriptorFiles) == 0
}
