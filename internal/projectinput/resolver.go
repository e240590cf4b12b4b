// Package projectinput implements ProjectInputResolver (spec.md §4.7):
// gathering .proto sources and pre-compiled descriptor sets from local
// directories and from resolved dependency archives.
package projectinput

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/protoc-build/protocgen/internal/artifact"
	"github.com/protoc-build/protocgen/internal/digest"
	"github.com/protoc-build/protocgen/internal/fsutil"
	"github.com/protoc-build/protocgen/internal/model"
	"github.com/protoc-build/protocgen/internal/workpool"
)

// Resolver discovers project inputs per spec.md §4.7.
type Resolver struct {
	artifacts *artifact.Adapter
	tempSpace *fsutil.TemporarySpace
}

// NewResolver returns a Resolver. artifacts resolves dependency archives
// to local paths; tempSpace hosts their extraction directories.
func NewResolver(artifacts *artifact.Adapter, tempSpace *fsutil.TemporarySpace) *Resolver {
	return &Resolver{artifacts: artifacts, tempSpace: tempSpace}
}

// Resolve gathers every source and descriptor listing named by req.
func (r *Resolver) Resolve(ctx context.Context, req model.GenerationRequest) (model.ProjectInputListing, error) {
	scopes := req.EffectiveDependencyScopes()

	compilableProtoRoots, err := r.rootsFor(ctx, req.SourceDirectories, req.SourceDependencies, scopes)
	if err != nil {
		return model.ProjectInputListing{}, err
	}
	dependencyRoots, err := r.rootsFor(ctx, req.ImportPaths, req.ImportDependencies, scopes)
	if err != nil {
		return model.ProjectInputListing{}, err
	}
	compilableDescriptorRoots, err := r.rootsFor(ctx, req.SourceDescriptorPaths, req.SourceDescriptorDependencies, scopes)
	if err != nil {
		return model.ProjectInputListing{}, err
	}

	compilableProto, err := sourceListings(ctx, compilableProtoRoots, isProtoFile)
	if err != nil {
		return model.ProjectInputListing{}, err
	}
	dependencyProto, err := sourceListings(ctx, dependencyRoots, isProtoFile)
	if err != nil {
		return model.ProjectInputListing{}, err
	}
	dependencyDescriptors, err := descriptorListings(ctx, dependencyRoots, isDescriptorFile)
	if err != nil {
		return model.ProjectInputListing{}, err
	}
	compilableDescriptors, err := descriptorListings(ctx, compilableDescriptorRoots, isDescriptorFile)
	if err != nil {
		return model.ProjectInputListing{}, err
	}
	if err := validateDescriptorSets(compilableDescriptors); err != nil {
		return model.ProjectInputListing{}, err
	}

	return model.ProjectInputListing{
		CompilableProtoSources:    compilableProto,
		DependencyProtoSources:    dependencyProto,
		CompilableDescriptorFiles: compilableDescriptors,
		DependencyDescriptorFiles: dependencyDescriptors,
	}, nil
}

// sourceListings walks every root concurrently (bounded by workpool),
// writing into a pre-sized slice so no two goroutines ever touch the
// same slot.
func sourceListings(ctx context.Context, roots []string, match func(string) bool) ([]model.SourceListing, error) {
	out := make([]model.SourceListing, len(roots))
	err := workpool.Run(ctx, indexes(len(roots)), func(_ context.Context, i int) error {
		files, err := walkExtension(roots[i], match)
		if err != nil {
			return err
		}
		out[i] = model.SourceListing{SourceRoot: roots[i], Files: files}
		return nil
	})
	return out, err
}

func descriptorListings(ctx context.Context, roots []string, match func(string) bool) ([]model.DescriptorListing, error) {
	out := make([]model.DescriptorListing, len(roots))
	err := workpool.Run(ctx, indexes(len(roots)), func(_ context.Context, i int) error {
		files, err := walkExtension(roots[i], match)
		if err != nil {
			return err
		}
		out[i] = model.DescriptorListing{SourceRoot: roots[i], Files: files}
		return nil
	})
	return out, err
}

func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// rootsFor resolves a mix of plain directories and dependency artifacts
// into a flat list of walkable root directories. Each dependency entry
// is resolved via §4.3's full transitive machinery — honoring its scope,
// exclusions, and depth override — not just resolved to its own single
// artifact file, so a dependency's own transitive graph contributes its
// .proto/descriptor files too.
func (r *Resolver) rootsFor(ctx context.Context, directories []string, deps []model.Dependency, scopes []model.Scope) ([]string, error) {
	roots := append([]string{}, directories...)
	if len(deps) == 0 {
		return roots, nil
	}

	resolved, err := r.artifacts.ResolveDependencies(ctx, deps, model.DepthTransitive, scopes, false, nil)
	if err != nil {
		return nil, err
	}
	for _, ra := range resolved {
		root, err := r.materializeDependency(ra.Key, ra.Path)
		if err != nil {
			return nil, err
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// materializeDependency takes key's already-resolved local path and, if
// it is an archive, extracts it (lazily, reusing a prior extraction for
// the same artifact coordinates) under <tempSpace>/deps/<sha1(artifact)>/.
func (r *Resolver) materializeDependency(key model.ArtifactKey, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", model.NewIoError(path, err)
	}
	if info.IsDir() {
		return path, nil
	}

	extractDir, err := r.tempSpace.Dir("deps", digest.SHA1Hex(key.String()))
	if err != nil {
		return "", model.NewIoError(path, err)
	}

	alreadyExtracted, err := dirHasEntries(extractDir)
	if err != nil {
		return "", model.NewIoError(extractDir, err)
	}
	if alreadyExtracted {
		return extractDir, nil
	}

	zipFS, closer, err := fsutil.OpenZipFS(path)
	if err != nil {
		return "", model.NewIoError(path, err)
	}
	defer closer.Close()

	if err := fsutil.RebaseFS(zipFS, extractDir); err != nil {
		return "", model.NewIoError(extractDir, err)
	}
	return extractDir, nil
}

func dirHasEntries(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

// validateDescriptorSets parses every compilable descriptor file as a
// FileDescriptorSet, failing fast on a file that is present on disk but
// is not actually a valid descriptor set protoc can consume as
// --descriptor_set_in.
func validateDescriptorSets(listings []model.DescriptorListing) error {
	for _, listing := range listings {
		for _, path := range listing.Files {
			data, err := os.ReadFile(path)
			if err != nil {
				return model.NewIoError(path, err)
			}
			var set descriptorpb.FileDescriptorSet
			if err := proto.Unmarshal(data, &set); err != nil {
				return model.NewInvalidInputError("%s is not a valid descriptor set: %v", path, err)
			}
		}
	}
	return nil
}

func isProtoFile(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".proto")
}

func isDescriptorFile(name string) bool {
	_, ok := model.DescriptorExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// walkExtension walks root recursively, returning every regular file
// matching match. Hidden files and dotfile directories are not excluded:
// whatever protoc would accept is valid (spec.md §4.7).
func walkExtension(root string, match func(string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if match(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, model.NewIoError(root, err)
	}
	return files, nil
}
