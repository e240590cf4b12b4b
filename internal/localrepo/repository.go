// Package localrepo is a minimal, filesystem-only ArtifactRepository
// implementation for the CLI entry point: it resolves artifact files out
// of a local Maven-layout directory (groupId/artifactId/version/...)
// without parsing POMs. A real build integration would plug in its own
// repository client against the opaque ArtifactRepository contract
// (spec.md §1); POM parsing and remote repository walking stay
// out of scope here exactly as they do in the specification.
package localrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/protoc-build/protocgen/internal/model"
)

// Repository resolves artifacts from a single local Maven-layout root.
type Repository struct {
	root string
}

// New returns a Repository rooted at root (typically ~/.m2/repository).
func New(root string) *Repository {
	return &Repository{root: root}
}

// ResolveArtifactFile locates key's file under the local repository
// layout: <root>/<group/path>/<artifactId>/<version>/<artifactId>-<version>[-classifier].<type>.
func (r *Repository) ResolveArtifactFile(_ context.Context, key model.ArtifactKey) (string, error) {
	if key.Version == "" {
		return "", model.NewResolutionError(fmt.Errorf("no version and no dependency management entry for %s", key.String()), key.String())
	}
	typ := key.Type
	if typ == "" {
		typ = "jar"
	}
	name := key.ArtifactID + "-" + key.Version
	if key.Classifier != "" {
		name += "-" + key.Classifier
	}
	name += "." + typ

	groupPath := strings.ReplaceAll(key.GroupID, ".", string(filepath.Separator))
	path := filepath.Join(r.root, groupPath, key.ArtifactID, key.Version, name)
	if _, err := os.Stat(path); err != nil {
		return "", model.NewResolutionError(err, key.String())
	}
	return path, nil
}

// DirectDependencies always returns an empty set: POM parsing is out of
// scope for this filesystem-only reference repository, so only the
// artifacts a request names directly are resolved; their transitive
// dependencies are not discovered.
func (r *Repository) DirectDependencies(context.Context, model.ArtifactKey) ([]model.Dependency, error) {
	return nil, nil
}
