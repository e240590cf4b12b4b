// Package artifact implements ArtifactRepositoryAdapter (spec.md §4.3):
// translating the engine's Artifact/Dependency/Exclusion model into calls
// against an external artifact repository, running transitive
// dependency resolution with exclusions, dependency-management
// overrides, and project-dependency inclusion, then handing back local
// file-system paths.
//
// The repository client itself (remote repository walking, POM parsing,
// checksum validation) is out of scope per spec.md §1 and modelled here
// as the opaque ArtifactRepository collaborator.
package artifact

import (
	"context"

	"github.com/protoc-build/protocgen/internal/model"
)

// ArtifactRepository is the opaque external collaborator: it knows how
// to locate a single artifact's file on disk (resolving it from a remote
// repository if necessary) and how to report an artifact's own declared
// dependencies. Everything else — transitive walking, exclusions,
// dependency management, project-dependency precedence — is this
// package's job, not the repository's, per spec.md §4.3.
type ArtifactRepository interface {
	// ResolveArtifactFile locates key and returns its local path. It
	// fails with a *model.ResolutionError if key cannot be found.
	ResolveArtifactFile(ctx context.Context, key model.ArtifactKey) (string, error)
	// DirectDependencies returns key's own declared dependencies (its
	// POM, or equivalent), without exclusions or management applied —
	// those are this package's responsibility.
	DirectDependencies(ctx context.Context, key model.ArtifactKey) ([]model.Dependency, error)
}

// ManagedEntry is one row of a project's dependency-management table.
type ManagedEntry struct {
	Version    string
	Classifier string
	Type       string
}

// managementKey is the tuple a management entry matches a dependency on:
// (groupId, artifactId, classifier-or-empty, type-or-jar).
type managementKey struct {
	groupID    string
	artifactID string
	classifier string
	typ        string
}

// DependencyManagement is a project's dependency-management table,
// supplying version/type/classifier defaults for dependencies that omit
// them.
type DependencyManagement map[managementKey]ManagedEntry

// NewDependencyManagement builds a table from (artifact key, managed
// entry) pairs. The artifact key's own Version/Classifier/Type become
// the managed entry's defaults.
func NewDependencyManagement(entries ...model.ArtifactKey) DependencyManagement {
	table := make(DependencyManagement, len(entries))
	for _, e := range entries {
		table[managementKeyFor(e.GroupID, e.ArtifactID, e.Classifier, e.Type)] = ManagedEntry{
			Version:    e.Version,
			Classifier: e.Classifier,
			Type:       e.Type,
		}
	}
	return table
}

func managementKeyFor(groupID, artifactID, classifier, typ string) managementKey {
	if typ == "" {
		typ = "jar"
	}
	return managementKey{groupID: groupID, artifactID: artifactID, classifier: classifier, typ: typ}
}

// ResolvedArtifact is one entry of a resolved dependency graph.
type ResolvedArtifact struct {
	Key  model.ArtifactKey
	Path string
}
