// Package model holds the value types shared across the orchestration
// engine: artifact identity, dependencies, resolved plugins, protoc
// targets, and the request/result shapes exchanged with the surrounding
// build tool.
package model

import "fmt"

// ArtifactKey identifies a versioned package in an external artifact
// repository. GroupID and ArtifactID are required; Version may be empty,
// in which case it is expected to be filled in by dependency management.
type ArtifactKey struct {
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
	Type       string
}

// DedupKey returns the tuple that two artifacts are compared on for
// deduplication. Version does not participate.
func (k ArtifactKey) DedupKey() ArtifactKey {
	return ArtifactKey{GroupID: k.GroupID, ArtifactID: k.ArtifactID, Classifier: k.Classifier, Type: k.Type}
}

func (k ArtifactKey) String() string {
	classifier := k.Classifier
	typ := k.Type
	if typ == "" {
		typ = "jar"
	}
	if classifier == "" {
		return fmt.Sprintf("%s:%s:%s:%s", k.GroupID, k.ArtifactID, k.Version, typ)
	}
	return fmt.Sprintf("%s:%s:%s:%s:%s", k.GroupID, k.ArtifactID, k.Version, classifier, typ)
}

// ResolutionDepth is a per-dependency override of how far to walk the
// transitive graph.
type ResolutionDepth int

const (
	// DepthInherit means "use the caller's default depth".
	DepthInherit ResolutionDepth = iota
	DepthDirect
	DepthTransitive
)

// Exclusion removes an artifact (or a whole subtree, via the wildcard
// form) from transitive resolution. Classifier and Type default to "*"
// meaning "all".
type Exclusion struct {
	GroupID    string
	ArtifactID string
	Classifier string
	Type       string
}

// WildcardExclusion is (*, *, *, *): it prevents the traverser from
// descending into the dependency's own transitive graph at all.
var WildcardExclusion = Exclusion{GroupID: "*", ArtifactID: "*", Classifier: "*", Type: "*"}

// IsWildcard reports whether e is the sentinel total exclusion, treating
// an empty classifier or type as "*".
func (e Exclusion) IsWildcard() bool {
	return e.GroupID == "*" && e.ArtifactID == "*" &&
		classifierOrAll(e.Classifier) == "*" && typeOrAll(e.Type) == "*"
}

// Matches reports whether e excludes the given key, treating "" and "*"
// as "all" for classifier and type.
func (e Exclusion) Matches(key ArtifactKey) bool {
	if e.GroupID != "*" && e.GroupID != key.GroupID {
		return false
	}
	if e.ArtifactID != "*" && e.ArtifactID != key.ArtifactID {
		return false
	}
	if classifierOrAll(e.Classifier) != "*" && e.Classifier != key.Classifier {
		return false
	}
	if typeOrAll(e.Type) != "*" && e.Type != key.Type {
		return false
	}
	return true
}

func classifierOrAll(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

func typeOrAll(s string) string {
	if s == "" {
		return "*"
	}
	return s
}

// Scope is the Maven-style dependency scope.
type Scope string

const (
	ScopeCompile  Scope = "compile"
	ScopeProvided Scope = "provided"
	ScopeSystem   Scope = "system"
	ScopeRuntime  Scope = "runtime"
	ScopeTest     Scope = "test"
)

// DefaultMainScopes and DefaultTestScopes are the scope sets the request
// surface falls back to when dependencyScopes is unset (spec.md §6).
var (
	DefaultMainScopes = []Scope{ScopeCompile, ScopeProvided, ScopeSystem}
	DefaultTestScopes = append(append([]Scope{}, DefaultMainScopes...), ScopeTest)
)

// Dependency is an artifact plus resolution metadata.
type Dependency struct {
	Artifact   ArtifactKey
	Scope      Scope
	Exclusions []Exclusion
	Depth      ResolutionDepth
}

// EffectiveDepth resolves Depth against a caller-supplied default.
func (d Dependency) EffectiveDepth(defaultDepth ResolutionDepth) ResolutionDepth {
	if d.Depth == DepthInherit {
		return defaultDepth
	}
	return d.Depth
}
