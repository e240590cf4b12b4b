package artifact

import (
	"context"
	"fmt"

	"github.com/protoc-build/protocgen/internal/model"
)

// Adapter is the ArtifactRepositoryAdapter of spec.md §4.3.
type Adapter struct {
	repo                      ArtifactRepository
	management                DependencyManagement
	cache                     *resolutionCache
	failOnInvalidDependencies bool
}

// NewAdapter returns an Adapter backed by repo. management may be nil.
func NewAdapter(repo ArtifactRepository, management DependencyManagement, failOnInvalidDependencies bool) *Adapter {
	if management == nil {
		management = DependencyManagement{}
	}
	return &Adapter{
		repo:                      repo,
		management:                management,
		cache:                     newResolutionCache(32),
		failOnInvalidDependencies: failOnInvalidDependencies,
	}
}

// ResolveArtifact materialises a single artifact, failing with a
// *model.ResolutionError if it cannot be found.
func (a *Adapter) ResolveArtifact(ctx context.Context, key model.ArtifactKey) (string, error) {
	key = applyManagement(key, a.management)
	path, err := a.repo.ResolveArtifactFile(ctx, key)
	if err != nil {
		return "", model.NewResolutionError(err, key.String())
	}
	return path, nil
}

// ResolveDependencies performs full transitive resolution per spec.md
// §4.3: dependency-management fill-in, per-node depth overrides (with a
// DIRECT node pinned by a synthetic wildcard exclusion), project
// artifacts prepended ahead of their transitive overrides when
// includeProjectDependencies is set, all deduplicated on
// (groupId, artifactId, classifier, type) with first occurrence winning.
func (a *Adapter) ResolveDependencies(
	ctx context.Context,
	deps []model.Dependency,
	defaultDepth model.ResolutionDepth,
	scopes []model.Scope,
	includeProjectDependencies bool,
	projectArtifacts []model.ArtifactKey,
) ([]ResolvedArtifact, error) {
	cacheKey := resolutionCacheKey(deps, defaultDepth, scopes, includeProjectDependencies, projectArtifacts)
	if cached, ok := a.cache.get(cacheKey); ok {
		return cached, nil
	}

	scopeSet := make(map[model.Scope]struct{}, len(scopes))
	for _, s := range scopes {
		scopeSet[s] = struct{}{}
	}

	var (
		ordered []ResolvedArtifact
		visited = make(map[model.ArtifactKey]struct{})
		failed  []string
	)

	if includeProjectDependencies {
		for _, pa := range projectArtifacts {
			dedup := pa.DedupKey()
			if _, ok := visited[dedup]; ok {
				continue
			}
			visited[dedup] = struct{}{}
			ordered = append(ordered, ResolvedArtifact{Key: pa})
		}
	}

	for _, dep := range deps {
		if _, ok := scopeSet[dep.Scope]; len(scopeSet) > 0 && !ok {
			continue
		}
		exclusions := dep.Exclusions
		if dep.EffectiveDepth(defaultDepth) == model.DepthDirect {
			exclusions = append(append([]model.Exclusion{}, exclusions...), model.WildcardExclusion)
		}
		key := applyManagement(dep.Artifact, a.management)
		if err := a.traverse(ctx, key, exclusions, scopeSet, visited, &ordered, &failed); err != nil {
			return nil, err
		}
	}

	if len(failed) > 0 && a.failOnInvalidDependencies {
		return nil, model.NewResolutionError(fmt.Errorf("%d artifact(s) could not be resolved", len(failed)), failed...)
	}

	a.cache.put(cacheKey, ordered)
	return ordered, nil
}

func (a *Adapter) traverse(
	ctx context.Context,
	key model.ArtifactKey,
	exclusions []model.Exclusion,
	scopeSet map[model.Scope]struct{},
	visited map[model.ArtifactKey]struct{},
	ordered *[]ResolvedArtifact,
	failed *[]string,
) error {
	dedup := key.DedupKey()
	if _, ok := visited[dedup]; ok {
		return nil
	}
	visited[dedup] = struct{}{}

	path, err := a.repo.ResolveArtifactFile(ctx, key)
	if err != nil {
		if a.failOnInvalidDependencies {
			*failed = append(*failed, key.String())
			return nil
		}
		*failed = append(*failed, key.String())
		return nil
	}
	*ordered = append(*ordered, ResolvedArtifact{Key: key, Path: path})

	if hasWildcard(exclusions) {
		// The traverser refuses to descend past a wildcard exclusion
		// regardless of what the external client would otherwise report
		// (spec.md §4.3).
		return nil
	}

	children, err := a.repo.DirectDependencies(ctx, key)
	if err != nil {
		return model.NewResolutionError(err, key.String())
	}
	for _, child := range children {
		if len(scopeSet) > 0 {
			if _, ok := scopeSet[child.Scope]; !ok {
				continue
			}
		}
		if excludedBy(exclusions, child.Artifact) {
			continue
		}
		childKey := applyManagement(child.Artifact, a.management)
		childExclusions := mergeExclusions(exclusions, child.Exclusions)
		if err := a.traverse(ctx, childKey, childExclusions, scopeSet, visited, ordered, failed); err != nil {
			return err
		}
	}
	return nil
}

func hasWildcard(exclusions []model.Exclusion) bool {
	for _, e := range exclusions {
		if e.IsWildcard() {
			return true
		}
	}
	return false
}

func excludedBy(exclusions []model.Exclusion, key model.ArtifactKey) bool {
	for _, e := range exclusions {
		if e.IsWildcard() {
			continue
		}
		if e.Matches(key) {
			return true
		}
	}
	return false
}

func mergeExclusions(inherited, own []model.Exclusion) []model.Exclusion {
	if len(inherited) == 0 {
		return own
	}
	if len(own) == 0 {
		return inherited
	}
	out := make([]model.Exclusion, 0, len(inherited)+len(own))
	out = append(out, inherited...)
	out = append(out, own...)
	return out
}
