package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/protoc-build/protocgen/internal/model"
)

// resolutionCache memoises ResolveDependencies results, since the same
// dependency set is typically re-resolved once per source root and once
// per descriptor root within a single build.
type resolutionCache struct {
	inner *lru.Cache[string, []ResolvedArtifact]
}

func newResolutionCache(size int) *resolutionCache {
	c, err := lru.New[string, []ResolvedArtifact](size)
	if err != nil {
		// Only returns an error for a non-positive size, which we never
		// pass; a panic here would indicate a programming mistake.
		panic(fmt.Sprintf("artifact: invalid resolution cache size %d: %v", size, err))
	}
	return &resolutionCache{inner: c}
}

func (c *resolutionCache) get(key string) ([]ResolvedArtifact, bool) {
	return c.inner.Get(key)
}

func (c *resolutionCache) put(key string, value []ResolvedArtifact) {
	c.inner.Add(key, value)
}

// resolutionCacheKey digests the resolution inputs into a stable string.
// Exclusions and scopes are sorted before hashing so equivalent but
// differently-ordered inputs collide, matching DependencySet equality
// from spec.md §4.2.
func resolutionCacheKey(
	deps []model.Dependency,
	defaultDepth model.ResolutionDepth,
	scopes []model.Scope,
	includeProjectDependencies bool,
	projectArtifacts []model.ArtifactKey,
) string {
	h := sha256.New()
	fmt.Fprintf(h, "depth=%d|project=%t\n", defaultDepth, includeProjectDependencies)

	sortedScopes := append([]model.Scope{}, scopes...)
	sort.Slice(sortedScopes, func(i, j int) bool { return sortedScopes[i] < sortedScopes[j] })
	fmt.Fprintf(h, "scopes=%v\n", sortedScopes)

	for _, d := range deps {
		exclStrs := make([]string, len(d.Exclusions))
		for i, e := range d.Exclusions {
			exclStrs[i] = e.GroupID + ":" + e.ArtifactID
		}
		sort.Strings(exclStrs)
		fmt.Fprintf(h, "dep=%s scope=%s depth=%d excl=%v\n", d.Artifact.String(), d.Scope, d.Depth, exclStrs)
	}

	sortedProject := make([]string, len(projectArtifacts))
	for i, p := range projectArtifacts {
		sortedProject[i] = p.String()
	}
	sort.Strings(sortedProject)
	fmt.Fprintf(h, "project=%v\n", sortedProject)

	return hex.EncodeToString(h.Sum(nil))
}
