package artifact

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protoc-build/protocgen/internal/model"
)

// fakeRepository is an in-memory ArtifactRepository for exercising the
// traversal logic without a real remote repository.
type fakeRepository struct {
	files map[string]string
	deps  map[string][]model.Dependency
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{files: map[string]string{}, deps: map[string][]model.Dependency{}}
}

func (f *fakeRepository) addArtifact(key model.ArtifactKey, path string, deps ...model.Dependency) {
	f.files[key.String()] = path
	f.deps[key.String()] = deps
}

func (f *fakeRepository) ResolveArtifactFile(_ context.Context, key model.ArtifactKey) (string, error) {
	path, ok := f.files[key.String()]
	if !ok {
		return "", model.NewNotFoundError(key.String())
	}
	return path, nil
}

func (f *fakeRepository) DirectDependencies(_ context.Context, key model.ArtifactKey) ([]model.Dependency, error) {
	return f.deps[key.String()], nil
}

func dep(groupID, artifactID, version string, exclusions ...model.Exclusion) model.Dependency {
	return model.Dependency{
		Artifact:   model.ArtifactKey{GroupID: groupID, ArtifactID: artifactID, Version: version},
		Scope:      model.ScopeCompile,
		Exclusions: exclusions,
	}
}

func TestResolveDependencies_Transitive(t *testing.T) {
	repo := newFakeRepository()
	leaf := model.ArtifactKey{GroupID: "g", ArtifactID: "leaf", Version: "1.0"}
	mid := model.ArtifactKey{GroupID: "g", ArtifactID: "mid", Version: "1.0"}
	repo.addArtifact(leaf, "/repo/leaf-1.0.jar")
	repo.addArtifact(mid, "/repo/mid-1.0.jar", model.Dependency{Artifact: leaf, Scope: model.ScopeCompile})

	adapter := NewAdapter(repo, nil, false)
	resolved, err := adapter.ResolveDependencies(
		context.Background(),
		[]model.Dependency{{Artifact: mid, Scope: model.ScopeCompile}},
		model.DepthTransitive,
		model.DefaultMainScopes,
		false,
		nil,
	)
	require.NoError(t, err)
	require.Len(t, resolved, 2)
	assert.Equal(t, "mid", resolved[0].Key.ArtifactID)
	assert.Equal(t, "leaf", resolved[1].Key.ArtifactID)
}

func TestResolveDependencies_DirectDepthStopsDescent(t *testing.T) {
	repo := newFakeRepository()
	leaf := model.ArtifactKey{GroupID: "g", ArtifactID: "leaf", Version: "1.0"}
	mid := model.ArtifactKey{GroupID: "g", ArtifactID: "mid", Version: "1.0"}
	repo.addArtifact(leaf, "/repo/leaf-1.0.jar")
	repo.addArtifact(mid, "/repo/mid-1.0.jar", model.Dependency{Artifact: leaf, Scope: model.ScopeCompile})

	adapter := NewAdapter(repo, nil, false)
	directDep := model.Dependency{Artifact: mid, Scope: model.ScopeCompile, Depth: model.DepthDirect}
	resolved, err := adapter.ResolveDependencies(
		context.Background(),
		[]model.Dependency{directDep},
		model.DepthTransitive,
		model.DefaultMainScopes,
		false,
		nil,
	)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "mid", resolved[0].Key.ArtifactID)
}

func TestResolveDependencies_ExclusionSkipsSubtree(t *testing.T) {
	repo := newFakeRepository()
	excluded := model.ArtifactKey{GroupID: "g", ArtifactID: "excluded", Version: "1.0"}
	mid := model.ArtifactKey{GroupID: "g", ArtifactID: "mid", Version: "1.0"}
	repo.addArtifact(excluded, "/repo/excluded-1.0.jar")
	repo.addArtifact(mid, "/repo/mid-1.0.jar", model.Dependency{Artifact: excluded, Scope: model.ScopeCompile})

	adapter := NewAdapter(repo, nil, false)
	excl := model.Exclusion{GroupID: "g", ArtifactID: "excluded"}
	resolved, err := adapter.ResolveDependencies(
		context.Background(),
		[]model.Dependency{{Artifact: mid, Scope: model.ScopeCompile, Exclusions: []model.Exclusion{excl}}},
		model.DepthTransitive,
		model.DefaultMainScopes,
		false,
		nil,
	)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "mid", resolved[0].Key.ArtifactID)
}

func TestResolveDependencies_DedupesAcrossPaths(t *testing.T) {
	repo := newFakeRepository()
	shared := model.ArtifactKey{GroupID: "g", ArtifactID: "shared", Version: "1.0"}
	a := model.ArtifactKey{GroupID: "g", ArtifactID: "a", Version: "1.0"}
	b := model.ArtifactKey{GroupID: "g", ArtifactID: "b", Version: "1.0"}
	repo.addArtifact(shared, "/repo/shared-1.0.jar")
	repo.addArtifact(a, "/repo/a-1.0.jar", model.Dependency{Artifact: shared, Scope: model.ScopeCompile})
	repo.addArtifact(b, "/repo/b-1.0.jar", model.Dependency{Artifact: shared, Scope: model.ScopeCompile})

	adapter := NewAdapter(repo, nil, false)
	resolved, err := adapter.ResolveDependencies(
		context.Background(),
		[]model.Dependency{{Artifact: a, Scope: model.ScopeCompile}, {Artifact: b, Scope: model.ScopeCompile}},
		model.DepthTransitive,
		model.DefaultMainScopes,
		false,
		nil,
	)
	require.NoError(t, err)
	count := 0
	for _, r := range resolved {
		if r.Key.ArtifactID == "shared" {
			count++
		}
	}
	assert.Equal(t, 1, count, "shared dependency must be deduplicated")
}

func TestResolveDependencies_ProjectArtifactsPrependedAndDeduped(t *testing.T) {
	repo := newFakeRepository()
	projectArtifact := model.ArtifactKey{GroupID: "g", ArtifactID: "sibling-module", Version: "1.0"}
	resolved, err := NewAdapter(repo, nil, false).ResolveDependencies(
		context.Background(),
		nil,
		model.DepthTransitive,
		model.DefaultMainScopes,
		true,
		[]model.ArtifactKey{projectArtifact, projectArtifact},
	)
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Equal(t, "sibling-module", resolved[0].Key.ArtifactID)
}

func TestResolveDependencies_UnresolvableIsFatalOnlyWhenConfigured(t *testing.T) {
	repo := newFakeRepository()
	missing := model.ArtifactKey{GroupID: "g", ArtifactID: "missing", Version: "1.0"}

	lenient := NewAdapter(repo, nil, false)
	resolved, err := lenient.ResolveDependencies(context.Background(), []model.Dependency{{Artifact: missing}}, model.DepthTransitive, nil, false, nil)
	require.NoError(t, err)
	assert.Empty(t, resolved)

	strict := NewAdapter(repo, nil, true)
	_, err = strict.ResolveDependencies(context.Background(), []model.Dependency{{Artifact: missing}}, model.DepthTransitive, nil, false, nil)
	require.Error(t, err)
}

func TestApplyManagement(t *testing.T) {
	management := NewDependencyManagement(model.ArtifactKey{GroupID: "g", ArtifactID: "a", Version: "2.5", Type: "jar"})
	key := applyManagement(model.ArtifactKey{GroupID: "g", ArtifactID: "a"}, management)
	assert.Equal(t, "2.5", key.Version)

	pinned := applyManagement(model.ArtifactKey{GroupID: "g", ArtifactID: "a", Version: "9.9"}, management)
	assert.Equal(t, "9.9", pinned.Version, "an explicit version must never be overridden by management")
}
