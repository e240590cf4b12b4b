package uriresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_BareFilePath(t *testing.T) {
	p, err := Parse("/tmp/plugin.exe")
	require.NoError(t, err)
	assert.Empty(t, p.Decorators)
	assert.Equal(t, "/tmp/plugin.exe", p.Underlying)
	assert.Empty(t, p.EntryPaths)
}

func TestParse_SingleArchiveDecoratorRequiresOneEntryPath(t *testing.T) {
	p, err := Parse("zip:https://example.com/plugin.zip!/bin/protoc-gen-foo")
	require.NoError(t, err)
	require.Len(t, p.Decorators, 1)
	assert.Equal(t, KindArchive, p.Decorators[0].Kind)
	assert.Equal(t, ArchiveZip, p.Decorators[0].Archive)
	assert.Equal(t, "https://example.com/plugin.zip", p.Underlying)
	assert.Equal(t, []string{"bin/protoc-gen-foo"}, p.EntryPaths)
}

func TestParse_TransformThenArchive(t *testing.T) {
	p, err := Parse("tar:gz:https://example.com/plugin.tar.gz!/protoc-gen-foo")
	require.NoError(t, err)
	require.Len(t, p.Decorators, 2)
	assert.Equal(t, KindArchive, p.Decorators[0].Kind)
	assert.Equal(t, KindTransform, p.Decorators[1].Kind)
	assert.Equal(t, TransformGunzip, p.Decorators[1].Transform)
	assert.Equal(t, []string{"protoc-gen-foo"}, p.EntryPaths)
}

func TestParse_EntryPathCountMustMatchArchiveDecoratorCount(t *testing.T) {
	_, err := Parse("gz:https://example.com/plugin.gz!/extra")
	assert.Error(t, err)

	_, err = Parse("zip:https://example.com/plugin.zip")
	assert.Error(t, err)
}

func TestParse_EmptyUnderlyingIsAnError(t *testing.T) {
	_, err := Parse("zip:!/entry")
	assert.Error(t, err)
}

func TestParse_EntryNameNormalizesLeadingDotSlash(t *testing.T) {
	p, err := Parse("zip:file:///tmp/a.zip!/./bin/tool")
	require.NoError(t, err)
	assert.Equal(t, []string{"bin/tool"}, p.EntryPaths)
}

func TestInnermostScheme(t *testing.T) {
	p, err := Parse("gz:https://example.com/x.gz")
	require.NoError(t, err)
	assert.Equal(t, "https", p.InnermostScheme())

	p2, err := Parse("/local/path")
	require.NoError(t, err)
	assert.Equal(t, "", p2.InnermostScheme())
}

func TestParse_SchemeMatchingIsCaseInsensitive(t *testing.T) {
	p, err := Parse("GZ:https://example.com/x.gz")
	require.NoError(t, err)
	require.Len(t, p.Decorators, 1)
	assert.Equal(t, TransformGunzip, p.Decorators[0].Transform)
}
