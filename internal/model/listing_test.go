package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCompilableInputs_TrueForEitherProtoOrDescriptorSources(t *testing.T) {
	assert.False(t, ProjectInputListing{}.HasCompilableInputs())

	withProto := ProjectInputListing{
		CompilableProtoSources: []SourceListing{{SourceRoot: "/src", Files: []string{"a.proto"}}},
	}
	assert.True(t, withProto.HasCompilableInputs())

	withDescriptor := ProjectInputListing{
		CompilableDescriptorFiles: []DescriptorListing{{SourceRoot: "/src", Files: []string{"a.protobin"}}},
	}
	assert.True(t, withDescriptor.HasCompilableInputs())
}

func TestHasCompilableInputs_IgnoresDependencyOnlyInputs(t *testing.T) {
	deps := ProjectInputListing{
		DependencyProtoSources:    []SourceListing{{SourceRoot: "/dep", Files: []string{"a.proto"}}},
		DependencyDescriptorFiles: []DescriptorListing{{SourceRoot: "/dep", Files: []string{"a.desc"}}},
	}
	assert.False(t, deps.HasCompilableInputs())
}

func TestAllCompilableProtoFiles_FlattensAndSorts(t *testing.T) {
	l := ProjectInputListing{
		CompilableProtoSources: []SourceListing{
			{SourceRoot: "/b", Files: []string{"z.proto", "a.proto"}},
			{SourceRoot: "/a", Files: []string{"m.proto"}},
		},
	}
	assert.Equal(t, []string{"a.proto", "m.proto", "z.proto"}, l.AllCompilableProtoFiles())
}

func TestAllCompilableDescriptorFiles_FlattensAndSorts(t *testing.T) {
	l := ProjectInputListing{
		CompilableDescriptorFiles: []DescriptorListing{
			{SourceRoot: "/b", Files: []string{"z.desc"}},
			{SourceRoot: "/a", Files: []string{"a.desc"}},
		},
	}
	assert.Equal(t, []string{"a.desc", "z.desc"}, l.AllCompilableDescriptorFiles())
}

func TestFilesToCompile_Empty(t *testing.T) {
	assert.True(t, FilesToCompile{}.Empty())
	assert.False(t, FilesToCompile{ProtoSources: []string{"a.proto"}}.Empty())
	assert.False(t, FilesToCompile{DescriptorFiles: []string{"a.desc"}}.Empty())
}

func TestDependencyProtoSourceRoots_ReturnsDirectoriesNotFiles(t *testing.T) {
	l := ProjectInputListing{
		DependencyProtoSources: []SourceListing{
			{SourceRoot: "/dep/b", Files: []string{"b/x.proto", "b/y.proto"}},
			{SourceRoot: "/dep/a", Files: []string{"a/z.proto"}},
			{SourceRoot: "/dep/a", Files: []string{"a/z.proto"}},
		},
	}
	assert.Equal(t, []string{"/dep/a", "/dep/b"}, l.DependencyProtoSourceRoots())
}

func TestDependencyDescriptorSourceRoots_DedupsAndSorts(t *testing.T) {
	l := ProjectInputListing{
		DependencyDescriptorFiles: []DescriptorListing{
			{SourceRoot: "/dep/b", Files: []string{"b.desc"}},
			{SourceRoot: "/dep/a", Files: []string{"a.desc"}},
		},
	}
	assert.Equal(t, []string{"/dep/a", "/dep/b"}, l.DependencyDescriptorSourceRoots())
}

func TestDescriptorExtensions_RecognisesAllThree(t *testing.T) {
	for _, ext := range []string{".protobin", ".desc", ".pb"} {
		_, ok := DescriptorExtensions[ext]
		assert.True(t, ok, "expected %s to be recognised", ext)
	}
}
