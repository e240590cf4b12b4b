package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/protoc-build/protocgen/internal/model"
)

func TestGenerate_NoSourceInputsDeclared(t *testing.T) {
	o := &Orchestrator{}

	result, err := o.Generate(context.Background(), model.GenerationRequest{FailOnMissingSources: model.PolicyFail})
	require.NoError(t, err)
	assert.Equal(t, model.NoSources, result)

	result, err = o.Generate(context.Background(), model.GenerationRequest{FailOnMissingSources: model.PolicySkip})
	require.NoError(t, err)
	assert.Equal(t, model.NothingToDo, result)
}

func TestBuildTargets_LanguagesPluginsAndDescriptorSet(t *testing.T) {
	req := model.GenerationRequest{
		OutputDirectory:     "/out",
		EnabledLanguages:    []model.Language{model.LanguageJava, model.LanguageCPP},
		OutputDescriptorFile: "/out/descriptor.protobin",
	}
	plugins := []model.ResolvedPlugin{{ID: "grpc", Path: "/plugins/grpc"}}

	targets := buildTargets(req, plugins)
	require.Len(t, targets, 4)

	var sawDescriptor bool
	for _, target := range targets {
		if _, ok := target.(model.DescriptorSetTarget); ok {
			sawDescriptor = true
		}
	}
	assert.True(t, sawDescriptor)
}
