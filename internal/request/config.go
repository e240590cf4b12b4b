// Package request loads a GenerationRequest from a YAML configuration
// file, the CLI's external interface (spec.md §6), the way the teacher's
// own generation config is decoded from YAML via gopkg.in/yaml.v3.
package request

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/protoc-build/protocgen/internal/model"
)

// Config is the YAML-facing shape of a GenerationRequest. Field names
// are chosen to read naturally as YAML keys; Load translates this into
// the engine's internal model.GenerationRequest.
type Config struct {
	Protoc string `yaml:"protoc"`

	SourceDirectories     []string         `yaml:"sourceDirectories"`
	SourceDependencies    []DependencyYAML `yaml:"sourceDependencies"`
	ImportPaths           []string         `yaml:"importPaths"`
	ImportDependencies    []DependencyYAML `yaml:"importDependencies"`
	SourceDescriptorPaths []string         `yaml:"sourceDescriptorPaths"`
	SourceDescriptorDependencies []DependencyYAML `yaml:"sourceDescriptorDependencies"`

	OutputDirectory string `yaml:"outputDirectory"`

	Plugins          []PluginYAML `yaml:"plugins"`
	EnabledLanguages []string     `yaml:"enabledLanguages"`
	LiteEnabled      bool         `yaml:"liteEnabled"`
	FatalWarnings    bool         `yaml:"fatalWarnings"`

	IncrementalCompilationEnabled *bool `yaml:"incrementalCompilationEnabled"`

	OutputDescriptorFile                 string `yaml:"outputDescriptorFile"`
	OutputDescriptorIncludeImports       bool   `yaml:"outputDescriptorIncludeImports"`
	OutputDescriptorIncludeSourceInfo    bool   `yaml:"outputDescriptorIncludeSourceInfo"`
	OutputDescriptorRetainOptions        bool   `yaml:"outputDescriptorRetainOptions"`
	OutputDescriptorAttached             bool   `yaml:"outputDescriptorAttached"`
	OutputDescriptorAttachmentType       string `yaml:"outputDescriptorAttachmentType"`
	OutputDescriptorAttachmentClassifier string `yaml:"outputDescriptorAttachmentClassifier"`

	DependencyScopes []string `yaml:"dependencyScopes"`

	FailOnMissingSources      bool `yaml:"failOnMissingSources"`
	FailOnMissingTargets      bool `yaml:"failOnMissingTargets"`
	FailOnInvalidDependencies bool `yaml:"failOnInvalidDependencies"`

	RegisterAsCompilationRoot bool `yaml:"registerAsCompilationRoot"`
	EmbedSourcesInClassOutputs bool `yaml:"embedSourcesInClassOutputs"`

	SanctionedExecutablePath string `yaml:"sanctionedExecutablePath"`
}

// ArtifactYAML mirrors model.ArtifactKey.
type ArtifactYAML struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	Version    string `yaml:"version"`
	Classifier string `yaml:"classifier"`
	Type       string `yaml:"type"`
}

func (a ArtifactYAML) toModel() model.ArtifactKey {
	return model.ArtifactKey{GroupID: a.GroupID, ArtifactID: a.ArtifactID, Version: a.Version, Classifier: a.Classifier, Type: a.Type}
}

// ExclusionYAML mirrors model.Exclusion.
type ExclusionYAML struct {
	GroupID    string `yaml:"groupId"`
	ArtifactID string `yaml:"artifactId"`
	Classifier string `yaml:"classifier"`
	Type       string `yaml:"type"`
}

func (e ExclusionYAML) toModel() model.Exclusion {
	return model.Exclusion{GroupID: e.GroupID, ArtifactID: e.ArtifactID, Classifier: e.Classifier, Type: e.Type}
}

// DependencyYAML mirrors model.Dependency.
type DependencyYAML struct {
	Artifact   ArtifactYAML    `yaml:"artifact"`
	Scope      string          `yaml:"scope"`
	Exclusions []ExclusionYAML `yaml:"exclusions"`
	Depth      string          `yaml:"depth"`
}

func (d DependencyYAML) toModel() model.Dependency {
	exclusions := make([]model.Exclusion, len(d.Exclusions))
	for i, e := range d.Exclusions {
		exclusions[i] = e.toModel()
	}
	scope := model.Scope(d.Scope)
	if scope == "" {
		scope = model.ScopeCompile
	}
	return model.Dependency{
		Artifact:   d.Artifact.toModel(),
		Scope:      scope,
		Exclusions: exclusions,
		Depth:      parseDepth(d.Depth),
	}
}

func parseDepth(s string) model.ResolutionDepth {
	switch s {
	case "direct":
		return model.DepthDirect
	case "transitive":
		return model.DepthTransitive
	default:
		return model.DepthInherit
	}
}

// PluginYAML is the tagged-union YAML shape of a plugin entry: exactly
// one of native/jvm/path/url should be set.
type PluginYAML struct {
	Native *struct {
		Artifact ArtifactYAML `yaml:"artifact"`
		Options  string       `yaml:"options"`
		Optional bool         `yaml:"optional"`
		Skip     bool         `yaml:"skip"`
	} `yaml:"native"`
	JVM *struct {
		Artifact      ArtifactYAML `yaml:"artifact"`
		Options       string       `yaml:"options"`
		MainClass     string       `yaml:"mainClass"`
		JVMArgs       []string     `yaml:"jvmArgs"`
		JVMConfigArgs []string     `yaml:"jvmConfigArgs"`
		Optional      bool         `yaml:"optional"`
		Skip          bool         `yaml:"skip"`
	} `yaml:"jvm"`
	Path *struct {
		Name     string `yaml:"name"`
		Options  string `yaml:"options"`
		Optional bool   `yaml:"optional"`
		Skip     bool   `yaml:"skip"`
	} `yaml:"path"`
	URL *struct {
		URI      string `yaml:"uri"`
		Options  string `yaml:"options"`
		Optional bool   `yaml:"optional"`
		Skip     bool   `yaml:"skip"`
	} `yaml:"url"`
}

func (p PluginYAML) toModel() (model.PluginConfig, error) {
	switch {
	case p.Native != nil:
		return model.PluginConfig{Native: &model.NativePluginConfig{
			Artifact: p.Native.Artifact.toModel(), Options: p.Native.Options, Optional: p.Native.Optional, Skip: p.Native.Skip,
		}}, nil
	case p.JVM != nil:
		return model.PluginConfig{JVM: &model.JVMPluginConfig{
			Artifact: p.JVM.Artifact.toModel(), Options: p.JVM.Options, MainClass: p.JVM.MainClass,
			JVMArgs: p.JVM.JVMArgs, JVMConfigArgs: p.JVM.JVMConfigArgs, Optional: p.JVM.Optional, Skip: p.JVM.Skip,
		}}, nil
	case p.Path != nil:
		return model.PluginConfig{Path: &model.PathPluginConfig{
			Name: p.Path.Name, Options: p.Path.Options, Optional: p.Path.Optional, Skip: p.Path.Skip,
		}}, nil
	case p.URL != nil:
		return model.PluginConfig{URL: &model.URLPluginConfig{
			URI: p.URL.URI, Options: p.URL.Options, Optional: p.URL.Optional, Skip: p.URL.Skip,
		}}, nil
	default:
		return model.PluginConfig{}, model.NewInvalidInputError("plugin entry has no native/jvm/path/url key set")
	}
}

// Load reads and decodes a GenerationRequest from a YAML file at path.
func Load(path string) (model.GenerationRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.GenerationRequest{}, model.NewIoError(path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return model.GenerationRequest{}, model.NewInvalidInputError("%s: %v", path, err)
	}
	return cfg.toRequest()
}

func (c Config) toRequest() (model.GenerationRequest, error) {
	plugins := make([]model.PluginConfig, len(c.Plugins))
	for i, p := range c.Plugins {
		resolved, err := p.toModel()
		if err != nil {
			return model.GenerationRequest{}, err
		}
		plugins[i] = resolved
	}

	languages := make([]model.Language, len(c.EnabledLanguages))
	for i, l := range c.EnabledLanguages {
		languages[i] = model.Language(l)
	}

	scopes := make([]model.Scope, len(c.DependencyScopes))
	for i, s := range c.DependencyScopes {
		scopes[i] = model.Scope(s)
	}

	incremental := true
	if c.IncrementalCompilationEnabled != nil {
		incremental = *c.IncrementalCompilationEnabled
	}

	return model.GenerationRequest{
		Protoc:                       c.Protoc,
		SourceDirectories:            c.SourceDirectories,
		SourceDependencies:           depSlice(c.SourceDependencies),
		ImportPaths:                  c.ImportPaths,
		ImportDependencies:           depSlice(c.ImportDependencies),
		SourceDescriptorPaths:        c.SourceDescriptorPaths,
		SourceDescriptorDependencies: depSlice(c.SourceDescriptorDependencies),
		OutputDirectory:              c.OutputDirectory,
		Plugins:                      plugins,
		EnabledLanguages:             languages,
		LiteEnabled:                  c.LiteEnabled,
		FatalWarnings:                c.FatalWarnings,
		IncrementalCompilationEnabled: incremental,
		OutputDescriptorFile:                  c.OutputDescriptorFile,
		OutputDescriptorIncludeImports:        c.OutputDescriptorIncludeImports,
		OutputDescriptorIncludeSourceInfo:     c.OutputDescriptorIncludeSourceInfo,
		OutputDescriptorRetainOptions:         c.OutputDescriptorRetainOptions,
		OutputDescriptorAttached:              c.OutputDescriptorAttached,
		OutputDescriptorAttachmentType:        c.OutputDescriptorAttachmentType,
		OutputDescriptorAttachmentClassifier:  c.OutputDescriptorAttachmentClassifier,
		DependencyScopes:             scopes,
		FailOnMissingSources:         model.FailurePolicy(c.FailOnMissingSources),
		FailOnMissingTargets:         model.FailurePolicy(c.FailOnMissingTargets),
		FailOnInvalidDependencies:    model.FailurePolicy(c.FailOnInvalidDependencies),
		RegisterAsCompilationRoot:    c.RegisterAsCompilationRoot,
		EmbedSourcesInClassOutputs:   c.EmbedSourcesInClassOutputs,
		SanctionedExecutablePath:     c.SanctionedExecutablePath,
	}, nil
}

func depSlice(entries []DependencyYAML) []model.Dependency {
	out := make([]model.Dependency, len(entries))
	for i, e := range entries {
		out[i] = e.toModel()
	}
	return out
}
