// Package orchestrator implements BuildOrchestrator (spec.md §4.1): the
// top-level sequencing of protoc resolution, plugin resolution, project
// input discovery, incremental pruning, optional executable relocation,
// invocation assembly, and execution.
package orchestrator

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/protoc-build/protocgen/internal/fsutil"
	"github.com/protoc-build/protocgen/internal/hostsys"
	"github.com/protoc-build/protocgen/internal/incremental"
	"github.com/protoc-build/protocgen/internal/invocation"
	"github.com/protoc-build/protocgen/internal/model"
	"github.com/protoc-build/protocgen/internal/projectinput"
	"github.com/protoc-build/protocgen/internal/protocexec"
	"github.com/protoc-build/protocgen/internal/resolve"
	"github.com/protoc-build/protocgen/internal/sanctioned"
)

// SourceRootRegistrar is the out-of-scope collaborator that attaches a
// directory of generated sources to the surrounding build's compilation
// phase (spec.md §1).
type SourceRootRegistrar interface {
	RegisterSourceRoot(path string) error
}

// OutputAttachmentRegistrar is the out-of-scope collaborator that
// attaches a generated descriptor-set file to the build's artifact
// output, under the given classifier/type (spec.md §1).
type OutputAttachmentRegistrar interface {
	AttachOutput(path, attachmentType, classifier string) error
}

// Orchestrator wires every component (A-M) into the generate() sequence.
type Orchestrator struct {
	Host              *hostsys.HostSystem
	ProtocResolver    *resolve.ProtocResolver
	PluginResolver    *resolve.PluginResolver
	ProjectInputs     *projectinput.Resolver
	TempSpace         *fsutil.TemporarySpace
	Executor          *protocexec.Executor
	Sanctioned        *sanctioned.Transformer
	SourceRoots       SourceRootRegistrar
	OutputAttachments OutputAttachmentRegistrar
	Logger            *zap.Logger
}

// Generate runs the full sequence of spec.md §4.1 and returns the
// outcome of one GenerationRequest.
func (o *Orchestrator) Generate(ctx context.Context, req model.GenerationRequest) (model.GenerationResult, error) {
	if req.HasNoSourceInputsDeclared() {
		if bool(req.FailOnMissingSources) {
			return model.NoSources, nil
		}
		return model.NothingToDo, nil
	}

	protocPath, err := o.ProtocResolver.Resolve(ctx, req.Protoc)
	if err != nil {
		return 0, err
	}

	plugins, err := o.PluginResolver.ResolveAll(ctx, req.Plugins)
	if err != nil {
		return 0, err
	}

	listing, err := o.ProjectInputs.Resolve(ctx, req)
	if err != nil {
		return 0, err
	}

	if !listing.HasCompilableInputs() {
		if bool(req.FailOnMissingSources) {
			return model.NoSources, nil
		}
		return model.NothingToDo, nil
	}

	targets := buildTargets(req, plugins)
	if len(targets) == 0 {
		if bool(req.FailOnMissingTargets) {
			return model.NoTargets, nil
		}
		return model.NothingToDo, nil
	}

	if strings.EqualFold(filepath.Ext(req.OutputDirectory), ".jar") {
		return 0, model.NewInvalidInputError("output directory %q must not end in .jar", req.OutputDirectory)
	}
	if err := os.MkdirAll(req.OutputDirectory, 0o755); err != nil {
		return 0, model.NewIoError(req.OutputDirectory, err)
	}

	if o.SourceRoots != nil && bool(req.RegisterAsCompilationRoot) {
		if err := o.SourceRoots.RegisterSourceRoot(req.OutputDirectory); err != nil {
			return 0, err
		}
	}

	incrementalEnabled := req.IncrementalCompilationEnabled && req.OutputDescriptorFile == ""
	protocDir, err := o.TempSpace.Dir("protoc")
	if err != nil {
		return 0, model.NewIoError(protocDir, err)
	}

	var toCompile model.FilesToCompile
	var cache *incremental.Cache
	if incrementalEnabled {
		cache, err = incremental.Load(o.TempSpace.Root())
		if err != nil {
			return 0, err
		}
		toCompile, err = cache.DetermineSourcesToCompile(listing)
		if err != nil {
			return 0, err
		}
		if toCompile.Empty() {
			if err := cache.Persist(); err != nil {
				return 0, err
			}
			return model.NothingToDo, nil
		}
	} else {
		toCompile = model.FilesToCompile{
			ProtoSources:    listing.AllCompilableProtoFiles(),
			DescriptorFiles: listing.AllCompilableDescriptorFiles(),
		}
	}

	if len(toCompile.ProtoSources) > 0 && len(toCompile.DescriptorFiles) > 0 && o.Logger != nil {
		o.Logger.Warn("proto sources and descriptor sets are both passed to one protoc invocation; how protoc treats this combination is implementation-defined",
			zap.Int("protoSources", len(toCompile.ProtoSources)),
			zap.Int("descriptorFiles", len(toCompile.DescriptorFiles)))
	}

	builder := invocation.NewBuilder(func() (string, error) { return protocDir, nil })
	inv, err := builder.Build(
		protocPath,
		req.FatalWarnings,
		targets,
		toCompile.ProtoSources,
		listing.DependencyProtoSourceRoots(),
		toCompile.DescriptorFiles,
		req.SanctionedExecutablePath,
		nil,
	)
	if err != nil {
		return 0, err
	}

	if o.Sanctioned != nil && req.SanctionedExecutablePath != "" {
		inv, err = o.Sanctioned.Transform(inv)
		if err != nil {
			return 0, err
		}
	}

	result, err := o.Executor.Run(ctx, inv)
	if err != nil {
		return 0, err
	}
	if !result.Succeeded {
		return model.ProtocFailed, nil
	}

	if incrementalEnabled {
		if err := cache.Persist(); err != nil {
			return 0, err
		}
	}

	if o.OutputAttachments != nil && req.OutputDescriptorAttached && req.OutputDescriptorFile != "" {
		if err := o.OutputAttachments.AttachOutput(req.OutputDescriptorFile, req.OutputDescriptorAttachmentType, req.OutputDescriptorAttachmentClassifier); err != nil {
			return 0, err
		}
	}

	if req.EmbedSourcesInClassOutputs {
		if err := embedSources(listing.AllCompilableProtoFiles(), req.OutputDirectory); err != nil {
			return 0, err
		}
	}

	return model.ProtocSucceeded, nil
}

// buildTargets assembles the protoc target set from enabled languages,
// resolved plugins, and descriptor-set output settings, all sharing
// order 0 (GenerationRequest carries no per-target ordering override).
func buildTargets(req model.GenerationRequest, plugins []model.ResolvedPlugin) []model.ProtocTarget {
	var targets []model.ProtocTarget
	for _, lang := range req.EnabledLanguages {
		targets = append(targets, model.NewLanguageTarget(lang, req.OutputDirectory, req.LiteEnabled, 0))
	}
	for _, plugin := range plugins {
		targets = append(targets, model.NewPluginTarget(plugin, req.OutputDirectory, 0))
	}
	if req.OutputDescriptorFile != "" {
		targets = append(targets, model.NewDescriptorSetTarget(
			req.OutputDescriptorFile,
			req.OutputDescriptorIncludeImports,
			req.OutputDescriptorIncludeSourceInfo,
			req.OutputDescriptorRetainOptions,
			0,
		))
	}
	return targets
}

// embedSources copies every compiled .proto file next to the generated
// class output tree, so downstream runtime reflection can locate the
// original source alongside its compiled class.
func embedSources(protoFiles []string, outputDir string) error {
	for _, src := range protoFiles {
		dest := filepath.Join(outputDir, filepath.Base(src))
		if err := copyFile(src, dest); err != nil {
			return model.NewIoError(dest, err)
		}
	}
	return nil
}

func copyFile(srcPath, destPath string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	dest, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dest, src); err != nil {
		dest.Close()
		return err
	}
	return dest.Close()
}
