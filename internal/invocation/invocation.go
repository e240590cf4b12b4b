// Package invocation implements ProtocInvocationBuilder (spec.md §4.9):
// assembling a single protoc call — argument file, proto paths, and
// descriptor inputs — from a resolved protoc binary, resolved plugins,
// sorted targets, and the gathered project inputs.
package invocation

import (
	"fmt"
	"path/filepath"

	"github.com/protoc-build/protocgen/internal/argfile"
	"github.com/protoc-build/protocgen/internal/model"
)

// languageFlags maps a Language to the protoc built-in generator flag
// name used in --<flag>_out.
var languageFlags = map[model.Language]string{
	model.LanguageJava:   "java",
	model.LanguageKotlin: "kotlin",
	model.LanguageCPP:    "cpp",
	model.LanguageCSharp: "csharp",
	model.LanguageObjC:   "objc",
	model.LanguagePHP:    "php",
	model.LanguagePython: "python",
	model.LanguagePyi:    "pyi",
	model.LanguageRuby:   "ruby",
	model.LanguageRust:   "rust",
}

// ProtocInvocation is a fully-assembled protoc call, ready for
// ProtocExecutor to spawn.
type ProtocInvocation struct {
	ProtocPath             string
	FatalWarnings          bool
	Arguments              []string
	Environment            map[string]string
	ImportPaths            []string
	InputDescriptorFiles   []string
	DescriptorSourceFiles  []string
	SourcePaths            []string
	Targets                []model.ProtocTarget
	SanctionedExecutablePath string
	ArgsFilePath           string
}

// Builder constructs ProtocInvocations.
type Builder struct {
	tempSpaceProtocDir func() (string, error)
}

// NewBuilder returns a Builder. protocDir returns (creating if needed)
// the directory the argument file is written under.
func NewBuilder(protocDir func() (string, error)) *Builder {
	return &Builder{tempSpaceProtocDir: protocDir}
}

// Build assembles a ProtocInvocation and writes its argument file to
// <tempSpace>/protoc/args.txt.
func (b *Builder) Build(
	protocPath string,
	fatalWarnings bool,
	targets []model.ProtocTarget,
	sourcePaths []string,
	importPaths []string,
	inputDescriptorFiles []string,
	sanctionedExecutablePath string,
	environment map[string]string,
) (ProtocInvocation, error) {
	sorted := append([]model.ProtocTarget{}, targets...)
	model.SortTargets(sorted)

	tokens := buildTokens(fatalWarnings, sorted, sourcePaths, importPaths)

	dir, err := b.tempSpaceProtocDir()
	if err != nil {
		return ProtocInvocation{}, err
	}
	argsPath := filepath.Join(dir, "args.txt")
	if err := argfile.Write(argsPath, tokens); err != nil {
		return ProtocInvocation{}, err
	}

	var descriptorSourceFiles []string
	for _, t := range sorted {
		if ds, ok := t.(model.DescriptorSetTarget); ok {
			descriptorSourceFiles = append(descriptorSourceFiles, ds.OutputFile)
		}
	}

	return ProtocInvocation{
		ProtocPath:               protocPath,
		FatalWarnings:            fatalWarnings,
		Arguments:                tokens,
		Environment:              environment,
		ImportPaths:              importPaths,
		InputDescriptorFiles:     inputDescriptorFiles,
		DescriptorSourceFiles:    descriptorSourceFiles,
		SourcePaths:              sourcePaths,
		Targets:                  sorted,
		SanctionedExecutablePath: sanctionedExecutablePath,
		ArgsFilePath:             argsPath,
	}, nil
}

// RewriteArgsFile recomputes Arguments from inv's current Targets,
// SourcePaths and ImportPaths and rewrites ArgsFilePath on disk,
// returning the updated invocation. Callers that mutate Targets after
// Build — SanctionedExecutableTransformer relocating plugin binaries,
// for instance — must call this before the invocation is executed, or
// protoc will read stale, pre-relocation paths from the argument file.
func RewriteArgsFile(inv ProtocInvocation) (ProtocInvocation, error) {
	tokens := buildTokens(inv.FatalWarnings, inv.Targets, inv.SourcePaths, inv.ImportPaths)
	if err := argfile.Write(inv.ArgsFilePath, tokens); err != nil {
		return ProtocInvocation{}, err
	}
	inv.Arguments = tokens
	return inv, nil
}

// buildTokens renders the argument file content in the exact order
// spec.md §4.9 requires.
func buildTokens(fatalWarnings bool, sortedTargets []model.ProtocTarget, sourcePaths, importPaths []string) []string {
	var tokens []string
	if fatalWarnings {
		tokens = append(tokens, "--fatal_warnings")
	}

	for _, target := range sortedTargets {
		switch t := target.(type) {
		case model.LanguageTarget:
			flag := languageFlags[t.Lang]
			tokens = append(tokens, fmt.Sprintf("--%s_out=%s", flag, t.OutSpec()))
		case model.PluginTarget:
			tokens = append(tokens,
				fmt.Sprintf("--plugin=protoc-gen-%s=%s", t.Plugin.ID, t.Plugin.Path),
				fmt.Sprintf("--%s_out=%s", t.Plugin.ID, t.OutputPath),
			)
			if t.Plugin.Options != "" {
				tokens = append(tokens, fmt.Sprintf("--%s_opt=%s", t.Plugin.ID, t.Plugin.Options))
			}
		case model.DescriptorSetTarget:
			tokens = append(tokens, fmt.Sprintf("--descriptor_set_out=%s", t.OutputFile))
			if t.IncludeImports {
				tokens = append(tokens, "--include_imports")
			}
			if t.IncludeSourceInfo {
				tokens = append(tokens, "--include_source_info")
			}
			if t.RetainOptions {
				tokens = append(tokens, "--retain_options")
			}
		}
	}

	tokens = append(tokens, sourcePaths...)

	for _, path := range importPaths {
		tokens = append(tokens, fmt.Sprintf("--proto_path=%s", path))
	}

	return tokens
}
