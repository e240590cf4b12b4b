package model

import "fmt"

// ResolvedPlugin is a uniformly-shaped, ready-to-invoke protoc plugin,
// regardless of which of the three flavours in spec.md §4.6 produced it.
type ResolvedPlugin struct {
	ID      string // stable identifier derived from a digest of Path; used to form --plugin=protoc-gen-<id>=<path> and --<id>_out/--<id>_opt
	Path    string
	Options string
}

func (p ResolvedPlugin) String() string {
	return fmt.Sprintf("plugin(%s)=%s", p.ID, p.Path)
}

// Language is a canonical protoc built-in generator name.
type Language string

const (
	LanguageJava   Language = "java"
	LanguageKotlin Language = "kotlin"
	LanguageCPP    Language = "cpp"
	LanguageCSharp Language = "csharp"
	LanguageObjC   Language = "objc"
	LanguagePHP    Language = "php"
	LanguagePython Language = "python"
	LanguagePyi    Language = "pyi"
	LanguageRuby   Language = "ruby"
	LanguageRust   Language = "rust"
)

// ProtocTarget is a tagged variant of what a single protoc invocation
// produces: a built-in language generator, a plugin, or a descriptor set.
// Implementations are totally ordered per spec.md §3: primarily by Order,
// secondarily by String.
type ProtocTarget interface {
	fmt.Stringer
	Order() int
}

// LanguageTarget invokes a protoc built-in generator.
type LanguageTarget struct {
	Lang       Language
	OutputPath string
	Lite       bool
	order      int
}

func NewLanguageTarget(lang Language, outputPath string, lite bool, order int) LanguageTarget {
	return LanguageTarget{Lang: lang, OutputPath: outputPath, Lite: lite, order: order}
}

func (t LanguageTarget) Order() int { return t.order }

func (t LanguageTarget) String() string {
	if t.Lite {
		return fmt.Sprintf("language(%s,lite:%s)", t.Lang, t.OutputPath)
	}
	return fmt.Sprintf("language(%s,%s)", t.Lang, t.OutputPath)
}

// OutSpec renders the value of --<lang>_out, prefixed with "lite:" when
// Lite is set.
func (t LanguageTarget) OutSpec() string {
	if t.Lite {
		return "lite:" + t.OutputPath
	}
	return t.OutputPath
}

// PluginTarget invokes a resolved plugin.
type PluginTarget struct {
	Plugin     ResolvedPlugin
	OutputPath string
	order      int
}

func NewPluginTarget(plugin ResolvedPlugin, outputPath string, order int) PluginTarget {
	return PluginTarget{Plugin: plugin, OutputPath: outputPath, order: order}
}

func (t PluginTarget) Order() int { return t.order }

func (t PluginTarget) String() string {
	return fmt.Sprintf("plugin(%s,%s)", t.Plugin.ID, t.OutputPath)
}

// DescriptorSetTarget requests a serialized FileDescriptorSet via
// --descriptor_set_out.
type DescriptorSetTarget struct {
	OutputFile        string
	IncludeImports    bool
	IncludeSourceInfo bool
	RetainOptions     bool
	order             int
}

func NewDescriptorSetTarget(outputFile string, includeImports, includeSourceInfo, retainOptions bool, order int) DescriptorSetTarget {
	return DescriptorSetTarget{
		OutputFile:        outputFile,
		IncludeImports:    includeImports,
		IncludeSourceInfo: includeSourceInfo,
		RetainOptions:     retainOptions,
		order:             order,
	}
}

func (t DescriptorSetTarget) Order() int { return t.order }

func (t DescriptorSetTarget) String() string {
	return fmt.Sprintf("descriptorSet(%s)", t.OutputFile)
}

// SortTargets orders targets per spec.md §3: primarily by Order,
// secondarily by String, in place. It returns the same slice for
// convenience.
func SortTargets(targets []ProtocTarget) []ProtocTarget {
	insertionSortTargets(targets)
	return targets
}

// insertionSortTargets avoids pulling in sort.Slice's reflection-based
// comparator for a list that is always small (a handful of targets per
// invocation) and must be stable and allocation-free at comparison time.
func insertionSortTargets(targets []ProtocTarget) {
	for i := 1; i < len(targets); i++ {
		j := i
		for j > 0 && targetLess(targets[j], targets[j-1]) {
			targets[j], targets[j-1] = targets[j-1], targets[j]
			j--
		}
	}
}

func targetLess(a, b ProtocTarget) bool {
	if a.Order() != b.Order() {
		return a.Order() < b.Order()
	}
	return a.String() < b.String()
}
