package resolve

import (
	"archive/zip"
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/protoc-build/protocgen/internal/argfile"
	"github.com/protoc-build/protocgen/internal/artifact"
	"github.com/protoc-build/protocgen/internal/digest"
	"github.com/protoc-build/protocgen/internal/fsutil"
	"github.com/protoc-build/protocgen/internal/hostsys"
	"github.com/protoc-build/protocgen/internal/model"
	"github.com/protoc-build/protocgen/internal/platform"
	"github.com/protoc-build/protocgen/internal/uriresolve"
	"github.com/protoc-build/protocgen/internal/workpool"
)

// PluginResolver turns one of the four PluginConfig flavours (spec.md
// §4.6) into a uniformly-shaped, invocable ResolvedPlugin.
type PluginResolver struct {
	host      *hostsys.HostSystem
	artifacts *artifact.Adapter
	fetcher   *uriresolve.UriResourceFetcher
	execDir   string
	scriptDir string
}

// NewPluginResolver returns a resolver. execDir holds Maven- and
// URL-resolved plugin binaries; scriptDir holds generated JVM-plugin
// launcher scripts.
func NewPluginResolver(host *hostsys.HostSystem, artifacts *artifact.Adapter, fetcher *uriresolve.UriResourceFetcher, execDir, scriptDir string) *PluginResolver {
	return &PluginResolver{host: host, artifacts: artifacts, fetcher: fetcher, execDir: execDir, scriptDir: scriptDir}
}

// Resolve converts one PluginConfig into a ResolvedPlugin, or returns
// (zero, false, nil) when the plugin is optional/skipped and could not
// be (or need not be) resolved.
func (r *PluginResolver) Resolve(ctx context.Context, cfg model.PluginConfig) (model.ResolvedPlugin, bool, error) {
	switch {
	case cfg.Native != nil:
		return r.resolveNative(ctx, *cfg.Native)
	case cfg.JVM != nil:
		return r.resolveJVM(ctx, *cfg.JVM)
	case cfg.Path != nil:
		return r.resolvePath(*cfg.Path)
	case cfg.URL != nil:
		return r.resolveURL(ctx, *cfg.URL)
	default:
		return model.ResolvedPlugin{}, false, model.NewInvalidInputError("plugin configuration has no flavour set")
	}
}

// ResolveAll resolves every configured plugin concurrently, preserving
// input order in the result, and dropping entries that resolved to
// (zero, false, nil). Unlike a cancel-on-first-error fan-out, every
// plugin's failure is collected via multierr rather than discarding all
// but whichever goroutine happened to return first — a build with three
// broken plugin declarations reports all three in one error.
func (r *PluginResolver) ResolveAll(ctx context.Context, configs []model.PluginConfig) ([]model.ResolvedPlugin, error) {
	resolved := make([]model.ResolvedPlugin, len(configs))
	present := make([]bool, len(configs))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(workpool.Size())

	var (
		mu   sync.Mutex
		errs error
	)
	for i, cfg := range configs {
		i, cfg := i, cfg
		group.Go(func() error {
			plugin, ok, err := r.Resolve(groupCtx, cfg)
			if err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
				return nil
			}
			resolved[i] = plugin
			present[i] = ok
			return nil
		})
	}
	_ = group.Wait()
	if errs != nil {
		return nil, errs
	}

	out := make([]model.ResolvedPlugin, 0, len(configs))
	for i, ok := range present {
		if ok {
			out = append(out, resolved[i])
		}
	}
	return out, nil
}

func pluginID(path string) string {
	return digest.SHA1Hex(path)
}

func (r *PluginResolver) resolveNative(ctx context.Context, cfg model.NativePluginConfig) (model.ResolvedPlugin, bool, error) {
	if cfg.Skip {
		return model.ResolvedPlugin{}, false, nil
	}
	classifier, err := platform.ClassifyHost(r.host)
	if err != nil {
		return r.optionalFailure(cfg.Optional, cfg.Skip, err)
	}
	key := cfg.Artifact
	key.Classifier = classifier
	if key.Type == "" {
		key.Type = "exe"
	}
	ext := ""
	if r.host.OSFamily() == hostsys.OSWindows {
		ext = "exe"
	}
	path, err := r.artifacts.ResolveExecutable(ctx, key, r.execDir, ext)
	if err != nil {
		return r.optionalFailure(cfg.Optional, cfg.Skip, err)
	}
	return model.ResolvedPlugin{ID: pluginID(path), Path: path, Options: cfg.Options}, true, nil
}

func (r *PluginResolver) resolveJVM(ctx context.Context, cfg model.JVMPluginConfig) (model.ResolvedPlugin, bool, error) {
	if cfg.Skip {
		return model.ResolvedPlugin{}, false, nil
	}

	// spec.md §4.6: "Resolve the artifact and its transitive
	// compile-scope dependencies" — the launcher's classpath must carry
	// the whole graph, not just the plugin's own jar.
	deps := []model.Dependency{{Artifact: cfg.Artifact, Scope: model.ScopeCompile}}
	resolvedDeps, err := r.artifacts.ResolveDependencies(ctx, deps, model.DepthTransitive, model.DefaultMainScopes, false, nil)
	if err != nil {
		return r.optionalFailure(cfg.Optional, false, err)
	}

	rootKey := cfg.Artifact.DedupKey()
	var jarPath string
	classpath := make([]string, 0, len(resolvedDeps))
	for _, resolved := range resolvedDeps {
		classpath = append(classpath, resolved.Path)
		if resolved.Key.DedupKey() == rootKey {
			jarPath = resolved.Path
		}
	}
	if jarPath == "" {
		return r.optionalFailure(cfg.Optional, false, model.NewResolutionError(fmt.Errorf("artifact could not be resolved"), cfg.Artifact.String()))
	}

	mainClass := cfg.MainClass
	if mainClass == "" {
		mainClass, err = readJarMainClass(jarPath)
		if err != nil {
			return r.optionalFailure(cfg.Optional, false, err)
		}
	}

	scriptPath, err := r.writeJVMLauncher(jarPath, mainClass, classpath, cfg.JVMArgs, cfg.JVMConfigArgs)
	if err != nil {
		return r.optionalFailure(cfg.Optional, false, err)
	}
	return model.ResolvedPlugin{ID: pluginID(scriptPath), Path: scriptPath, Options: cfg.Options}, true, nil
}

func (r *PluginResolver) resolvePath(cfg model.PathPluginConfig) (model.ResolvedPlugin, bool, error) {
	if cfg.Skip {
		return model.ResolvedPlugin{}, false, nil
	}
	path, ok := FindOnSystemPath(r.host, cfg.Name)
	if !ok {
		return r.optionalFailure(cfg.Optional, false, model.NewNotFoundError(cfg.Name))
	}
	return model.ResolvedPlugin{ID: pluginID(path), Path: path, Options: cfg.Options}, true, nil
}

func (r *PluginResolver) resolveURL(ctx context.Context, cfg model.URLPluginConfig) (model.ResolvedPlugin, bool, error) {
	if cfg.Skip {
		return model.ResolvedPlugin{}, false, nil
	}
	path, err := r.fetcher.Fetch(ctx, cfg.URI, "", true)
	if err != nil {
		return r.optionalFailure(cfg.Optional, false, err)
	}
	return model.ResolvedPlugin{ID: pluginID(path), Path: path, Options: cfg.Options}, true, nil
}

func (r *PluginResolver) optionalFailure(optional, skip bool, err error) (model.ResolvedPlugin, bool, error) {
	if skip || optional {
		return model.ResolvedPlugin{}, false, nil
	}
	return model.ResolvedPlugin{}, false, err
}

// writeJVMLauncher emits a shell (POSIX) or batch (Windows) script that
// execs java against the full classpath and mainClass, and returns its
// path. Per spec.md §4.6, the classpath and main class are forwarded to
// java via a Java argument file (@argsfile) rather than placed directly
// on the command line, so a large transitive classpath never risks the
// platform's command-line length limit.
func (r *PluginResolver) writeJVMLauncher(jarPath, mainClass string, classpath, jvmArgs, jvmConfigArgs []string) (string, error) {
	if err := os.MkdirAll(r.scriptDir, 0o755); err != nil {
		return "", model.NewIoError(r.scriptDir, err)
	}
	baseName := "protoc-gen-" + pluginID(jarPath)[:12]

	argsPath := filepath.Join(r.scriptDir, baseName+"-args.txt")
	if err := argfile.Write(argsPath, argfile.JavaClasspathArgs(classpath, mainClass, jvmConfigArgs)); err != nil {
		return "", err
	}

	var (
		name string
		body string
	)
	if r.host.OSFamily() == hostsys.OSWindows {
		name = baseName + ".bat"
		body = "@echo off\r\n" +
			"java " + strings.Join(jvmArgs, " ") + " @\"" + argsPath + "\" %*\r\n"
	} else {
		name = baseName + ".sh"
		body = "#!/bin/sh\n" +
			"exec java " + strings.Join(jvmArgs, " ") + " @'" + argsPath + "' \"$@\"\n"
	}

	scriptPath := filepath.Join(r.scriptDir, name)
	if err := os.WriteFile(scriptPath, []byte(body), 0o644); err != nil {
		return "", model.NewIoError(scriptPath, err)
	}
	if err := fsutil.MakeExecutable(scriptPath); err != nil {
		return "", err
	}
	return scriptPath, nil
}

// readJarMainClass reads the Main-Class attribute out of a jar's
// META-INF/MANIFEST.MF, for JVM plugins that don't declare MainClass
// explicitly.
func readJarMainClass(jarPath string) (string, error) {
	reader, err := zip.OpenReader(jarPath)
	if err != nil {
		return "", model.NewIoError(jarPath, err)
	}
	defer reader.Close()

	for _, f := range reader.File {
		if f.Name != "META-INF/MANIFEST.MF" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", model.NewIoError(jarPath, err)
		}
		defer rc.Close()

		scanner := bufio.NewScanner(rc)
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "Main-Class:") {
				return strings.TrimSpace(strings.TrimPrefix(line, "Main-Class:")), nil
			}
		}
		return "", model.NewInvalidInputError("jar %s manifest has no Main-Class attribute", jarPath)
	}
	return "", model.NewInvalidInputError("jar %s has no META-INF/MANIFEST.MF", jarPath)
}
