// Package resolve implements ProtocResolver and PluginResolver (spec.md
// §4.6): turning a version string, a "PATH" literal, a URI, or a local
// file path into an executable file ready to be invoked, and the four
// plugin-configuration flavours into uniformly-shaped ResolvedPlugins.
package resolve

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/protoc-build/protocgen/internal/artifact"
	"github.com/protoc-build/protocgen/internal/fsutil"
	"github.com/protoc-build/protocgen/internal/hostsys"
	"github.com/protoc-build/protocgen/internal/model"
	"github.com/protoc-build/protocgen/internal/platform"
	"github.com/protoc-build/protocgen/internal/uriresolve"
)

const protocGroupID = "com.google.protobuf"
const protocArtifactID = "protoc"

var versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+){0,3}(-[A-Za-z0-9.]+)?$`)

// ProtocResolver resolves the Protoc field of a GenerationRequest into a
// local, executable protoc binary.
type ProtocResolver struct {
	host      *hostsys.HostSystem
	artifacts *artifact.Adapter
	fetcher   *uriresolve.UriResourceFetcher
	execDir   string
}

// NewProtocResolver returns a resolver. execDir is where Maven- and
// URI-resolved binaries are materialised as executables.
func NewProtocResolver(host *hostsys.HostSystem, artifacts *artifact.Adapter, fetcher *uriresolve.UriResourceFetcher, execDir string) *ProtocResolver {
	return &ProtocResolver{host: host, artifacts: artifacts, fetcher: fetcher, execDir: execDir}
}

// Resolve turns spec (a version, "PATH", a URI, or a local path) into an
// executable protoc binary path, per spec.md §4.6's "protoc resolution"
// table.
func (r *ProtocResolver) Resolve(ctx context.Context, spec string) (string, error) {
	switch {
	case strings.EqualFold(spec, "latest"):
		return "", model.NewInvalidInputError("protoc version %q is not accepted; name an exact version", spec)

	case spec == "PATH":
		path, ok := FindOnSystemPath(r.host, "protoc")
		if !ok {
			return "", model.NewNotFoundError("protoc on PATH")
		}
		return path, nil

	case strings.Contains(spec, "://"):
		ext := ""
		if r.host.OSFamily() == hostsys.OSWindows {
			ext = "exe"
		}
		path, err := r.fetcher.Fetch(ctx, spec, ext, true)
		if err != nil {
			return "", err
		}
		return path, nil

	case versionPattern.MatchString(spec):
		classifier, err := platform.ClassifyHost(r.host)
		if err != nil {
			return "", err
		}
		key := model.ArtifactKey{
			GroupID:    protocGroupID,
			ArtifactID: protocArtifactID,
			Version:    spec,
			Classifier: classifier,
			Type:       "exe",
		}
		ext := ""
		if r.host.OSFamily() == hostsys.OSWindows {
			ext = "exe"
		}
		return r.artifacts.ResolveExecutable(ctx, key, r.execDir, ext)

	default:
		if _, err := os.Stat(spec); err != nil {
			return "", model.NewNotFoundError(spec)
		}
		if err := fsutil.MakeExecutable(spec); err != nil {
			return "", model.NewIoError(spec, err)
		}
		return spec, nil
	}
}
