// Package sanctioned implements SanctionedExecutableTransformer (spec.md
// §4.10): relocating every executable a ProtocInvocation references into
// an organisation-controlled directory tree before the subprocess runs,
// for environments that refuse to exec binaries outside a sanctioned
// path allow-list.
package sanctioned

import (
	"fmt"
	"path/filepath"

	"github.com/protoc-build/protocgen/internal/fsutil"
	"github.com/protoc-build/protocgen/internal/invocation"
	"github.com/protoc-build/protocgen/internal/model"
)

// Transformer relocates executables under sanctionedPath, organised as
// <sanctionedPath>/<groupId>/<artifactId>/.
type Transformer struct {
	groupID    string
	artifactID string
}

// NewTransformer scopes relocated executables under the given group and
// artifact identity (the consuming project's own coordinates).
func NewTransformer(groupID, artifactID string) *Transformer {
	return &Transformer{groupID: groupID, artifactID: artifactID}
}

// Transform copies inv.ProtocPath and every plugin target's executable
// into <inv.SanctionedExecutablePath>/<groupId>/<artifactId>/, naming
// them "protoc-<origName>" and "plugin-<index>-<origName>" respectively,
// and returns a new ProtocInvocation referencing the relocated paths.
// The original executables are left untouched. If
// SanctionedExecutablePath is unset, inv is returned as-is.
func (t *Transformer) Transform(inv invocation.ProtocInvocation) (invocation.ProtocInvocation, error) {
	if inv.SanctionedExecutablePath == "" {
		return inv, nil
	}

	destDir := filepath.Join(inv.SanctionedExecutablePath, t.groupID, t.artifactID)

	relocatedProtoc, err := relocate(inv.ProtocPath, destDir, "protoc-"+filepath.Base(inv.ProtocPath))
	if err != nil {
		return invocation.ProtocInvocation{}, err
	}

	out := inv
	out.ProtocPath = relocatedProtoc

	relocatedTargets := make([]model.ProtocTarget, len(inv.Targets))
	pluginIndex := 0
	for i, target := range inv.Targets {
		pluginTarget, ok := target.(model.PluginTarget)
		if !ok {
			relocatedTargets[i] = target
			continue
		}
		name := fmt.Sprintf("plugin-%d-%s", pluginIndex, filepath.Base(pluginTarget.Plugin.Path))
		pluginIndex++
		relocatedPath, err := relocate(pluginTarget.Plugin.Path, destDir, name)
		if err != nil {
			return invocation.ProtocInvocation{}, err
		}
		plugin := pluginTarget.Plugin
		plugin.Path = relocatedPath
		relocatedTargets[i] = model.NewPluginTarget(plugin, pluginTarget.OutputPath, target.Order())
	}
	out.Targets = relocatedTargets

	out, err = invocation.RewriteArgsFile(out)
	if err != nil {
		return invocation.ProtocInvocation{}, err
	}

	return out, nil
}

func relocate(srcPath, destDir, name string) (string, error) {
	destPath := filepath.Join(destDir, name)
	if err := fsutil.CopyExecutable(srcPath, destPath); err != nil {
		return "", model.NewIoError(destPath, err)
	}
	return destPath, nil
}
