// Package platform maps a (OS family, CPU architecture) pair to the
// Maven-style platform classifier protoc release artifacts are published
// under, via a static table (spec.md §4.4).
package platform

import (
	"fmt"

	"github.com/protoc-build/protocgen/internal/hostsys"
	"github.com/protoc-build/protocgen/internal/model"
)

type key struct {
	os   hostsys.OSFamily
	arch string
}

var classifiers = map[key]string{
	{hostsys.OSLinux, "amd64"}:   "linux-x86_64",
	{hostsys.OSLinux, "arm64"}:   "linux-aarch_64",
	{hostsys.OSLinux, "ppc64le"}: "linux-ppcle_64",
	{hostsys.OSLinux, "s390x"}:   "linux-s390_64",
	{hostsys.OSMacOS, "amd64"}:   "osx-x86_64",
	{hostsys.OSMacOS, "arm64"}:   "osx-aarch_64",
	{hostsys.OSWindows, "amd64"}: "windows-x86_64",
	{hostsys.OSWindows, "386"}:   "windows-x86_32",
}

// Classify returns the platform classifier for the given OS family and
// Go-style CPU architecture string, or an InvalidInputError if no
// combination is known.
func Classify(osFamily hostsys.OSFamily, arch string) (string, error) {
	if c, ok := classifiers[key{osFamily, arch}]; ok {
		return c, nil
	}
	return "", model.NewInvalidInputError("no protoc binary for platform %s/%s", osFamily, arch)
}

// ClassifyHost is a convenience wrapper around Classify for the current
// host.
func ClassifyHost(host *hostsys.HostSystem) (string, error) {
	c, err := Classify(host.OSFamily(), host.CPUArch())
	if err != nil {
		return "", fmt.Errorf("%w (detected os=%s arch=%s)", err, host.OSFamily(), host.CPUArch())
	}
	return c, nil
}
