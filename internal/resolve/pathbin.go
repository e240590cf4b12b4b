package resolve

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/protoc-build/protocgen/internal/hostsys"
)

// FindOnSystemPath implements SystemPathBinaryResolver (spec.md §4.12):
// a non-recursive, single-depth scan of each PATH directory looking for
// an executable matching name.
//
// On POSIX, a match requires the exact file name and the executable bit
// set. On Windows, the match is case-insensitive on the stem and the
// extension must be one of the host's recognised executable extensions.
// Directories that fail to read (e.g. access denied) are skipped
// silently.
func FindOnSystemPath(host *hostsys.HostSystem, name string) (string, bool) {
	if host.OSFamily() == hostsys.OSWindows {
		return findOnSystemPathWindows(host, name)
	}
	return findOnSystemPathPOSIX(host, name)
}

func findOnSystemPathPOSIX(host *hostsys.HostSystem, name string) (string, bool) {
	for _, dir := range host.SystemPath() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() || entry.Name() != name {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if info.Mode()&0o111 != 0 {
				return path, true
			}
		}
	}
	return "", false
}

func findOnSystemPathWindows(host *hostsys.HostSystem, name string) (string, bool) {
	wantStem := strings.ToLower(name)
	for _, dir := range host.SystemPath() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			fileName := entry.Name()
			ext := filepath.Ext(fileName)
			stem := strings.ToLower(strings.TrimSuffix(fileName, ext))
			if stem != wantStem {
				continue
			}
			if !host.HasExtension(ext) {
				continue
			}
			return filepath.Join(dir, fileName), true
		}
	}
	return "", false
}
