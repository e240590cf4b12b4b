// Package incremental implements IncrementalCache (spec.md §4.8):
// deciding, across runs, which proto sources actually need recompiling
// by comparing content digests against the prior run's recorded state.
package incremental

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/protoc-build/protocgen/internal/digest"
	"github.com/protoc-build/protocgen/internal/model"
)

const cacheSchemaVersion = 1

const fileName = "incremental-cache.json"

// cacheFile is the on-disk shape of the incremental cache.
type cacheFile struct {
	Version      int               `json:"version"`
	Sources      map[string]string `json:"sources"`
	Dependencies map[string]string `json:"dependencies"`
}

// Cache loads, evaluates against, and persists the incremental-build
// state for one tempSpace.
type Cache struct {
	path     string
	lockPath string
	prior    cacheFile
	next     cacheFile
}

// Load reads the existing cache file at <tempDir>/incremental-cache.json,
// if any. A missing or schema-mismatched file is treated as an empty
// prior state rather than an error, matching a first-ever build.
func Load(tempDir string) (*Cache, error) {
	path := filepath.Join(tempDir, fileName)
	c := &Cache{path: path, lockPath: path + ".lock"}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, model.NewIoError(path, err)
	}

	var prior cacheFile
	if err := json.Unmarshal(data, &prior); err != nil || prior.Version != cacheSchemaVersion {
		return c, nil
	}
	c.prior = prior
	return c, nil
}

// DetermineSourcesToCompile implements spec.md §4.8's algorithm: any
// changed or newly-missing dependency digest forces a full rebuild of
// every compilable input; otherwise only changed/new compilable sources
// are returned.
func (c *Cache) DetermineSourcesToCompile(listing model.ProjectInputListing) (model.FilesToCompile, error) {
	newSources, err := digestAll(listing.AllCompilableProtoFiles())
	if err != nil {
		return model.FilesToCompile{}, err
	}
	newDescriptors, err := digestAll(listing.AllCompilableDescriptorFiles())
	if err != nil {
		return model.FilesToCompile{}, err
	}
	newDependencyProto, err := digestAll(listing.AllDependencyProtoFiles())
	if err != nil {
		return model.FilesToCompile{}, err
	}
	newDependencyDescriptors, err := digestAll(listing.AllDependencyDescriptorFiles())
	if err != nil {
		return model.FilesToCompile{}, err
	}

	c.next = cacheFile{
		Version:      cacheSchemaVersion,
		Sources:      mergeMaps(newSources, newDescriptors),
		Dependencies: mergeMaps(newDependencyProto, newDependencyDescriptors),
	}

	if anyChanged(c.prior.Dependencies, c.next.Dependencies) {
		return model.FilesToCompile{
			ProtoSources:    listing.AllCompilableProtoFiles(),
			DescriptorFiles: listing.AllCompilableDescriptorFiles(),
		}, nil
	}

	var changedProto, changedDescriptors []string
	for path, sum := range newSources {
		if c.prior.Sources[path] != sum {
			changedProto = append(changedProto, path)
		}
	}
	for path, sum := range newDescriptors {
		if c.prior.Sources[path] != sum {
			changedDescriptors = append(changedDescriptors, path)
		}
	}
	return model.FilesToCompile{ProtoSources: changedProto, DescriptorFiles: changedDescriptors}, nil
}

// Persist atomically replaces the on-disk cache file with the state
// computed by the most recent DetermineSourcesToCompile call, guarded by
// a file lock so concurrent builds sharing a tempSpace don't corrupt
// each other's writes.
func (c *Cache) Persist() error {
	lock := flock.New(c.lockPath)
	locked, err := lock.TryLockContext(context.Background(), 50*time.Millisecond)
	if err != nil {
		return model.NewIoError(c.lockPath, err)
	}
	if locked {
		defer lock.Unlock()
	}

	data, err := json.Marshal(c.next)
	if err != nil {
		return model.NewIoError(c.path, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return model.NewIoError(tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return model.NewIoError(c.path, err)
	}
	return nil
}

func digestAll(paths []string) (map[string]string, error) {
	out := make(map[string]string, len(paths))
	for _, p := range paths {
		sum, err := digest.FileOrDirSHA256(p)
		if err != nil {
			return nil, model.NewIoError(p, err)
		}
		out[p] = sum
	}
	return out, nil
}

func mergeMaps(maps ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func anyChanged(prior, next map[string]string) bool {
	for path, sum := range next {
		if prior[path] != sum {
			return true
		}
	}
	return false
}
