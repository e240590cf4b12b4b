package fsutil

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/uuid/v5"
)

// TemporarySpace vends scoped directories rooted at
// <baseDir>/protobuf-maven-plugin/<execution-id>/<tag1>/<tag2>/…, creating
// them on demand. Reuse of identical tag tuples returns the same
// directory within a single run (spec.md §4.2).
type TemporarySpace struct {
	root string

	mu      sync.Mutex
	claimed map[string]string
}

// NewTemporarySpace returns a TemporarySpace rooted at
// <baseDir>/protobuf-maven-plugin/<executionID>.
func NewTemporarySpace(baseDir, executionID string) (*TemporarySpace, error) {
	root := filepath.Join(baseDir, "protobuf-maven-plugin", executionID)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &TemporarySpace{root: root, claimed: make(map[string]string)}, nil
}

// Dir returns the directory for the given tag tuple, creating it if this
// is the first request for that tuple in this TemporarySpace's lifetime.
func (s *TemporarySpace) Dir(tags ...string) (string, error) {
	key := strings.Join(tags, "/")
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir, ok := s.claimed[key]; ok {
		return dir, nil
	}
	dir := filepath.Join(append([]string{s.root}, tags...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	s.claimed[key] = dir
	return dir, nil
}

// Root returns the TemporarySpace's root directory.
func (s *TemporarySpace) Root() string { return s.root }

// UniqueFile returns dir/baseName when no such file exists yet, and
// otherwise a path under dir whose name is a fresh uuid prefixed to
// baseName. It creates nothing on disk.
func UniqueFile(dir, baseName string) (string, error) {
	candidate := filepath.Join(dir, baseName)
	if _, err := os.Stat(candidate); os.IsNotExist(err) {
		return candidate, nil
	}
	id, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, id.String()+"-"+baseName), nil
}
