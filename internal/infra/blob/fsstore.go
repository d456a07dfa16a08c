// Package blob stores evidence content bytes on the local filesystem. Refs
// handed back to the core are paths relative to the store root, so a store
// can be relocated without rewriting evidence rows.
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("blob root is required")
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &FSStore{root: root}, nil
}

// Put writes content for an evidence item, replacing any previous content.
// The write goes through a temp file and rename so readers never observe a
// partial object.
func (s *FSStore) Put(_ context.Context, evidenceID string, content []byte) (string, error) {
	ref := refForEvidence(evidenceID)
	path := filepath.Join(s.root, ref)
	tmp, err := os.CreateTemp(s.root, "put-*")
	if err != nil {
		return "", fmt.Errorf("stage content: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("flush content: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("commit content: %w", err)
	}
	return ref, nil
}

func (s *FSStore) Get(_ context.Context, ref string) ([]byte, error) {
	clean := filepath.Clean(ref)
	if clean != ref || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("invalid content ref %q", ref)
	}
	content, err := os.ReadFile(filepath.Join(s.root, clean))
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", ref, err)
	}
	return content, nil
}

func refForEvidence(evidenceID string) string {
	return evidenceID + ".bin"
}
