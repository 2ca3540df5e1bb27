// Package storage keeps uploaded document bytes on the local filesystem,
// sharded by upload date.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Store saves and reopens document payloads. Paths returned by Save are
// relative to the store root and safe to persist.
type Store struct {
	root string
}

func New(root string) *Store {
	return &Store{root: root}
}

// Save writes r under a date-sharded, uuid-prefixed name derived from
// filename and returns the relative path.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	rel := filepath.Join(time.Now().UTC().Format("2006/01/02"),
		uuid.New().String()+"_"+filepath.Base(filename))
	abs := filepath.Join(s.root, rel)

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return rel, nil
}

// Open reopens a previously saved payload by its relative path.
func (s *Store) Open(rel string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, rel))
}
