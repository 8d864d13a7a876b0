// Package baseline persists the trusted prior snapshot as a single JSON
// document. The document must stay readable by later runs of possibly
// different builds, so the format is exactly the Snapshot's JSON form.
package baseline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"twiniz/persistdetect/snapshot"
)

// ErrNotFound is returned by Load when no baseline document exists yet.
// Detection is undefined without a baseline, so callers treat this as
// fatal.
var ErrNotFound = errors.New("baseline not found")

// Store reads and writes the baseline document at a fixed path.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the baseline document.
func (s *Store) Path() string {
	return s.path
}

// Save overwrites the baseline with the given snapshot. The write goes
// through a temp file and rename so a crash cannot leave a half-written
// baseline behind.
func (s *Store) Save(snap *snapshot.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create baseline directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal baseline: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write baseline: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace baseline: %w", err)
	}
	return nil
}

// Load reads the baseline document. A missing file yields ErrNotFound; a
// present but unreadable or corrupt document is its own error.
func (s *Store) Load() (*snapshot.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w at %s", ErrNotFound, s.path)
		}
		return nil, fmt.Errorf("read baseline: %w", err)
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse baseline %s: %w", s.path, err)
	}
	return &snap, nil
}
