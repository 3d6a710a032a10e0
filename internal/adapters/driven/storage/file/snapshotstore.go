package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
)

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore persists the protocol cache snapshot as a JSON file so
// a restart can serve cached data before the first refresh completes.
// Writes go through a temp file and rename so a crash mid-write never
// leaves a truncated snapshot behind.
type SnapshotStore struct {
	mu   sync.Mutex
	path string
}

// NewSnapshotStore creates a snapshot store backed by the given file.
// If path is empty, defaults to ~/.chainpulse/snapshot.json.
func NewSnapshotStore(path string) (*SnapshotStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".chainpulse", "snapshot.json")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	return &SnapshotStore{path: path}, nil
}

// Load reads the persisted snapshot. Returns domain.ErrNotFound when
// no snapshot file exists yet.
func (s *SnapshotStore) Load(_ context.Context) (*domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if snap.Protocols == nil {
		snap.Protocols = make(map[string]domain.Protocol)
	}
	return &snap, nil
}

// Save overwrites the persisted snapshot wholesale.
func (s *SnapshotStore) Save(_ context.Context, snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	return nil
}

// Path returns the snapshot file path.
func (s *SnapshotStore) Path() string {
	return s.path
}
