package driven

import (
	"context"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

// SnapshotStore persists the protocol cache snapshot as a single JSON
// document. Persistence is best effort: a write failure is logged and
// swallowed, and the in-memory snapshot remains authoritative.
type SnapshotStore interface {
	// Load reads the persisted snapshot. Returns domain.ErrNotFound
	// when no snapshot exists (cold start).
	Load(ctx context.Context) (*domain.Snapshot, error)

	// Save overwrites the persisted snapshot wholesale.
	Save(ctx context.Context, snap *domain.Snapshot) error
}
