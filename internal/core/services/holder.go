package services

import (
	"sync"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

// SnapshotHolder owns the current protocol cache snapshot. The
// refresher swaps in a fully-built replacement; readers always see
// either the old or the new snapshot, never a mix. Snapshots handed
// out by Current must be treated as immutable.
type SnapshotHolder struct {
	mu   sync.RWMutex
	snap *domain.Snapshot
}

// NewSnapshotHolder creates a holder primed with an empty snapshot.
func NewSnapshotHolder() *SnapshotHolder {
	return &SnapshotHolder{snap: domain.EmptySnapshot()}
}

// Current returns the active snapshot.
func (h *SnapshotHolder) Current() *domain.Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap
}

// Swap atomically replaces the active snapshot.
func (h *SnapshotHolder) Swap(snap *domain.Snapshot) {
	if snap == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = snap
}
