package driving

import (
	"context"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

// CacheService serves direct lookups against the current protocol
// snapshot. Independent of the chunk corpus used for retrieval.
type CacheService interface {
	// Lookup resolves a free-text protocol name against the snapshot.
	// Returns domain.ErrNotFound when all lookup tiers miss.
	Lookup(ctx context.Context, name string) (*domain.Protocol, error)

	// Top returns up to n cached protocols sorted by TVL descending.
	Top(ctx context.Context, n int) ([]domain.Protocol, error)

	// Snapshot returns the current snapshot for inspection.
	Snapshot(ctx context.Context) *domain.Snapshot
}
