package driven

import (
	"context"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

// CorpusStore holds the full chunk collection built at ingestion time.
// The only mutation is a wholesale replace; readers never observe a
// half-built collection.
type CorpusStore interface {
	// ReplaceAll swaps the entire corpus for a new chunk collection.
	// The new collection must be fully built before the call; the swap
	// is atomic from the perspective of concurrent readers.
	ReplaceAll(ctx context.Context, chunks []domain.Chunk) error

	// All returns the current corpus in insertion order.
	// The returned slice must not be mutated by callers.
	All(ctx context.Context) ([]domain.Chunk, error)

	// Count returns the number of chunks currently held.
	Count(ctx context.Context) (int, error)
}
