package driven

import (
	"context"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

// ChunkLoader converts one static artifact into zero or more chunks.
// A loader failure applies only to its artifact; ingestion of the
// remaining artifacts continues.
type ChunkLoader interface {
	// CanLoad reports whether this loader handles the given file name.
	CanLoad(name string) bool

	// Load reads the artifact and returns its chunks.
	Load(ctx context.Context, path string) ([]domain.Chunk, error)
}

// LoaderRegistry dispatches artifacts to loaders and runs a full
// ingestion pass over a corpus directory.
type LoaderRegistry interface {
	// LoadDir ingests every supported artifact under dir.
	// Per-artifact failures are logged and skipped.
	LoadDir(ctx context.Context, dir string) ([]domain.Chunk, error)
}
