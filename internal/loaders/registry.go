package loaders

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
	"github.com/arkline-labs/chainpulse/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry dispatches corpus artifacts to loaders in registration
// order; the first loader whose CanLoad accepts the file wins.
type Registry struct {
	loaders []driven.ChunkLoader
}

// NewRegistry creates a registry with the given loaders.
func NewRegistry(loaders ...driven.ChunkLoader) *Registry {
	return &Registry{loaders: loaders}
}

// DefaultRegistry returns the standard loader set: protocol lists,
// per-entity statistics, narrative markdown and a generic JSON
// fallback, in that dispatch order.
func DefaultRegistry() *Registry {
	return NewRegistry(
		NewProtocolsLoader(),
		NewStatsLoader(),
		NewMarkdownLoader(),
		NewGenericLoader(),
	)
}

// LoadDir ingests every supported artifact under dir. Files are
// visited in lexical order so the corpus ordering is deterministic.
// Per-artifact failures are logged and skipped.
func (r *Registry) LoadDir(ctx context.Context, dir string) ([]domain.Chunk, error) {
	logger.Section("Corpus Ingestion")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var chunks []domain.Chunk
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		loader := r.loaderFor(entry.Name())
		if loader == nil {
			logger.Debug("Skipping unsupported artifact %q", entry.Name())
			continue
		}

		path := filepath.Join(dir, entry.Name())
		loaded, err := loader.Load(ctx, path)
		if err != nil {
			logger.Warn("Artifact %q failed to load, skipping: %v", entry.Name(), err)
			continue
		}

		logger.Debug("Loaded %d chunks from %q", len(loaded), entry.Name())
		chunks = append(chunks, loaded...)
	}

	logger.Info("Ingestion complete: %d chunks", len(chunks))
	return chunks, nil
}

func (r *Registry) loaderFor(name string) driven.ChunkLoader {
	for _, l := range r.loaders {
		if l.CanLoad(name) {
			return l
		}
	}
	return nil
}
