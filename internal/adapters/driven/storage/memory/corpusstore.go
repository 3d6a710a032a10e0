package memory

import (
	"context"
	"sync"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore.
// The corpus is rebuilt wholesale on every ingestion; readers holding
// a slice from All keep seeing the generation they fetched.
type CorpusStore struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
}

// NewCorpusStore creates a new in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{}
}

// ReplaceAll swaps the entire corpus for the given chunks.
func (s *CorpusStore) ReplaceAll(_ context.Context, chunks []domain.Chunk) error {
	replacement := make([]domain.Chunk, len(chunks))
	copy(replacement, chunks)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = replacement
	return nil
}

// All returns the current corpus in insertion order.
func (s *CorpusStore) All(_ context.Context) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.chunks, nil
}

// Count returns the number of chunks currently held.
func (s *CorpusStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}
