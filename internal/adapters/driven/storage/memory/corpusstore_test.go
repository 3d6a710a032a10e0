package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

func TestNewCorpusStore(t *testing.T) {
	store := NewCorpusStore()
	require.NotNil(t, store)

	count, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCorpusStore_ReplaceAll_Success(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	chunks := []domain.Chunk{
		{ID: "chunk-1", Content: "Morpho is a lending protocol", Source: "protocols.json", Protocol: "Morpho"},
		{ID: "chunk-2", Content: "Uniswap is a DEX", Source: "protocols.json", Protocol: "Uniswap"},
	}

	err := store.ReplaceAll(ctx, chunks)
	require.NoError(t, err)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "chunk-1", all[0].ID)
	assert.Equal(t, "chunk-2", all[1].ID)
}

func TestCorpusStore_ReplaceAll_DiscardsPrevious(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	first := []domain.Chunk{
		{ID: "old-1", Content: "stale"},
		{ID: "old-2", Content: "stale"},
		{ID: "old-3", Content: "stale"},
	}
	second := []domain.Chunk{
		{ID: "new-1", Content: "fresh"},
	}

	require.NoError(t, store.ReplaceAll(ctx, first))
	require.NoError(t, store.ReplaceAll(ctx, second))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "new-1", all[0].ID)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCorpusStore_ReplaceAll_Empty(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	require.NoError(t, store.ReplaceAll(ctx, []domain.Chunk{{ID: "chunk-1"}}))
	require.NoError(t, store.ReplaceAll(ctx, nil))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestCorpusStore_ReplaceAll_CopiesInput(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	chunks := []domain.Chunk{
		{ID: "chunk-1", Content: "original"},
	}
	require.NoError(t, store.ReplaceAll(ctx, chunks))

	// Mutating the caller's slice must not leak into the store.
	chunks[0].Content = "mutated"

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", all[0].Content)
}

func TestCorpusStore_All_PreservesOrder(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	chunks := make([]domain.Chunk, 20)
	for i := range chunks {
		chunks[i] = domain.Chunk{ID: fmt.Sprintf("chunk-%02d", i)}
	}
	require.NoError(t, store.ReplaceAll(ctx, chunks))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 20)
	for i, c := range all {
		assert.Equal(t, fmt.Sprintf("chunk-%02d", i), c.ID)
	}
}

func TestCorpusStore_Concurrency_ReplaceWhileReading(t *testing.T) {
	store := NewCorpusStore()
	ctx := context.Background()

	require.NoError(t, store.ReplaceAll(ctx, []domain.Chunk{{ID: "seed"}}))

	var wg sync.WaitGroup
	numOperations := 100

	wg.Add(numOperations)
	for i := 0; i < numOperations; i++ {
		go func(id int) {
			defer wg.Done()
			if id%2 == 0 {
				_ = store.ReplaceAll(ctx, []domain.Chunk{
					{ID: fmt.Sprintf("gen-%d-a", id)},
					{ID: fmt.Sprintf("gen-%d-b", id)},
				})
			} else {
				all, err := store.All(ctx)
				assert.NoError(t, err)
				// Readers always see a complete generation, never a
				// half-replaced corpus.
				assert.True(t, len(all) == 1 || len(all) == 2)
			}
		}(i)
	}
	wg.Wait()

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.True(t, count == 1 || count == 2)
}

func TestCorpusStore_ContextCancellation(t *testing.T) {
	store := NewCorpusStore()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Operations complete even with a cancelled context.
	err := store.ReplaceAll(ctx, []domain.Chunk{{ID: "chunk-1"}})
	assert.NoError(t, err)

	_, err = store.All(ctx)
	assert.NoError(t, err)

	_, err = store.Count(ctx)
	assert.NoError(t, err)
}
