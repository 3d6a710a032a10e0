package mcp

import (
	"context"
	"strings"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	chunks    []domain.Chunk
	err       error
	lastQuery string
	lastLimit int
}

func (m *mockRetrievalService) FindRelevantDocuments(
	_ context.Context,
	query string,
	limit int,
) ([]domain.Chunk, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.chunks, m.err
}

func (m *mockRetrievalService) FormatContext(chunks []domain.Chunk) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n\n")
}

// mockCacheService is a mock implementation of driving.CacheService.
type mockCacheService struct {
	protocol *domain.Protocol
	top      []domain.Protocol
	snap     *domain.Snapshot
	err      error
}

func (m *mockCacheService) Lookup(_ context.Context, _ string) (*domain.Protocol, error) {
	return m.protocol, m.err
}

func (m *mockCacheService) Top(_ context.Context, _ int) ([]domain.Protocol, error) {
	return m.top, m.err
}

func (m *mockCacheService) Snapshot(_ context.Context) *domain.Snapshot {
	return m.snap
}
