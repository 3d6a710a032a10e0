package cli

import (
	"context"
	"strings"
	"time"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	chunks []domain.Chunk
	err    error
}

func (m *mockRetrievalService) FindRelevantDocuments(_ context.Context, _ string, _ int) ([]domain.Chunk, error) {
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
	if m.snap != nil {
		return m.snap
	}
	return domain.EmptySnapshot()
}

// mockRefreshService is a mock implementation of driving.RefreshOrchestrator.
type mockRefreshService struct {
	status driving.RefreshStatus
	err    error
	calls  int
}

func (m *mockRefreshService) Start(_ context.Context) error { return m.err }
func (m *mockRefreshService) Stop() error                   { return nil }

func (m *mockRefreshService) RefreshNow(_ context.Context) error {
	m.calls++
	return m.err
}

func (m *mockRefreshService) Status() driving.RefreshStatus { return m.status }

// setupTestServices installs working mocks and returns a cleanup func.
func setupTestServices() func() {
	oldRetrieval, oldCache, oldRefresh := retrievalService, cacheService, refreshService

	retrievalService = &mockRetrievalService{
		chunks: []domain.Chunk{
			{
				Content:  "Morpho is a lending protocol on Base.\nTVL: $900M.",
				Source:   "protocols.json",
				Protocol: "Morpho",
				Category: "Lending",
				Score:    0.8,
			},
		},
	}
	cacheService = &mockCacheService{
		protocol: &domain.Protocol{
			Name:        "Morpho",
			Description: "Permissionless lending network",
			Category:    "Lending",
			TVL:         900_000_000,
			Website:     "https://morpho.org",
			Chains:      2,
			Change1d:    2.5,
			LastUpdated: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
			Source:      domain.SourceAPI,
		},
		top: []domain.Protocol{
			{Name: "Uniswap", Category: "DEX", TVL: 4_200_000_000, Change1d: -1.2},
			{Name: "Morpho", Category: "Lending", TVL: 900_000_000, Change1d: 2.5},
		},
		snap: &domain.Snapshot{Version: 3, Protocols: map[string]domain.Protocol{}},
	}
	refreshService = &mockRefreshService{}

	return func() {
		retrievalService = oldRetrieval
		cacheService = oldCache
		refreshService = oldRefresh
	}
}
