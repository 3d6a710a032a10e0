package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockProvider implements driven.ProtocolProvider for testing.
type mockProvider struct {
	trending     []driven.TrendingEntry
	trendingErr  error
	trendingCall int
	details      map[string]domain.Protocol
	detailErrs   map[string]error
}

func (m *mockProvider) Search(_ context.Context, _ string) ([]domain.Protocol, error) {
	return nil, nil
}

func (m *mockProvider) Detail(_ context.Context, slug string) (*domain.Protocol, error) {
	if err, ok := m.detailErrs[slug]; ok {
		return nil, err
	}
	p, ok := m.details[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (m *mockProvider) Trending(_ context.Context, _ int) ([]driven.TrendingEntry, error) {
	m.trendingCall++
	if m.trendingErr != nil {
		return nil, m.trendingErr
	}
	return m.trending, nil
}

// mockDataset implements driven.LocalDataset for testing.
type mockDataset struct {
	protocols []domain.Protocol
	err       error
}

func (m *mockDataset) Protocols(_ context.Context) ([]domain.Protocol, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.protocols, nil
}

// mockSnapStore implements driven.SnapshotStore for testing.
type mockSnapStore struct {
	saved   *domain.Snapshot
	loadRet *domain.Snapshot
	loadErr error
	saveErr error
}

func (m *mockSnapStore) Load(_ context.Context) (*domain.Snapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.loadRet == nil {
		return nil, domain.ErrNotFound
	}
	return m.loadRet, nil
}

func (m *mockSnapStore) Save(_ context.Context, snap *domain.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = snap
	return nil
}

func fastConfig() RefreshConfig {
	return RefreshConfig{
		Interval:    time.Hour,
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		TopN:        10,
	}
}

func healthyProvider() *mockProvider {
	return &mockProvider{
		trending: []driven.TrendingEntry{
			{Slug: "morpho", Name: "Morpho", TVL: 9e8, Change1d: 2.5},
			{Slug: "uniswap", Name: "Uniswap", TVL: 4.2e9, Change1d: -1.2},
		},
		details: map[string]domain.Protocol{
			"morpho":  {Name: "Morpho", Description: "Lending optimiser", Category: "Lending", TVL: 9e8},
			"uniswap": {Name: "Uniswap", Description: "Leading DEX", Category: "DEX", TVL: 4.2e9},
		},
	}
}

// --- Tests ---

func TestRefreshNow_Success(t *testing.T) {
	holder := NewSnapshotHolder()
	store := &mockSnapStore{}
	r := NewRefresher(healthyProvider(), &mockDataset{}, store, holder, fastConfig())

	err := r.RefreshNow(context.Background())

	require.NoError(t, err)
	snap := holder.Current()
	assert.Equal(t, uint64(1), snap.Version)
	assert.True(t, snap.RefreshSuccess)
	assert.Equal(t, 2, snap.Len())

	p, ok := snap.Get("morpho")
	require.True(t, ok)
	assert.Equal(t, domain.SourceAPI, p.Source)

	// Persisted after success.
	require.NotNil(t, store.saved)
	assert.Equal(t, uint64(1), store.saved.Version)
}

func TestRefreshNow_MergesFallbackAsLocal(t *testing.T) {
	holder := NewSnapshotHolder()
	fallback := &mockDataset{protocols: []domain.Protocol{
		{Name: "Moonwell", Category: "Lending", TVL: 3e8},
		// Present upstream too: the fetched record must win.
		{Name: "Morpho", Category: "Stale", TVL: 1},
	}}
	r := NewRefresher(healthyProvider(), fallback, nil, holder, fastConfig())

	require.NoError(t, r.RefreshNow(context.Background()))

	snap := holder.Current()
	moonwell, ok := snap.Get("moonwell")
	require.True(t, ok)
	assert.Equal(t, domain.SourceLocal, moonwell.Source)

	morpho, ok := snap.Get("morpho")
	require.True(t, ok)
	assert.Equal(t, domain.SourceAPI, morpho.Source)
	assert.Equal(t, "Lending", morpho.Category)
}

func TestRefreshNow_VersionStrictlyIncreases(t *testing.T) {
	holder := NewSnapshotHolder()
	r := NewRefresher(healthyProvider(), &mockDataset{}, nil, holder, fastConfig())

	require.NoError(t, r.RefreshNow(context.Background()))
	v1 := holder.Current().Version
	require.NoError(t, r.RefreshNow(context.Background()))
	v2 := holder.Current().Version

	assert.Greater(t, v2, v1)
}

func TestRefreshNow_CoercesMalformedTVL(t *testing.T) {
	provider := healthyProvider()
	provider.details["morpho"] = domain.Protocol{Name: "Morpho", TVL: -500}
	holder := NewSnapshotHolder()
	r := NewRefresher(provider, &mockDataset{}, nil, holder, fastConfig())

	require.NoError(t, r.RefreshNow(context.Background()))

	p, ok := holder.Current().Get("morpho")
	require.True(t, ok)
	assert.GreaterOrEqual(t, p.TVL, 0.0)
	assert.Equal(t, domain.PlaceholderDescription, p.Description)
}

func TestRefreshNow_EmptyTrendingExhaustsRetries(t *testing.T) {
	holder := NewSnapshotHolder()
	seed := testSnapshot()
	holder.Swap(seed)
	provider := &mockProvider{trending: nil}
	r := NewRefresher(provider, &mockDataset{}, nil, holder, fastConfig())

	err := r.RefreshNow(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEmptyTrendingList))
	assert.Equal(t, 3, provider.trendingCall)

	// Previous entities keep serving; only the attempt is marked.
	snap := holder.Current()
	assert.False(t, snap.RefreshSuccess)
	assert.Equal(t, seed.Version, snap.Version)
	assert.Equal(t, seed.Len(), snap.Len())
	_, ok := snap.Get("uniswap")
	assert.True(t, ok)
}

func TestRefreshNow_PerEntityFailureSkips(t *testing.T) {
	provider := healthyProvider()
	provider.detailErrs = map[string]error{"uniswap": errors.New("500")}
	holder := NewSnapshotHolder()
	r := NewRefresher(provider, &mockDataset{}, nil, holder, fastConfig())

	require.NoError(t, r.RefreshNow(context.Background()))

	snap := holder.Current()
	assert.Equal(t, 1, snap.Len())
	_, ok := snap.Get("morpho")
	assert.True(t, ok)
}

func TestRefreshNow_PersistFailureIsSwallowed(t *testing.T) {
	holder := NewSnapshotHolder()
	store := &mockSnapStore{saveErr: errors.New("disk full")}
	r := NewRefresher(healthyProvider(), &mockDataset{}, store, holder, fastConfig())

	err := r.RefreshNow(context.Background())

	require.NoError(t, err)
	assert.True(t, holder.Current().RefreshSuccess)
}

func TestRefreshNow_InProgressGuard(t *testing.T) {
	holder := NewSnapshotHolder()
	r := NewRefresher(healthyProvider(), &mockDataset{}, nil, holder, fastConfig())

	r.mu.Lock()
	r.inFlight = true
	r.mu.Unlock()

	err := r.RefreshNow(context.Background())

	assert.True(t, errors.Is(err, domain.ErrRefreshInProgress))
}

func TestLoadPersisted(t *testing.T) {
	holder := NewSnapshotHolder()
	persisted := testSnapshot()
	store := &mockSnapStore{loadRet: persisted}
	r := NewRefresher(healthyProvider(), &mockDataset{}, store, holder, fastConfig())

	require.NoError(t, r.LoadPersisted(context.Background()))

	assert.Equal(t, persisted.Version, holder.Current().Version)
	assert.Equal(t, persisted.Len(), holder.Current().Len())
}

func TestLoadPersisted_ColdStart(t *testing.T) {
	holder := NewSnapshotHolder()
	store := &mockSnapStore{}
	r := NewRefresher(healthyProvider(), &mockDataset{}, store, holder, fastConfig())

	require.NoError(t, r.LoadPersisted(context.Background()))

	assert.Equal(t, uint64(0), holder.Current().Version)
}

func TestStatus(t *testing.T) {
	holder := NewSnapshotHolder()
	r := NewRefresher(healthyProvider(), &mockDataset{}, nil, holder, fastConfig())

	require.NoError(t, r.RefreshNow(context.Background()))
	status := r.Status()

	assert.False(t, status.Running)
	assert.Equal(t, uint64(1), status.Version)
	assert.Empty(t, status.LastError)
	assert.False(t, status.LastSuccess.IsZero())
}
