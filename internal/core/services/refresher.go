package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driving"
	"github.com/arkline-labs/chainpulse/internal/logger"
)

// Ensure Refresher implements the interface.
var _ driving.RefreshOrchestrator = (*Refresher)(nil)

// RefreshConfig holds refresh cycle tuning.
type RefreshConfig struct {
	// Interval is the fixed period between cycles.
	Interval time.Duration

	// MaxAttempts caps retries within one cycle.
	MaxAttempts int

	// BaseDelay seeds the exponential backoff between attempts.
	BaseDelay time.Duration

	// TopN bounds how many trending protocols get a detail fetch.
	TopN int
}

// DefaultRefreshConfig returns the standing defaults: a 4-hour cycle,
// three attempts with 5s base backoff, top 25 protocols.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Interval:    4 * time.Hour,
		MaxAttempts: 3,
		BaseDelay:   5 * time.Second,
		TopN:        25,
	}
}

func (c RefreshConfig) withDefaults() RefreshConfig {
	d := DefaultRefreshConfig()
	if c.Interval <= 0 {
		c.Interval = d.Interval
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = d.BaseDelay
	}
	if c.TopN <= 0 {
		c.TopN = d.TopN
	}
	return c
}

// Refresher keeps the protocol snapshot fresh: it periodically fetches
// trending protocols from the provider, merges the local fallback
// dataset, validates every record and swaps the new snapshot in
// atomically. On failure the previous snapshot keeps serving lookups.
type Refresher struct {
	provider driven.ProtocolProvider
	fallback driven.LocalDataset
	store    driven.SnapshotStore
	holder   *SnapshotHolder
	cfg      RefreshConfig

	mu          sync.Mutex
	running     bool
	inFlight    bool
	stopCh      chan struct{}
	wg          sync.WaitGroup
	lastErr     string
	lastSuccess time.Time
}

// NewRefresher creates a refresher. The store may be nil, in which
// case snapshots are held in memory only.
func NewRefresher(
	provider driven.ProtocolProvider,
	fallback driven.LocalDataset,
	store driven.SnapshotStore,
	holder *SnapshotHolder,
	cfg RefreshConfig,
) *Refresher {
	return &Refresher{
		provider: provider,
		fallback: fallback,
		store:    store,
		holder:   holder,
		cfg:      cfg.withDefaults(),
	}
}

// LoadPersisted primes the holder from the persisted snapshot, if one
// exists. Absence is a normal cold start, not an error.
func (r *Refresher) LoadPersisted(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	snap, err := r.store.Load(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("No persisted snapshot, cold start")
			return nil
		}
		return fmt.Errorf("load snapshot: %w", err)
	}
	r.holder.Swap(snap)
	logger.Info("Loaded persisted snapshot: version=%d, protocols=%d", snap.Version, snap.Len())
	return nil
}

// Start runs the fixed-interval refresh loop. An immediate cycle runs
// on startup; a timer firing while a cycle is in flight is a no-op.
// Blocks until the context is cancelled or Stop is called.
func (r *Refresher) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil // Already running
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.mu.Unlock()

	if err := r.RefreshNow(ctx); err != nil {
		logger.Warn("Startup refresh cycle failed: %v", err)
	}

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.stopCh:
			return nil
		case <-ticker.C:
			if err := r.RefreshNow(ctx); err != nil {
				if errors.Is(err, domain.ErrRefreshInProgress) {
					continue
				}
				logger.Warn("Refresh cycle failed: %v", err)
			}
		}
	}
}

// Stop shuts the loop down and waits for an in-flight cycle.
func (r *Refresher) Stop() error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	close(r.stopCh)
	r.mu.Unlock()

	r.wg.Wait()
	return nil
}

// RefreshNow runs one refresh cycle with retry and backoff. Returns
// domain.ErrRefreshInProgress when a cycle is already running;
// overlapping cycles must never interleave snapshot writes.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return domain.ErrRefreshInProgress
	}
	r.inFlight = true
	r.wg.Add(1)
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
		r.wg.Done()
	}()

	return r.runCycle(ctx)
}

// runCycle is the ATTEMPT -> SUCCESS | RETRY -> ... -> FAILURE state
// machine for a single refresh cycle.
func (r *Refresher) runCycle(ctx context.Context) error {
	logger.Section("Cache Refresh")
	attemptStart := time.Now().UTC()

	var lastErr error
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		logger.Debug("Refresh attempt %d/%d", attempt, r.cfg.MaxAttempts)

		snap, err := r.buildSnapshot(ctx, attemptStart)
		if err == nil {
			r.holder.Swap(snap)
			r.recordSuccess(snap)
			r.persist(ctx, snap)
			logger.Info("Refresh succeeded: version=%d, protocols=%d", snap.Version, snap.Len())
			return nil
		}

		lastErr = err
		logger.Warn("Refresh attempt %d failed: %v", attempt, err)

		if attempt < r.cfg.MaxAttempts {
			delay := r.cfg.BaseDelay * time.Duration(1<<(attempt-1))
			logger.Debug("Backing off %s before retry", delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	// Retries exhausted: keep the previous entities serving lookups
	// and only mark the attempt on a fresh snapshot value.
	r.markFailure(attemptStart, lastErr)
	return fmt.Errorf("refresh failed after %d attempts: %w", r.cfg.MaxAttempts, lastErr)
}

// buildSnapshot performs one refresh attempt: trending fetch, bounded
// detail fetches, fallback merge and validation.
func (r *Refresher) buildSnapshot(ctx context.Context, attemptStart time.Time) (*domain.Snapshot, error) {
	trending, err := r.provider.Trending(ctx, r.cfg.TopN)
	if err != nil {
		return nil, fmt.Errorf("fetch trending: %w", err)
	}
	if len(trending) == 0 {
		return nil, domain.ErrEmptyTrendingList
	}
	logger.Debug("Trending: %d protocols", len(trending))

	now := time.Now().UTC()
	protocols := make(map[string]domain.Protocol, len(trending))

	limit := r.cfg.TopN
	if limit > len(trending) {
		limit = len(trending)
	}

	for _, entry := range trending[:limit] {
		detail, err := r.provider.Detail(ctx, entry.Slug)
		if err != nil {
			// Per-entity failures skip the entity, never the cycle.
			logger.Warn("Detail fetch failed for %q: %v", entry.Slug, err)
			continue
		}
		p := *detail
		p.Source = domain.SourceAPI
		p.LastUpdated = now
		p = p.Sanitize()
		protocols[domain.NormalizeKey(p.Name)] = p
	}

	if r.fallback != nil {
		local, err := r.fallback.Protocols(ctx)
		if err != nil {
			logger.Warn("Fallback dataset unavailable: %v", err)
		} else {
			merged := 0
			for _, p := range local {
				key := domain.NormalizeKey(p.Name)
				// Fallback never overwrites freshly fetched data.
				if _, exists := protocols[key]; exists {
					continue
				}
				p.Source = domain.SourceLocal
				p = p.Sanitize()
				protocols[key] = p
				merged++
			}
			logger.Debug("Merged %d fallback protocols", merged)
		}
	}

	prev := r.holder.Current()
	return &domain.Snapshot{
		Timestamp:          now,
		Version:            prev.Version + 1,
		Protocols:          protocols,
		LastRefreshAttempt: attemptStart,
		RefreshSuccess:     true,
	}, nil
}

// markFailure publishes a snapshot identical to the previous one but
// flagged unsuccessful. The entity map is shared, not copied; it is
// never mutated after publication.
func (r *Refresher) markFailure(attemptStart time.Time, err error) {
	prev := r.holder.Current()
	failed := *prev
	failed.LastRefreshAttempt = attemptStart
	failed.RefreshSuccess = false
	r.holder.Swap(&failed)

	r.mu.Lock()
	if err != nil {
		r.lastErr = err.Error()
	}
	r.mu.Unlock()
}

func (r *Refresher) recordSuccess(snap *domain.Snapshot) {
	r.mu.Lock()
	r.lastErr = ""
	r.lastSuccess = snap.Timestamp
	r.mu.Unlock()
}

// persist writes the snapshot to durable storage, best effort. A write
// failure is logged and swallowed; the in-memory snapshot already
// swapped in stays authoritative.
func (r *Refresher) persist(ctx context.Context, snap *domain.Snapshot) {
	if r.store == nil {
		return
	}
	if err := r.store.Save(ctx, snap); err != nil {
		logger.Warn("Snapshot persistence failed: %v", err)
	}
}

// Status reports the current refresh state.
func (r *Refresher) Status() driving.RefreshStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := r.holder.Current()
	return driving.RefreshStatus{
		Running:     r.inFlight,
		LastAttempt: snap.LastRefreshAttempt,
		LastSuccess: r.lastSuccess,
		Version:     snap.Version,
		LastError:   r.lastErr,
	}
}
