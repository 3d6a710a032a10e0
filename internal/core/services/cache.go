package services

import (
	"context"
	"sort"
	"strings"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driving"
	"github.com/arkline-labs/chainpulse/internal/logger"
)

// Ensure CacheService implements the interface.
var _ driving.CacheService = (*CacheService)(nil)

// CacheService serves direct protocol lookups against the snapshot
// held by the injected holder. It never mutates the snapshot.
type CacheService struct {
	holder *SnapshotHolder
}

// NewCacheService creates a cache service reading from holder.
func NewCacheService(holder *SnapshotHolder) *CacheService {
	return &CacheService{holder: holder}
}

// Lookup resolves a free-text protocol name. Tiers, first match wins:
//
//  1. exact match on the folded (normalised, pre-alias) name
//  2. alias-table match
//  3. substring match in either direction against known keys
//  4. word-level partial overlap (words longer than two characters)
//
// Returns domain.ErrNotFound when every tier misses.
func (s *CacheService) Lookup(_ context.Context, name string) (*domain.Protocol, error) {
	snap := s.holder.Current()
	folded := domain.FoldName(name)
	if folded == "" {
		return nil, domain.ErrNotFound
	}

	// Tier 1: exact folded match.
	if p, ok := snap.Get(folded); ok {
		logger.Debug("Lookup %q: exact match", name)
		return &p, nil
	}

	// Tier 2: alias table.
	if canonical, ok := domain.ResolveAlias(name); ok {
		if p, ok := snap.Get(canonical); ok {
			logger.Debug("Lookup %q: alias match %q", name, canonical)
			return &p, nil
		}
	}

	keys := sortedKeys(snap)

	// Tier 3: substring in either direction.
	for _, key := range keys {
		if strings.Contains(key, folded) || strings.Contains(folded, key) {
			logger.Debug("Lookup %q: substring match %q", name, key)
			p := snap.Protocols[key]
			return &p, nil
		}
	}

	// Tier 4: word-level partial overlap.
	queryWords := longWords(folded)
	for _, key := range keys {
		for _, kw := range longWords(key) {
			for _, qw := range queryWords {
				if strings.Contains(kw, qw) || strings.Contains(qw, kw) {
					logger.Debug("Lookup %q: word overlap %q", name, key)
					p := snap.Protocols[key]
					return &p, nil
				}
			}
		}
	}

	return nil, domain.ErrNotFound
}

// Top returns up to n protocols sorted by TVL descending. Ties break
// alphabetically so output is deterministic.
func (s *CacheService) Top(_ context.Context, n int) ([]domain.Protocol, error) {
	snap := s.holder.Current()

	protocols := make([]domain.Protocol, 0, snap.Len())
	for _, p := range snap.Protocols {
		protocols = append(protocols, p)
	}

	sort.Slice(protocols, func(i, j int) bool {
		if protocols[i].TVL != protocols[j].TVL {
			return protocols[i].TVL > protocols[j].TVL
		}
		return protocols[i].Name < protocols[j].Name
	})

	if n > 0 && len(protocols) > n {
		protocols = protocols[:n]
	}
	return protocols, nil
}

// Snapshot returns the current snapshot for inspection.
func (s *CacheService) Snapshot(_ context.Context) *domain.Snapshot {
	return s.holder.Current()
}

// sortedKeys returns the snapshot's keys in alphabetical order so the
// substring and overlap tiers scan deterministically.
func sortedKeys(snap *domain.Snapshot) []string {
	keys := make([]string, 0, snap.Len())
	for key := range snap.Protocols {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// longWords splits a folded name into words longer than two characters.
func longWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if len(w) > 2 {
			out = append(out, w)
		}
	}
	return out
}
