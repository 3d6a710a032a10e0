package driven

import (
	"context"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

// TrendingEntry is a light-weight protocol reference returned by the
// provider's trending list, before a detail fetch fills in the record.
type TrendingEntry struct {
	// Slug is the provider's canonical identifier for detail lookups.
	Slug string

	// Name is the display name.
	Name string

	// TVL is the reported total value locked in dollars.
	TVL float64

	// Change1d is the 24h TVL change percentage, the volatility
	// metric the trending list is ranked by.
	Change1d float64
}

// ProtocolProvider is the external DeFi analytics API. The core must
// tolerate the provider being fully unavailable and fall back to the
// local dataset without a behaviour-visible crash.
type ProtocolProvider interface {
	// Search finds protocols by free-text name match.
	Search(ctx context.Context, name string) ([]domain.Protocol, error)

	// Detail fetches the full record for a provider slug.
	Detail(ctx context.Context, slug string) (*domain.Protocol, error)

	// Trending returns up to limit protocols ranked by 24h change.
	Trending(ctx context.Context, limit int) ([]TrendingEntry, error)
}

// LocalDataset supplies the static fallback protocol records merged
// into every refresh for entities the provider did not return.
type LocalDataset interface {
	// Protocols returns all fallback records.
	Protocols(ctx context.Context) ([]domain.Protocol, error)
}
