// Package llama provides a ProtocolProvider adapter for the DefiLlama
// public API.
package llama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
)

// Ensure Provider implements the interface.
var _ driven.ProtocolProvider = (*Provider)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.llama.fi"
	DefaultTimeout = 30 * time.Second

	// DefaultRateLimit keeps detail fetches under the public API's
	// unauthenticated ceiling.
	DefaultRateLimit = rate.Limit(5) // requests per second
	DefaultRateBurst = 5

	// targetChain scopes the trending list to the Base ecosystem.
	targetChain = "Base"
)

// Config holds configuration for the DefiLlama provider.
type Config struct {
	// BaseURL is the API base URL (default: https://api.llama.fi).
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RateLimit caps outgoing requests per second (default: 5).
	RateLimit rate.Limit

	// RateBurst is the limiter burst size (default: 5).
	RateBurst int
}

// Provider fetches protocol analytics from the DefiLlama API.
type Provider struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter
}

// listEntry is one element of the /protocols response.
type listEntry struct {
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Category string   `json:"category"`
	TVL      any      `json:"tvl"`
	Change1d float64  `json:"change_1d"`
	Change7d float64  `json:"change_7d"`
	Chains   []string `json:"chains"`
	URL      string   `json:"url"`
}

// detailResponse is the /protocol/{slug} response. ChainTvls carries
// per-chain balances keyed by chain name; the Base entry is preferred
// over the aggregate when present.
type detailResponse struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	TVL         any                `json:"tvl"`
	Change1d    float64            `json:"change_1d"`
	Change7d    float64            `json:"change_7d"`
	Chains      []string           `json:"chains"`
	URL         string             `json:"url"`
	ChainTVLs   map[string]float64 `json:"currentChainTvls"`
}

// New creates a DefiLlama provider.
func New(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst == 0 {
		cfg.RateBurst = DefaultRateBurst
	}

	return &Provider{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		limiter: rate.NewLimiter(cfg.RateLimit, cfg.RateBurst),
	}
}

// Search finds protocols whose name contains the given text.
func (p *Provider) Search(ctx context.Context, name string) ([]domain.Protocol, error) {
	entries, err := p.listProtocols(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, domain.ErrInvalidInput
	}

	var matches []domain.Protocol
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Name), needle) {
			matches = append(matches, entryToProtocol(e))
		}
	}
	return matches, nil
}

// Detail fetches the full record for a provider slug.
func (p *Provider) Detail(ctx context.Context, slug string) (*domain.Protocol, error) {
	var detail detailResponse
	if err := p.get(ctx, "/protocol/"+slug, &detail); err != nil {
		return nil, fmt.Errorf("detail %q: %w", slug, err)
	}
	if detail.Name == "" {
		return nil, fmt.Errorf("detail %q: %w", slug, domain.ErrNotFound)
	}

	tvl := domain.ParseTVL(detail.TVL)
	if baseTVL, ok := detail.ChainTVLs[targetChain]; ok {
		tvl = baseTVL
	}

	proto := domain.Protocol{
		Name:        detail.Name,
		Description: detail.Description,
		Category:    detail.Category,
		TVL:         tvl,
		Website:     detail.URL,
		Chains:      len(detail.Chains),
		Change1d:    detail.Change1d,
		Change7d:    detail.Change7d,
	}
	return &proto, nil
}

// Trending returns up to limit Base-chain protocols ranked by the
// magnitude of their 24h TVL change.
func (p *Provider) Trending(ctx context.Context, limit int) ([]driven.TrendingEntry, error) {
	entries, err := p.listProtocols(ctx)
	if err != nil {
		return nil, err
	}

	var onChain []listEntry
	for _, e := range entries {
		if containsChain(e.Chains, targetChain) {
			onChain = append(onChain, e)
		}
	}

	sort.SliceStable(onChain, func(i, j int) bool {
		return math.Abs(onChain[i].Change1d) > math.Abs(onChain[j].Change1d)
	})
	if limit > 0 && len(onChain) > limit {
		onChain = onChain[:limit]
	}

	trending := make([]driven.TrendingEntry, 0, len(onChain))
	for _, e := range onChain {
		slug := e.Slug
		if slug == "" {
			slug = slugify(e.Name)
		}
		trending = append(trending, driven.TrendingEntry{
			Slug:     slug,
			Name:     e.Name,
			TVL:      domain.ParseTVL(e.TVL),
			Change1d: e.Change1d,
		})
	}
	return trending, nil
}

func (p *Provider) listProtocols(ctx context.Context) ([]listEntry, error) {
	var entries []listEntry
	if err := p.get(ctx, "/protocols", &entries); err != nil {
		return nil, fmt.Errorf("list protocols: %w", err)
	}
	return entries, nil
}

// get performs a rate-limited GET and decodes the JSON response into
// out. Non-2xx statuses map onto the domain's provider errors.
func (p *Provider) get(ctx context.Context, path string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", domain.ErrProviderUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func entryToProtocol(e listEntry) domain.Protocol {
	return domain.Protocol{
		Name:     e.Name,
		Category: e.Category,
		TVL:      domain.ParseTVL(e.TVL),
		Website:  e.URL,
		Chains:   len(e.Chains),
		Change1d: e.Change1d,
		Change7d: e.Change7d,
	}
}

func containsChain(chains []string, want string) bool {
	for _, c := range chains {
		if strings.EqualFold(c, want) {
			return true
		}
	}
	return false
}

func slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
