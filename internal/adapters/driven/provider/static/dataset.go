// Package static provides the embedded fallback protocol dataset used
// when the analytics provider omits a tracked entity or is down.
package static

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
)

// Ensure Dataset implements the interface.
var _ driven.LocalDataset = (*Dataset)(nil)

//go:embed base_protocols.json
var embedded []byte

// Dataset serves a fixed list of well-known Base protocols. The
// embedded records are intentionally conservative: stale TVL figures
// are acceptable because fetched records always take precedence.
type Dataset struct {
	once      sync.Once
	parseErr  error
	protocols []domain.Protocol
	raw       []byte
}

// New returns the embedded fallback dataset.
func New() *Dataset {
	return &Dataset{raw: embedded}
}

// NewFromFile returns a dataset backed by an operator-supplied JSON
// file instead of the embedded records.
func NewFromFile(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fallback dataset: %w", err)
	}
	return &Dataset{raw: raw}, nil
}

// Protocols returns all fallback records.
func (d *Dataset) Protocols(_ context.Context) ([]domain.Protocol, error) {
	d.once.Do(func() {
		var records []domain.Protocol
		if err := json.Unmarshal(d.raw, &records); err != nil {
			d.parseErr = fmt.Errorf("parse fallback dataset: %w", err)
			return
		}
		for i := range records {
			records[i].Source = domain.SourceLocal
			records[i] = records[i].Sanitize()
		}
		d.protocols = records
	})
	if d.parseErr != nil {
		return nil, d.parseErr
	}

	out := make([]domain.Protocol, len(d.protocols))
	copy(out, d.protocols)
	return out, nil
}
