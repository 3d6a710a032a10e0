package mcp

import (
	"github.com/arkline-labs/chainpulse/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Retrieval answers free-text queries against the corpus.
	Retrieval driving.RetrievalService

	// Cache serves direct protocol lookups from the snapshot.
	Cache driving.CacheService

	// Refresh reports refresh status and triggers manual refreshes.
	// Optional; the refresh tool is omitted when nil.
	Refresh driving.RefreshOrchestrator
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	if p.Cache == nil {
		return ErrMissingCacheService
	}
	return nil
}
