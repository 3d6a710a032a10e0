// Package mcp provides an MCP (Model Context Protocol) server adapter
// for chainpulse. It lets AI assistants query the Base ecosystem
// corpus and protocol cache directly.
package mcp

import "errors"

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("mcp: retrieval service is required")

// ErrMissingCacheService is returned when the cache service is not provided.
var ErrMissingCacheService = errors.New("mcp: cache service is required")
