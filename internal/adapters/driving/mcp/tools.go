package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

// SearchDocsInput is the input schema for the search_docs tool.
type SearchDocsInput struct {
	Query string `json:"query" jsonschema:"free-text question about the Base DeFi ecosystem"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of document chunks to return (default 5)"`
}

// SearchDocsOutput is the output schema for the search_docs tool.
type SearchDocsOutput struct {
	Results []ChunkOutput `json:"results"`
	Count   int           `json:"count"`
}

// ChunkOutput represents a single retrieved document chunk.
type ChunkOutput struct {
	Content  string  `json:"content"`
	Source   string  `json:"source"`
	Protocol string  `json:"protocol,omitempty"`
	Category string  `json:"category,omitempty"`
	Score    float64 `json:"score"`
}

// LookupProtocolInput is the input schema for the lookup_protocol tool.
type LookupProtocolInput struct {
	Name string `json:"name" jsonschema:"protocol name, alias or partial name to resolve"`
}

// ProtocolOutput is the cached record returned by lookup_protocol.
type ProtocolOutput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	TVL         string  `json:"tvl"`
	Website     string  `json:"website"`
	Chains      int     `json:"chains"`
	Change1d    float64 `json:"change_1d"`
	Change7d    float64 `json:"change_7d"`
	Source      string  `json:"source"`
}

// CompareInput is the input schema for the compare_protocols tool.
type CompareInput struct {
	First  string `json:"first" jsonschema:"first protocol name"`
	Second string `json:"second" jsonschema:"second protocol name"`
}

// CompareOutput is the synthesized comparison returned by compare_protocols.
type CompareOutput struct {
	Comparison string `json:"comparison"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_docs",
		Description: "Search the Base ecosystem document corpus for relevant context",
	}, s.handleSearchDocs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "lookup_protocol",
		Description: "Look up a cached Base protocol record by name or alias",
	}, s.handleLookupProtocol)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "compare_protocols",
		Description: "Compare two Base protocols side by side on their tracked metrics",
	}, s.handleCompare)
}

// handleSearchDocs handles the search_docs tool invocation.
func (s *Server) handleSearchDocs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchDocsInput,
) (*mcp.CallToolResult, SearchDocsOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 5
	}

	chunks, err := s.ports.Retrieval.FindRelevantDocuments(ctx, input.Query, limit)
	if err != nil {
		return nil, SearchDocsOutput{}, err
	}

	output := SearchDocsOutput{
		Results: make([]ChunkOutput, len(chunks)),
		Count:   len(chunks),
	}
	for i, c := range chunks {
		output.Results[i] = ChunkOutput{
			Content:  c.Content,
			Source:   c.Source,
			Protocol: c.Protocol,
			Category: c.Category,
			Score:    c.Score,
		}
	}

	return nil, output, nil
}

// handleLookupProtocol handles the lookup_protocol tool invocation.
func (s *Server) handleLookupProtocol(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input LookupProtocolInput,
) (*mcp.CallToolResult, ProtocolOutput, error) {
	proto, err := s.ports.Cache.Lookup(ctx, input.Name)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &mcp.CallToolResult{
				Content: []mcp.Content{&mcp.TextContent{
					Text: "No cached protocol matches " + input.Name,
				}},
				IsError: true,
			}, ProtocolOutput{}, nil
		}
		return nil, ProtocolOutput{}, err
	}

	return nil, ProtocolOutput{
		Name:        proto.Name,
		Description: proto.Description,
		Category:    proto.Category,
		TVL:         domain.FormatTVL(proto.TVL),
		Website:     proto.Website,
		Chains:      proto.Chains,
		Change1d:    proto.Change1d,
		Change7d:    proto.Change7d,
		Source:      proto.Source,
	}, nil
}

// handleCompare handles the compare_protocols tool invocation.
func (s *Server) handleCompare(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompareInput,
) (*mcp.CallToolResult, CompareOutput, error) {
	first := strings.TrimSpace(input.First)
	second := strings.TrimSpace(input.Second)
	if first == "" || second == "" {
		return nil, CompareOutput{}, domain.ErrInvalidInput
	}

	query := "compare " + first + " vs " + second
	chunks, err := s.ports.Retrieval.FindRelevantDocuments(ctx, query, 1)
	if err != nil {
		return nil, CompareOutput{}, err
	}
	if len(chunks) == 0 {
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{
				Text: "Not enough data to compare " + first + " and " + second,
			}},
			IsError: true,
		}, CompareOutput{}, nil
	}

	return nil, CompareOutput{Comparison: chunks[0].Content}, nil
}
