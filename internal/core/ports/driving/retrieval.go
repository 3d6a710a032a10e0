package driving

import (
	"context"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

// RetrievalService is the query interface the chat and social layers
// consume. It is the only surface those layers need from the core.
type RetrievalService interface {
	// FindRelevantDocuments returns up to limit chunks ordered by
	// descending relevance, with stable tie-break on corpus order.
	// A query with no matches returns an empty list, not an error.
	FindRelevantDocuments(ctx context.Context, query string, limit int) ([]domain.Chunk, error)

	// FormatContext joins chunks into a single labelled text blob
	// suitable for grounding a language model prompt.
	FormatContext(chunks []domain.Chunk) string
}
