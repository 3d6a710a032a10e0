package domain

// Chunk is a single retrievable unit of text with source and category
// metadata. Chunks are built in bulk during corpus ingestion, held
// immutably by the corpus store and replaced wholesale on reload.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// Content is the text content. Never empty for a valid chunk.
	Content string

	// Source identifies the artifact the chunk was built from
	// (file name or a synthetic source such as "comparison").
	Source string

	// Protocol is the entity this chunk refers to, if any.
	// Free text, not a foreign key; multiple chunks may share it.
	Protocol string

	// Category is a loose label used for filtering
	// (e.g. "Lending", "Detailed Stats", "Comparison").
	Category string

	// Score is the relevance score for the current query.
	// Transient: recomputed on every query, never persisted.
	Score float64
}
