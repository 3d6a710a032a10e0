package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driving"
	"github.com/arkline-labs/chainpulse/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// DefaultRetrievalLimit caps results when the caller passes no limit.
const DefaultRetrievalLimit = 5

// RetrievalService answers queries against the in-memory chunk corpus.
// It routes each query to a candidate subset, scores candidates with a
// lexical term-overlap heuristic and returns the top chunks. There is
// no inverted index and no embedding model; scoring is recomputed per
// query over the candidates.
type RetrievalService struct {
	corpus   driven.CorpusStore
	comparer *ComparisonService
}

// NewRetrievalService creates a retrieval service over the corpus.
func NewRetrievalService(corpus driven.CorpusStore, comparer *ComparisonService) *RetrievalService {
	return &RetrievalService{
		corpus:   corpus,
		comparer: comparer,
	}
}

// FindRelevantDocuments returns up to limit chunks ordered by
// descending relevance with stable tie-break on corpus order.
func (s *RetrievalService) FindRelevantDocuments(
	ctx context.Context, query string, limit int,
) ([]domain.Chunk, error) {
	logger.Section("Retrieval")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.Chunk{}, nil
	}

	if limit <= 0 {
		limit = DefaultRetrievalLimit
	}

	chunks, err := s.corpus.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}

	entities := knownEntities(chunks)

	// Comparison queries bypass ranking entirely: the synthesizer's
	// single chunk is the whole result.
	if domain.ContainsComparisonKeyword(query) {
		mentioned := mentionedEntities(query, entities)
		if len(mentioned) >= 2 {
			logger.Debug("Comparison route: entities=%v", mentioned)
			if synth, ok := s.comparer.Synthesize(mentioned, chunks); ok {
				return []domain.Chunk{synth}, nil
			}
			logger.Debug("Comparison fell through: <2 entities resolvable")
		}
	}

	candidates := s.route(query, chunks, entities)
	logger.Debug("Candidates: %d of %d chunks", len(candidates), len(chunks))

	scored := scoreChunks(query, candidates)

	// Stable sort keeps corpus insertion order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}

	logger.Info("Results: %d", len(scored))
	return scored, nil
}

// FormatContext joins chunks into a single labelled text blob.
func (s *RetrievalService) FormatContext(chunks []domain.Chunk) string {
	if len(chunks) == 0 {
		return ""
	}

	var b strings.Builder
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(fmt.Sprintf("[%d] Source: %s", i+1, c.Source))
		if c.Protocol != "" {
			b.WriteString(" | Protocol: " + c.Protocol)
		}
		if c.Category != "" {
			b.WriteString(" | Category: " + c.Category)
		}
		b.WriteString("\n")
		b.WriteString(c.Content)
	}
	return b.String()
}

// route narrows the candidate set before scoring, in priority order:
// explicit entity mention, category keyword, then ecosystem-wide.
// Non-ecosystem queries rank the entire corpus.
func (s *RetrievalService) route(query string, chunks []domain.Chunk, entities []string) []domain.Chunk {
	if !domain.ContainsEcosystemKeyword(query) {
		return chunks
	}

	q := strings.ToLower(query)

	// (a) Explicit entity name, first match in corpus order wins.
	for _, name := range entities {
		if strings.Contains(q, strings.ToLower(name)) {
			logger.Debug("Route: entity filter %q", name)
			return filterByProtocol(chunks, name)
		}
	}

	// (b) Category keyword against the fixed vocabulary.
	if cat := domain.MatchCategory(query); cat != "" {
		logger.Debug("Route: category filter %q", cat)
		if filtered := filterByCategory(chunks, cat); len(filtered) > 0 {
			return filtered
		}
	}

	// (c) Everything that references the ecosystem.
	if filtered := filterByEcosystem(chunks); len(filtered) > 0 {
		logger.Debug("Route: ecosystem filter")
		return filtered
	}

	return chunks
}

// scoreChunks assigns each chunk a score: the count of query terms of
// length > 2 found as a substring of the lower-cased content, divided
// by the total query term count. A query with no terms longer than two
// characters scores 0 everywhere.
func scoreChunks(query string, chunks []domain.Chunk) []domain.Chunk {
	terms := strings.Fields(strings.ToLower(query))
	total := len(terms)

	scored := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		scored[i] = c
		scored[i].Score = 0
		if total == 0 {
			continue
		}
		content := strings.ToLower(c.Content)
		matched := 0
		for _, term := range terms {
			if len(term) > 2 && strings.Contains(content, term) {
				matched++
			}
		}
		scored[i].Score = float64(matched) / float64(total)
	}
	return scored
}

// knownEntities returns the distinct non-ecosystem entity names seen
// across the corpus, in insertion order.
func knownEntities(chunks []domain.Chunk) []string {
	seen := make(map[string]bool)
	var names []string
	for _, c := range chunks {
		if c.Protocol == "" {
			continue
		}
		key := domain.NormalizeKey(c.Protocol)
		if seen[key] || isEcosystemName(key) {
			continue
		}
		seen[key] = true
		names = append(names, c.Protocol)
	}
	return names
}

func isEcosystemName(key string) bool {
	for _, kw := range domain.EcosystemKeywords {
		if key == kw {
			return true
		}
	}
	return false
}

// mentionedEntities returns catalog entities whose names occur in the
// query, preserving catalog order.
func mentionedEntities(query string, entities []string) []string {
	q := strings.ToLower(query)
	var mentioned []string
	for _, name := range entities {
		if strings.Contains(q, strings.ToLower(name)) {
			mentioned = append(mentioned, name)
		}
	}
	return mentioned
}

func filterByProtocol(chunks []domain.Chunk, name string) []domain.Chunk {
	key := domain.NormalizeKey(name)
	var out []domain.Chunk
	for _, c := range chunks {
		if c.Protocol != "" && domain.NormalizeKey(c.Protocol) == key {
			out = append(out, c)
		}
	}
	return out
}

func filterByCategory(chunks []domain.Chunk, cat string) []domain.Chunk {
	var out []domain.Chunk
	for _, c := range chunks {
		if strings.Contains(strings.ToLower(c.Category), cat) {
			out = append(out, c)
		}
	}
	return out
}

func filterByEcosystem(chunks []domain.Chunk) []domain.Chunk {
	var out []domain.Chunk
	for _, c := range chunks {
		src := strings.ToLower(c.Source)
		proto := strings.ToLower(c.Protocol)
		for _, kw := range domain.EcosystemKeywords {
			if strings.Contains(src, kw) || strings.Contains(proto, kw) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
