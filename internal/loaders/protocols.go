package loaders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
)

// Ensure ProtocolsLoader implements the interface.
var _ driven.ChunkLoader = (*ProtocolsLoader)(nil)

// ProtocolsLoader ingests a structured protocol list (a JSON array of
// protocol records) into: one summary chunk per entity, a TVL ranking
// table chunk, one chunk per category grouping and an ecosystem-wide
// summary chunk.
type ProtocolsLoader struct{}

// NewProtocolsLoader creates a protocols list loader.
func NewProtocolsLoader() *ProtocolsLoader {
	return &ProtocolsLoader{}
}

// protocolRecord mirrors one entry of the protocols artifact. TVL may
// arrive as a number or a pre-formatted string like "$1.2M".
type protocolRecord struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	TVL         any     `json:"tvl"`
	Website     string  `json:"website"`
	Chains      int     `json:"chains"`
	Change1d    float64 `json:"change_1d"`
	Change7d    float64 `json:"change_7d"`
}

// CanLoad accepts protocol list artifacts by naming convention.
func (l *ProtocolsLoader) CanLoad(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), "protocols.json")
}

// Load reads the artifact and builds its chunk set.
func (l *ProtocolsLoader) Load(_ context.Context, path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var records []protocolRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	source := filepath.Base(path)
	var chunks []domain.Chunk

	// One summary chunk per entity.
	for _, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.NewString(),
			Content:  entitySummary(rec),
			Source:   source,
			Protocol: rec.Name,
			Category: rec.Category,
		})
	}

	if ranking := rankingChunk(records, source); ranking != nil {
		chunks = append(chunks, *ranking)
	}
	chunks = append(chunks, categoryChunks(records, source)...)
	if eco := ecosystemChunk(records, source); eco != nil {
		chunks = append(chunks, *eco)
	}

	return chunks, nil
}

// entitySummary renders one protocol record as a labelled paragraph.
// The labels double as anchors for the comparison extractors.
func entitySummary(rec protocolRecord) string {
	var b strings.Builder
	desc := rec.Description
	if desc == "" {
		desc = domain.PlaceholderDescription
	}
	fmt.Fprintf(&b, "%s: %s\n", rec.Name, desc)

	cat := rec.Category
	if cat == "" {
		cat = domain.PlaceholderCategory
	}
	fmt.Fprintf(&b, "Category: %s. TVL: %s. 24h Change: %.2f%%. 7d Change: %.2f%%.",
		cat, domain.FormatTVL(domain.ParseTVL(rec.TVL)), rec.Change1d, rec.Change7d)

	if rec.Chains > 0 {
		fmt.Fprintf(&b, " Deployed on %d chains.", rec.Chains)
	}
	if rec.Website != "" {
		fmt.Fprintf(&b, " Website: %s", rec.Website)
	}
	return b.String()
}

// rankingChunk builds the TVL ranking table over the whole list.
func rankingChunk(records []protocolRecord, source string) *domain.Chunk {
	ranked := sortByTVL(records)
	if len(ranked) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("Base Protocol TVL Ranking:\n")
	for i, rec := range ranked {
		fmt.Fprintf(&b, "%d. %s - %s\n", i+1, rec.Name, domain.FormatTVL(domain.ParseTVL(rec.TVL)))
	}

	return &domain.Chunk{
		ID:       uuid.NewString(),
		Content:  strings.TrimRight(b.String(), "\n"),
		Source:   source,
		Category: "Ranking",
	}
}

// categoryChunks builds one grouping chunk per category, categories
// in alphabetical order, members by descending TVL.
func categoryChunks(records []protocolRecord, source string) []domain.Chunk {
	groups := make(map[string][]protocolRecord)
	for _, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			continue
		}
		cat := rec.Category
		if cat == "" {
			cat = domain.PlaceholderCategory
		}
		groups[cat] = append(groups[cat], rec)
	}

	cats := make([]string, 0, len(groups))
	for cat := range groups {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	var chunks []domain.Chunk
	for _, cat := range cats {
		members := sortByTVL(groups[cat])
		parts := make([]string, len(members))
		for i, rec := range members {
			parts[i] = fmt.Sprintf("%s (%s)", rec.Name, domain.FormatTVL(domain.ParseTVL(rec.TVL)))
		}
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.NewString(),
			Content:  fmt.Sprintf("%s protocols on Base: %s", cat, strings.Join(parts, ", ")),
			Source:   source,
			Category: cat,
		})
	}
	return chunks
}

// ecosystemChunk summarises the whole list: entity count, combined
// TVL and the largest categories.
func ecosystemChunk(records []protocolRecord, source string) *domain.Chunk {
	if len(records) == 0 {
		return nil
	}

	total := 0.0
	catTotals := make(map[string]float64)
	for _, rec := range records {
		v := domain.ParseTVL(rec.TVL)
		total += v
		cat := rec.Category
		if cat == "" {
			cat = domain.PlaceholderCategory
		}
		catTotals[cat] += v
	}

	cats := make([]string, 0, len(catTotals))
	for cat := range catTotals {
		cats = append(cats, cat)
	}
	sort.Slice(cats, func(i, j int) bool {
		if catTotals[cats[i]] != catTotals[cats[j]] {
			return catTotals[cats[i]] > catTotals[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > 3 {
		cats = cats[:3]
	}

	content := fmt.Sprintf(
		"The Base DeFi ecosystem tracks %d protocols with a combined TVL of %s. Largest categories: %s.",
		len(records), domain.FormatTVL(total), strings.Join(cats, ", "))

	return &domain.Chunk{
		ID:       uuid.NewString(),
		Content:  content,
		Source:   source,
		Category: "Ecosystem",
	}
}

// sortByTVL returns a copy of records sorted by parsed TVL descending,
// ties broken by name so ordering is deterministic.
func sortByTVL(records []protocolRecord) []protocolRecord {
	out := make([]protocolRecord, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		vi, vj := domain.ParseTVL(out[i].TVL), domain.ParseTVL(out[j].TVL)
		if vi != vj {
			return vi > vj
		}
		return out[i].Name < out[j].Name
	})
	return out
}
