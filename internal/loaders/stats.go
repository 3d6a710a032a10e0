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

// Ensure StatsLoader implements the interface.
var _ driven.ChunkLoader = (*StatsLoader)(nil)

// StatsLoader ingests per-entity statistics artifacts. Every entity
// yields exactly two chunks: a detailed multi-section narrative and a
// condensed one-paragraph summary, distinguished by category label.
type StatsLoader struct{}

// NewStatsLoader creates a statistics artifact loader.
func NewStatsLoader() *StatsLoader {
	return &StatsLoader{}
}

// statsRecord mirrors one entity's statistics. Sections are free-form
// key/value maps; a section is rendered only when at least one field
// is present.
type statsRecord struct {
	Protocol  string         `json:"protocol"`
	Usage     map[string]any `json:"usage"`
	Users     map[string]any `json:"users"`
	Financial map[string]any `json:"financial"`
	Other     map[string]any `json:"other"`
}

// CanLoad accepts statistics artifacts by naming convention.
func (l *StatsLoader) CanLoad(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), "stats.json")
}

// Load reads the artifact, which holds either a single statistics
// record or an array of them, and builds two chunks per entity.
func (l *StatsLoader) Load(_ context.Context, path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	records, err := decodeStats(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	source := filepath.Base(path)
	var chunks []domain.Chunk
	for _, rec := range records {
		if strings.TrimSpace(rec.Protocol) == "" {
			continue
		}
		chunks = append(chunks,
			domain.Chunk{
				ID:       uuid.NewString(),
				Content:  detailedStats(rec),
				Source:   source,
				Protocol: rec.Protocol,
				Category: "Detailed Stats",
			},
			domain.Chunk{
				ID:       uuid.NewString(),
				Content:  statsSummary(rec),
				Source:   source,
				Protocol: rec.Protocol,
				Category: "Summary",
			},
		)
	}
	return chunks, nil
}

func decodeStats(data []byte) ([]statsRecord, error) {
	var many []statsRecord
	if err := json.Unmarshal(data, &many); err == nil {
		return many, nil
	}
	var one statsRecord
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, err
	}
	return []statsRecord{one}, nil
}

// detailedStats renders the multi-section narrative. Sections with no
// fields are omitted entirely.
func detailedStats(rec statsRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Detailed statistics for %s:\n", rec.Protocol)

	writeSection(&b, "Usage Metrics", rec.Usage)
	writeSection(&b, "User Metrics", rec.Users)
	writeSection(&b, "Financial Metrics", rec.Financial)
	writeSection(&b, "Other Metrics", rec.Other)

	return strings.TrimRight(b.String(), "\n")
}

func writeSection(b *strings.Builder, title string, fields map[string]any) {
	if len(fields) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, key := range sortedFieldKeys(fields) {
		fmt.Fprintf(b, "- %s: %s\n", humanizeKey(key), formatValue(fields[key]))
	}
}

// statsSummary condenses every present field into one paragraph.
func statsSummary(rec statsRecord) string {
	var parts []string
	for _, section := range []map[string]any{rec.Usage, rec.Users, rec.Financial, rec.Other} {
		for _, key := range sortedFieldKeys(section) {
			parts = append(parts, fmt.Sprintf("%s %s", humanizeKey(key), formatValue(section[key])))
		}
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s: no statistics reported.", rec.Protocol)
	}
	return fmt.Sprintf("%s at a glance: %s.", rec.Protocol, strings.Join(parts, ", "))
}

func sortedFieldKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// humanizeKey turns snake_case field names into title-cased labels.
func humanizeKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	case string:
		return t
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(raw)
	}
}
