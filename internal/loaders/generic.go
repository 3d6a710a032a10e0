package loaders

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
)

// Ensure GenericLoader implements the interface.
var _ driven.ChunkLoader = (*GenericLoader)(nil)

// GenericLoader is the fallback for structured artifacts with no
// dedicated loader. It flattens the data into a readable outline:
// one level of nesting unrolled into bullet lines, arrays unrolled
// into a numbered list of their raw serialised form.
type GenericLoader struct{}

// NewGenericLoader creates the generic JSON fallback loader.
func NewGenericLoader() *GenericLoader {
	return &GenericLoader{}
}

// CanLoad accepts any JSON artifact. Register this loader last.
func (l *GenericLoader) CanLoad(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".json"
}

// Load reads the artifact and flattens it into one outline chunk.
func (l *GenericLoader) Load(_ context.Context, path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	source := filepath.Base(path)
	content := strings.TrimSpace(outline(parsed))
	if content == "" {
		return nil, fmt.Errorf("%s: empty artifact: %w", path, domain.ErrInvalidInput)
	}

	return []domain.Chunk{{
		ID:       uuid.NewString(),
		Content:  fmt.Sprintf("Data from %s:\n%s", source, content),
		Source:   source,
		Category: "Data",
	}}, nil
}

// outline renders the top level of the parsed value.
func outline(v any) string {
	var b strings.Builder
	switch t := v.(type) {
	case map[string]any:
		for _, key := range sortedFieldKeys(t) {
			writeOutlineEntry(&b, humanizeKey(key), t[key])
		}
	case []any:
		writeNumberedList(&b, "", t)
	default:
		b.WriteString(formatValue(v))
	}
	return b.String()
}

// writeOutlineEntry renders one key with one level of nesting
// unrolled; anything deeper falls back to raw serialisation.
func writeOutlineEntry(b *strings.Builder, label string, v any) {
	switch t := v.(type) {
	case map[string]any:
		fmt.Fprintf(b, "%s:\n", label)
		for _, key := range sortedFieldKeys(t) {
			fmt.Fprintf(b, "- %s: %s\n", humanizeKey(key), formatValue(t[key]))
		}
	case []any:
		writeNumberedList(b, label, t)
	default:
		fmt.Fprintf(b, "%s: %s\n", label, formatValue(v))
	}
}

func writeNumberedList(b *strings.Builder, label string, items []any) {
	if label != "" {
		fmt.Fprintf(b, "%s:\n", label)
	}
	for i, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			raw = []byte(fmt.Sprintf("%v", item))
		}
		fmt.Fprintf(b, "%d. %s\n", i+1, string(raw))
	}
}
