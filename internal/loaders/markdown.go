package loaders

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/core/ports/driven"
)

// Ensure MarkdownLoader implements the interface.
var _ driven.ChunkLoader = (*MarkdownLoader)(nil)

// MarkdownLoader ingests free-text narrative artifacts (.md/.txt),
// splitting on second-level headings into one chunk per section,
// tagged with the section heading as its category. The ecosystem
// overview document is special-cased: its preamble becomes its own
// "Overview" chunk instead of being dropped.
type MarkdownLoader struct{}

// NewMarkdownLoader creates a narrative artifact loader.
func NewMarkdownLoader() *MarkdownLoader {
	return &MarkdownLoader{}
}

// CanLoad accepts markdown and plain-text artifacts.
func (l *MarkdownLoader) CanLoad(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".txt"
}

// Load reads the artifact and splits it into section chunks.
func (l *MarkdownLoader) Load(_ context.Context, path string) ([]domain.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("%s: empty artifact: %w", path, domain.ErrInvalidInput)
	}

	source := filepath.Base(path)
	overview := isOverview(source)

	preamble, sections := splitSections(text)

	var chunks []domain.Chunk
	if overview && preamble != "" {
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.NewString(),
			Content:  preamble,
			Source:   source,
			Category: "Overview",
		})
	}

	for _, sec := range sections {
		if sec.body == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.NewString(),
			Content:  sec.body,
			Source:   source,
			Category: sec.heading,
		})
	}

	// A heading-free document still yields one chunk.
	if len(chunks) == 0 && preamble != "" {
		chunks = append(chunks, domain.Chunk{
			ID:       uuid.NewString(),
			Content:  preamble,
			Source:   source,
			Category: docTitle(source),
		})
	}

	return chunks, nil
}

type section struct {
	heading string
	body    string
}

// splitSections splits on the "## " heading convention. The returned
// preamble is any text before the first heading.
func splitSections(text string) (string, []section) {
	lines := strings.Split(text, "\n")

	var preamble []string
	var sections []section
	var current *section

	flush := func() {
		if current != nil {
			current.body = strings.TrimSpace(current.body)
			sections = append(sections, *current)
			current = nil
		}
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "## ") {
			flush()
			current = &section{heading: strings.TrimSpace(strings.TrimPrefix(line, "## "))}
			continue
		}
		if current != nil {
			current.body += line + "\n"
		} else if !strings.HasPrefix(line, "# ") {
			// Top-level title lines stay out of the preamble body.
			preamble = append(preamble, line)
		}
	}
	flush()

	return strings.TrimSpace(strings.Join(preamble, "\n")), sections
}

func isOverview(name string) bool {
	return strings.Contains(strings.ToLower(name), "overview")
}

// docTitle derives a fallback category from the file name.
func docTitle(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return humanizeKey(strings.ReplaceAll(base, "-", "_"))
}
