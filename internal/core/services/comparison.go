package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
	"github.com/arkline-labs/chainpulse/internal/logger"
)

// ComparisonService builds a single synthetic chunk comparing two or
// more protocols side by side. Metric values are regex-extracted from
// the entities' existing chunks; the extractors are deliberately kept
// behind named functions so they can be swapped for structured lookups
// if upstream data gains a real schema.
type ComparisonService struct{}

// NewComparisonService creates a comparison synthesizer.
func NewComparisonService() *ComparisonService {
	return &ComparisonService{}
}

// comparisonMetrics holds whatever could be extracted for one entity.
// Empty fields render as "N/A".
type comparisonMetrics struct {
	category string
	tvl      string
	change1d string
	revenue  string
	users    string
}

// Metric extraction patterns. All tolerate currency symbols, commas
// and K/M/B magnitude suffixes.
var (
	categoryPattern = regexp.MustCompile(`(?i)Category:\s*([A-Za-z][A-Za-z /&-]*)`)
	tvlPattern      = regexp.MustCompile(`(?i)TVL[^$\d]{0,10}(\$?[\d,.]+[KMBkmb]?)`)
	change1dPattern = regexp.MustCompile(`(?i)24h Change:\s*(-?[\d.]+%?)`)
	revenuePattern  = regexp.MustCompile(`(?i)Revenue[^$\d]{0,10}(\$?[\d,.]+[KMBkmb]?)`)
	usersPattern    = regexp.MustCompile(`(?i)Users[^\d]{0,10}([\d,.]+[KMBkmb]?)`)
)

// Synthesize builds the comparison chunk for the named entities from
// their existing corpus chunks. Returns false when fewer than two
// entities resolve to chunks, letting the router fall through to
// normal ranking.
func (s *ComparisonService) Synthesize(entities []string, corpus []domain.Chunk) (domain.Chunk, bool) {
	type resolved struct {
		name    string
		text    string
		excerpt string
	}

	var found []resolved
	for _, name := range entities {
		chunks := filterByProtocol(corpus, name)
		if len(chunks) == 0 {
			logger.Debug("Comparison: no chunks for %q", name)
			continue
		}
		var b strings.Builder
		for _, c := range chunks {
			b.WriteString(c.Content)
			b.WriteString("\n")
		}
		found = append(found, resolved{
			name:    name,
			text:    b.String(),
			excerpt: descriptionExcerpt(chunks[0].Content),
		})
	}

	if len(found) < 2 {
		return domain.Chunk{}, false
	}

	names := make([]string, len(found))
	metrics := make([]comparisonMetrics, len(found))
	for i, r := range found {
		names[i] = r.name
		metrics[i] = extractMetrics(r.text)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Comparison: %s\n\n", strings.Join(names, " vs "))

	for _, r := range found {
		fmt.Fprintf(&b, "%s: %s\n", r.name, r.excerpt)
	}
	b.WriteString("\n")

	writeMetricRow(&b, "Category", names, metrics, func(m comparisonMetrics) string { return m.category })
	writeMetricRow(&b, "TVL", names, metrics, func(m comparisonMetrics) string { return m.tvl })
	writeMetricRow(&b, "24h Change", names, metrics, func(m comparisonMetrics) string { return m.change1d })
	writeMetricRow(&b, "Revenue", names, metrics, func(m comparisonMetrics) string { return m.revenue })
	writeMetricRow(&b, "Users", names, metrics, func(m comparisonMetrics) string { return m.users })

	b.WriteString("\n")
	b.WriteString(comparisonSummary(names, metrics))

	return domain.Chunk{
		ID:       uuid.NewString(),
		Content:  b.String(),
		Source:   "comparison",
		Protocol: strings.Join(names, ", "),
		Category: "Comparison",
		// Pinned to the maximum lexical score so the synthetic chunk
		// is never out-ranked.
		Score: 1.0,
	}, true
}

// extractMetrics runs every named extractor over the entity's text.
func extractMetrics(text string) comparisonMetrics {
	return comparisonMetrics{
		category: extractCategory(text),
		tvl:      extractTVL(text),
		change1d: extractChange1d(text),
		revenue:  extractRevenue(text),
		users:    extractUsers(text),
	}
}

func extractCategory(text string) string {
	if m := categoryPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractTVL(text string) string {
	if m := tvlPattern.FindStringSubmatch(text); m != nil {
		if v := domain.ParseTVL(m[1]); v > 0 {
			return domain.FormatTVL(v)
		}
	}
	return ""
}

func extractChange1d(text string) string {
	if m := change1dPattern.FindStringSubmatch(text); m != nil {
		val := strings.TrimSpace(m[1])
		if !strings.HasSuffix(val, "%") {
			val += "%"
		}
		return val
	}
	return ""
}

func extractRevenue(text string) string {
	if m := revenuePattern.FindStringSubmatch(text); m != nil {
		if v := domain.ParseTVL(m[1]); v > 0 {
			return domain.FormatTVL(v)
		}
	}
	return ""
}

func extractUsers(text string) string {
	if m := usersPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// writeMetricRow emits one table row: "TVL: A=$1.2B | B=$800M".
// Missing values render as "N/A", never blank.
func writeMetricRow(
	b *strings.Builder,
	label string,
	names []string,
	metrics []comparisonMetrics,
	pick func(comparisonMetrics) string,
) {
	cells := make([]string, len(names))
	for i := range names {
		val := pick(metrics[i])
		if val == "" {
			val = "N/A"
		}
		cells[i] = fmt.Sprintf("%s=%s", names[i], val)
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.Join(cells, " | "))
}

// comparisonSummary assembles a short narrative sentence from the
// metrics that were actually found.
func comparisonSummary(names []string, metrics []comparisonMetrics) string {
	var parts []string

	// TVL leader, when every entity reported one.
	leader, ok := tvlLeader(names, metrics)
	if ok {
		parts = append(parts, fmt.Sprintf("%s leads on TVL", leader))
	}

	for i, m := range metrics {
		if m.change1d != "" {
			parts = append(parts, fmt.Sprintf("%s moved %s over 24h", names[i], m.change1d))
		}
	}

	if len(parts) == 0 {
		return fmt.Sprintf("%s are both active on Base; not enough metric data for a deeper comparison.",
			strings.Join(names, " and "))
	}
	return strings.Join(parts, "; ") + "."
}

func tvlLeader(names []string, metrics []comparisonMetrics) (string, bool) {
	best := -1.0
	leader := ""
	for i, m := range metrics {
		if m.tvl == "" {
			return "", false
		}
		v := domain.ParseTVL(m.tvl)
		if v > best {
			best = v
			leader = names[i]
		}
	}
	return leader, leader != ""
}

// descriptionExcerpt trims an entity chunk down to its first sentence,
// capped at 200 characters.
func descriptionExcerpt(content string) string {
	content = strings.TrimSpace(content)
	if idx := strings.IndexAny(content, ".\n"); idx > 0 {
		content = content[:idx+1]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "\n")
	if len(content) > 200 {
		content = content[:200] + "..."
	}
	return content
}
