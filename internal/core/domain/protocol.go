package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Placeholder values used when upstream data is missing a text field.
// Downstream formatting must never render an empty string.
const (
	PlaceholderDescription = "No description available"
	PlaceholderCategory    = "DeFi"
	PlaceholderWebsite     = "Not available"
)

// Protocol source tags.
const (
	SourceAPI   = "api"
	SourceLocal = "local"
)

// Protocol is a tracked DeFi protocol or mini app. Records are created
// whole on each refresh cycle and never mutated field-by-field.
type Protocol struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	TVL         float64   `json:"tvl"`
	Website     string    `json:"website"`
	Chains      int       `json:"chains"`
	Change1d    float64   `json:"change_1d"`
	Change7d    float64   `json:"change_7d"`
	LastUpdated time.Time `json:"last_updated"`
	Source      string    `json:"source"`
}

// Sanitize coerces a protocol record to the stored invariants: TVL is
// non-negative and finite, missing numeric fields default to 0 and
// missing text fields default to explicit placeholder text. All
// defaulting logic lives here, not at call sites.
func (p Protocol) Sanitize() Protocol {
	if p.TVL < 0 || math.IsNaN(p.TVL) || math.IsInf(p.TVL, 0) {
		p.TVL = 0
	}
	if math.IsNaN(p.Change1d) || math.IsInf(p.Change1d, 0) {
		p.Change1d = 0
	}
	if math.IsNaN(p.Change7d) || math.IsInf(p.Change7d, 0) {
		p.Change7d = 0
	}
	if p.Chains < 0 {
		p.Chains = 0
	}
	if strings.TrimSpace(p.Name) == "" {
		p.Name = "Unknown"
	}
	if strings.TrimSpace(p.Description) == "" {
		p.Description = PlaceholderDescription
	}
	if strings.TrimSpace(p.Category) == "" {
		p.Category = PlaceholderCategory
	}
	if strings.TrimSpace(p.Website) == "" {
		p.Website = PlaceholderWebsite
	}
	if p.Source != SourceAPI && p.Source != SourceLocal {
		p.Source = SourceAPI
	}
	if p.LastUpdated.IsZero() {
		p.LastUpdated = time.Now().UTC()
	}
	return p
}

// ParseTVL extracts a non-negative dollar amount from a possibly
// formatted value such as "$1.2M", "3.4b" or a plain number. Currency
// symbols and commas are stripped; K/M/B suffixes multiply by 1e3, 1e6
// and 1e9. Unparseable input yields 0.
func ParseTVL(v any) float64 {
	switch t := v.(type) {
	case float64:
		if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return 0
		}
		return t
	case int:
		if t < 0 {
			return 0
		}
		return float64(t)
	case string:
		return parseTVLString(t)
	default:
		return 0
	}
}

func parseTVLString(s string) float64 {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}

	mult := 1.0
	switch s[len(s)-1] {
	case 'K':
		mult = 1e3
		s = s[:len(s)-1]
	case 'M':
		mult = 1e6
		s = s[:len(s)-1]
	case 'B':
		mult = 1e9
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n * mult
}

// FormatTVL renders a dollar amount with a K/M/B suffix, the inverse
// of ParseTVL for display purposes.
func FormatTVL(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.2fK", v/1e3)
	default:
		return fmt.Sprintf("$%.2f", v)
	}
}
