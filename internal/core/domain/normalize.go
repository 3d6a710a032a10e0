package domain

import (
	"strings"
	"unicode"
)

// aliases maps well-known alternative spellings to canonical keys.
// Consulted during both normalisation and lookup; read-only at run time.
var aliases = map[string]string{
	"morpho blue":     "morpho",
	"morpho protocol": "morpho",
	"uni":             "uniswap",
	"uniswap v3":      "uniswap",
	"uniswap v4":      "uniswap",
	"aero":            "aerodrome",
	"aerodrome slipstream": "aerodrome",
	"aave v3":         "aave",
	"compound v3":     "compound",
	"comp":            "compound",
	"moonwell apollo": "moonwell",
	"extra":           "extrafi",
	"extra finance":   "extrafi",
	"base bridge":     "basebridge",
	"virtuals":        "virtuals protocol",
}

// NormalizeKey derives the canonical identity for an entity name:
// lower-cased, punctuation stripped, whitespace collapsed and alias
// resolved. This is the only identity mechanism; no numeric IDs exist.
func NormalizeKey(name string) string {
	folded := FoldName(name)
	if canonical, ok := aliases[folded]; ok {
		return canonical
	}
	return folded
}

// ResolveAlias returns the canonical key for a folded name if an alias
// entry exists.
func ResolveAlias(name string) (string, bool) {
	canonical, ok := aliases[FoldName(name)]
	return canonical, ok
}

// FoldName lower-cases a name, strips punctuation and collapses runs
// of whitespace to single spaces. Unlike NormalizeKey it does not
// consult the alias table; the cache lookup tiers need the two steps
// separately.
func FoldName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
		// Punctuation is dropped entirely.
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
