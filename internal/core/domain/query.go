package domain

import "strings"

// Static query vocabularies. Hand-maintained; not derived from corpus
// contents. First match wins wherever these are scanned in order.

// ComparisonKeywords signal that a query wants two or more entities
// compared side by side.
var ComparisonKeywords = []string{
	"compare",
	"comparison",
	"versus",
	"vs",
	"difference",
	"better",
	"between",
}

// EcosystemKeywords signal that a query is about the Base ecosystem:
// the chain itself, the Base App store surface, Basenames identity or
// mini apps.
var EcosystemKeywords = []string{
	"base",
	"base app",
	"coinbase",
	"onchain",
	"mini app",
	"mini apps",
	"miniapp",
	"basename",
	"basenames",
	"farcaster",
}

// CategoryVocabulary is the fixed set of protocol category labels
// recognised for category-filtered routing, scanned in order.
var CategoryVocabulary = []string{
	"lending",
	"dex",
	"dexes",
	"yield",
	"bridge",
	"derivatives",
	"stablecoin",
	"liquid staking",
	"launchpad",
	"social",
	"gaming",
	"payments",
}

// ContainsComparisonKeyword reports whether the query carries
// comparison language (case-insensitive substring match).
func ContainsComparisonKeyword(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range ComparisonKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// ContainsEcosystemKeyword reports whether the query mentions the
// ecosystem vocabulary.
func ContainsEcosystemKeyword(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range EcosystemKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

// MatchCategory returns the first category label found in the query,
// or "" when none matches.
func MatchCategory(query string) string {
	q := strings.ToLower(query)
	for _, cat := range CategoryVocabulary {
		if strings.Contains(q, cat) {
			return cat
		}
	}
	return ""
}
