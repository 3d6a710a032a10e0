package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkline-labs/chainpulse/internal/core/domain"
)

func comparisonCorpus() []domain.Chunk {
	return []domain.Chunk{
		{
			ID:       "m1",
			Content:  "Morpho is a lending optimiser. Category: Lending. TVL: $900M. 24h Change: 2.5%. Revenue: $1.2M. Users: 120K",
			Source:   "base-protocols.json",
			Protocol: "Morpho",
			Category: "Lending",
		},
		{
			ID:       "u1",
			Content:  "Uniswap is the leading DEX. Category: DEX. TVL: $4.2B. 24h Change: -1.2%. Users: 800K",
			Source:   "base-protocols.json",
			Protocol: "Uniswap",
			Category: "DEX",
		},
	}
}

func TestSynthesize_BuildsComparisonChunk(t *testing.T) {
	svc := NewComparisonService()

	chunk, ok := svc.Synthesize([]string{"Morpho", "Uniswap"}, comparisonCorpus())

	require.True(t, ok)
	assert.Equal(t, "Comparison", chunk.Category)
	assert.Equal(t, "comparison", chunk.Source)
	assert.Equal(t, 1.0, chunk.Score)
	assert.NotEmpty(t, chunk.ID)
	assert.Contains(t, chunk.Protocol, "Morpho")
	assert.Contains(t, chunk.Protocol, "Uniswap")

	assert.Contains(t, chunk.Content, "Comparison: Morpho vs Uniswap")
	assert.Contains(t, chunk.Content, "TVL: Morpho=$900.00M | Uniswap=$4.20B")
	assert.Contains(t, chunk.Content, "24h Change: Morpho=2.5% | Uniswap=-1.2%")
	assert.Contains(t, chunk.Content, "Users: Morpho=120K | Uniswap=800K")
	// Morpho reported revenue, Uniswap did not.
	assert.Contains(t, chunk.Content, "Revenue: Morpho=$1.20M | Uniswap=N/A")
}

func TestSynthesize_NarrativeSummary(t *testing.T) {
	svc := NewComparisonService()

	chunk, ok := svc.Synthesize([]string{"Morpho", "Uniswap"}, comparisonCorpus())

	require.True(t, ok)
	assert.Contains(t, chunk.Content, "Uniswap leads on TVL")
}

func TestSynthesize_MissingMetricsAreNA(t *testing.T) {
	corpus := []domain.Chunk{
		{ID: "a", Content: "Alpha protocol does things.", Source: "s", Protocol: "Alpha"},
		{ID: "b", Content: "Beta protocol does other things.", Source: "s", Protocol: "Beta"},
	}
	svc := NewComparisonService()

	chunk, ok := svc.Synthesize([]string{"Alpha", "Beta"}, corpus)

	require.True(t, ok)
	assert.Contains(t, chunk.Content, "TVL: Alpha=N/A | Beta=N/A")
	assert.Contains(t, chunk.Content, "not enough metric data")
}

func TestSynthesize_FewerThanTwoResolvable(t *testing.T) {
	svc := NewComparisonService()

	// "Ghost" has no chunks; only Morpho resolves.
	_, ok := svc.Synthesize([]string{"Morpho", "Ghost"}, comparisonCorpus()[:1])

	assert.False(t, ok)
}

func TestExtractTVL_ToleratesFormats(t *testing.T) {
	assert.Equal(t, "$1.20B", extractTVL("big TVL of $1,200M locked"))
	assert.Equal(t, "$500.00K", extractTVL("TVL: 500k"))
	assert.Equal(t, "", extractTVL("no metrics here"))
}

func TestExtractUsers(t *testing.T) {
	assert.Equal(t, "42,000", extractUsers("Users: 42,000 monthly"))
	assert.Equal(t, "", extractUsers("nobody mentioned"))
}
