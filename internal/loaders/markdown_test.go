package loaders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overviewFixture = `# Base Ecosystem

Base is an Ethereum layer 2 incubated by Coinbase.

## DeFi Landscape

Lending and DEX protocols dominate total value locked.

## Getting Started

Bridge assets through the official Base bridge.
`

func TestMarkdownLoader_CanLoad(t *testing.T) {
	l := NewMarkdownLoader()

	assert.True(t, l.CanLoad("base-overview.md"))
	assert.True(t, l.CanLoad("market-notes.txt"))
	assert.False(t, l.CanLoad("protocols.json"))
}

func TestMarkdownLoader_SplitsOnHeadings(t *testing.T) {
	path := writeFixture(t, "market-notes.md", overviewFixture)
	l := NewMarkdownLoader()

	chunks, err := l.Load(context.Background(), path)

	require.NoError(t, err)
	// Not an overview document: the preamble is dropped.
	require.Len(t, chunks, 2)

	assert.Equal(t, "DeFi Landscape", chunks[0].Category)
	assert.Contains(t, chunks[0].Content, "dominate total value locked")
	assert.Equal(t, "Getting Started", chunks[1].Category)
	assert.Equal(t, "market-notes.md", chunks[0].Source)
}

func TestMarkdownLoader_OverviewKeepsPreamble(t *testing.T) {
	path := writeFixture(t, "base-overview.md", overviewFixture)
	l := NewMarkdownLoader()

	chunks, err := l.Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, chunks, 3)

	assert.Equal(t, "Overview", chunks[0].Category)
	assert.Contains(t, chunks[0].Content, "incubated by Coinbase")
	// The "# " title line stays out of the preamble chunk.
	assert.NotContains(t, chunks[0].Content, "# Base Ecosystem")
}

func TestMarkdownLoader_HeadingFreeDocument(t *testing.T) {
	path := writeFixture(t, "weekly-digest.md", "Morpho shipped vault v2 this week.")
	l := NewMarkdownLoader()

	chunks, err := l.Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Weekly Digest", chunks[0].Category)
	assert.Equal(t, "Morpho shipped vault v2 this week.", chunks[0].Content)
}

func TestMarkdownLoader_SkipsEmptySections(t *testing.T) {
	path := writeFixture(t, "sparse.md", "## Empty\n\n## Filled\n\ncontent here\n")
	l := NewMarkdownLoader()

	chunks, err := l.Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Filled", chunks[0].Category)
}

func TestMarkdownLoader_EmptyArtifact(t *testing.T) {
	path := writeFixture(t, "blank.md", "  \n\n  ")
	l := NewMarkdownLoader()

	_, err := l.Load(context.Background(), path)

	assert.Error(t, err)
}
