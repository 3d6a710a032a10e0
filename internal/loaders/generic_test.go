package loaders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenericLoader_CanLoad(t *testing.T) {
	l := NewGenericLoader()

	assert.True(t, l.CanLoad("bridge-volumes.json"))
	assert.True(t, l.CanLoad("base-protocols.json")) // registered last, so never reached
	assert.False(t, l.CanLoad("notes.md"))
}

func TestGenericLoader_FlattensObject(t *testing.T) {
	fixture := `{
	  "chain": "base",
	  "bridge_volume": {"daily_usd": 12500000, "weekly_usd": 81000000},
	  "active": true
	}`
	path := writeFixture(t, "bridge-volumes.json", fixture)
	l := NewGenericLoader()

	chunks, err := l.Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, chunks, 1)

	c := chunks[0]
	assert.Equal(t, "bridge-volumes.json", c.Source)
	assert.Equal(t, "Data", c.Category)
	assert.Contains(t, c.Content, "Data from bridge-volumes.json:")
	assert.Contains(t, c.Content, "Chain: base")
	assert.Contains(t, c.Content, "Active: true")
	assert.Contains(t, c.Content, "Bridge Volume:")
	assert.Contains(t, c.Content, "- Daily Usd: 12500000")
	assert.Contains(t, c.Content, "- Weekly Usd: 81000000")
}

func TestGenericLoader_NumbersArrayItems(t *testing.T) {
	path := writeFixture(t, "events.json", `[{"event": "launch"}, {"event": "upgrade"}]`)
	l := NewGenericLoader()

	chunks, err := l.Load(context.Background(), path)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0].Content, `1. {"event":"launch"}`)
	assert.Contains(t, chunks[0].Content, `2. {"event":"upgrade"}`)
}

func TestGenericLoader_MalformedJSON(t *testing.T) {
	path := writeFixture(t, "bad.json", "{oops")
	l := NewGenericLoader()

	_, err := l.Load(context.Background(), path)

	assert.Error(t, err)
}
