package loaders

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestDefaultRegistry_DispatchOrder(t *testing.T) {
	r := DefaultRegistry()

	// Suffix conventions beat the generic JSON fallback.
	assert.IsType(t, &ProtocolsLoader{}, r.loaderFor("base-protocols.json"))
	assert.IsType(t, &StatsLoader{}, r.loaderFor("morpho-stats.json"))
	assert.IsType(t, &MarkdownLoader{}, r.loaderFor("base-overview.md"))
	assert.IsType(t, &GenericLoader{}, r.loaderFor("bridge-volumes.json"))
	assert.Nil(t, r.loaderFor("logo.png"))
}

func TestRegistry_LoadDir(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"base-protocols.json": protocolsFixture,
		"morpho-stats.json":   statsFixture,
		"base-overview.md":    overviewFixture,
		"logo.png":            "\x89PNG",
	})

	chunks, err := DefaultRegistry().LoadDir(context.Background(), dir)

	require.NoError(t, err)
	// 8 protocol chunks + 2 stats chunks + 3 overview chunks.
	assert.Len(t, chunks, 13)
}

func TestRegistry_LexicalFileOrder(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"b-notes.md": "## Second\n\ntext b\n",
		"a-notes.md": "## First\n\ntext a\n",
	})

	chunks, err := DefaultRegistry().LoadDir(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "a-notes.md", chunks[0].Source)
	assert.Equal(t, "b-notes.md", chunks[1].Source)
}

func TestRegistry_SkipsFailedArtifacts(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"broken-protocols.json": "{not json",
		"notes.md":              "## Still Here\n\ngood content\n",
	})

	chunks, err := DefaultRegistry().LoadDir(context.Background(), dir)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Still Here", chunks[0].Category)
}

func TestRegistry_SkipsHiddenAndDirs(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		".hidden.md": "## Hidden\n\nsecret\n",
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	chunks, err := DefaultRegistry().LoadDir(context.Background(), dir)

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestRegistry_MissingDir(t *testing.T) {
	_, err := DefaultRegistry().LoadDir(context.Background(), "/nonexistent/corpus")

	assert.Error(t, err)
}
