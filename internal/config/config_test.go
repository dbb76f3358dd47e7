package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.Embedder.Type)
	require.NotNil(t, cfg.Embedder.OpenAI)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedder.OpenAI.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Embedder.OpenAI.APIKeyEnv)
	assert.Equal(t, "memory", cfg.VectorIndex.Type)
	assert.Equal(t, 2, cfg.Retriever.TopK)
	assert.Equal(t, "gpt-3.5-turbo", cfg.Generator.Model)
	assert.Equal(t, 60, cfg.Generator.TimeoutSecs)
	assert.Equal(t, 3, cfg.Generator.MaxRetries)
	assert.Equal(t, 30, cfg.Summarizer.MinWords)
	assert.Equal(t, 500, cfg.Summarizer.MaxWords)
	assert.Equal(t, 500, cfg.Summarizer.ContextWindowWords)
	assert.Equal(t, "responses", cfg.ExchangeLog.Dir)
	assert.Empty(t, cfg.Corpus.Path)
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"retriever:\n  top_k: 5\ngenerator:\n  model: gpt-4o-mini\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Retriever.TopK)
	assert.Equal(t, "gpt-4o-mini", cfg.Generator.Model)
	// Everything not in the file falls back to defaults.
	assert.Equal(t, "https://api.openai.com/v1", cfg.Generator.BaseURL)
	assert.Equal(t, "openai", cfg.Embedder.Type)
	assert.Equal(t, "memory", cfg.VectorIndex.Type)
	assert.Equal(t, "responses", cfg.ExchangeLog.Dir)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("retriever: [not: a mapping"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	cfg.Retriever.TopK = 4
	cfg.VectorIndex.Type = "qdrant"
	cfg.VectorIndex.Qdrant = &QdrantConfig{
		URL:        "http://localhost:6333",
		Collection: "grammar-rules",
	}
	cfg.ExchangeLog.Dir = "/var/log/english-agent"

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, loaded.Retriever.TopK)
	assert.Equal(t, "qdrant", loaded.VectorIndex.Type)
	require.NotNil(t, loaded.VectorIndex.Qdrant)
	assert.Equal(t, "http://localhost:6333", loaded.VectorIndex.Qdrant.URL)
	assert.Equal(t, "grammar-rules", loaded.VectorIndex.Qdrant.Collection)
	assert.Equal(t, "/var/log/english-agent", loaded.ExchangeLog.Dir)
}
