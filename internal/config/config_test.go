package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Chunking:    ChunkingConfig{Size: 500, Overlap: 50},
		Embedding:   EmbeddingConfig{Provider: "ollama"},
		LLM:         LLMConfig{Provider: "mistral", Model: "mistral-large-latest", APIKey: "k"},
		VectorStore: VectorStoreConfig{Provider: "chroma"},
		Retrieval:   RetrievalConfig{TopK: 3},
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 500, cfg.Chunking.Size)
	assert.Equal(t, 50, cfg.Chunking.Overlap)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, "mistral", cfg.LLM.Provider)
	assert.Equal(t, "mistral-large-latest", cfg.LLM.Model)
	assert.Equal(t, "https://api.mistral.ai/v1", cfg.LLM.BaseURL)
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "chroma", cfg.VectorStore.Provider)
	assert.Equal(t, "ollama", cfg.Embedding.Provider)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "test-key")
	t.Setenv("PORT", "9001")
	t.Setenv("DATA_PATH", "/srv/manuals")
	t.Setenv("CHROMA_URL", "http://chroma:8000")
	t.Setenv("MANUALQA_VECTOR_STORE_PROVIDER", "sqlite")
	t.Setenv("MANUALQA_RETRIEVAL_TOP_K", "5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9001", cfg.Server.Port)
	assert.Equal(t, "/srv/manuals", cfg.Data.Dir)
	assert.Equal(t, "http://chroma:8000", cfg.VectorStore.ChromaURL)
	assert.Equal(t, "sqlite", cfg.VectorStore.Provider)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
}

// Ingestion never talks to the LLM, so loading without any API key must
// succeed; the key is required only when a generator is constructed.
func TestLoadSucceedsWithoutAPIKey(t *testing.T) {
	t.Setenv("MISTRAL_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.LLM.APIKey)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"zero chunk size", func(c *Config) { c.Chunking.Size = 0 }, "chunking.size"},
		{"overlap >= size", func(c *Config) { c.Chunking.Overlap = 500 }, "chunking.overlap"},
		{"negative overlap", func(c *Config) { c.Chunking.Overlap = -1 }, "chunking.overlap"},
		{"zero top-k", func(c *Config) { c.Retrieval.TopK = 0 }, "retrieval.top_k"},
		{"bad store", func(c *Config) { c.VectorStore.Provider = "pinecone" }, "vector store"},
		{"bad embedder", func(c *Config) { c.Embedding.Provider = "cohere" }, "embedding provider"},
		{"missing api key is allowed", func(c *Config) { c.LLM.APIKey = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
