package embedding

import (
	"context"
	"fmt"

	"github.com/raghavkh/manualqa/internal/config"
)

// Embedder turns text into a fixed-length vector. The same embedder must
// be used at ingest and query time, otherwise similarity scores are
// meaningless.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Model() string
}

// New builds the embedder named by the configuration.
func New(cfg config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case "ollama":
		return NewOllamaEmbedder(cfg.OllamaURL, cfg.Model), nil
	case "openai":
		return NewOpenAIEmbedder(cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
