package llm

import (
	"context"
	"fmt"

	"github.com/raghavkh/manualqa/internal/config"
)

// Generator produces a grounded answer from a question and the retrieved
// context chunks.
type Generator interface {
	Generate(ctx context.Context, question string, contexts []string) (string, error)
	Model() string
}

// New builds the generator named by the configuration.
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case "mistral", "openai":
		return NewOpenAIGenerator(cfg)
	case "gemini":
		return NewGeminiGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
