package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghavkh/manualqa/internal/config"
)

// The API key is enforced here, at generator construction, not during
// config loading: ingestion runs without one and must stay key-free.
func TestNewOpenAIGeneratorRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIGenerator(config.LLMConfig{Model: "mistral-large-latest"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}

func TestNewOpenAIGeneratorRequiresModel(t *testing.T) {
	_, err := NewOpenAIGenerator(config.LLMConfig{APIKey: "k"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model")
}

func TestNewOpenAIGeneratorModel(t *testing.T) {
	g, err := NewOpenAIGenerator(config.LLMConfig{
		APIKey:  "k",
		Model:   "mistral-large-latest",
		BaseURL: "https://api.mistral.ai/v1",
	})
	require.NoError(t, err)
	assert.Equal(t, "mistral-large-latest", g.Model())
}

func TestNewRejectsUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: "anthropic"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown llm provider")
}

func TestNewFailsWithoutAPIKey(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{
		Provider: "mistral",
		Model:    "mistral-large-latest",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key")
}
