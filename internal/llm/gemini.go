package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/raghavkh/manualqa/internal/config"
)

// GeminiGenerator answers through the Google Gemini API.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiGenerator creates a Gemini-backed generator.
func NewGeminiGenerator(ctx context.Context, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	model := cfg.Model
	if model == "" || strings.HasPrefix(model, "mistral") {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiGenerator{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

func (g *GeminiGenerator) Model() string { return g.model }

// Generate sends the stuffed prompt as a single-turn request.
func (g *GeminiGenerator) Generate(ctx context.Context, question string, contexts []string) (string, error) {
	temp := g.temperature
	result, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(BuildPrompt(question, contexts)),
		&genai.GenerateContentConfig{
			Temperature:       &temp,
			SystemInstruction: systemInstruction(),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini api call failed: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no candidates")
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		if p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini returned an empty response")
	}
	return sb.String(), nil
}

func systemInstruction() *genai.Content {
	contents := genai.Text(SystemPrompt)
	if len(contents) == 0 {
		return nil
	}
	return contents[0]
}
