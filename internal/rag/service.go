package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/raghavkh/manualqa/internal/embedding"
	"github.com/raghavkh/manualqa/internal/llm"
	"github.com/raghavkh/manualqa/internal/logger"
	"github.com/raghavkh/manualqa/internal/models"
	"github.com/raghavkh/manualqa/internal/vectorstore"
)

// ErrEmptyQuestion is returned when the question is blank after trimming.
var ErrEmptyQuestion = errors.New("question is empty")

// Service is the retrieval-augmented answer pipeline: embed the question,
// pull the nearest chunks out of the store, and hand both to the model.
type Service interface {
	Answer(ctx context.Context, question string, topK int) (*models.QueryResponse, error)
	ListChunks(ctx context.Context) (*models.ListDocumentsResponse, error)
	Model() string
}

type service struct {
	store       vectorstore.Store
	embedder    embedding.Embedder
	generator   llm.Generator
	defaultTopK int
}

// NewService wires the pipeline together.
func NewService(store vectorstore.Store, embedder embedding.Embedder, generator llm.Generator, defaultTopK int) Service {
	if defaultTopK <= 0 {
		defaultTopK = 3
	}
	return &service{
		store:       store,
		embedder:    embedder,
		generator:   generator,
		defaultTopK: defaultTopK,
	}
}

// Answer runs the full query pipeline. A retrieval that comes back empty
// still reaches the model; the prompt says so and the model answers that
// the manuals do not cover it.
func (s *service) Answer(ctx context.Context, question string, topK int) (*models.QueryResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	sources, err := s.store.Search(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}
	logger.Debug("retrieved chunks", zap.Int("count", len(sources)))

	contexts := make([]string, len(sources))
	for i, doc := range sources {
		contexts[i] = doc.Content
	}

	answer, err := s.generator.Generate(ctx, question, contexts)
	if err != nil {
		return nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	if sources == nil {
		sources = []models.SourceDocument{}
	}
	return &models.QueryResponse{
		Answer:  answer,
		Sources: sources,
		Model:   s.generator.Model(),
	}, nil
}

// ListChunks returns every chunk in the store.
func (s *service) ListChunks(ctx context.Context) (*models.ListDocumentsResponse, error) {
	chunks, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	if chunks == nil {
		chunks = []models.Chunk{}
	}
	return &models.ListDocumentsResponse{
		Count:  len(chunks),
		Chunks: chunks,
	}, nil
}

// Model names the chat model answers come from.
func (s *service) Model() string {
	return s.generator.Model()
}
