package vectorstore

import (
	"context"
	"fmt"

	"github.com/raghavkh/manualqa/internal/config"
	"github.com/raghavkh/manualqa/internal/models"
)

// Store is the nearest-neighbor index the pipeline writes chunks into and
// queries at answer time. Uniqueness of chunk IDs and persistence of the
// collection are owned by the backing database.
type Store interface {
	// Add upserts chunks with their embeddings and metadata.
	Add(ctx context.Context, chunks ...models.Chunk) error
	// Search returns the topK most similar chunks to the query embedding.
	Search(ctx context.Context, embedding []float32, topK int) ([]models.SourceDocument, error)
	// List returns every stored chunk (text and metadata, no vectors).
	List(ctx context.Context) ([]models.Chunk, error)
	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)
	// DeleteBySource removes every chunk ingested from the given file.
	DeleteBySource(ctx context.Context, sourceFile string) error
	// IndexState maps each indexed source file to the hash it was
	// ingested with, for rescan diffing.
	IndexState(ctx context.Context) (map[string]string, error)
	Close() error
}

// New builds the store named by the configuration.
func New(ctx context.Context, cfg config.VectorStoreConfig) (Store, error) {
	switch cfg.Provider {
	case "chroma":
		return NewChromaStore(ctx, cfg.ChromaURL, cfg.Collection)
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown vector store provider %q", cfg.Provider)
	}
}
