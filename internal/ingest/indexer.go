package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
	"go.uber.org/zap"

	"github.com/raghavkh/manualqa/internal/config"
	"github.com/raghavkh/manualqa/internal/embedding"
	"github.com/raghavkh/manualqa/internal/extract"
	"github.com/raghavkh/manualqa/internal/logger"
	"github.com/raghavkh/manualqa/internal/models"
	"github.com/raghavkh/manualqa/internal/vectorstore"
)

// Indexer turns source files into embedded chunks in the vector store and
// keeps the store in sync with the data directory.
type Indexer struct {
	store    vectorstore.Store
	embedder embedding.Embedder
	splitter textsplitter.TextSplitter
	workers  int
}

// NewIndexer creates an indexer with the configured chunking parameters.
func NewIndexer(store vectorstore.Store, embedder embedding.Embedder, cfg config.ChunkingConfig) *Indexer {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Indexer{
		store:    store,
		embedder: embedder,
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(cfg.Size),
			textsplitter.WithChunkOverlap(cfg.Overlap),
		),
		workers: workers,
	}
}

// IngestText indexes a raw text snippet that did not come from a file.
func (ix *Indexer) IngestText(ctx context.Context, text, source string) error {
	if source == "" {
		source = "user_input"
	}
	vector, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("could not generate embedding: %w", err)
	}
	chunk := models.Chunk{
		ID:        uuid.New().String(),
		Text:      text,
		Embedding: vector,
		Metadata: map[string]interface{}{
			models.MetaSourceFile: source,
			models.MetaChunkNum:   0,
		},
	}
	if err := ix.store.Add(ctx, chunk); err != nil {
		return fmt.Errorf("failed to add chunk to vector store: %w", err)
	}
	return nil
}

// IngestFile extracts, splits, embeds and stores one file. Stale chunks
// from a previous version of the file are removed first so a re-ingest
// never leaves duplicates behind.
func (ix *Indexer) IngestFile(ctx context.Context, path string) error {
	hash, err := fileHash(path)
	if err != nil {
		return fmt.Errorf("could not hash %s: %w", path, err)
	}
	if err := ix.store.DeleteBySource(ctx, path); err != nil {
		return fmt.Errorf("failed to delete old chunks of %s: %w", path, err)
	}
	return ix.processAndEmbedFile(ctx, path, hash)
}

// ScanDirectory syncs the data directory with the vector store: new and
// changed files are (re-)indexed, unchanged files are skipped by hash, and
// files that disappeared are purged.
func (ix *Indexer) ScanDirectory(ctx context.Context, dirPath string) error {
	logger.Info("starting directory scan", zap.String("dir", dirPath))

	indexed, err := ix.store.IndexState(ctx)
	if err != nil {
		return fmt.Errorf("could not read current index state: %w", err)
	}
	logger.Info("files currently in the index", zap.Int("count", len(indexed)))

	local := make(map[string]bool)
	err = filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !extract.IsSupported(path) {
			return nil
		}
		local[path] = true

		hash, err := fileHash(path)
		if err != nil {
			logger.Warn("could not hash file", zap.String("path", path), zap.Error(err))
			return nil
		}

		if prevHash, ok := indexed[path]; ok {
			if prevHash == hash {
				return nil // unchanged
			}
			logger.Info("file changed, re-indexing", zap.String("path", path))
			if err := ix.store.DeleteBySource(ctx, path); err != nil {
				logger.Error("failed to delete old version", zap.String("path", path), zap.Error(err))
				return nil
			}
		} else {
			logger.Info("indexing new file", zap.String("path", path))
		}

		if err := ix.processAndEmbedFile(ctx, path, hash); err != nil {
			logger.Error("failed to process file", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("error walking %s: %w", dirPath, err)
	}

	for path := range indexed {
		if !local[path] {
			logger.Info("file deleted, removing from index", zap.String("path", path))
			if err := ix.store.DeleteBySource(ctx, path); err != nil {
				logger.Error("failed to delete chunks", zap.String("path", path), zap.Error(err))
			}
		}
	}

	logger.Info("directory scan finished", zap.String("dir", dirPath))
	return nil
}

type embedJob struct {
	num  int
	text string
}

type embedResult struct {
	num    int
	vector []float32
	err    error
}

func (ix *Indexer) processAndEmbedFile(ctx context.Context, path, hash string) error {
	content, err := extract.TextFromFile(path)
	if err != nil {
		return err
	}

	texts, err := ix.splitter.SplitText(content)
	if err != nil {
		return fmt.Errorf("failed to split %s: %w", path, err)
	}
	logger.Info("split file into chunks", zap.String("path", path), zap.Int("chunks", len(texts)))

	vectors, err := ix.embedAll(ctx, texts)
	if err != nil {
		return err
	}

	chunks := make([]models.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = models.Chunk{
			ID:        fmt.Sprintf("%s-chunk%d", uuid.New().String(), i),
			Text:      text,
			Embedding: vectors[i],
			Metadata: map[string]interface{}{
				models.MetaSourceFile: path,
				models.MetaFileHash:   hash,
				models.MetaChunkNum:   i,
			},
		}
	}

	if err := ix.store.Add(ctx, chunks...); err != nil {
		return fmt.Errorf("failed to add chunks of %s: %w", path, err)
	}
	return nil
}

// embedAll runs the embedder over every chunk with a bounded worker pool.
func (ix *Indexer) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	jobs := make(chan embedJob, len(texts))
	results := make(chan embedResult, len(texts))

	var wg sync.WaitGroup
	for w := 0; w < ix.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				vector, err := ix.embedder.Embed(ctx, job.text)
				results <- embedResult{num: job.num, vector: vector, err: err}
			}
		}()
	}

	for i, text := range texts {
		jobs <- embedJob{num: i, text: text}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	vectors := make([][]float32, len(texts))
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("could not embed chunk %d: %w", res.num, res.err)
			}
			continue
		}
		vectors[res.num] = res.vector
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return vectors, nil
}

func fileHash(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
