package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/raghavkh/manualqa/internal/config"
	"github.com/raghavkh/manualqa/internal/embedding"
	"github.com/raghavkh/manualqa/internal/extract"
	"github.com/raghavkh/manualqa/internal/ingest"
	"github.com/raghavkh/manualqa/internal/llm"
	"github.com/raghavkh/manualqa/internal/logger"
	"github.com/raghavkh/manualqa/internal/rag"
	"github.com/raghavkh/manualqa/internal/server"
	"github.com/raghavkh/manualqa/internal/vectorstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Logger is not up yet.
		panic("FATAL: failed to load configuration: " + err.Error())
	}

	if err := logger.Init(cfg.Server.Env); err != nil {
		panic("FATAL: failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	if key := os.Getenv("UNIDOC_LICENSE_KEY"); key != "" {
		if err := extract.SetLicenseKey(key); err != nil {
			logger.Warn("failed to set unidoc license key, pdf ingestion will fail", zap.Error(err))
		}
	} else {
		logger.Warn("UNIDOC_LICENSE_KEY not set, pdf ingestion will fail")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := vectorstore.New(ctx, cfg.VectorStore)
	if err != nil {
		logger.Fatal("failed to initialize vector store", zap.Error(err))
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close vector store", zap.Error(err))
		}
	}()

	embedder, err := embedding.New(cfg.Embedding)
	if err != nil {
		logger.Fatal("failed to initialize embedder", zap.Error(err))
	}

	generator, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("failed to initialize llm client", zap.Error(err))
	}
	logger.Info("llm client ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", generator.Model()))

	indexer := ingest.NewIndexer(store, embedder, cfg.Chunking)
	ragService := rag.NewService(store, embedder, generator, cfg.Retrieval.TopK)
	handler := server.NewHandler(ragService, indexer)
	router := server.NewRouter(handler, cfg.Server.Env)

	// Keep the index in sync with the data directory while serving.
	if info, err := os.Stat(cfg.Data.Dir); err == nil && info.IsDir() {
		go func() {
			if err := indexer.ScanDirectory(ctx, cfg.Data.Dir); err != nil {
				logger.Error("initial directory scan failed", zap.Error(err))
			}
			if cfg.Data.Watch {
				if err := indexer.WatchDirectory(ctx, cfg.Data.Dir); err != nil {
					logger.Error("directory watcher failed", zap.Error(err))
				}
			}
		}()
	} else {
		logger.Warn("data directory not found, skipping scan", zap.String("dir", cfg.Data.Dir))
	}

	// Cancel the scan/watch goroutine on shutdown signals.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}
