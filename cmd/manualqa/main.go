package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/raghavkh/manualqa/internal/config"
	"github.com/raghavkh/manualqa/internal/embedding"
	"github.com/raghavkh/manualqa/internal/extract"
	"github.com/raghavkh/manualqa/internal/ingest"
	"github.com/raghavkh/manualqa/internal/llm"
	"github.com/raghavkh/manualqa/internal/logger"
	"github.com/raghavkh/manualqa/internal/models"
	"github.com/raghavkh/manualqa/internal/rag"
	"github.com/raghavkh/manualqa/internal/vectorstore"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "manualqa",
		Short: "Index product manuals and ask questions against them",
		Long:  "manualqa ingests product manuals (pdf, txt, md) into a vector store and answers questions grounded in the retrieved excerpts.",
	}

	rootCmd.AddCommand(newIngestCommand())
	rootCmd.AddCommand(newQueryCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newIngestCommand() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Index every supported file in the data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Server.Env); err != nil {
				return err
			}
			defer logger.Sync()

			if dataDir == "" {
				dataDir = cfg.Data.Dir
			}
			if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
				return fmt.Errorf("data directory %q does not exist; place your manuals there first", dataDir)
			}

			if key := os.Getenv("UNIDOC_LICENSE_KEY"); key != "" {
				if err := extract.SetLicenseKey(key); err != nil {
					logger.Warn("failed to set unidoc license key", zap.Error(err))
				}
			}

			ctx := cmd.Context()
			store, err := vectorstore.New(ctx, cfg.VectorStore)
			if err != nil {
				return err
			}
			defer store.Close()

			embedder, err := embedding.New(cfg.Embedding)
			if err != nil {
				return err
			}

			indexer := ingest.NewIndexer(store, embedder, cfg.Chunking)
			if err := indexer.ScanDirectory(ctx, dataDir); err != nil {
				return err
			}

			count, err := store.Count(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Index ready: %d chunks stored.\n", count)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataDir, "data", "d", "", "Directory containing the manuals (defaults to the configured data dir)")
	return cmd
}

func newQueryCommand() *cobra.Command {
	var topK int

	cmd := &cobra.Command{
		Use:   "query <question>",
		Short: "Ask a single question against the indexed manuals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Server.Env); err != nil {
				return err
			}
			defer logger.Sync()

			ctx := cmd.Context()
			store, err := vectorstore.New(ctx, cfg.VectorStore)
			if err != nil {
				return err
			}
			defer store.Close()

			embedder, err := embedding.New(cfg.Embedding)
			if err != nil {
				return err
			}
			generator, err := llm.New(ctx, cfg.LLM)
			if err != nil {
				return err
			}

			ragService := rag.NewService(store, embedder, generator, cfg.Retrieval.TopK)
			response, err := ragService.Answer(ctx, args[0], topK)
			if err != nil {
				return err
			}

			printResponse(args[0], response.Answer, response.Sources)
			return nil
		},
	}

	cmd.Flags().IntVarP(&topK, "top-k", "k", 0, "Number of chunks to retrieve (defaults to the configured top_k)")
	return cmd
}

func printResponse(question, answer string, sources []models.SourceDocument) {
	fmt.Printf("\n--- Question: %s ---\n\n", question)
	fmt.Println(answer)

	if len(sources) == 0 {
		return
	}
	fmt.Println("\nSources:")
	for i, doc := range sources {
		snippet := doc.Content
		if len(snippet) > 100 {
			snippet = snippet[:100] + "..."
		}
		fmt.Printf("[%d] %s\n    %s\n", i+1, doc.Source, snippet)
	}
}
