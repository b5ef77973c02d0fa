package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration, resolved from defaults,
// an optional config file and environment variables.
type Config struct {
	Server      ServerConfig
	Data        DataConfig
	Chunking    ChunkingConfig
	Embedding   EmbeddingConfig
	LLM         LLMConfig
	VectorStore VectorStoreConfig
	Retrieval   RetrievalConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DataConfig struct {
	Dir   string
	Watch bool
}

type ChunkingConfig struct {
	Size    int
	Overlap int
	Workers int
}

type EmbeddingConfig struct {
	Provider  string // "ollama" or "openai"
	Model     string
	OllamaURL string
	APIKey    string
}

type LLMConfig struct {
	Provider    string // "mistral", "openai" or "gemini"
	Model       string
	BaseURL     string
	APIKey      string
	Temperature float32
}

type VectorStoreConfig struct {
	Provider   string // "chroma" or "sqlite"
	ChromaURL  string
	Collection string
	SQLitePath string
}

type RetrievalConfig struct {
	TopK int
}

// Mistral exposes an OpenAI-compatible completions API, so the same
// client serves both providers; only the base URL and model differ.
const mistralBaseURL = "https://api.mistral.ai/v1"

// Load reads .env (when present), applies defaults and environment
// overrides, and validates the pieces the service cannot start without.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// Not an error: containers and CI set real environment variables.
	}

	viper.Reset()

	viper.SetDefault("server.port", "8000")
	viper.SetDefault("server.env", "development")

	viper.SetDefault("data.dir", "data")
	viper.SetDefault("data.watch", false)

	viper.SetDefault("chunking.size", 500)
	viper.SetDefault("chunking.overlap", 50)
	viper.SetDefault("chunking.workers", 4)

	viper.SetDefault("embedding.provider", "ollama")
	viper.SetDefault("embedding.model", "nomic-embed-text:v1.5")
	viper.SetDefault("embedding.ollama_url", "http://localhost:11434")

	viper.SetDefault("llm.provider", "mistral")
	viper.SetDefault("llm.model", "mistral-large-latest")
	viper.SetDefault("llm.temperature", 0.0)

	viper.SetDefault("vector_store.provider", "chroma")
	viper.SetDefault("vector_store.chroma_url", "http://localhost:8000")
	viper.SetDefault("vector_store.collection", "product-manuals")
	viper.SetDefault("vector_store.sqlite_path", "models/manualqa.db")

	viper.SetDefault("retrieval.top_k", 3)

	viper.SetEnvPrefix("MANUALQA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Well-known variables that don't carry the prefix.
	if port := os.Getenv("PORT"); port != "" {
		viper.Set("server.port", port)
	}
	if key := os.Getenv("MISTRAL_API_KEY"); key != "" {
		viper.Set("llm.api_key", key)
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if viper.GetString("llm.provider") == "openai" {
			viper.Set("llm.api_key", key)
		}
		viper.Set("embedding.api_key", key)
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" && viper.GetString("llm.provider") == "gemini" {
		viper.Set("llm.api_key", key)
	}
	if url := os.Getenv("OLLAMA_URL"); url != "" {
		viper.Set("embedding.ollama_url", url)
	}
	if url := os.Getenv("CHROMA_URL"); url != "" {
		viper.Set("vector_store.chroma_url", url)
	}
	if dir := os.Getenv("DATA_PATH"); dir != "" {
		viper.Set("data.dir", dir)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("server.port"),
			Env:  viper.GetString("server.env"),
		},
		Data: DataConfig{
			Dir:   viper.GetString("data.dir"),
			Watch: viper.GetBool("data.watch"),
		},
		Chunking: ChunkingConfig{
			Size:    viper.GetInt("chunking.size"),
			Overlap: viper.GetInt("chunking.overlap"),
			Workers: viper.GetInt("chunking.workers"),
		},
		Embedding: EmbeddingConfig{
			Provider:  viper.GetString("embedding.provider"),
			Model:     viper.GetString("embedding.model"),
			OllamaURL: viper.GetString("embedding.ollama_url"),
			APIKey:    viper.GetString("embedding.api_key"),
		},
		LLM: LLMConfig{
			Provider:    viper.GetString("llm.provider"),
			Model:       viper.GetString("llm.model"),
			BaseURL:     viper.GetString("llm.base_url"),
			APIKey:      viper.GetString("llm.api_key"),
			Temperature: float32(viper.GetFloat64("llm.temperature")),
		},
		VectorStore: VectorStoreConfig{
			Provider:   viper.GetString("vector_store.provider"),
			ChromaURL:  viper.GetString("vector_store.chroma_url"),
			Collection: viper.GetString("vector_store.collection"),
			SQLitePath: viper.GetString("vector_store.sqlite_path"),
		},
		Retrieval: RetrievalConfig{
			TopK: viper.GetInt("retrieval.top_k"),
		},
	}

	if cfg.LLM.Provider == "mistral" && cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = mistralBaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the invariants the pipeline relies on. The LLM API key
// is deliberately not checked here: ingestion never builds a generator,
// so the key is enforced where the generator is constructed.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must be in [0, size), got %d", c.Chunking.Overlap)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	switch c.VectorStore.Provider {
	case "chroma", "sqlite":
	default:
		return fmt.Errorf("unknown vector store provider %q", c.VectorStore.Provider)
	}
	switch c.Embedding.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unknown embedding provider %q", c.Embedding.Provider)
	}
	return nil
}
