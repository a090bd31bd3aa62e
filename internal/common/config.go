package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production" - controls test URL validation
	Logging     LoggingConfig   `toml:"logging"`
	Storage     StorageConfig   `toml:"storage"`
	Fetcher     FetcherConfig   `toml:"fetcher"`
	Images      ImagesConfig    `toml:"images"`
	Chunking    ChunkingConfig  `toml:"chunking"`
	Embedding   EmbeddingConfig `toml:"embedding"`
	LLM         LLMConfig       `toml:"llm"`
	Retrieval   RetrievalConfig `toml:"retrieval"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// StorageConfig holds the on-disk layout: catalog database, per-source index
// directories, and the shared image cache.
type StorageConfig struct {
	DataDir        string `toml:"data_dir"`         // Root directory for all persisted state
	CatalogPath    string `toml:"catalog_path"`     // Catalog database directory (sources, chat log)
	IndexDir       string `toml:"index_dir"`        // Root of per-source vector index directories
	ImageCacheDir  string `toml:"image_cache_dir"`  // Shared downloaded-image cache
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete catalog on startup for clean test runs
}

// FetcherConfig controls the page fetch: one GET per URL with a browser
// identity, no automatic retries.
type FetcherConfig struct {
	UserAgent   string `toml:"user_agent"`    // Browser identity presented to target sites
	Timeout     string `toml:"timeout"`       // Page fetch timeout as duration string
	MaxBodySize int    `toml:"max_body_size"` // Maximum response body size in bytes
}

type ImagesConfig struct {
	Enabled           bool    `toml:"enabled"`             // Harvest and download page images
	MaxPerSource      int     `toml:"max_per_source"`      // Accepted-image cap per source
	DownloadTimeout   string  `toml:"download_timeout"`    // Per-image download timeout as duration string
	MaxBytes          int64   `toml:"max_bytes"`           // Reject images with a larger Content-Length
	MinDimension      int     `toml:"min_dimension"`       // Minimum accepted width/height in pixels
	MaxDimension      int     `toml:"max_dimension"`       // Maximum accepted width/height in pixels
	RequestsPerSecond float64 `toml:"requests_per_second"` // Politeness limit between downloads
}

type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size" validate:"min=200,max=1000"` // Target chunk size in characters
	ChunkOverlap int `toml:"chunk_overlap" validate:"min=50,max=400"`
}

// EmbeddingConfig selects the embedding provider. The offline provider is
// deterministic and needs no network or key; gemini requires an API key.
type EmbeddingConfig struct {
	Provider  string `toml:"provider" validate:"oneof=offline gemini"`
	Model     string `toml:"model"`     // Embedding model name (gemini provider)
	Dimension int    `toml:"dimension"` // Embedding vector dimension
	APIKey    string `toml:"api_key"`   // Google API key (gemini provider)
	Timeout   string `toml:"timeout"`   // Embed call timeout as duration string
}

// LLMProvider represents the completion provider type
type LLMProvider string

const (
	// LLMProviderGroq uses the Groq OpenAI-compatible API
	LLMProviderGroq LLMProvider = "groq"
	// LLMProviderClaude uses the Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderGemini uses the Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
)

// LLMConfig contains configuration for the completion providers
type LLMConfig struct {
	Provider     LLMProvider `toml:"provider"` // "groq", "claude", or "gemini"
	Model        string      `toml:"model"`    // Completion model name
	GroqAPIKey   string      `toml:"groq_api_key"`
	ClaudeAPIKey string      `toml:"claude_api_key"`
	GeminiAPIKey string      `toml:"gemini_api_key"`
	Temperature  float64     `toml:"temperature" validate:"min=0,max=1"`
	MaxTokens    int         `toml:"max_tokens"`
	Timeout      string      `toml:"timeout"` // Completion call timeout as duration string
}

// RetrievalConfig controls the per-source search and history windows.
type RetrievalConfig struct {
	ResultCount     int     `toml:"result_count"`     // Chunks returned per source (k)
	CandidatePool   int     `toml:"candidate_pool"`   // Candidates considered for diversity search (fetch_k)
	DiversityLambda float64 `toml:"diversity_lambda"` // Relevance/novelty trade-off, 1.0 = pure relevance
	HistoryWindow   int     `toml:"history_window"`   // Conversation turns supplied per completion call
	HistoryCap      int     `toml:"history_cap"`      // Rolling conversation history cap
	MaxImages       int     `toml:"max_images"`       // Related images returned per answer
}

// NewDefaultConfig creates a configuration with default values
// Technical parameters are hardcoded here for production stability.
// Only user-facing settings should be exposed in colligo.toml.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development", // Default to development mode - allows test URLs
		Logging: LoggingConfig{
			Level:  "info",                     // Info level for production (debug|info|warn|error)
			Output: []string{"stdout", "file"}, // Log to both console and file
		},
		Storage: StorageConfig{
			DataDir:       "./data",
			CatalogPath:   "./data/catalog",
			IndexDir:      "./data/indexes",
			ImageCacheDir: "./data/image_cache",
		},
		Fetcher: FetcherConfig{
			UserAgent:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/93.0.4577.82 Safari/537.36",
			Timeout:     "15s",
			MaxBodySize: 10 * 1024 * 1024, // 10MB
		},
		Images: ImagesConfig{
			Enabled:           true,
			MaxPerSource:      10,
			DownloadTimeout:   "10s",
			MaxBytes:          5 * 1024 * 1024, // 5MB
			MinDimension:      50,
			MaxDimension:      3000,
			RequestsPerSecond: 4,
		},
		Chunking: ChunkingConfig{
			ChunkSize:    500,
			ChunkOverlap: 200,
		},
		Embedding: EmbeddingConfig{
			Provider:  "offline", // No key required; gemini opt-in
			Model:     "gemini-embedding-001",
			Dimension: 384,
			Timeout:   "30s",
		},
		LLM: LLMConfig{
			Provider:    LLMProviderGroq,
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.2, // Lower for focused answers, higher for creativity
			MaxTokens:   1200,
			Timeout:     "30s",
		},
		Retrieval: RetrievalConfig{
			ResultCount:     8,
			CandidatePool:   15,
			DiversityLambda: 0.7,
			HistoryWindow:   10,
			HistoryCap:      20,
			MaxImages:       3,
		},
	}
}

// LoadFromFile loads configuration with priority: default -> file -> env -> CLI
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files with priority: default -> file1 -> file2 -> ... -> env -> CLI
// Later files override earlier files. Priority system: CLI flags > Environment variables > Last config file > ... > First config file > Defaults
// Example: LoadFromFiles("base.toml", "override.toml") - override.toml settings take precedence over base.toml
func LoadFromFiles(paths ...string) (*Config, error) {
	// Start with defaults
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier files)
	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal into config (merges with existing values, later values override)
		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	// Apply environment variables (overrides all file configs)
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	// Environment configuration (highest priority: COLLIGO_ENV, fallback: GO_ENV)
	if env := os.Getenv("COLLIGO_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Logging configuration
	if level := os.Getenv("COLLIGO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("COLLIGO_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			trimmed := strings.TrimSpace(o)
			if trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Storage configuration
	if dataDir := os.Getenv("COLLIGO_DATA_DIR"); dataDir != "" {
		config.Storage.DataDir = dataDir
		config.Storage.CatalogPath = dataDir + "/catalog"
		config.Storage.IndexDir = dataDir + "/indexes"
		config.Storage.ImageCacheDir = dataDir + "/image_cache"
	}
	if catalogPath := os.Getenv("COLLIGO_CATALOG_PATH"); catalogPath != "" {
		config.Storage.CatalogPath = catalogPath
	}
	if indexDir := os.Getenv("COLLIGO_INDEX_DIR"); indexDir != "" {
		config.Storage.IndexDir = indexDir
	}
	if imageCacheDir := os.Getenv("COLLIGO_IMAGE_CACHE_DIR"); imageCacheDir != "" {
		config.Storage.ImageCacheDir = imageCacheDir
	}
	if reset := os.Getenv("COLLIGO_RESET_ON_STARTUP"); reset != "" {
		if r, err := strconv.ParseBool(reset); err == nil {
			config.Storage.ResetOnStartup = r
		}
	}

	// Fetcher configuration
	if userAgent := os.Getenv("COLLIGO_FETCHER_USER_AGENT"); userAgent != "" {
		config.Fetcher.UserAgent = userAgent
	}
	if timeout := os.Getenv("COLLIGO_FETCHER_TIMEOUT"); timeout != "" {
		config.Fetcher.Timeout = timeout
	}
	if maxBodySize := os.Getenv("COLLIGO_FETCHER_MAX_BODY_SIZE"); maxBodySize != "" {
		if mbs, err := strconv.Atoi(maxBodySize); err == nil {
			config.Fetcher.MaxBodySize = mbs
		}
	}

	// Images configuration
	if enabled := os.Getenv("COLLIGO_IMAGES_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Images.Enabled = e
		}
	}
	if maxPerSource := os.Getenv("COLLIGO_IMAGES_MAX_PER_SOURCE"); maxPerSource != "" {
		if mps, err := strconv.Atoi(maxPerSource); err == nil {
			config.Images.MaxPerSource = mps
		}
	}
	if downloadTimeout := os.Getenv("COLLIGO_IMAGES_DOWNLOAD_TIMEOUT"); downloadTimeout != "" {
		config.Images.DownloadTimeout = downloadTimeout
	}

	// Chunking configuration
	if chunkSize := os.Getenv("COLLIGO_CHUNK_SIZE"); chunkSize != "" {
		if cs, err := strconv.Atoi(chunkSize); err == nil {
			config.Chunking.ChunkSize = cs
		}
	}
	if chunkOverlap := os.Getenv("COLLIGO_CHUNK_OVERLAP"); chunkOverlap != "" {
		if co, err := strconv.Atoi(chunkOverlap); err == nil {
			config.Chunking.ChunkOverlap = co
		}
	}

	// Embedding configuration
	if provider := os.Getenv("COLLIGO_EMBEDDING_PROVIDER"); provider != "" {
		config.Embedding.Provider = provider
	}
	if model := os.Getenv("COLLIGO_EMBEDDING_MODEL"); model != "" {
		config.Embedding.Model = model
	}
	if dimension := os.Getenv("COLLIGO_EMBEDDING_DIMENSION"); dimension != "" {
		if d, err := strconv.Atoi(dimension); err == nil {
			config.Embedding.Dimension = d
		}
	}
	if apiKey := os.Getenv("COLLIGO_GEMINI_API_KEY"); apiKey != "" {
		config.Embedding.APIKey = apiKey
	}

	// LLM configuration
	if provider := os.Getenv("COLLIGO_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = LLMProvider(provider)
	}
	if model := os.Getenv("COLLIGO_LLM_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if apiKey := os.Getenv("GROQ_API_KEY"); apiKey != "" {
		config.LLM.GroqAPIKey = apiKey
	}
	if apiKey := os.Getenv("COLLIGO_GROQ_API_KEY"); apiKey != "" {
		config.LLM.GroqAPIKey = apiKey // COLLIGO_ prefix takes priority
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.LLM.ClaudeAPIKey = apiKey
	}
	if apiKey := os.Getenv("COLLIGO_CLAUDE_API_KEY"); apiKey != "" {
		config.LLM.ClaudeAPIKey = apiKey
	}
	if apiKey := os.Getenv("COLLIGO_GEMINI_API_KEY"); apiKey != "" {
		config.LLM.GeminiAPIKey = apiKey
	}
	if temperature := os.Getenv("COLLIGO_LLM_TEMPERATURE"); temperature != "" {
		if t, err := strconv.ParseFloat(temperature, 64); err == nil {
			config.LLM.Temperature = t
		}
	}
	if maxTokens := os.Getenv("COLLIGO_LLM_MAX_TOKENS"); maxTokens != "" {
		if mt, err := strconv.Atoi(maxTokens); err == nil {
			config.LLM.MaxTokens = mt
		}
	}
	if timeout := os.Getenv("COLLIGO_LLM_TIMEOUT"); timeout != "" {
		config.LLM.Timeout = timeout
	}

	// Retrieval configuration
	if resultCount := os.Getenv("COLLIGO_RETRIEVAL_RESULT_COUNT"); resultCount != "" {
		if rc, err := strconv.Atoi(resultCount); err == nil {
			config.Retrieval.ResultCount = rc
		}
	}
	if candidatePool := os.Getenv("COLLIGO_RETRIEVAL_CANDIDATE_POOL"); candidatePool != "" {
		if cp, err := strconv.Atoi(candidatePool); err == nil {
			config.Retrieval.CandidatePool = cp
		}
	}
}

// FlagOverrides carries command-line values that take priority over file and
// environment configuration. Zero values mean "not set".
type FlagOverrides struct {
	DataDir      string
	LogLevel     string
	ChunkSize    int
	ChunkOverlap int
	Temperature  float64 // Negative means "not set"
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, overrides FlagOverrides) {
	// Command-line flags have highest priority
	if overrides.DataDir != "" {
		config.Storage.DataDir = overrides.DataDir
		config.Storage.CatalogPath = overrides.DataDir + "/catalog"
		config.Storage.IndexDir = overrides.DataDir + "/indexes"
		config.Storage.ImageCacheDir = overrides.DataDir + "/image_cache"
	}
	if overrides.LogLevel != "" {
		config.Logging.Level = overrides.LogLevel
	}
	if overrides.ChunkSize > 0 {
		config.Chunking.ChunkSize = overrides.ChunkSize
	}
	if overrides.ChunkOverlap > 0 {
		config.Chunking.ChunkOverlap = overrides.ChunkOverlap
	}
	if overrides.Temperature >= 0 {
		config.LLM.Temperature = overrides.Temperature
	}
}

// Validate checks range and enum constraints declared on the config struct.
// Returns a single error listing every violated field.
func (c *Config) Validate() error {
	validate := validator.New()
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var invalid validator.ValidationErrors
	if !errors.As(err, &invalid) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	problems := make([]string, 0, len(invalid))
	for _, fieldErr := range invalid {
		problems = append(problems, fmt.Sprintf("%s fails %q (value: %v)",
			fieldErr.Namespace(), fieldErr.Tag(), fieldErr.Value()))
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(problems, "; "))
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// AllowTestURLs returns true if test URLs (localhost, 127.0.0.1, etc.) are allowed
// Test URLs are only allowed in development mode
func (c *Config) AllowTestURLs() bool {
	return !c.IsProduction()
}
