package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Crawler   CrawlerConfig   `yaml:"crawler,omitempty"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Database  DatabaseConfig  `yaml:"database,omitempty"`
	Search    SearchConfig    `yaml:"search,omitempty"`
}

// CrawlerConfig holds crawler-specific configuration
type CrawlerConfig struct {
	// Navigation page listing all articles to crawl
	NavigationURL string `yaml:"navigation_url,omitempty"`

	// Maximum number of in-flight HTTP requests
	MaxPoolSize int `yaml:"max_pool_size,omitempty"`

	// Per-request timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`

	// URL path glob patterns to skip (doublestar syntax)
	Exclude []string `yaml:"exclude,omitempty"`
}

// EmbeddingConfig holds embedding provider configuration
type EmbeddingConfig struct {
	// Ollama server endpoint
	Endpoint string `yaml:"endpoint,omitempty"`

	// Embedding model name
	Model string `yaml:"model,omitempty"`

	// Number of pages embedded per provider call
	BatchSize int `yaml:"batch_size,omitempty"`

	// Per-request timeout in seconds
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// DatabaseConfig holds corpus database configuration
type DatabaseConfig struct {
	// Path to the SQLite corpus file
	// If empty, uses ~/.cprag/data/corpus.db
	Path string `yaml:"path,omitempty"`
}

// SearchConfig holds search-specific configuration
type SearchConfig struct {
	DefaultTopK   int     `yaml:"default_top_k,omitempty"`  // Default number of results
	VectorWeight  float32 `yaml:"vector_weight,omitempty"`  // Vector search weight (0-1)
	KeywordWeight float32 `yaml:"keyword_weight,omitempty"` // Keyword search weight (0-1)
}

// Default returns the built-in configuration used when no config file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// Load loads configuration from the default config file
// Default location: ~/.cprag/config.yaml
func Load() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return LoadFromFile(filepath.Join(homeDir, ".cprag", "config.yaml"))
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// NotFoundError is returned when the config file is not found
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found: %s", e.Path)
}

// applyDefaults fills in zero-valued fields
func (c *Config) applyDefaults() {
	if c.Crawler.NavigationURL == "" {
		c.Crawler.NavigationURL = "https://cp-algorithms.com/navigation.html"
	}
	if c.Crawler.MaxPoolSize <= 0 {
		c.Crawler.MaxPoolSize = 8
	}
	if c.Crawler.TimeoutSeconds <= 0 {
		c.Crawler.TimeoutSeconds = 30
	}

	if c.Embedding.Endpoint == "" {
		c.Embedding.Endpoint = "http://localhost:11434"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "nomic-embed-text"
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = 16
	}
	if c.Embedding.TimeoutSeconds <= 0 {
		c.Embedding.TimeoutSeconds = 120
	}

	if c.Database.Path == "" {
		if homeDir, err := os.UserHomeDir(); err == nil {
			c.Database.Path = filepath.Join(homeDir, ".cprag", "data", "corpus.db")
		} else {
			c.Database.Path = "corpus.db"
		}
	}

	if c.Search.DefaultTopK <= 0 {
		c.Search.DefaultTopK = 5
	}
	if c.Search.VectorWeight == 0 && c.Search.KeywordWeight == 0 {
		c.Search.VectorWeight = 0.7
		c.Search.KeywordWeight = 0.3
	}
}

// applyEnv overrides settings from environment variables, typically loaded
// from a .env file by the CLI
func (c *Config) applyEnv() {
	if v := os.Getenv("CPRAG_OLLAMA_ENDPOINT"); v != "" {
		c.Embedding.Endpoint = v
	}
	if v := os.Getenv("CPRAG_EMBEDDING_MODEL"); v != "" {
		c.Embedding.Model = v
	}
	if v := os.Getenv("CPRAG_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("CPRAG_EMBEDDING_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Embedding.BatchSize = n
		}
	}
}

// Validate checks configuration consistency
func (c *Config) Validate() error {
	if c.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding.batch_size must be positive, got %d", c.Embedding.BatchSize)
	}
	if c.Search.VectorWeight < 0 || c.Search.VectorWeight > 1 {
		return fmt.Errorf("search.vector_weight must be in [0, 1], got %v", c.Search.VectorWeight)
	}
	if c.Search.KeywordWeight < 0 || c.Search.KeywordWeight > 1 {
		return fmt.Errorf("search.keyword_weight must be in [0, 1], got %v", c.Search.KeywordWeight)
	}
	return nil
}
