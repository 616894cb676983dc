// Package config provides configuration loading and structs for the pricebot
// engine and its server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Storage   StorageConfig   `yaml:"storage"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Matching  MatchingConfig  `yaml:"matching"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CatalogConfig holds price-list source settings.
type CatalogConfig struct {
	// Path is the price list file, either delimited text or .xlsx.
	Path string `yaml:"path"`
	// Watch enables fsnotify-driven rebuild when the price list changes.
	Watch bool `yaml:"watch"`
}

// StorageConfig holds paths for the vector cache and the keyword index.
type StorageConfig struct {
	VectorCachePath  string `yaml:"vector_cache_path"`
	KeywordIndexPath string `yaml:"keyword_index_path"`
}

// EmbeddingConfig holds embedding provider settings. APIKey is usually left
// empty here and supplied via the EMBEDDING_API_KEY environment variable.
type EmbeddingConfig struct {
	BaseURL         string `yaml:"base_url"`
	APIKey          string `yaml:"api_key"`
	Model           string `yaml:"model"`
	Dimensions      int    `yaml:"dimensions"`
	BatchSize       int    `yaml:"batch_size"`
	BatchDelayMs    int    `yaml:"batch_delay_ms"`
	RequestTimeoutS int    `yaml:"request_timeout_s"`
	MaxRetries      int    `yaml:"max_retries"`
	RetryBackoffMs  int    `yaml:"retry_backoff_ms"`
}

// BatchDelay returns the inter-batch delay as a duration.
func (e *EmbeddingConfig) BatchDelay() time.Duration {
	return time.Duration(e.BatchDelayMs) * time.Millisecond
}

// RequestTimeout returns the per-request timeout as a duration.
func (e *EmbeddingConfig) RequestTimeout() time.Duration {
	return time.Duration(e.RequestTimeoutS) * time.Second
}

// RetryBackoff returns the base backoff between retries as a duration.
func (e *EmbeddingConfig) RetryBackoff() time.Duration {
	return time.Duration(e.RetryBackoffMs) * time.Millisecond
}

// MatchingConfig holds the tunable thresholds of the matching engine. The
// similarity cutoffs vary across price-list sources, so they are config, not
// literals.
type MatchingConfig struct {
	// PrimaryMinSimilarity is the cosine cutoff for semantic candidates.
	PrimaryMinSimilarity float64 `yaml:"primary_min_similarity"`
	// SecondaryMinSimilarity is the stricter cutoff used when selecting
	// approximate alternatives for a missing exact model.
	SecondaryMinSimilarity float64 `yaml:"secondary_min_similarity"`
	DefaultLimit           int     `yaml:"default_limit"`
	MaxLimit               int     `yaml:"max_limit"`
	// QualityTopK is the broad candidate width used by quality grouping.
	QualityTopK int `yaml:"quality_top_k"`
	// MinTokenLength is the shortest query token the keyword fallback scores.
	MinTokenLength int `yaml:"min_token_length"`
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Catalog.Path = expandPath(cfg.Catalog.Path, configDir)
	cfg.Storage.VectorCachePath = expandPath(cfg.Storage.VectorCachePath, configDir)
	cfg.Storage.KeywordIndexPath = expandPath(cfg.Storage.KeywordIndexPath, configDir)

	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("EMBEDDING_API_KEY")
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
