package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed variants.yaml
var variantsYAML []byte

// Config holds all runtime configuration, loaded from environment variables.
type Config struct {
	Matching  MatchingConfig
	Extractor ExtractorConfig
	Database  DatabaseConfig
	Web       WebConfig
	Variants  VariantCatalog
}

// MatchingConfig controls the identification engine.
type MatchingConfig struct {
	SimilarityThreshold float64 // cosine similarity threshold in [0,1]
	EmbeddingDim        int     // expected embedding dimensionality
}

// ExtractorConfig points at the face-detection sidecar.
type ExtractorConfig struct {
	URL            string // defaults to http://localhost:8000
	ModelVariant   string // must exist in the variant catalog
	Workers        int    // max concurrent inference requests
	TimeoutSeconds int    // per-request timeout
	MaxImagePx     int    // captures larger than this are downscaled before upload
}

// DatabaseConfig selects and tunes the enrollment store backend.
type DatabaseConfig struct {
	URL          string // PostgreSQL connection URL (preferred backend)
	MariaDBDSN   string // legacy SIS database DSN (students.face_embedding column)
	MaxOpenConns int    // Maximum open connections (default 25)
	MaxIdleConns int    // Maximum idle connections (default 5)
}

// WebConfig tunes the HTTP API server.
type WebConfig struct {
	AllowedOrigins string // comma-separated CORS origins; localhost is always allowed
}

// VariantCatalog describes the extractor model variants the service accepts.
type VariantCatalog struct {
	Models map[string]ModelVariant `yaml:"models"`
}

// ModelVariant describes one detector/recognizer bundle.
type ModelVariant struct {
	Dim      int    `yaml:"dim"`
	MemoryMB int    `yaml:"memory_mb"`
	Notes    string `yaml:"notes"`
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float.
// Returns the default value if unset or empty; parseable values pass through
// unchecked so Validate can reject out-of-range thresholds explicitly.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}

func envString(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// Load reads configuration from the environment. Call Validate before use.
func Load() *Config {
	var variants VariantCatalog
	if err := yaml.Unmarshal(variantsYAML, &variants); err != nil {
		// This is an embedded file so this error should never happen in practice
		panic("failed to unmarshal embedded variants.yaml: " + err.Error())
	}

	return &Config{
		Matching: MatchingConfig{
			SimilarityThreshold: envFloat("SIMILARITY_THRESHOLD", 0.5),
			EmbeddingDim:        envInt("EMBEDDING_DIM", 512),
		},
		Extractor: ExtractorConfig{
			URL:            envString("EXTRACTOR_URL", "http://localhost:8000"),
			ModelVariant:   envString("MODEL_VARIANT", "buffalo_l"),
			Workers:        envInt("EXTRACTOR_WORKERS", 4),
			TimeoutSeconds: envInt("EXTRACTOR_TIMEOUT_SECONDS", 30),
			MaxImagePx:     envInt("MAX_IMAGE_PX", 1600),
		},
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MariaDBDSN:   os.Getenv("MARIADB_DSN"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Web: WebConfig{
			AllowedOrigins: os.Getenv("WEB_ALLOWED_ORIGINS"),
		},
		Variants: variants,
	}
}

// Validate checks configuration invariants. The service refuses to start on a
// bad threshold or unknown model variant rather than failing at request time.
func (c *Config) Validate() error {
	t := c.Matching.SimilarityThreshold
	if t < 0 || t > 1 {
		return fmt.Errorf("SIMILARITY_THRESHOLD must be in [0,1], got %g", t)
	}
	if c.Matching.EmbeddingDim <= 0 {
		return fmt.Errorf("EMBEDDING_DIM must be positive, got %d", c.Matching.EmbeddingDim)
	}
	variant, ok := c.Variants.Models[c.Extractor.ModelVariant]
	if !ok {
		return fmt.Errorf("unknown MODEL_VARIANT %q", c.Extractor.ModelVariant)
	}
	if variant.Dim != c.Matching.EmbeddingDim {
		return fmt.Errorf("MODEL_VARIANT %q produces %d-dim embeddings but EMBEDDING_DIM is %d",
			c.Extractor.ModelVariant, variant.Dim, c.Matching.EmbeddingDim)
	}
	return nil
}

// Variant returns the catalog entry for the configured model variant.
// Only meaningful after Validate has passed.
func (c *Config) Variant() ModelVariant {
	return c.Variants.Models[c.Extractor.ModelVariant]
}
