package cmd

import (
	"fmt"
	"time"

	"github.com/edulink/faceid/internal/config"
	"github.com/edulink/faceid/internal/extractor"
	"github.com/edulink/faceid/internal/faceid"
	"github.com/edulink/faceid/internal/store"
	"github.com/edulink/faceid/internal/store/mariadb"
	"github.com/edulink/faceid/internal/store/postgres"
)

// openStore selects the enrollment backend: PostgreSQL when DATABASE_URL is
// set, the legacy SIS MariaDB when MARIADB_DSN is set, in-memory otherwise.
// The returned closer is a no-op for the memory backend.
func openStore(cfg *config.Config) (store.EnrollmentWriter, string, func() error, error) {
	switch {
	case cfg.Database.URL != "":
		pool, err := postgres.Connect(&cfg.Database)
		if err != nil {
			return nil, "", nil, fmt.Errorf("connecting to PostgreSQL: %w", err)
		}
		repo := postgres.NewEnrollmentRepository(pool, cfg.Matching.EmbeddingDim)
		return repo, "postgres", pool.Close, nil

	case cfg.Database.MariaDBDSN != "":
		pool, err := mariadb.NewPool(cfg.Database.MariaDBDSN)
		if err != nil {
			return nil, "", nil, fmt.Errorf("connecting to MariaDB: %w", err)
		}
		repo := mariadb.NewEnrollmentRepository(pool, cfg.Matching.EmbeddingDim, cfg.Extractor.ModelVariant)
		return repo, "mariadb", pool.Close, nil

	default:
		return store.NewMemory(), "memory", func() error { return nil }, nil
	}
}

// buildExtractor constructs the sidecar client wrapped in the worker pool.
func buildExtractor(cfg *config.Config) extractor.Extractor {
	client := extractor.NewClient(
		cfg.Extractor.URL,
		cfg.Extractor.ModelVariant,
		cfg.Matching.EmbeddingDim,
		time.Duration(cfg.Extractor.TimeoutSeconds)*time.Second,
	)
	return extractor.NewPool(client, cfg.Extractor.Workers)
}

// buildService validates config and assembles the identification service.
func buildService(cfg *config.Config) (*faceid.Service, string, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, "", nil, fmt.Errorf("invalid configuration: %w", err)
	}

	st, backend, closer, err := openStore(cfg)
	if err != nil {
		return nil, "", nil, err
	}

	svc := faceid.NewService(
		buildExtractor(cfg),
		st,
		cfg.Matching.SimilarityThreshold,
		cfg.Matching.EmbeddingDim,
		cfg.Extractor.ModelVariant,
	)
	return svc, backend, closer, nil
}
