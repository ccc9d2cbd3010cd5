package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Config holds the settings used to open the PostgreSQL backend.
type Config struct {
	Pool PoolConfig

	// AutoMigrate applies pending migrations when the backend is opened.
	AutoMigrate bool
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Pool.Validate(); err != nil {
		return fmt.Errorf("invalid pool config: %w", err)
	}
	return nil
}

// Open connects to PostgreSQL and, if enabled, runs migrations.
// The returned pool is shared by NewTenantStore and NewPedigreeStore.
func Open(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pool, err := NewPool(ctx, &cfg.Pool)
	if err != nil {
		return nil, err
	}

	log.Info().
		Int32("max_conns", cfg.Pool.MaxConns).
		Msg("Connected to PostgreSQL")

	if cfg.AutoMigrate {
		if err := Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return pool, nil
}
