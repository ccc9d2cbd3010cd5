package commands

import (
	"context"
	"fmt"

	"github.com/wolfeidau/traba/internal/logger"
	postgresstore "github.com/wolfeidau/traba/internal/store/postgres"
)

// MigrateCmd applies pending schema migrations and exits.
type MigrateCmd struct {
	PostgresStore PostgresStoreFlags `embed:"" prefix:"postgres-"`
}

func (c *MigrateCmd) Run(ctx context.Context, globals *Globals) error {
	log := logger.Setup(globals.Debug)

	if err := c.PostgresStore.Validate(); err != nil {
		return err
	}

	cfg := c.PostgresStore.config()
	cfg.AutoMigrate = true

	pool, err := postgresstore.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	pool.Close()

	log.Info().Msg("Database migrations completed")
	return nil
}
