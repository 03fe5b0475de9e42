package migrate

import (
	"context"
	"fmt"

	"github.com/cropwatch/cropwatch-backend/pkg/config"
	"github.com/cropwatch/cropwatch-backend/pkg/db"
	"github.com/cropwatch/cropwatch-backend/pkg/logger"
)

// AutoRun applies migrations at boot according to the feature flags. ResetDB
// wins over AutoMigrate and rebuilds the schema from scratch.
func AutoRun(ctx context.Context, flags config.FeatureFlagsConfig, logg *logger.Logger, client *db.Client) error {
	if !flags.ResetDB && !flags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"dialect": client.Dialect(), "reset": flags.ResetDB})

	if flags.ResetDB {
		logg.Warn(ctx, "resetting database schema")
		if err := Reset(ctx, sqlDB, client.Dialect()); err != nil {
			return fmt.Errorf("resetting schema: %w", err)
		}
		logg.Info(ctx, "database schema reset")
		return nil
	}

	logg.Info(ctx, "running goose migrations")
	if err := Run(ctx, sqlDB, client.Dialect(), "up"); err != nil {
		return fmt.Errorf("running goose up: %w", err)
	}
	logg.Info(ctx, "goose migrations completed")
	return nil
}
