package migrate

import (
	"context"
	"fmt"

	"github.com/equilog/equilog-backend/pkg/config"
	"github.com/equilog/equilog-backend/pkg/db"
	"github.com/equilog/equilog-backend/pkg/logger"
)

// MaybeRunDev applies the embedded migrations on startup when running in dev
// with EQUILOG_AUTO_MIGRATE set.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	m, err := New(sqlDB, nil)
	if err != nil {
		return err
	}

	applied, err := m.Up(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"applied": applied,
	}), "migrate.dev_autorun")
	return nil
}
