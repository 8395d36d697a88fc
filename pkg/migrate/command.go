package migrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/procurement-backend/pkg/config"
	"github.com/angelmondragon/procurement-backend/pkg/db"
	"github.com/angelmondragon/procurement-backend/pkg/logger"
)

// ErrSQLiteUnsupported is returned for goose commands that have no sqlite
// counterpart. Sqlite schemas come from the gorm models, not the SQL files.
var ErrSQLiteUnsupported = errors.New("not supported on sqlite, only up is available")

// Execute runs a database-backed migration command. On postgres it drives
// goose over dir; on sqlite "up" auto-migrates the models and every other
// command is rejected.
func Execute(ctx context.Context, cfg config.DBConfig, logg *logger.Logger, client *db.Client, dir, command, version string) error {
	if client == nil {
		return fmt.Errorf("db client is required")
	}

	if cfg.IsSQLite() {
		switch command {
		case "up":
			return AutoMigrateModels(ctx, logg, client)
		case "down", "status", "version":
			return fmt.Errorf("%s: %w", command, ErrSQLiteUnsupported)
		default:
			return fmt.Errorf("unknown command %q", command)
		}
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	switch command {
	case "up", "down", "status":
		return Run(ctx, sqlDB, dir, command)
	case "version":
		if version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		return MigrateToVersion(ctx, sqlDB, dir, version)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
