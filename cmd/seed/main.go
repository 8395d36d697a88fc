package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/angelmondragon/procurement-backend/internal/requests"
	"github.com/angelmondragon/procurement-backend/pkg/config"
	"github.com/angelmondragon/procurement-backend/pkg/db"
	"github.com/angelmondragon/procurement-backend/pkg/logger"
	"github.com/angelmondragon/procurement-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	count := flag.Int("count", 20, "number of demo requests to create")
	reset := flag.Bool("reset", false, "delete every existing request before seeding")
	seed := flag.Uint64("seed", 0, "random seed (0 uses the current time)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":   cfg.App.Env,
		"count": *count,
		"seed":  *seed,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	repo := requests.NewRepository(dbClient.DB())
	if err := run(ctx, logg, dbClient, repo, newGenerator(*seed, time.Now()), *count, *reset); err != nil {
		logg.Error(ctx, "seeding failed", err)
		os.Exit(1)
	}
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// run writes count generated requests in one transaction so a failure leaves
// the store untouched.
func run(ctx context.Context, logg *logger.Logger, tx txRunner, repo requests.Repository, gen *generator, count int, reset bool) error {
	if count < 0 {
		return fmt.Errorf("count must not be negative, got %d", count)
	}
	return tx.WithTx(ctx, func(gtx *gorm.DB) error {
		txRepo := repo.WithTx(gtx)
		if reset {
			removed, err := txRepo.DeleteAll(ctx)
			if err != nil {
				return fmt.Errorf("reset requests: %w", err)
			}
			logg.Info(logg.WithField(ctx, "removed", removed), "existing requests deleted")
		}

		for i := 0; i < count; i++ {
			req := gen.Request()
			if err := txRepo.Create(ctx, req); err != nil {
				return fmt.Errorf("create request %d: %w", i+1, err)
			}
			logg.Info(logg.WithFields(ctx, map[string]any{
				"title":      req.Title,
				"status":     req.Status.String(),
				"total_cost": req.TotalCost.StringFixed(2),
			}), "demo request created")
		}
		return nil
	})
}
