package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"recipebox/internal/cache"
	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/middleware"
	"recipebox/internal/models"
	"recipebox/internal/seed"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedDemoData fills an empty development database with demo content.
	SeedDemoData bool
	Seed         seed.Options
}

// InitRuntime connects to DB and Redis and optionally seeds demo data.
// The caller owns both handles and releases them on shutdown.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Init Redis (may result in nil client if unreachable)
	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if opts.SeedDemoData && !cfg.IsProduction() {
		if err := seedIfEmpty(db, opts.Seed); err != nil {
			_ = database.Close(db)
			_ = cache.Close()
			return nil, nil, fmt.Errorf("failed to seed demo data: %w", err)
		}
	}

	return db, r, nil
}

func seedIfEmpty(db *gorm.DB, opts seed.Options) error {
	var users int64
	if err := db.Model(&models.User{}).Count(&users).Error; err != nil {
		return err
	}
	if users > 0 {
		middleware.Logger.Info("database already populated, skipping demo seed", slog.Int64("users", users))
		return nil
	}
	_, err := seed.NewSeeder(db, opts).Run(context.Background())
	return err
}
