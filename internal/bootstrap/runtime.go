// Package bootstrap wires up the process-wide runtime dependencies.
package bootstrap

import (
	"fmt"

	"collabhub/internal/cache"
	"collabhub/internal/config"
	"collabhub/internal/database"
	"collabhub/internal/seed"

	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	SeedFixtures bool
}

// InitRuntime connects to the database and Redis and optionally seeds the
// permanent fixture collabs. The returned cache is never nil; it degrades to
// a no-op when Redis is unreachable.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *cache.Cache, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	c := cache.New(cfg.RedisURL)

	if opts.SeedFixtures {
		if err := seed.Fixtures(db); err != nil {
			return nil, nil, fmt.Errorf("failed to seed fixture collabs: %w", err)
		}
	}

	return db, c, nil
}
