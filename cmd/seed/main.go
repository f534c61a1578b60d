package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sathwik-loomiz/ai-generation/internal/adapter/repo"
	"github.com/sathwik-loomiz/ai-generation/internal/domain"
	"github.com/sathwik-loomiz/ai-generation/internal/infra"
)

// Seeds the products collection with the built-in garment catalog. Existing
// products are replaced. Only the database settings are needed here, so the
// full config validation is skipped.
func main() {
	_ = godotenv.Load()

	cfg := &infra.Config{
		AppEnv:        envOr("APP_ENV", "development"),
		MongoURI:      os.Getenv("MONGODB_URI"),
		MongoDatabase: envOr("MONGODB_DATABASE", "fashion-generation"),
	}
	logger := infra.NewLogger(cfg.AppEnv)
	if cfg.MongoURI == "" {
		logger.Fatal().Msg("MONGODB_URI is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, disconnect, err := infra.NewMongoDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer func() { _ = disconnect(context.Background()) }()

	products := domain.DefaultProducts()
	if err := repo.NewProductRepository(db).ReplaceAll(ctx, products); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed products")
	}
	logger.Info().Int("count", len(products)).Msg("products seeded")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
