package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sathwik-loomiz/ai-generation/internal/adapter/repo"
	"github.com/sathwik-loomiz/ai-generation/internal/generation"
	"github.com/sathwik-loomiz/ai-generation/internal/http/handlers"
	httpapi "github.com/sathwik-loomiz/ai-generation/internal/http/httpapi"
	"github.com/sathwik-loomiz/ai-generation/internal/imagegen"
	"github.com/sathwik-loomiz/ai-generation/internal/infra"
	"github.com/sathwik-loomiz/ai-generation/internal/media"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	db, disconnect, err := infra.NewMongoDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer func() {
		if err := disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect database")
		}
	}()

	generations := repo.NewGenerationRepository(db)
	products := repo.NewProductRepository(db)

	if cfg.CloudinaryCloudName == "" || cfg.CloudinaryAPIKey == "" || cfg.CloudinaryAPISecret == "" {
		logger.Warn().Msg("cloudinary credentials missing, uploads will fail and provider urls will be served")
	}
	uploader := media.NewCloudinaryClient(media.CloudinaryOptions{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		BaseURL:   cfg.CloudinaryBaseURL,
	})

	generator := imagegen.NewOpenAIGenerator(imagegen.OpenAIOptions{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIImageModel,
		Timeout: cfg.GenerationTimeout,
		Logger:  logger,
	})

	svc := generation.NewService(generations, generator, uploader, logger, cfg.GenerationTimeout)

	app := handlers.NewApp(logger, svc, products)
	router := httpapi.NewRouter(app, cfg, logger)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
