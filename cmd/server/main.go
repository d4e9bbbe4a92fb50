package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"cephai-backend/internal/auth"
	"cephai-backend/internal/config"
	"cephai-backend/internal/database"
	"cephai-backend/internal/handlers"
	"cephai-backend/internal/inference"
	"cephai-backend/internal/report"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found, using environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("failed to create upload directory")
	}

	// the model client is built once here and injected everywhere; a
	// model server that cannot answer the probe is a deployment error
	engine := inference.NewClient(cfg.InferenceURL, cfg.InferenceTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := engine.Healthcheck(ctx); err != nil {
		log.Fatal().Err(err).Str("url", cfg.InferenceURL).Msg("inference service healthcheck failed")
	}

	reports, err := report.NewGenerator(cfg.OutputDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize report generator")
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenLifetime)

	h := handlers.New(db, cfg, tokens, engine, reports, log)
	r := h.SetupRouter()

	log.Info().Str("port", cfg.ListenPort).Msg("starting server")
	if err := r.Run(":" + cfg.ListenPort); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
