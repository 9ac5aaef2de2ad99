package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/boardhub/board-gateway/internal/api"
	mongostore "github.com/boardhub/board-gateway/internal/infrastructure/db/mongo"
	redisstore "github.com/boardhub/board-gateway/internal/infrastructure/db/redis"
	"github.com/boardhub/board-gateway/internal/infrastructure/jobs"
	"github.com/boardhub/board-gateway/internal/infrastructure/queue"
	"github.com/boardhub/board-gateway/internal/infrastructure/upstream"
	"github.com/boardhub/board-gateway/internal/pkg/config"
	"github.com/boardhub/board-gateway/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.Session.CookieSecret == "" {
		log.Fatal().Msg("COOKIE_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Stores ---
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	// --- Upstream board API ---
	up := upstream.New(upstream.Config{
		BaseURL: cfg.Upstream.BaseURL,
		Timeout: cfg.Upstream.Timeout,
	}, log)

	// --- Activity trail ---
	activityRepo := mongostore.NewActivityRepository(db)
	recorder := queue.NewRecorder(cfg.Activity.Workers, activityRepo, log)
	recorder.Start(ctx)

	sweeper := jobs.NewRetentionSweeper(activityRepo, cfg.Activity.RetentionDays, cfg.Activity.SweepSchedule, log)
	if err := sweeper.Start(); err != nil {
		log.Fatal().Err(err).Msg("retention sweeper failed to start")
	}
	defer sweeper.Stop()

	// --- HTTP server ---
	e := api.NewRouter(db, rdb, up, recorder, cfg, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("upstream", cfg.Upstream.BaseURL).Msg("board gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
