package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/grievance-redressal/student-portal/internal/api"
	"github.com/grievance-redressal/student-portal/internal/infrastructure/config"
	"github.com/grievance-redressal/student-portal/internal/infrastructure/db/redis"
	"github.com/grievance-redressal/student-portal/pkg/logger"
)

// @title        Student Grievance Portal
// @version      1.0
// @description  Server-side front end for the student grievance redressal system.
// @BasePath     /
func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	e, refresher, err := api.NewRouter(api.Options{
		Redis:      rdb,
		BackendURL: cfg.BackendURL,
		SessionTTL: cfg.SessionTTL,
		Logger:     log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	refresher.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.BackendURL).Msg("portal listening")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("portal stopped")
}
