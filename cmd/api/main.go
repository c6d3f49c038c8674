package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pickmeapp/pickme-api/internal/api"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
	"github.com/pickmeapp/pickme-api/internal/infrastructure/config"
	"github.com/pickmeapp/pickme-api/internal/infrastructure/db/postgres"
	"github.com/pickmeapp/pickme-api/internal/infrastructure/db/redis"
	"github.com/pickmeapp/pickme-api/internal/infrastructure/mail"
	"github.com/pickmeapp/pickme-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// @title           PickMe API
// @version         1.0
// @description     Restaurant pre-order and pickup backend.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})
	cfg.Validate(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.Postgres.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connection failed")
	}
	defer db.Close()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	var mailer ports.Mailer
	if cfg.Mail.From != "" {
		mailer, err = mail.NewSESMailer(ctx, cfg.Mail.AWSRegion, cfg.Mail.From)
		if err != nil {
			log.Fatal().Err(err).Msg("ses mailer setup failed")
		}
	} else {
		mailer = mail.NewLogMailer(log)
	}

	e, bg := api.NewRouter(cfg, log, db, rdb, mailer)
	bg.Dispatcher.Start(ctx)
	bg.OTPCleaner.Start(ctx)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	log.Info().Msg("server stopped")
}
