package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"keymarket/internal/config"
	"keymarket/internal/infra"
	"keymarket/internal/migration"
	"keymarket/internal/repository"
	"keymarket/internal/router"
	"keymarket/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	// Apply pending migrations, then check that the live foreign keys still
	// carry the delete/update actions the models declare. A mismatch means
	// someone changed the schema out of band; refuse to serve on top of it.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := migration.NewRunner(db)
	if err := runner.Up(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	if err := migration.VerifyForeignKeys(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("foreign key verification failed")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Async worker pool: low-stock alerts fan out to admin notifications and
	// email without blocking the transaction that triggered them.
	mailer := infra.NewMailer(cfg)
	userRepo := repository.NewUserRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	handlers := &worker.Handlers{
		LowStock: worker.NewLowStockWorker(userRepo, notificationRepo, mailer, cfg.AlertEmail),
		Email:    worker.NewEmailWorker(mailer),
	}
	worker.StartPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	r := router.New(cfg, db, rdb)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("keymarket backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
