package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modulartear/posventa/internal/config"
	"github.com/modulartear/posventa/internal/infra"
	"github.com/modulartear/posventa/internal/repository"
	"github.com/modulartear/posventa/internal/router"
	"github.com/modulartear/posventa/internal/worker"

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
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Start goroutine worker pool for async tasks (close reports, payment
	// polling). Worker handlers are wired here (composition root) so that the
	// pool has full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	breaker := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mpClient := infra.NewMercadoPagoClient(cfg.MPBaseURL, breaker)
	mailer := infra.NewMailer(cfg)

	sessionRepo := repository.NewSessionRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)

	reportWorker := worker.NewReportWorker(sessionRepo, saleRepo, settingsRepo, mailer, cfg.ReportStoragePath)
	paymentWorker := worker.NewPaymentWorker(rdb, mpClient, settingsRepo)
	handlers := map[string]worker.Handler{
		"close_report": reportWorker.Handle,
		"payment_poll": paymentWorker.Handle,
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)

	r := router.New(cfg, db, rdb, mpClient)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("posventa backend listening on :%d", cfg.Port)
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
