package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/assignwatch/internal/adapter/driven/github"
	sqliteadapter "github.com/ericfisherdev/assignwatch/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/assignwatch/internal/adapter/driving/http"
	"github.com/ericfisherdev/assignwatch/internal/application"
	"github.com/ericfisherdev/assignwatch/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing or unparsable env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"sweep_interval", cfg.SweepInterval,
		"reminder_after", cfg.Schedule.ReminderAfter,
		"disqualify_after", cfg.Schedule.DisqualifyAfter,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire adapters.
	watchStore := sqliteadapter.NewWatchRepo(db)
	ghClient := githubadapter.NewClient(cfg.GitHubToken)

	// 6. Create and start sweep service.
	sweepSvc := application.NewSweepService(ghClient, watchStore, cfg.Schedule, cfg.SweepInterval)
	go sweepSvc.Start(ctx)

	// 7. Create HTTP handler and server.
	handler := httphandler.NewHandler(watchStore, sweepSvc, cfg.Schedule, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           httphandler.NewServeMux(handler, slog.Default()),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("assignwatch started",
		"listen_addr", cfg.ListenAddr,
		"sweep_interval", cfg.SweepInterval,
	)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with a 10s drain timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
