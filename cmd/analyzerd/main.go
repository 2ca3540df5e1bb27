// analyzerd is the document analysis service: it accepts uploads over
// HTTP, classifies them, extracts structured data, and serves history and
// XLSX exports.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gestordocs/docanalyzer/internal/ai"
	"github.com/gestordocs/docanalyzer/internal/common"
	"github.com/gestordocs/docanalyzer/internal/export"
	"github.com/gestordocs/docanalyzer/internal/ocr"
	"github.com/gestordocs/docanalyzer/internal/pipeline"
	"github.com/gestordocs/docanalyzer/internal/repository"
	"github.com/gestordocs/docanalyzer/internal/server"
	"github.com/gestordocs/docanalyzer/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, health, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("opening repository", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	var engine ocr.Engine = ocr.Disabled{}
	if cfg.OCR.Enabled && cfg.OCR.Endpoint != "" {
		engine = ocr.NewClient(ocr.Config{
			Endpoint: cfg.OCR.Endpoint,
			APIKey:   cfg.OCR.APIKey,
			Timeout:  cfg.OCR.Timeout,
		}, logger)
	}

	var aiClient *ai.Client
	if cfg.AI.Enabled {
		aiClient = ai.NewClient(ai.Config{
			APIKey:      cfg.AI.APIKey,
			BaseURL:     cfg.AI.BaseURL,
			Model:       cfg.AI.Model,
			Temperature: cfg.AI.Temperature,
			Timeout:     cfg.AI.Timeout,
		}, logger)
	}

	proc := pipeline.NewProcessor(engine, aiClient, logger)
	svc := server.NewService(repo, storage.New(cfg.Storage.Dir), proc, logger)

	handler := server.NewRouter(server.Options{
		Service:        svc,
		Export:         export.NewService(repo, logger),
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Health:         health,
		Log:            logger,
	})

	srv := &http.Server{Addr: cfg.Server.HTTPAddr, Handler: handler}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("stopped")
}

// openRepository picks Postgres when DB_URL is set, SQLite otherwise, and
// makes sure the schema exists.
func openRepository(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.DocumentRepository, func() error, error) {
	if cfg.Database.DSN != "" {
		pool, err := repository.OpenPool(ctx, repository.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewPostgres(pool, logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		health := func() error {
			return repository.HealthCheck(context.Background(), pool, cfg.Database.DialTimeout)
		}
		return repo, health, nil
	}

	repo, err := repository.OpenSQLite(cfg.Database.SQLitePath, logger)
	if err != nil {
		return nil, nil, err
	}
	if err := repo.EnsureSchema(ctx); err != nil {
		repo.Close()
		return nil, nil, err
	}
	return repo, func() error { return nil }, nil
}
