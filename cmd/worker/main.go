package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/OdivalPereira/loan-parser/internal/domain/contract"
	"github.com/OdivalPereira/loan-parser/internal/domain/ingest"
	"github.com/OdivalPereira/loan-parser/internal/domain/statement"
	"github.com/OdivalPereira/loan-parser/internal/extractor"
	"github.com/OdivalPereira/loan-parser/internal/queue"
	"github.com/OdivalPereira/loan-parser/pkg/config"
	"github.com/OdivalPereira/loan-parser/pkg/db"
	"github.com/OdivalPereira/loan-parser/pkg/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("worker exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := db.NewPool(context.Background(), cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	store, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}

	svc := ingest.NewService(
		store,
		extractor.New(cfg.OCR.Language, cfg.OCR.DPI),
		statement.NewPostgresRepository(pool),
		contract.NewPostgresRepository(pool),
		logger,
	)

	if cfg.Observability.MetricsEnabled {
		addr := fmt.Sprintf(":%d", cfg.Observability.MetricsPort)
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Info("metrics listening", slog.String("addr", addr))
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.Error("metrics server stopped", slog.Any("error", err))
			}
		}()
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.Redis.Addr()},
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues:      map[string]int{queue.UploadQueue: 1},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(queue.TypeIngestStatement, queue.NewIngestHandler(svc, logger))

	logger.Info("worker started",
		slog.String("queue", queue.UploadQueue),
		slog.Int("concurrency", cfg.Worker.Concurrency))
	return srv.Run(mux)
}
