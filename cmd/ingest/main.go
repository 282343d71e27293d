// Command ingest submits a bank statement PDF for ingestion. By default it
// stores the file and enqueues a background job; with -sync it runs the whole
// pipeline in process, which is useful for local debugging.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

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
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var (
		file       = flag.String("file", "", "path to the statement PDF")
		contractID = flag.Int64("contract", 0, "contract id to link the statement to (0 for none)")
		bank       = flag.String("bank", "sicoob", "bank parser to use (only honored with -sync; queued jobs use the worker default)")
		sync       = flag.Bool("sync", false, "run the pipeline in process instead of enqueueing")
	)
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: ingest -file <statement.pdf> [-contract <id>] [-bank <name>] [-sync]")
		os.Exit(2)
	}

	var cid *int64
	if *contractID != 0 {
		cid = contractID
	}

	if err := run(logger, *file, cid, *bank, *sync); err != nil {
		logger.Error("ingest failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, file string, cid *int64, bank string, sync bool) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.NewLocalStorage(cfg.Storage.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to init storage: %w", err)
	}

	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", file, err)
	}
	defer f.Close()

	storedPath, err := store.Save(ctx, filepath.Base(file), f)
	if err != nil {
		return fmt.Errorf("failed to store statement file: %w", err)
	}
	logger.Info("statement stored", slog.String("path", storedPath))

	if sync {
		pool, err := db.NewPool(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()

		svc := ingest.NewService(
			store,
			extractor.New(cfg.OCR.Language, cfg.OCR.DPI),
			statement.NewPostgresRepository(pool),
			contract.NewPostgresRepository(pool),
			logger,
		).WithParser(bank)

		st, err := svc.Run(ctx, storedPath, cid)
		if err != nil {
			return err
		}
		logger.Info("ingestion finished",
			slog.String("statement_id", st.ID.String()),
			slog.String("status", st.Status))
		return nil
	}

	client := queue.NewClient(cfg.Redis.Addr())
	defer client.Close()

	jobID, err := client.EnqueueIngestion(ctx, storedPath, cid)
	if err != nil {
		return err
	}
	logger.Info("ingestion enqueued", slog.String("job_id", jobID), slog.String("queue", queue.UploadQueue))
	return nil
}
