// Package ingest runs the statement ingestion pipeline: open the uploaded
// file, extract its text, parse it, and persist exactly one statement record
// in a terminal status.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/OdivalPereira/loan-parser/internal/domain/contract"
	"github.com/OdivalPereira/loan-parser/internal/domain/statement"
	"github.com/OdivalPereira/loan-parser/internal/parser"
	"github.com/OdivalPereira/loan-parser/pkg/metrics"
)

// TextExtractor turns a PDF stream into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, r io.Reader) (string, error)
}

// FileOpener resolves a stored file path into a readable stream.
type FileOpener interface {
	Open(ctx context.Context, path string) (io.ReadCloser, error)
}

// Service executes one ingestion run per call. Every run ends in exactly one
// persisted statement unless persistence itself fails twice.
type Service struct {
	files      FileOpener
	extractor  TextExtractor
	statements statement.Repository
	contracts  contract.Repository
	parserName string
	logger     *slog.Logger
}

func NewService(
	files FileOpener,
	extractor TextExtractor,
	statements statement.Repository,
	contracts contract.Repository,
	logger *slog.Logger,
) *Service {
	return &Service{
		files:      files,
		extractor:  extractor,
		statements: statements,
		contracts:  contracts,
		parserName: "sicoob",
		logger:     logger,
	}
}

// WithParser returns a copy of the service that runs the named bank parser.
// The receiver is left untouched so a worker's default service can be shared.
func (s *Service) WithParser(name string) *Service {
	c := *s
	c.parserName = name
	return &c
}

// Run ingests the file at filePath for the given contract and returns the
// resulting statement record. The returned error reports infrastructure
// failures only; parse and extraction problems are recorded on the statement
// itself.
func (s *Service) Run(ctx context.Context, filePath string, contractID *int64) (*statement.Statement, error) {
	log := s.logger.With(slog.String("file_path", filePath), slog.String("parser", s.parserName))

	if contractID != nil {
		_, err := s.contracts.GetByID(ctx, *contractID)
		if errors.Is(err, contract.ErrNotFound) {
			log.WarnContext(ctx, "contract not found, recording error statement",
				slog.Int64("contract_id", *contractID))
			return s.persistFailure(ctx, filePath, nil, statement.StatusError, statement.Metadata{
				Reason: "contract not found",
				Error:  fmt.Sprintf("contract %d not found", *contractID),
			})
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve contract %d: %w", *contractID, err)
		}
	}

	f, err := s.files.Open(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement file: %w", err)
	}
	defer f.Close()

	text, err := s.extractor.Extract(ctx, f)
	if err != nil {
		log.WarnContext(ctx, "text extraction failed", slog.Any("error", err))
		return s.persistFailure(ctx, filePath, contractID, statement.StatusNeedsReview, statement.Metadata{
			Error:  err.Error(),
			Reason: "text extraction failed",
		})
	}

	result, err := parser.Parse(s.parserName, text)
	if err != nil {
		if errors.Is(err, parser.ErrParserNotFound) {
			return nil, err
		}
		log.WarnContext(ctx, "statement parse failed", slog.Any("error", err))
		return s.persistFailure(ctx, filePath, contractID, statement.StatusNeedsReview, statement.Metadata{
			Error:  err.Error(),
			Reason: "statement parse failed",
		})
	}

	st := &statement.Statement{
		ContractID:   contractID,
		FilePath:     filePath,
		Status:       statement.StatusImported,
		Metadata:     statement.Metadata{Header: result.Header},
		Transactions: toTransactions(result.Transactions),
	}
	if err := s.statements.CreateWithTransactions(ctx, st); err != nil {
		log.ErrorContext(ctx, "failed to persist imported statement", slog.Any("error", err))
		return s.persistFailure(ctx, filePath, contractID, statement.StatusError, statement.Metadata{
			Error: err.Error(),
		})
	}

	metrics.IngestionsTotal.WithLabelValues(statement.StatusImported).Inc()
	log.InfoContext(ctx, "statement imported",
		slog.String("statement_id", st.ID.String()),
		slog.Int("transactions", len(st.Transactions)))
	return st, nil
}

// persistFailure records a terminal failure statement. If even that write
// fails the error is returned to the caller so the job can be retried.
func (s *Service) persistFailure(ctx context.Context, filePath string, contractID *int64, status string, meta statement.Metadata) (*statement.Statement, error) {
	st := &statement.Statement{
		ContractID: contractID,
		FilePath:   filePath,
		Status:     status,
		Metadata:   meta,
	}
	if err := s.statements.CreateFailed(ctx, st); err != nil {
		metrics.IngestionFailures.Inc()
		return nil, fmt.Errorf("failed to record %s statement: %w", status, err)
	}
	metrics.IngestionsTotal.WithLabelValues(status).Inc()
	return st, nil
}

func toTransactions(parsed []parser.Transaction) []statement.Transaction {
	txns := make([]statement.Transaction, 0, len(parsed))
	for _, p := range parsed {
		txns = append(txns, statement.Transaction{
			RefDate:     parseDate(p.RefDate),
			PostingDate: parseDate(p.PostingDate),
			Description: p.Description,
			Debit:       p.Debit,
			Credit:      p.Credit,
			Balance:     p.Balance,
		})
	}
	return txns
}

// parseDate converts a dd/mm/yyyy token to a time, or nil when it does not
// parse. A bad date does not fail the whole statement.
func parseDate(s string) *time.Time {
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		return nil
	}
	return &t
}
