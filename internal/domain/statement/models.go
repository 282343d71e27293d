// Package statement holds the bank statement ingestion records and their
// persistence. Every ingestion run produces exactly one statement row in a
// terminal status; re-running the same file produces a new row.
package statement

import (
	"time"

	"github.com/google/uuid"
)

// Terminal statuses for an ingestion run.
const (
	StatusImported    = "imported"
	StatusNeedsReview = "needs_review"
	StatusError       = "error"
)

// Metadata is diagnostic detail stored alongside the statement as jsonb.
type Metadata struct {
	Header []string `json:"header,omitempty"`
	Error  string   `json:"error,omitempty"`
	Reason string   `json:"reason,omitempty"`
}

// Statement is one ingestion run over one uploaded file.
type Statement struct {
	ID           uuid.UUID
	ContractID   *int64
	FilePath     string
	Status       string
	Metadata     Metadata
	Transactions []Transaction
	CreatedAt    time.Time
}

// Transaction is a single parsed statement line. Amount fields are nil when
// the source column held the no-value marker, and dates are nil when the
// source token did not parse. Position is the zero-based document order of
// the line within its statement; reads sort by it.
type Transaction struct {
	ID          uuid.UUID
	StatementID uuid.UUID
	Position    int
	RefDate     *time.Time
	PostingDate *time.Time
	Description string
	Debit       *float64
	Credit      *float64
	Balance     *float64
}
