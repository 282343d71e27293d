package statement

import "context"

// Repository persists ingestion results.
type Repository interface {
	// CreateWithTransactions stores the statement and all of its
	// transactions atomically. Either everything is visible or nothing is.
	CreateWithTransactions(ctx context.Context, st *Statement) error

	// CreateFailed stores a statement in a failure status with no
	// transactions.
	CreateFailed(ctx context.Context, st *Statement) error

	GetByID(ctx context.Context, id string) (*Statement, error)
	ListByContract(ctx context.Context, contractID int64) ([]Statement, error)
}
