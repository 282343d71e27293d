package contract

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PgxPool is the slice of pgxpool.Pool the repository needs. Mocks from
// pgxmock satisfy it as well.
type PgxPool interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository on top of Postgres.
type PostgresRepository struct {
	db PgxPool
}

func NewPostgresRepository(db PgxPool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*Contract, error) {
	query := `
		SELECT id, company_id, number, bank, balance, annual_rate, start_date
		FROM contracts
		WHERE id = $1`

	var c Contract
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CompanyID, &c.Number, &c.Bank, &c.Balance, &c.AnnualRate, &c.StartDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get contract %d: %w", id, err)
	}
	return &c, nil
}
