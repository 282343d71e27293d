package statement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PgxPool is the slice of pgxpool.Pool the repository needs. Mocks from
// pgxmock satisfy it as well.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository implements Repository on top of Postgres.
type PostgresRepository struct {
	db PgxPool
}

func NewPostgresRepository(db PgxPool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const insertStatementQuery = `
	INSERT INTO statements (id, contract_id, file_path, status, metadata)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at`

const insertTransactionQuery = `
	INSERT INTO statement_transactions
		(id, statement_id, position, ref_date, posting_date, description, debit, credit, balance)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

func (r *PostgresRepository) CreateWithTransactions(ctx context.Context, st *Statement) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertStatement(ctx, tx, st); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for i := range st.Transactions {
		txn := &st.Transactions[i]
		if txn.ID == uuid.Nil {
			txn.ID = uuid.New()
		}
		txn.StatementID = st.ID
		// Random UUIDs carry no order; the slice index does.
		txn.Position = i
		batch.Queue(insertTransactionQuery,
			txn.ID, txn.StatementID, txn.Position, txn.RefDate, txn.PostingDate,
			txn.Description, txn.Debit, txn.Credit, txn.Balance,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range st.Transactions {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert statement transaction: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close transaction batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit statement: %w", err)
	}
	return nil
}

func (r *PostgresRepository) CreateFailed(ctx context.Context, st *Statement) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := insertStatement(ctx, tx, st); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit statement: %w", err)
	}
	return nil
}

func insertStatement(ctx context.Context, tx pgx.Tx, st *Statement) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	meta, err := json.Marshal(st.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal statement metadata: %w", err)
	}
	err = tx.QueryRow(ctx, insertStatementQuery,
		st.ID, st.ContractID, st.FilePath, st.Status, meta,
	).Scan(&st.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert statement: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Statement, error) {
	query := `
		SELECT id, contract_id, file_path, status, metadata, created_at
		FROM statements
		WHERE id = $1`

	var st Statement
	var meta []byte
	err := r.db.QueryRow(ctx, query, id).Scan(
		&st.ID, &st.ContractID, &st.FilePath, &st.Status, &meta, &st.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("statement %s not found", id)
		}
		return nil, fmt.Errorf("failed to get statement %s: %w", id, err)
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &st.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal statement metadata: %w", err)
		}
	}

	txns, err := r.listTransactions(ctx, st.ID)
	if err != nil {
		return nil, err
	}
	st.Transactions = txns
	return &st, nil
}

func (r *PostgresRepository) listTransactions(ctx context.Context, statementID uuid.UUID) ([]Transaction, error) {
	query := `
		SELECT id, statement_id, position, ref_date, posting_date, description, debit, credit, balance
		FROM statement_transactions
		WHERE statement_id = $1
		ORDER BY position`

	rows, err := r.db.Query(ctx, query, statementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statement transactions: %w", err)
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var txn Transaction
		err := rows.Scan(
			&txn.ID, &txn.StatementID, &txn.Position, &txn.RefDate, &txn.PostingDate,
			&txn.Description, &txn.Debit, &txn.Credit, &txn.Balance,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read statement transactions: %w", err)
	}
	return txns, nil
}

func (r *PostgresRepository) ListByContract(ctx context.Context, contractID int64) ([]Statement, error) {
	query := `
		SELECT id, contract_id, file_path, status, metadata, created_at
		FROM statements
		WHERE contract_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, contractID)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements for contract %d: %w", contractID, err)
	}
	defer rows.Close()

	var sts []Statement
	for rows.Next() {
		var st Statement
		var meta []byte
		err := rows.Scan(&st.ID, &st.ContractID, &st.FilePath, &st.Status, &meta, &st.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		if len(meta) > 0 {
			if err := json.Unmarshal(meta, &st.Metadata); err != nil {
				return nil, fmt.Errorf("failed to unmarshal statement metadata: %w", err)
			}
		}
		sts = append(sts, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read statements: %w", err)
	}
	return sts, nil
}
