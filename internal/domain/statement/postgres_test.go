package statement

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float64Ptr(v float64) *float64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func TestCreateWithTransactions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	refDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	st := &Statement{
		ContractID: int64Ptr(42),
		FilePath:   "storage/extrato.pdf",
		Status:     StatusImported,
		Metadata:   Metadata{Header: []string{"Extrato"}},
		Transactions: []Transaction{
			{
				RefDate:     timePtr(refDate),
				PostingDate: timePtr(refDate),
				Description: "Deposito inicial",
				Credit:      float64Ptr(1000.0),
				Balance:     float64Ptr(1000.0),
			},
			{
				RefDate:     timePtr(refDate.AddDate(0, 0, 1)),
				PostingDate: timePtr(refDate.AddDate(0, 0, 1)),
				Description: "Pagamento boleto",
				Debit:       float64Ptr(100.0),
				Balance:     float64Ptr(900.0),
			},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO statements`).
		WithArgs(pgxmock.AnyArg(), st.ContractID, st.FilePath, StatusImported, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	batch := mock.ExpectBatch()
	batch.ExpectExec(`INSERT INTO statement_transactions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 0, st.Transactions[0].RefDate, st.Transactions[0].PostingDate,
			"Deposito inicial", (*float64)(nil), float64Ptr(1000.0), float64Ptr(1000.0)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	batch.ExpectExec(`INSERT INTO statement_transactions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 1, st.Transactions[1].RefDate, st.Transactions[1].PostingDate,
			"Pagamento boleto", float64Ptr(100.0), (*float64)(nil), float64Ptr(900.0)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	err = repo.CreateWithTransactions(context.Background(), st)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, st.ID)
	assert.Equal(t, st.ID, st.Transactions[0].StatementID)
	assert.Equal(t, st.ID, st.Transactions[1].StatementID)
	assert.Equal(t, 0, st.Transactions[0].Position)
	assert.Equal(t, 1, st.Transactions[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithTransactionsRollsBackOnBatchError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	st := &Statement{
		FilePath: "storage/extrato.pdf",
		Status:   StatusImported,
		Transactions: []Transaction{
			{Description: "Deposito inicial", Credit: float64Ptr(1000.0), Balance: float64Ptr(1000.0)},
		},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO statements`).
		WithArgs(pgxmock.AnyArg(), (*int64)(nil), st.FilePath, StatusImported, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	batch := mock.ExpectBatch()
	batch.ExpectExec(`INSERT INTO statement_transactions`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), 0, (*time.Time)(nil), (*time.Time)(nil),
			"Deposito inicial", (*float64)(nil), float64Ptr(1000.0), float64Ptr(1000.0)).
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	err = repo.CreateWithTransactions(context.Background(), st)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert statement transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateFailed(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	st := &Statement{
		ContractID: int64Ptr(42),
		FilePath:   "storage/extrato.pdf",
		Status:     StatusNeedsReview,
		Metadata:   Metadata{Error: "statement header not found"},
	}

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO statements`).
		WithArgs(pgxmock.AnyArg(), st.ContractID, st.FilePath, StatusNeedsReview, pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()
	mock.ExpectRollback()

	err = repo.CreateFailed(context.Background(), st)
	require.NoError(t, err)
	assert.False(t, st.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	stID := uuid.New()
	refDate := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	nextDate := refDate.AddDate(0, 0, 1)

	mock.ExpectQuery(`SELECT id, contract_id, file_path, status, metadata, created_at`).
		WithArgs(stID.String()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "contract_id", "file_path", "status", "metadata", "created_at"}).
			AddRow(stID, int64Ptr(42), "storage/extrato.pdf", StatusImported, []byte(`{"header":["Extrato"]}`), time.Now()))
	mock.ExpectQuery(`SELECT id, statement_id, position, ref_date, posting_date, description, debit, credit, balance`).
		WithArgs(stID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "statement_id", "position", "ref_date", "posting_date", "description", "debit", "credit", "balance"}).
			AddRow(uuid.New(), stID, 0, timePtr(refDate), timePtr(refDate), "Deposito inicial", (*float64)(nil), float64Ptr(1000.0), float64Ptr(1000.0)).
			AddRow(uuid.New(), stID, 1, timePtr(nextDate), timePtr(nextDate), "Pagamento boleto", float64Ptr(100.0), (*float64)(nil), float64Ptr(900.0)))

	st, err := repo.GetByID(context.Background(), stID.String())
	require.NoError(t, err)
	assert.Equal(t, stID, st.ID)
	assert.Equal(t, []string{"Extrato"}, st.Metadata.Header)
	require.Len(t, st.Transactions, 2)

	// Document order survives the round trip.
	assert.Equal(t, 0, st.Transactions[0].Position)
	assert.Equal(t, "Deposito inicial", st.Transactions[0].Description)
	require.NotNil(t, st.Transactions[0].Credit)
	assert.Equal(t, 1000.0, *st.Transactions[0].Credit)
	assert.Equal(t, 1, st.Transactions[1].Position)
	assert.Equal(t, "Pagamento boleto", st.Transactions[1].Description)
	require.NotNil(t, st.Transactions[1].Debit)
	assert.Equal(t, 100.0, *st.Transactions[1].Debit)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByContract(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepository(mock)

	id := uuid.New()
	mock.ExpectQuery(`SELECT id, contract_id, file_path, status, metadata, created_at`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "contract_id", "file_path", "status", "metadata", "created_at"}).
			AddRow(id, int64Ptr(42), "storage/extrato.pdf", StatusError, []byte(`{"error":"boom"}`), time.Now()))

	sts, err := repo.ListByContract(context.Background(), 42)
	require.NoError(t, err)
	require.Len(t, sts, 1)
	assert.Equal(t, id, sts[0].ID)
	assert.Equal(t, StatusError, sts[0].Status)
	assert.Equal(t, "boom", sts[0].Metadata.Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func int64Ptr(v int64) *int64 { return &v }
