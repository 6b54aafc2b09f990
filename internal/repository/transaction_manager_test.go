package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Both the pool and a running transaction must serve as an executor.
var (
	_ DBTX = (*sqlx.DB)(nil)
	_ DBTX = (*sqlx.Tx)(nil)
)

func TestWithTransaction_Commit(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM revisions").WithArgs("rev1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		_, err := GetExecutor(ctx, db).ExecContext(ctx, "DELETE FROM revisions WHERE id = :1", "rev1")
		return err
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_NestedCallJoinsOuter(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(outer context.Context) error {
		return tm.WithTransaction(outer, func(inner context.Context) error {
			outerTx, _ := txFromContext(outer)
			innerTx, _ := txFromContext(inner)
			assert.Same(t, outerTx, innerTx)
			return nil
		})
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTransaction_BeginError(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	called := false
	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
	assert.Contains(t, err.Error(), "failed to begin transaction")
}

func TestGetExecutor_WithoutTransaction(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()
	assert.Same(t, db, GetExecutor(context.Background(), db))
}

func TestGetExecutor_InsideTransaction(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()
	tm := NewTransactionManagerAdapter(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := tm.WithTransaction(context.Background(), func(ctx context.Context) error {
		exec := GetExecutor(ctx, db)
		_, isTx := exec.(*sqlx.Tx)
		assert.True(t, isTx)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
