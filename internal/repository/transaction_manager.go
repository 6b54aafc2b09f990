package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"reviflow/internal/domain"
	"reviflow/internal/logger"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type contextKey string

// TransactionContextKey carries the running *sqlx.Tx.
const TransactionContextKey contextKey = "tx"

// GetExecutor returns the transaction stored in ctx, or db when there is none.
func GetExecutor(ctx context.Context, db DBTX) DBTX {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}

func txFromContext(ctx context.Context) (*sqlx.Tx, bool) {
	tx, ok := ctx.Value(TransactionContextKey).(*sqlx.Tx)
	return tx, ok && tx != nil
}

// TransactionManagerAdapter implements domain.TransactionManager over sqlx.
// Oracle only offers READ COMMITTED and SERIALIZABLE.
type TransactionManagerAdapter struct {
	db   *sqlx.DB
	opts *sql.TxOptions
}

func NewTransactionManagerAdapter(db *sqlx.DB) domain.TransactionManager {
	return &TransactionManagerAdapter{db: db, opts: &sql.TxOptions{Isolation: sql.LevelReadCommitted}}
}

// WithTransaction runs fn inside a transaction carried by the context. A call
// made while a transaction is already open joins it, so repository methods
// and services can be composed freely. The outermost call commits when fn
// returns nil and rolls back otherwise.
func (tma *TransactionManagerAdapter) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := tma.db.BeginTxx(ctx, tma.opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				logger.Get().Error("Failed to roll back transaction after panic", zap.Error(rbErr))
			}
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, TransactionContextKey, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Get().Error("Failed to roll back transaction", zap.Error(rbErr), zap.NamedError("cause", err))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
