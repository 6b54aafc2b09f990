package repository

import (
	"context"
	"database/sql" // Required for sql.Result
	"strings"

	"reviflow/internal/domain"
)

// DBTX is an interface abstracting *sqlx.DB and *sqlx.Tx for repository use.
type DBTX interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ownerClause filters rows of a learner profile, or of the user's own
// profile (rows without a learner) when no learner is selected.
func ownerClause(scope domain.OwnerScope) (string, []interface{}) {
	if scope.LearnerID != "" {
		return "learner_id = :1", []interface{}{scope.LearnerID}
	}
	return "user_id = :1 AND learner_id IS NULL", []interface{}{scope.UserID}
}

// isUniqueViolation reports an ORA-00001 unique constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "ORA-00001")
}
