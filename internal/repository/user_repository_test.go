package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"reviflow/internal/domain"
	"reviflow/internal/repository/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a sqlx.DB over sqlmock. The godror driver name keeps
// sqlx's :name bind style, as with the real Oracle drivers.
func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(mockDB, "godror")
	return sqlxDB, mock
}

// --- Tests for Converter Functions ---

func TestToDomainUser(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	modelUser := &models.User{
		ID:              "user1",
		Email:           "lea@reviflow.app",
		Username:        sql.NullString{String: "lea", Valid: true},
		FirstName:       sql.NullString{String: "Léa", Valid: true},
		UserRole:        "learner",
		IsActive:        1,
		ParentID:        sql.NullString{String: "parent1", Valid: true},
		TotalTokensUsed: 1200,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	domainUser := toDomainUser(modelUser)
	require.NotNil(t, domainUser)
	assert.Equal(t, "lea", domainUser.Username)
	assert.Equal(t, domain.RoleLearner, domainUser.Role)
	assert.True(t, domainUser.IsActive)
	assert.False(t, domainUser.IsVerified)
	assert.Equal(t, "parent1", domainUser.ParentID)
	assert.False(t, domainUser.HasAPIKey())
	assert.Equal(t, int64(1200), domainUser.TotalTokensUsed)

	assert.Nil(t, toDomainUser(nil))
}

func TestFromDomainUser(t *testing.T) {
	domainUser := &domain.User{
		ID:         "user1",
		Email:      "parent@example.com",
		Role:       domain.RoleParent,
		IsActive:   true,
		IsVerified: true,
	}

	modelUser := fromDomainUser(domainUser)
	require.NotNil(t, modelUser)
	assert.Equal(t, "parent", modelUser.UserRole)
	assert.Equal(t, 1, modelUser.IsActive)
	assert.Equal(t, 1, modelUser.IsVerified)
	assert.False(t, modelUser.Username.Valid)
	assert.False(t, modelUser.ParentID.Valid)
	assert.False(t, modelUser.EncryptedAPIKey.Valid)

	assert.Nil(t, fromDomainUser(nil))
}

// --- Tests for Adapter Methods ---

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"ID", "EMAIL", "USERNAME", "FIRST_NAME", "USER_ROLE", "HASHED_PASSWORD", "IS_ACTIVE", "IS_VERIFIED",
		"ENCRYPTED_API_KEY", "PARENTAL_PIN_HASH", "PARENT_ID", "TOTAL_TOKENS_USED", "TOTAL_COST_USD", "CREATED_AT", "UPDATED_AT"})
}

func TestSQLXUserRepository_GetUserByID_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = :1`)).
		WithArgs("user-1").
		WillReturnRows(userRows().AddRow("user-1", "p@example.com", nil, "Paul", "parent", "hash", 1, 0,
			"enc", nil, nil, 10, 0.000001, now, now))

	user, err := repo.GetUserByID(context.Background(), "user-1")

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "p@example.com", user.Email)
	assert.Equal(t, "Paul", user.FirstName)
	assert.True(t, user.IsParent())
	assert.True(t, user.HasAPIKey())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_GetUserByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = :1`)).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	user, err := repo.GetUserByID(context.Background(), "missing")

	assert.NoError(t, err, "Expected no error from adapter when record not found")
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_GetUserByEmail_NormalizesInput(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE LOWER(email) = :1`)).
		WithArgs("lea@reviflow.app").
		WillReturnRows(userRows())

	user, err := repo.GetUserByEmail(context.Background(), "  Lea@Reviflow.app ")

	assert.NoError(t, err)
	assert.Nil(t, user)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_CreateUser_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	user := &domain.User{Email: "new@example.com", Role: domain.RoleParent, HashedPassword: "hash", IsActive: true}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.CreateUser(context.Background(), user)

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_CreateUser_Duplicate(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(errors.New("ORA-00001: unique constraint (REVIFLOW.UQ_USERS_EMAIL) violated"))

	err := repo.CreateUser(context.Background(), &domain.User{Email: "dup@example.com", Role: domain.RoleParent})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeConflict, domainErr.Code)
	assert.Equal(t, "REGISTER_USER_ALREADY_EXISTS", domainErr.Message)
}

func TestSQLXUserRepository_AddUsage(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE users SET`)).
		WithArgs(1500, 1500*domain.TokenCostUSD, sqlmock.AnyArg(), "user-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AddUsage(context.Background(), "user-1", 1500))
	// Zero usage does not hit the database.
	require.NoError(t, repo.AddUsage(context.Background(), "user-1", 0))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXUserRepository_ListChildren(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXUserRepository(db)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE parent_id = :1 ORDER BY created_at`)).
		WithArgs("parent-1").
		WillReturnRows(userRows().
			AddRow("c1", "lea@reviflow.app", "lea", "Léa", "learner", "h", 1, 0, nil, nil, "parent-1", 0, 0, now, now).
			AddRow("c2", "tom@reviflow.app", "tom", "Tom", "learner", "h", 1, 0, nil, nil, "parent-1", 0, 0, now, now))

	children, err := repo.ListChildren(context.Background(), "parent-1")

	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "tom", children[1].Username)
	assert.True(t, children[0].IsLearner())
	assert.NoError(t, mock.ExpectationsWereMet())
}
