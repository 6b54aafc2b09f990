package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"reviflow/internal/domain"
	"reviflow/internal/repository/models"
	"reviflow/internal/util"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, email, username, first_name, user_role, hashed_password, is_active, is_verified,
	encrypted_api_key, parental_pin_hash, parent_id, total_tokens_used, total_cost_usd, created_at, updated_at`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db *sqlx.DB
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db *sqlx.DB) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:              m.ID,
		Email:           m.Email,
		Username:        m.Username.String,
		FirstName:       m.FirstName.String,
		Role:            domain.Role(m.UserRole),
		HashedPassword:  m.HashedPassword,
		IsActive:        m.IsActive != 0,
		IsVerified:      m.IsVerified != 0,
		EncryptedAPIKey: m.EncryptedAPIKey.String,
		ParentalPINHash: m.ParentalPINHash.String,
		ParentID:        m.ParentID.String,
		TotalTokensUsed: m.TotalTokensUsed,
		TotalCostUSD:    m.TotalCostUSD,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:              u.ID,
		Email:           u.Email,
		Username:        util.StringToNullString(u.Username),
		FirstName:       util.StringToNullString(u.FirstName),
		UserRole:        string(u.Role),
		HashedPassword:  u.HashedPassword,
		IsActive:        boolToInt(u.IsActive),
		IsVerified:      boolToInt(u.IsVerified),
		EncryptedAPIKey: util.StringToNullString(u.EncryptedAPIKey),
		ParentalPINHash: util.StringToNullString(u.ParentalPINHash),
		ParentID:        util.StringToNullString(u.ParentID),
		TotalTokensUsed: u.TotalTokensUsed,
		TotalCostUSD:    u.TotalCostUSD,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// CreateUser inserts a new user. Duplicate email or username yields a conflict error.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = util.NewULID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `INSERT INTO users (` + userColumns + `)
	          VALUES (:ID, :EMAIL, :USERNAME, :FIRST_NAME, :USER_ROLE, :HASHED_PASSWORD, :IS_ACTIVE, :IS_VERIFIED,
	          :ENCRYPTED_API_KEY, :PARENTAL_PIN_HASH, :PARENT_ID, :TOTAL_TOKENS_USED, :TOTAL_COST_USD, :CREATED_AT, :UPDATED_AT)`

	_, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainUser(user))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("REGISTER_USER_ALREADY_EXISTS")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	var m models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Return nil, nil for not found
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toDomainUser(&m), nil
}

// GetUserByID retrieves a user by their internal ID.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, "id = :1", id)
}

// GetUserByEmail matches emails case-insensitively.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, "LOWER(email) = :1", strings.ToLower(strings.TrimSpace(email)))
}

func (r *sqlxUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, "username = :1", strings.TrimSpace(username))
}

// UpdateUser writes the mutable account fields. Role, parent and usage
// counters are not touched here.
func (r *sqlxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	query := `UPDATE users SET
	            email = :EMAIL,
	            username = :USERNAME,
	            first_name = :FIRST_NAME,
	            hashed_password = :HASHED_PASSWORD,
	            is_active = :IS_ACTIVE,
	            is_verified = :IS_VERIFIED,
	            encrypted_api_key = :ENCRYPTED_API_KEY,
	            parental_pin_hash = :PARENTAL_PIN_HASH,
	            updated_at = :UPDATED_AT
	          WHERE id = :ID`

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainUser(user)); err != nil {
		if isUniqueViolation(err) {
			return domain.NewConflictError("Username already taken")
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// ListChildren returns the learner accounts of a parent, oldest first.
func (r *sqlxUserRepository) ListChildren(ctx context.Context, parentID string) ([]*domain.User, error) {
	var rows []models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE parent_id = :1 ORDER BY created_at`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, parentID); err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	users := make([]*domain.User, 0, len(rows))
	for i := range rows {
		users = append(users, toDomainUser(&rows[i]))
	}
	return users, nil
}

// AddUsage increments the counters in SQL so concurrent calls do not lose updates.
func (r *sqlxUserRepository) AddUsage(ctx context.Context, userID string, totalTokens int) error {
	if totalTokens <= 0 {
		return nil
	}
	query := `UPDATE users SET
	            total_tokens_used = total_tokens_used + :1,
	            total_cost_usd = total_cost_usd + :2,
	            updated_at = :3
	          WHERE id = :4`
	cost := float64(totalTokens) * domain.TokenCostUSD
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, totalTokens, cost, time.Now().UTC(), userID); err != nil {
		return fmt.Errorf("failed to add usage: %w", err)
	}
	return nil
}
