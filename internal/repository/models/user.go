package models

import (
	"database/sql"
	"time"
)

// User represents an account row. Booleans are NUMBER(1) columns.
type User struct {
	ID              string         `db:"ID"`
	Email           string         `db:"EMAIL"`
	Username        sql.NullString `db:"USERNAME"`
	FirstName       sql.NullString `db:"FIRST_NAME"`
	UserRole        string         `db:"USER_ROLE"`
	HashedPassword  string         `db:"HASHED_PASSWORD"`
	IsActive        int            `db:"IS_ACTIVE"`
	IsVerified      int            `db:"IS_VERIFIED"`
	EncryptedAPIKey sql.NullString `db:"ENCRYPTED_API_KEY"` // AES-GCM, base64
	ParentalPINHash sql.NullString `db:"PARENTAL_PIN_HASH"` // bcrypt
	ParentID        sql.NullString `db:"PARENT_ID"`         // set on learner accounts
	TotalTokensUsed int64          `db:"TOTAL_TOKENS_USED"`
	TotalCostUSD    float64        `db:"TOTAL_COST_USD"`
	CreatedAt       time.Time      `db:"CREATED_AT"`
	UpdatedAt       time.Time      `db:"UPDATED_AT"`
}

// LearnerProfile holds the gamification state of a learner account.
type LearnerProfile struct {
	ID               string         `db:"ID"`
	UserID           string         `db:"USER_ID"`
	FirstName        string         `db:"FIRST_NAME"`
	AvatarURL        sql.NullString `db:"AVATAR_URL"`
	StreakCurrent    int            `db:"STREAK_CURRENT"`
	StreakMax        int            `db:"STREAK_MAX"`
	LastActivityDate sql.NullTime   `db:"LAST_ACTIVITY_DATE"`
	XP               int            `db:"XP"`
	LearnerLevel     int            `db:"LEARNER_LEVEL"`
	CreatedAt        time.Time      `db:"CREATED_AT"`
	UpdatedAt        time.Time      `db:"UPDATED_AT"`
}

// LearnerBadge is a badge earned by a learner. (learner_id, badge_code) is unique.
type LearnerBadge struct {
	ID        string    `db:"ID"`
	LearnerID string    `db:"LEARNER_ID"`
	BadgeCode string    `db:"BADGE_CODE"`
	EarnedAt  time.Time `db:"EARNED_AT"`
}
