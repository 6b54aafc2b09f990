package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role distinguishes account holders from the learner sub-accounts they manage.
type Role string

const (
	RoleParent  Role = "parent"
	RoleLearner Role = "learner"
)

// LearnerEmailDomain is appended to a learner username to build its login email.
const LearnerEmailDomain = "reviflow.app"

// DefaultLearnerPassword is assigned to learner accounts created without one.
const DefaultLearnerPassword = "1234"

// MinPasswordLength applies to parents and learners alike.
const MinPasswordLength = 4

// TokenCostUSD is the flat per-token cost used for usage accounting.
const TokenCostUSD = 0.0000001

// User represents an account (parent or learner) in the domain layer.
type User struct {
	ID              string
	Email           string
	Username        string
	FirstName       string
	Role            Role
	HashedPassword  string
	IsActive        bool
	IsVerified      bool
	EncryptedAPIKey string
	ParentalPINHash string
	ParentID        string
	TotalTokensUsed int64
	TotalCostUSD    float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (u *User) IsParent() bool {
	return u.Role == RoleParent
}

func (u *User) IsLearner() bool {
	return u.Role == RoleLearner
}

// HasAPIKey reports whether the user stored their own OpenRouter key.
func (u *User) HasAPIKey() bool {
	return u.EncryptedAPIKey != ""
}

func (u *User) HasParentalPIN() bool {
	return u.ParentalPINHash != ""
}

// AddUsage records the tokens consumed by one LLM call.
func (u *User) AddUsage(totalTokens int) {
	if totalTokens <= 0 {
		return
	}
	u.TotalTokensUsed += int64(totalTokens)
	u.TotalCostUSD += float64(totalTokens) * TokenCostUSD
}

func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Email == "" {
		return errors.New("email is required")
	}
	if u.Role != RoleParent && u.Role != RoleLearner {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	if u.Role == RoleLearner && u.ParentID == "" {
		return errors.New("learner accounts require a parent")
	}
	return nil
}

// LearnerEmail builds the synthetic login email of a learner account.
func LearnerEmail(username string) string {
	return strings.ToLower(strings.TrimSpace(username)) + "@" + LearnerEmailDomain
}

// LearnerProfile carries the gamification state of a learner.
type LearnerProfile struct {
	ID            string
	UserID        string
	FirstName     string
	AvatarURL     string
	StreakCurrent int
	StreakMax     int
	LastActivity  *time.Time
	XP            int
	Level         int
	Badges        []Badge
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Badge is an award earned once per learner.
type Badge struct {
	ID        string
	LearnerID string
	BadgeCode string
	EarnedAt  time.Time
}

const (
	BadgeFirstSteps = "FIRST_STEPS"
	BadgeNightOwl   = "NIGHT_OWL"
	BadgeMathChamp  = "MATH_CHAMP"
	BadgeOnFire     = "ON_FIRE"
)
