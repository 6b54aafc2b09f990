package dto

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims defines the custom claims for JWT.
type AuthClaims struct {
	UserID    string `json:"user_id"`
	TokenType string `json:"token_type"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// RegisterRequest creates a parent account.
// @Description Request body for account registration
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=4"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	Username  string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
}

// LoginRequest accepts either an email or a username. It binds from JSON and
// from the OAuth2 password form alike.
// @Description Request body for login
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// TokenResponse represents the response containing access and refresh tokens.
// @Description Response body for authentication tokens
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// RefreshTokenRequest represents the request body for refreshing a token.
// @Description Request body for refreshing JWT tokens
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UserResponse is the public view of an account. Secrets are reduced to flags.
type UserResponse struct {
	ID              string                  `json:"id"`
	Email           string                  `json:"email"`
	Username        string                  `json:"username,omitempty"`
	FirstName       string                  `json:"first_name,omitempty"`
	Role            string                  `json:"role"`
	IsActive        bool                    `json:"is_active"`
	IsVerified      bool                    `json:"is_verified"`
	HasAPIKey       bool                    `json:"has_api_key"`
	HasParentalPIN  bool                    `json:"has_parental_pin"`
	ParentID        string                  `json:"parent_id,omitempty"`
	TotalTokensUsed int64                   `json:"total_tokens_used"`
	TotalCostUSD    float64                 `json:"total_cost_usd"`
	LearnerProfile  *LearnerProfileResponse `json:"learner_profile,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

// UpdateUserRequest patches the caller's account. Nil fields are left
// untouched; an empty openrouter_api_key clears the stored key.
type UpdateUserRequest struct {
	FirstName        *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	Username         *string `json:"username,omitempty" validate:"omitempty,min=2,max=50"`
	OpenRouterAPIKey *string `json:"openrouter_api_key,omitempty"`
	ParentalPIN      *string `json:"parental_pin,omitempty" validate:"omitempty,min=4,max=12"`
	Password         *string `json:"password,omitempty" validate:"omitempty,min=4"`
}

// CreateChildRequest creates a learner account under the calling parent.
type CreateChildRequest struct {
	Username  string `json:"username" validate:"required,min=2,max=50"`
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	Password  string `json:"password,omitempty" validate:"omitempty,min=4"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type ChildAccount struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	ProfileID string `json:"profile_id"`
}

type CreateChildResponse struct {
	Success bool         `json:"success"`
	User    ChildAccount `json:"user"`
}

type BadgeResponse struct {
	ID        string    `json:"id"`
	BadgeCode string    `json:"badge_code"`
	EarnedAt  time.Time `json:"earned_at"`
}

// LearnerProfileResponse is a learner profile with its gamification state.
type LearnerProfileResponse struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Username      string          `json:"username,omitempty"`
	FirstName     string          `json:"first_name"`
	AvatarURL     string          `json:"avatar_url,omitempty"`
	StreakCurrent int             `json:"streak_current"`
	StreakMax     int             `json:"streak_max"`
	XP            int             `json:"xp"`
	Level         int             `json:"level"`
	LastActivity  *time.Time      `json:"last_activity_date,omitempty"`
	Badges        []BadgeResponse `json:"badges"`
}

type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,max=500"`
}

type SelectProfileResponse struct {
	Success bool                   `json:"success"`
	Profile LearnerProfileResponse `json:"profile"`
}

// ParentalGateRequest unlocks parental settings with the PIN or the password.
type ParentalGateRequest struct {
	PIN      string `json:"pin,omitempty"`
	Password string `json:"password,omitempty"`
}

type ParentalGateResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type APIKeyValidationResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}
