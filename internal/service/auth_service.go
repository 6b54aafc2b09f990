package service

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"reviflow/internal/config"
	"reviflow/internal/domain"
	"reviflow/internal/dto"
	"reviflow/internal/logger"
	"reviflow/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeBearer  = "bearer"

	msgBadCredentials = "LOGIN_BAD_CREDENTIALS"
	msgUserExists     = "REGISTER_USER_ALREADY_EXISTS"
)

var (
	ErrInvalidJWTToken  = errors.New("invalid jwt token")
	ErrEncryptionFailed = errors.New("failed to encrypt token")
	ErrDecryptionFailed = errors.New("failed to decrypt token")
)

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	// Login accepts an email or a username as identifier.
	Login(ctx context.Context, identifier, password string) (*dto.TokenResponse, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error)
	RefreshToken(ctx context.Context, refreshTokenString string) (newAccessToken string, newRefreshToken string, err error)
	EncryptToken(token string) (string, error)
	DecryptToken(encryptedToken string) (string, error)
}

type authServiceImpl struct {
	userRepo      domain.UserRepository
	jwtCfg        config.JWTConfig
	encryptionKey []byte // 32 bytes, AES-256
}

// NewAuthService creates a new instance of AuthService. The first 32 bytes of
// the JWT secret double as the AES key for stored API keys.
func NewAuthService(userRepo domain.UserRepository, jwtCfg config.JWTConfig) (AuthService, error) {
	if len(jwtCfg.SecretKey) < 32 {
		return nil, errors.New("encryption key must be at least 32 bytes long")
	}
	return &authServiceImpl{
		userRepo:      userRepo,
		jwtCfg:        jwtCfg,
		encryptionKey: []byte(jwtCfg.SecretKey[:32]),
	}, nil
}

func (s *authServiceImpl) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	appLogger := logger.Get()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.Username)
	if len(req.Password) < domain.MinPasswordLength {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("Password must be at least %d characters long", domain.MinPasswordLength))
	}

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up email", err)
	}
	if existing != nil {
		return nil, domain.NewConflictError(msgUserExists)
	}
	if username != "" {
		existing, err = s.userRepo.GetUserByUsername(ctx, username)
		if err != nil {
			return nil, domain.NewInternalError("failed to look up username", err)
		}
		if existing != nil {
			return nil, domain.NewConflictError(msgUserExists)
		}
	}

	hashed, err := util.HashSecret(req.Password)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := &domain.User{
		ID:             util.NewULID(),
		Email:          email,
		Username:       username,
		FirstName:      strings.TrimSpace(req.FirstName),
		Role:           domain.RoleParent,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, domain.NewInternalError("failed to create user", err)
	}

	appLogger.Info("New parent account registered", zap.String("userID", user.ID), zap.String("email", user.Email))
	return user, nil
}

func (s *authServiceImpl) Login(ctx context.Context, identifier, password string) (*dto.TokenResponse, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, domain.NewInvalidInputError(msgBadCredentials)
	}

	user, err := s.authenticate(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		logger.Get().Info("Login rejected", zap.String("identifier", identifier))
		return nil, domain.NewInvalidInputError(msgBadCredentials)
	}

	accessToken, err := s.CreateJWT(ctx, user, s.jwtCfg.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return nil, domain.NewInternalError("failed to create access token", err)
	}
	refreshToken, err := s.CreateJWT(ctx, user, s.jwtCfg.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return nil, domain.NewInternalError("failed to create refresh token", err)
	}
	return &dto.TokenResponse{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: tokenTypeBearer}, nil
}

// authenticate tries the identifier as an email first, then as a username.
func (s *authServiceImpl) authenticate(ctx context.Context, identifier, password string) (*domain.User, error) {
	lookups := []func(context.Context, string) (*domain.User, error){
		s.userRepo.GetUserByEmail,
		s.userRepo.GetUserByUsername,
	}
	for _, lookup := range lookups {
		user, err := lookup(ctx, identifier)
		if err != nil {
			return nil, domain.NewInternalError("failed to look up user", err)
		}
		if user == nil {
			continue
		}
		ok, err := util.CheckSecret(user.HashedPassword, password)
		if err != nil {
			logger.Get().Warn("Stored password hash is unreadable", zap.String("userID", user.ID), zap.Error(err))
			continue
		}
		if ok {
			return user, nil
		}
	}
	return nil, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtCfg.SecretKey))
}

func tokenSnippet(token string) string {
	return token[:min(len(token), 20)] + "..."
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtCfg.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err), zap.String("token_snippet", tokenSnippet(tokenString)))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", tokenSnippet(tokenString)))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

func (s *authServiceImpl) RefreshToken(ctx context.Context, refreshTokenString string) (string, string, error) {
	appLogger := logger.Get()
	claims, err := s.ValidateJWT(ctx, refreshTokenString)
	if err != nil {
		return "", "", domain.NewError(domain.CodeUnauthorized, "Invalid refresh token", err)
	}
	if claims.TokenType != tokenTypeRefresh {
		return "", "", domain.NewUnauthorizedError("Not a refresh token")
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		appLogger.Error("Failed to load user for refresh token", zap.String("userID", claims.UserID), zap.Error(err))
		return "", "", domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return "", "", domain.NewNotFoundError(fmt.Sprintf("User %s not found for refresh token", claims.UserID))
	}
	if !user.IsActive {
		return "", "", domain.NewUnauthorizedError("Inactive user")
	}

	newAccessToken, err := s.CreateJWT(ctx, user, s.jwtCfg.AccessTokenTTL, tokenTypeAccess)
	if err != nil {
		return "", "", fmt.Errorf("failed to create new access token: %w", err)
	}
	newRefreshToken, err := s.CreateJWT(ctx, user, s.jwtCfg.RefreshTokenTTL, tokenTypeRefresh)
	if err != nil {
		return "", "", fmt.Errorf("failed to create new refresh token: %w", err)
	}

	appLogger.Info("JWT token refreshed", zap.String("userID", user.ID))
	return newAccessToken, newRefreshToken, nil
}

// EncryptToken encrypts a token using AES-GCM.
func (s *authServiceImpl) EncryptToken(token string) (string, error) {
	if token == "" {
		return "", nil
	}
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	ciphertext := gcm.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// DecryptToken decrypts a token using AES-GCM.
func (s *authServiceImpl) DecryptToken(encryptedToken string) (string, error) {
	if encryptedToken == "" {
		return "", nil
	}
	data, err := base64.StdEncoding.DecodeString(encryptedToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	block, err := aes.NewCipher(s.encryptionKey)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	if len(data) < gcm.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}
	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}
