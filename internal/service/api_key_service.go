package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"reviflow/internal/cache"
	"reviflow/internal/domain"
	"reviflow/internal/dto"
	"reviflow/internal/logger"

	"go.uber.org/zap"
)

const msgNoAPIKey = "No API key configured"

// APIKeyService resolves which OpenRouter key pays for a user's LLM calls
// and keeps the usage counters of that user.
type APIKeyService interface {
	// EffectiveKey picks the user's key, then the parent's, then the global key.
	EffectiveKey(ctx context.Context, user *domain.User) (string, error)
	ValidateAPIKey(ctx context.Context, userID string) (*dto.APIKeyValidationResponse, error)
	RecordUsage(ctx context.Context, userID string, usage domain.TokenUsage)
}

type apiKeyServiceImpl struct {
	userRepo      domain.UserRepository
	auth          AuthService
	validator     domain.APIKeyValidator
	cache         domain.Cache
	globalKey     string
	validationTTL time.Duration
}

// NewAPIKeyService creates a new instance of APIKeyService.
func NewAPIKeyService(
	userRepo domain.UserRepository,
	auth AuthService,
	validator domain.APIKeyValidator,
	cacheClient domain.Cache,
	globalKey string,
	validationTTL time.Duration,
) APIKeyService {
	return &apiKeyServiceImpl{
		userRepo:      userRepo,
		auth:          auth,
		validator:     validator,
		cache:         cacheClient,
		globalKey:     globalKey,
		validationTTL: validationTTL,
	}
}

func (s *apiKeyServiceImpl) EffectiveKey(ctx context.Context, user *domain.User) (string, error) {
	if key := s.decryptUserKey(user); key != "" {
		return key, nil
	}
	if user.ParentID != "" {
		parent, err := s.userRepo.GetUserByID(ctx, user.ParentID)
		if err != nil {
			return "", domain.NewInternalError("failed to load parent account", err)
		}
		if parent != nil {
			if key := s.decryptUserKey(parent); key != "" {
				return key, nil
			}
		}
	}
	if s.globalKey != "" {
		return s.globalKey, nil
	}
	return "", domain.NewMissingAPIKeyError()
}

// decryptUserKey returns "" when the user has no key or it cannot be decrypted.
func (s *apiKeyServiceImpl) decryptUserKey(user *domain.User) string {
	if !user.HasAPIKey() {
		return ""
	}
	key, err := s.auth.DecryptToken(user.EncryptedAPIKey)
	if err != nil {
		logger.Get().Warn("Stored API key could not be decrypted", zap.String("userID", user.ID), zap.Error(err))
		return ""
	}
	return key
}

// ValidateAPIKey checks the key that would be used for the caller. Results
// are cached per key; provider outages are reported but not cached.
func (s *apiKeyServiceImpl) ValidateAPIKey(ctx context.Context, userID string) (*dto.APIKeyValidationResponse, error) {
	appLogger := logger.Get()

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil || !user.IsActive {
		return nil, domain.NewUnauthorizedError("User not found or inactive")
	}

	apiKey, err := s.EffectiveKey(ctx, user)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) && domainErr.Code == domain.CodeMissingAPIKey {
			return &dto.APIKeyValidationResponse{Valid: false, Error: msgNoAPIKey}, nil
		}
		return nil, err
	}

	cacheKey := cache.APIKeyValidationKey(apiKey)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var resp dto.APIKeyValidationResponse
		if jsonErr := json.Unmarshal([]byte(cached), &resp); jsonErr == nil {
			return &resp, nil
		}
		appLogger.Warn("Discarding unreadable API key validation cache entry", zap.String("key", cacheKey))
	} else if !errors.Is(err, domain.ErrCacheMiss) {
		appLogger.Warn("Failed to read API key validation cache", zap.Error(err))
	}

	valid, reason, err := s.validator.ValidateKey(ctx, apiKey)
	if err != nil {
		appLogger.Warn("API key validation request failed", zap.String("userID", user.ID), logger.Secret("key", apiKey), zap.Error(err))
		return &dto.APIKeyValidationResponse{Valid: false, Error: "Connection error: " + err.Error()}, nil
	}

	resp := &dto.APIKeyValidationResponse{Valid: valid, Error: reason}
	if payload, err := json.Marshal(resp); err == nil {
		if err := s.cache.Set(ctx, cacheKey, string(payload), s.validationTTL); err != nil {
			appLogger.Warn("Failed to cache API key validation", zap.Error(err))
		}
	}
	return resp, nil
}

// RecordUsage adds the tokens of an LLM call to the user's counters. Failures
// are logged only; a finished generation is never rolled back over accounting.
func (s *apiKeyServiceImpl) RecordUsage(ctx context.Context, userID string, usage domain.TokenUsage) {
	if usage.TotalTokens <= 0 {
		return
	}
	if err := s.userRepo.AddUsage(ctx, userID, usage.TotalTokens); err != nil {
		logger.Get().Error("Failed to record token usage",
			zap.String("userID", userID),
			zap.Int("totalTokens", usage.TotalTokens),
			zap.Error(err))
	}
}
