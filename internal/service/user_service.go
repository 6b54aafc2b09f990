package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"reviflow/internal/cache"
	"reviflow/internal/config"
	"reviflow/internal/domain"
	"reviflow/internal/dto"
	"reviflow/internal/logger"
	"reviflow/internal/util"

	"go.uber.org/zap"
)

const (
	msgInvalidPIN      = "Invalid PIN"
	msgInvalidPassword = "Invalid Password"
)

// UserService defines the interface for account and learner profile operations.
type UserService interface {
	GetMe(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	CreateChild(ctx context.Context, parentID string, req dto.CreateChildRequest) (*dto.CreateChildResponse, error)
	ListChildren(ctx context.Context, parentID string) ([]dto.UserResponse, error)
	ListProfiles(ctx context.Context, userID string) ([]dto.LearnerProfileResponse, error)
	UpdateMyProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.LearnerProfileResponse, error)
	SelectProfile(ctx context.Context, userID, learnerID string) (*dto.SelectProfileResponse, error)
	VerifyParentalGate(ctx context.Context, userID string, req dto.ParentalGateRequest) (*dto.ParentalGateResponse, error)
}

type userServiceImpl struct {
	access      learnerAccess
	userRepo    domain.UserRepository
	learnerRepo domain.LearnerRepository
	txManager   domain.TransactionManager
	cache       domain.Cache
	auth        AuthService
	gateCfg     config.ParentalGateConfig
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	userRepo domain.UserRepository,
	learnerRepo domain.LearnerRepository,
	txManager domain.TransactionManager,
	cacheClient domain.Cache,
	auth AuthService,
	gateCfg config.ParentalGateConfig,
) UserService {
	if gateCfg.MaxAttempts <= 0 {
		gateCfg.MaxAttempts = 5
	}
	if gateCfg.Lockout <= 0 {
		gateCfg.Lockout = 15 * time.Minute
	}
	return &userServiceImpl{
		access:      learnerAccess{userRepo: userRepo, learnerRepo: learnerRepo},
		userRepo:    userRepo,
		learnerRepo: learnerRepo,
		txManager:   txManager,
		cache:       cacheClient,
		auth:        auth,
		gateCfg:     gateCfg,
	}
}

func (s *userServiceImpl) GetMe(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	if user.IsLearner() {
		profile, err := s.profileWithBadges(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			p := toProfileResponse(profile)
			resp.LearnerProfile = &p
		}
	}
	return &resp, nil
}

func (s *userServiceImpl) profileWithBadges(ctx context.Context, userID string) (*domain.LearnerProfile, error) {
	profile, err := s.learnerRepo.GetProfileByUserID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load learner profile", err)
	}
	if profile == nil {
		return nil, nil
	}
	if profile.Badges, err = s.learnerRepo.ListBadges(ctx, profile.ID); err != nil {
		return nil, domain.NewInternalError("failed to load badges", err)
	}
	return profile, nil
}

// UpdateMe applies a partial update. Role and parent are never changed here.
func (s *userServiceImpl) UpdateMe(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.Username != nil {
		username := strings.TrimSpace(*req.Username)
		if username != user.Username && username != "" {
			other, err := s.userRepo.GetUserByUsername(ctx, username)
			if err != nil {
				return nil, domain.NewInternalError("failed to look up username", err)
			}
			if other != nil && other.ID != user.ID {
				return nil, domain.NewConflictError("Username already taken")
			}
		}
		user.Username = username
	}
	if req.OpenRouterAPIKey != nil {
		encrypted, err := s.auth.EncryptToken(strings.TrimSpace(*req.OpenRouterAPIKey))
		if err != nil {
			return nil, domain.NewInternalError("failed to store API key", err)
		}
		user.EncryptedAPIKey = encrypted
	}
	if req.ParentalPIN != nil {
		if *req.ParentalPIN == "" {
			user.ParentalPINHash = ""
		} else {
			hashed, err := util.HashSecret(*req.ParentalPIN)
			if err != nil {
				return nil, domain.NewInternalError("failed to hash PIN", err)
			}
			user.ParentalPINHash = hashed
		}
	}
	if req.Password != nil {
		if len(*req.Password) < domain.MinPasswordLength {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("Password must be at least %d characters long", domain.MinPasswordLength))
		}
		hashed, err := util.HashSecret(*req.Password)
		if err != nil {
			return nil, domain.NewInternalError("failed to hash password", err)
		}
		user.HashedPassword = hashed
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, domain.NewInternalError("failed to update user", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// CreateChild creates a learner account and its profile in one transaction.
func (s *userServiceImpl) CreateChild(ctx context.Context, parentID string, req dto.CreateChildRequest) (*dto.CreateChildResponse, error) {
	appLogger := logger.Get()

	parent, err := s.access.loadUser(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsParent() {
		return nil, domain.NewForbiddenError("Only parents can create child accounts")
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		return nil, domain.NewInvalidInputError("Username is required for child account")
	}
	password := req.Password
	if password == "" {
		password = domain.DefaultLearnerPassword
	}
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		firstName = username
	}

	child := &domain.User{
		ID:        util.NewULID(),
		Email:     domain.LearnerEmail(username),
		Username:  username,
		FirstName: firstName,
		Role:      domain.RoleLearner,
		IsActive:  true,
		ParentID:  parent.ID,
	}
	profile := &domain.LearnerProfile{
		UserID:    child.ID,
		FirstName: firstName,
		AvatarURL: strings.TrimSpace(req.AvatarURL),
		Level:     1,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if len(password) < domain.MinPasswordLength {
			return fmt.Errorf("password must be at least %d characters long", domain.MinPasswordLength)
		}
		existing, err := s.userRepo.GetUserByUsername(txCtx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.New(msgUserExists)
		}
		if child.HashedPassword, err = util.HashSecret(password); err != nil {
			return err
		}
		if err := child.Validate(); err != nil {
			return err
		}
		if err := s.userRepo.CreateUser(txCtx, child); err != nil {
			return err
		}
		return s.learnerRepo.CreateProfile(txCtx, profile)
	})
	if err != nil {
		appLogger.Warn("Child account creation failed", zap.String("parentID", parent.ID), zap.String("username", username), zap.Error(err))
		return nil, domain.NewError(domain.CodeInvalidInput, "Échec de la création du compte enfant : "+failureDetail(err), err)
	}

	appLogger.Info("Child account created", zap.String("parentID", parent.ID), zap.String("childID", child.ID))
	return &dto.CreateChildResponse{
		Success: true,
		User:    dto.ChildAccount{ID: child.ID, Username: child.Username, ProfileID: profile.ID},
	}, nil
}

func failureDetail(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

func (s *userServiceImpl) ListChildren(ctx context.Context, parentID string) ([]dto.UserResponse, error) {
	parent, err := s.access.loadUser(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if !parent.IsParent() {
		return nil, domain.NewForbiddenError("Only parents can list children")
	}
	children, err := s.userRepo.ListChildren(ctx, parent.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list children", err)
	}
	resp := make([]dto.UserResponse, 0, len(children))
	for _, c := range children {
		resp = append(resp, ToUserResponse(c))
	}
	return resp, nil
}

// ListProfiles returns every child profile for a parent, or the caller's own
// profile for a learner.
func (s *userServiceImpl) ListProfiles(ctx context.Context, userID string) ([]dto.LearnerProfileResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := []dto.LearnerProfileResponse{}
	if user.IsLearner() {
		profile, err := s.profileWithBadges(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		if profile != nil {
			p := toProfileResponse(profile)
			p.Username = user.Username
			resp = append(resp, p)
		}
		return resp, nil
	}

	profiles, err := s.learnerRepo.ListProfilesByParent(ctx, user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list profiles", err)
	}
	children, err := s.userRepo.ListChildren(ctx, user.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list children", err)
	}
	usernames := make(map[string]string, len(children))
	for _, c := range children {
		usernames[c.ID] = c.Username
	}

	for _, profile := range profiles {
		if profile.Badges, err = s.learnerRepo.ListBadges(ctx, profile.ID); err != nil {
			return nil, domain.NewInternalError("failed to load badges", err)
		}
		p := toProfileResponse(profile)
		p.Username = usernames[profile.UserID]
		resp = append(resp, p)
	}
	return resp, nil
}

func (s *userServiceImpl) UpdateMyProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.LearnerProfileResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsLearner() {
		return nil, domain.NewForbiddenError("Only learners can update their learner profile directly")
	}
	profile, err := s.profileWithBadges(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, domain.NewNotFoundError("Learner profile not found")
	}

	if req.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if err := s.learnerRepo.UpdateProfile(ctx, profile); err != nil {
		return nil, domain.NewInternalError("failed to update profile", err)
	}
	resp := toProfileResponse(profile)
	return &resp, nil
}

func (s *userServiceImpl) SelectProfile(ctx context.Context, userID, learnerID string) (*dto.SelectProfileResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err := s.access.checkLearner(ctx, user, learnerID)
	if err != nil {
		return nil, err
	}
	return &dto.SelectProfileResponse{Success: true, Profile: toProfileResponse(profile)}, nil
}

// VerifyParentalGate checks the PIN, or the password when no PIN is given.
// Failed attempts are counted in the cache and lock the gate once the limit
// is reached. Cache outages never block a correct answer.
func (s *userServiceImpl) VerifyParentalGate(ctx context.Context, userID string, req dto.ParentalGateRequest) (*dto.ParentalGateResponse, error) {
	appLogger := logger.Get()

	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.PIN == "" && req.Password == "" {
		return nil, domain.NewInvalidInputError("PIN or Password required")
	}

	key := cache.ParentalGateAttemptsKey(user.ID)
	if err := s.checkGateLockout(ctx, key); err != nil {
		return nil, err
	}

	var ok bool
	failure := msgInvalidPassword
	if req.PIN != "" {
		failure = msgInvalidPIN
		ok, err = util.CheckSecret(user.ParentalPINHash, req.PIN)
	} else {
		ok, err = util.CheckSecret(user.HashedPassword, req.Password)
	}
	if err != nil {
		return nil, domain.NewInternalError("failed to verify secret", err)
	}

	if ok {
		if err := s.cache.Delete(ctx, key); err != nil {
			appLogger.Warn("Failed to reset parental gate attempts", zap.String("userID", user.ID), zap.Error(err))
		}
		return &dto.ParentalGateResponse{Success: true}, nil
	}

	attempts, err := s.cache.IncrWindow(ctx, key, s.gateCfg.Lockout)
	if err != nil {
		appLogger.Warn("Failed to count parental gate attempt", zap.String("userID", user.ID), zap.Error(err))
	}
	appLogger.Info("Parental gate attempt failed", zap.String("userID", user.ID), zap.Int64("attempts", attempts))
	return &dto.ParentalGateResponse{Success: false, Error: failure}, nil
}

func (s *userServiceImpl) checkGateLockout(ctx context.Context, key string) error {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read parental gate attempts", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
	attempts, err := strconv.Atoi(raw)
	if err != nil || attempts < s.gateCfg.MaxAttempts {
		return nil
	}
	ttl, err := s.cache.TTL(ctx, key)
	if err != nil || ttl <= 0 {
		ttl = s.gateCfg.Lockout
	}
	return domain.NewTooManyAttemptsError(int(ttl.Round(time.Second) / time.Second))
}
