package service

import (
	"context"
	"time"

	"reviflow/internal/config"
	"reviflow/internal/domain"
	"reviflow/internal/dto"

	"github.com/stretchr/testify/mock"
)

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) ListChildren(ctx context.Context, parentID string) ([]*domain.User, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.User), args.Error(1)
}

func (m *MockUserRepository) AddUsage(ctx context.Context, userID string, totalTokens int) error {
	args := m.Called(ctx, userID, totalTokens)
	return args.Error(0)
}

// --- MockLearnerRepository ---
type MockLearnerRepository struct {
	mock.Mock
}

func (m *MockLearnerRepository) CreateProfile(ctx context.Context, profile *domain.LearnerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockLearnerRepository) GetProfileByID(ctx context.Context, id string) (*domain.LearnerProfile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearnerProfile), args.Error(1)
}

func (m *MockLearnerRepository) GetProfileByUserID(ctx context.Context, userID string) (*domain.LearnerProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LearnerProfile), args.Error(1)
}

func (m *MockLearnerRepository) ListProfilesByParent(ctx context.Context, parentID string) ([]*domain.LearnerProfile, error) {
	args := m.Called(ctx, parentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LearnerProfile), args.Error(1)
}

func (m *MockLearnerRepository) UpdateProfile(ctx context.Context, profile *domain.LearnerProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockLearnerRepository) ListBadges(ctx context.Context, learnerID string) ([]domain.Badge, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Badge), args.Error(1)
}

func (m *MockLearnerRepository) AddBadge(ctx context.Context, badge *domain.Badge) error {
	args := m.Called(ctx, badge)
	return args.Error(0)
}

// --- MockRevisionRepository ---
type MockRevisionRepository struct {
	mock.Mock
}

func (m *MockRevisionRepository) CreateRevision(ctx context.Context, rev *domain.Revision) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}

func (m *MockRevisionRepository) GetRevisionByID(ctx context.Context, id string) (*domain.Revision, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Revision), args.Error(1)
}

func (m *MockRevisionRepository) UpdateRevision(ctx context.Context, rev *domain.Revision) error {
	args := m.Called(ctx, rev)
	return args.Error(0)
}

func (m *MockRevisionRepository) DeleteRevision(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRevisionRepository) ListRevisions(ctx context.Context, scope domain.OwnerScope) ([]*domain.Revision, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Revision), args.Error(1)
}

// --- MockScoreRepository ---
type MockScoreRepository struct {
	mock.Mock
}

func (m *MockScoreRepository) CreateScore(ctx context.Context, score *domain.Score) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

func (m *MockScoreRepository) ListScores(ctx context.Context, scope domain.OwnerScope) ([]*domain.Score, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Score), args.Error(1)
}

func (m *MockScoreRepository) DeleteScoresByRevision(ctx context.Context, revisionID string) error {
	args := m.Called(ctx, revisionID)
	return args.Error(0)
}

// --- MockRemediationRepository ---
type MockRemediationRepository struct {
	mock.Mock
}

func (m *MockRemediationRepository) CreateItem(ctx context.Context, item *domain.RemediationItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockRemediationRepository) ListPending(ctx context.Context, learnerID, revisionID string, limit int) ([]*domain.RemediationItem, error) {
	args := m.Called(ctx, learnerID, revisionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RemediationItem), args.Error(1)
}

func (m *MockRemediationRepository) CountPending(ctx context.Context, learnerID, revisionID string) (int, error) {
	args := m.Called(ctx, learnerID, revisionID)
	return args.Int(0), args.Error(1)
}

func (m *MockRemediationRepository) CountPendingByRevision(ctx context.Context, learnerID string) (map[string]int, error) {
	args := m.Called(ctx, learnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockRemediationRepository) MarkPendingReviewed(ctx context.Context, learnerID, revisionID string) (int64, error) {
	args := m.Called(ctx, learnerID, revisionID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRemediationRepository) DeleteItemsByRevision(ctx context.Context, revisionID string) error {
	args := m.Called(ctx, revisionID)
	return args.Error(0)
}

// --- MockTransactionManager ---
// Runs fn directly; an error configured for WithTransaction is returned
// without calling fn.
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, mock.Anything)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}

// --- MockCache ---
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCache) IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	args := m.Called(ctx, key, window)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCache) TTL(ctx context.Context, key string) (time.Duration, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(time.Duration), args.Error(1)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- MockQuizGenerator ---
type MockQuizGenerator struct {
	mock.Mock
}

func (m *MockQuizGenerator) GenerateQuiz(ctx context.Context, apiKey string, req domain.QuizGenerationRequest) (*domain.GeneratedQuiz, error) {
	args := m.Called(ctx, apiKey, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedQuiz), args.Error(1)
}

func (m *MockQuizGenerator) GenerateRemediationQuiz(ctx context.Context, apiKey string, items []*domain.RemediationItem, sourceText string) (*domain.GeneratedQuiz, error) {
	args := m.Called(ctx, apiKey, items, sourceText)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedQuiz), args.Error(1)
}

// --- MockLessonAnalyzer ---
type MockLessonAnalyzer struct {
	mock.Mock
}

func (m *MockLessonAnalyzer) AnalyzeBatch(ctx context.Context, apiKey string, images []string) (*domain.LessonAnalysis, domain.TokenUsage, error) {
	args := m.Called(ctx, apiKey, images)
	usage, _ := args.Get(1).(domain.TokenUsage)
	if args.Get(0) == nil {
		return nil, usage, args.Error(2)
	}
	return args.Get(0).(*domain.LessonAnalysis), usage, args.Error(2)
}

// --- MockKeyValidator ---
type MockKeyValidator struct {
	mock.Mock
}

func (m *MockKeyValidator) ValidateKey(ctx context.Context, apiKey string) (bool, string, error) {
	args := m.Called(ctx, apiKey)
	return args.Bool(0), args.String(1), args.Error(2)
}

// --- MockAPIKeyService ---
type MockAPIKeyService struct {
	mock.Mock
}

func (m *MockAPIKeyService) EffectiveKey(ctx context.Context, user *domain.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockAPIKeyService) ValidateAPIKey(ctx context.Context, userID string) (*dto.APIKeyValidationResponse, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.APIKeyValidationResponse), args.Error(1)
}

func (m *MockAPIKeyService) RecordUsage(ctx context.Context, userID string, usage domain.TokenUsage) {
	m.Called(ctx, userID, usage)
}

const testJWTSecret = "testsecretkeydontuseinproduction32bytes!"

func newTestAuthService(userRepo domain.UserRepository) AuthService {
	svc, err := NewAuthService(userRepo, testJWTConfig())
	if err != nil {
		panic(err)
	}
	return svc
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:       testJWTSecret,
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}
