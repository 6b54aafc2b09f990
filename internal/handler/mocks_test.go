package handler_test

import (
	"context"
	"time"

	"reviflow/internal/domain"
	"reviflow/internal/dto"
	"reviflow/internal/service"
)

// --- Manual Mocks ---

type MockAuthService struct {
	RegisterFunc     func(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	LoginFunc        func(ctx context.Context, identifier, password string) (*dto.TokenResponse, error)
	RefreshTokenFunc func(ctx context.Context, refreshToken string) (string, string, error)
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	panic("MockAuthService.RegisterFunc not implemented")
}
func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (*dto.TokenResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	panic("MockAuthService.ValidateJWT not implemented")
}
func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration, tokenType string) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}
func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	panic("MockAuthService.RefreshTokenFunc not implemented")
}
func (m *MockAuthService) EncryptToken(token string) (string, error) {
	panic("MockAuthService.EncryptToken not implemented")
}
func (m *MockAuthService) DecryptToken(encryptedToken string) (string, error) {
	panic("MockAuthService.DecryptToken not implemented")
}

type MockUserService struct {
	GetMeFunc              func(ctx context.Context, userID string) (*dto.UserResponse, error)
	UpdateMeFunc           func(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	CreateChildFunc        func(ctx context.Context, parentID string, req dto.CreateChildRequest) (*dto.CreateChildResponse, error)
	ListChildrenFunc       func(ctx context.Context, parentID string) ([]dto.UserResponse, error)
	ListProfilesFunc       func(ctx context.Context, userID string) ([]dto.LearnerProfileResponse, error)
	UpdateMyProfileFunc    func(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.LearnerProfileResponse, error)
	SelectProfileFunc      func(ctx context.Context, userID, learnerID string) (*dto.SelectProfileResponse, error)
	VerifyParentalGateFunc func(ctx context.Context, userID string, req dto.ParentalGateRequest) (*dto.ParentalGateResponse, error)
}

func (m *MockUserService) GetMe(ctx context.Context, userID string) (*dto.UserResponse, error) {
	if m.GetMeFunc != nil {
		return m.GetMeFunc(ctx, userID)
	}
	panic("MockUserService.GetMeFunc not implemented")
}
func (m *MockUserService) UpdateMe(ctx context.Context, userID string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if m.UpdateMeFunc != nil {
		return m.UpdateMeFunc(ctx, userID, req)
	}
	panic("MockUserService.UpdateMeFunc not implemented")
}
func (m *MockUserService) CreateChild(ctx context.Context, parentID string, req dto.CreateChildRequest) (*dto.CreateChildResponse, error) {
	if m.CreateChildFunc != nil {
		return m.CreateChildFunc(ctx, parentID, req)
	}
	panic("MockUserService.CreateChildFunc not implemented")
}
func (m *MockUserService) ListChildren(ctx context.Context, parentID string) ([]dto.UserResponse, error) {
	if m.ListChildrenFunc != nil {
		return m.ListChildrenFunc(ctx, parentID)
	}
	panic("MockUserService.ListChildrenFunc not implemented")
}
func (m *MockUserService) ListProfiles(ctx context.Context, userID string) ([]dto.LearnerProfileResponse, error) {
	if m.ListProfilesFunc != nil {
		return m.ListProfilesFunc(ctx, userID)
	}
	panic("MockUserService.ListProfilesFunc not implemented")
}
func (m *MockUserService) UpdateMyProfile(ctx context.Context, userID string, req dto.UpdateProfileRequest) (*dto.LearnerProfileResponse, error) {
	if m.UpdateMyProfileFunc != nil {
		return m.UpdateMyProfileFunc(ctx, userID, req)
	}
	panic("MockUserService.UpdateMyProfileFunc not implemented")
}
func (m *MockUserService) SelectProfile(ctx context.Context, userID, learnerID string) (*dto.SelectProfileResponse, error) {
	if m.SelectProfileFunc != nil {
		return m.SelectProfileFunc(ctx, userID, learnerID)
	}
	panic("MockUserService.SelectProfileFunc not implemented")
}
func (m *MockUserService) VerifyParentalGate(ctx context.Context, userID string, req dto.ParentalGateRequest) (*dto.ParentalGateResponse, error) {
	if m.VerifyParentalGateFunc != nil {
		return m.VerifyParentalGateFunc(ctx, userID, req)
	}
	panic("MockUserService.VerifyParentalGateFunc not implemented")
}

type MockAPIKeyService struct {
	ValidateAPIKeyFunc func(ctx context.Context, userID string) (*dto.APIKeyValidationResponse, error)
}

func (m *MockAPIKeyService) EffectiveKey(ctx context.Context, user *domain.User) (string, error) {
	panic("MockAPIKeyService.EffectiveKey not implemented")
}
func (m *MockAPIKeyService) ValidateAPIKey(ctx context.Context, userID string) (*dto.APIKeyValidationResponse, error) {
	if m.ValidateAPIKeyFunc != nil {
		return m.ValidateAPIKeyFunc(ctx, userID)
	}
	panic("MockAPIKeyService.ValidateAPIKeyFunc not implemented")
}
func (m *MockAPIKeyService) RecordUsage(ctx context.Context, userID string, usage domain.TokenUsage) {}

type MockIngestService struct {
	AnalyzeFunc func(ctx context.Context, userID string, req dto.AnalyzeRequest, progress service.ProgressFunc) (*dto.AnalyzeResponse, error)
}

func (m *MockIngestService) Analyze(ctx context.Context, userID string, req dto.AnalyzeRequest, progress service.ProgressFunc) (*dto.AnalyzeResponse, error) {
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, userID, req, progress)
	}
	panic("MockIngestService.AnalyzeFunc not implemented")
}

type MockQuizService struct {
	GenerateFunc       func(ctx context.Context, userID string, req dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	SaveProgressFunc   func(ctx context.Context, userID string, req dto.SaveProgressRequest) (*dto.StatusResponse, error)
	NextSeriesFunc     func(ctx context.Context, userID string, req dto.RevisionActionRequest) (*dto.QuizResponse, error)
	ResetFunc          func(ctx context.Context, userID string, req dto.RevisionActionRequest) (*dto.QuizResponse, error)
	ReviewFunc         func(ctx context.Context, userID, revisionID string) (*dto.RevisionResponse, error)
	ListRevisionsFunc  func(ctx context.Context, userID, learnerID string) ([]dto.RevisionResponse, error)
	DeleteRevisionFunc func(ctx context.Context, userID, revisionID string) (*dto.StatusResponse, error)
}

func (m *MockQuizService) Generate(ctx context.Context, userID string, req dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, userID, req)
	}
	panic("MockQuizService.GenerateFunc not implemented")
}
func (m *MockQuizService) SaveProgress(ctx context.Context, userID string, req dto.SaveProgressRequest) (*dto.StatusResponse, error) {
	if m.SaveProgressFunc != nil {
		return m.SaveProgressFunc(ctx, userID, req)
	}
	panic("MockQuizService.SaveProgressFunc not implemented")
}
func (m *MockQuizService) NextSeries(ctx context.Context, userID string, req dto.RevisionActionRequest) (*dto.QuizResponse, error) {
	if m.NextSeriesFunc != nil {
		return m.NextSeriesFunc(ctx, userID, req)
	}
	panic("MockQuizService.NextSeriesFunc not implemented")
}
func (m *MockQuizService) Reset(ctx context.Context, userID string, req dto.RevisionActionRequest) (*dto.QuizResponse, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, userID, req)
	}
	panic("MockQuizService.ResetFunc not implemented")
}
func (m *MockQuizService) Review(ctx context.Context, userID, revisionID string) (*dto.RevisionResponse, error) {
	if m.ReviewFunc != nil {
		return m.ReviewFunc(ctx, userID, revisionID)
	}
	panic("MockQuizService.ReviewFunc not implemented")
}
func (m *MockQuizService) ListRevisions(ctx context.Context, userID, learnerID string) ([]dto.RevisionResponse, error) {
	if m.ListRevisionsFunc != nil {
		return m.ListRevisionsFunc(ctx, userID, learnerID)
	}
	panic("MockQuizService.ListRevisionsFunc not implemented")
}
func (m *MockQuizService) DeleteRevision(ctx context.Context, userID, revisionID string) (*dto.StatusResponse, error) {
	if m.DeleteRevisionFunc != nil {
		return m.DeleteRevisionFunc(ctx, userID, revisionID)
	}
	panic("MockQuizService.DeleteRevisionFunc not implemented")
}

type MockProgressService struct {
	SubmitScoreFunc         func(ctx context.Context, userID string, req dto.ScoreRequest) (*dto.ScoreResponse, error)
	HistoryFunc             func(ctx context.Context, userID, learnerID string) ([]dto.ScoreHistoryItem, error)
	RemediationCountFunc    func(ctx context.Context, userID, learnerID, revisionID string) (*dto.RemediationCountResponse, error)
	GenerateRemediationFunc func(ctx context.Context, userID string, req dto.RemediationRequest) (*dto.QuizResponse, error)
	MasteryFunc             func(ctx context.Context, userID, learnerID string) ([]domain.TopicMastery, error)
	ActivityFunc            func(ctx context.Context, userID, learnerID string) (*domain.ActivityReport, error)
}

func (m *MockProgressService) SubmitScore(ctx context.Context, userID string, req dto.ScoreRequest) (*dto.ScoreResponse, error) {
	if m.SubmitScoreFunc != nil {
		return m.SubmitScoreFunc(ctx, userID, req)
	}
	panic("MockProgressService.SubmitScoreFunc not implemented")
}
func (m *MockProgressService) History(ctx context.Context, userID, learnerID string) ([]dto.ScoreHistoryItem, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, userID, learnerID)
	}
	panic("MockProgressService.HistoryFunc not implemented")
}
func (m *MockProgressService) RemediationCount(ctx context.Context, userID, learnerID, revisionID string) (*dto.RemediationCountResponse, error) {
	if m.RemediationCountFunc != nil {
		return m.RemediationCountFunc(ctx, userID, learnerID, revisionID)
	}
	panic("MockProgressService.RemediationCountFunc not implemented")
}
func (m *MockProgressService) GenerateRemediation(ctx context.Context, userID string, req dto.RemediationRequest) (*dto.QuizResponse, error) {
	if m.GenerateRemediationFunc != nil {
		return m.GenerateRemediationFunc(ctx, userID, req)
	}
	panic("MockProgressService.GenerateRemediationFunc not implemented")
}
func (m *MockProgressService) Mastery(ctx context.Context, userID, learnerID string) ([]domain.TopicMastery, error) {
	if m.MasteryFunc != nil {
		return m.MasteryFunc(ctx, userID, learnerID)
	}
	panic("MockProgressService.MasteryFunc not implemented")
}
func (m *MockProgressService) Activity(ctx context.Context, userID, learnerID string) (*domain.ActivityReport, error) {
	if m.ActivityFunc != nil {
		return m.ActivityFunc(ctx, userID, learnerID)
	}
	panic("MockProgressService.ActivityFunc not implemented")
}
