package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"reviflow/internal/config"
	"reviflow/internal/domain"
	"reviflow/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestChunkImages(t *testing.T) {
	images := []string{"1", "2", "3", "4", "5", "6", "7"}
	batches := chunkImages(images, 3)
	assert.Equal(t, [][]string{{"1", "2", "3"}, {"4", "5", "6"}, {"7"}}, batches)
	assert.Len(t, chunkImages(images[:5], 5), 1)
}

func TestMergeAnalyses(t *testing.T) {
	results := []batchResult{
		{
			analysis: &domain.LessonAnalysis{Title: "La cellule", Subject: "SVT", RawText: "Page un", Synthesis: "Synthèse 1", StudyTips: []string{"Relire", "Schématiser"}},
			usage:    domain.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		},
		{
			analysis: &domain.LessonAnalysis{Title: "Ignored", RawText: "Calculer le volume", Synthesis: "Synthèse 2", StudyTips: []string{"Relire", "Réciter"}},
			usage:    domain.TokenUsage{PromptTokens: 20, CompletionTokens: 5, TotalTokens: 25},
		},
	}

	resp := mergeAnalyses(results)
	assert.Equal(t, "La cellule", resp.Title)
	assert.Equal(t, "SVT", resp.Subject)
	assert.Equal(t, "--- Partie 1 ---\nPage un\n\n--- Partie 2 ---\nCalculer le volume", resp.RawText)
	assert.Equal(t, "Synthèse 1\nSynthèse 2", resp.Synthesis)
	assert.Equal(t, []string{"Relire", "Schématiser", "Réciter"}, resp.StudyTips)
	assert.True(t, resp.IsMathContent, "calcul keyword in batch 2")
	assert.True(t, resp.MathSafetyTriggered)
	assert.Equal(t, domain.TokenUsage{PromptTokens: 30, CompletionTokens: 10, TotalTokens: 40}, *resp.Usage)
}

func TestMergeAnalyses_Defaults(t *testing.T) {
	resp := mergeAnalyses([]batchResult{{analysis: &domain.LessonAnalysis{RawText: "La Révolution"}}})
	assert.Equal(t, domain.DefaultLessonTitle, resp.Title)
	assert.Equal(t, domain.DefaultLessonSubject, resp.Subject)
	assert.False(t, resp.IsMathContent)
	assert.NotNil(t, resp.StudyTips)
}

func newIngestServiceForTest(batchSize int) (IngestService, *MockUserRepository, *MockLessonAnalyzer, *MockAPIKeyService) {
	users := new(MockUserRepository)
	analyzer := new(MockLessonAnalyzer)
	keys := new(MockAPIKeyService)
	svc := NewIngestService(users, new(MockLearnerRepository), analyzer, keys, config.IngestConfig{BatchSize: batchSize, MaxConcurrency: 2})
	return svc, users, analyzer, keys
}

func TestIngestService_Analyze(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "p1", IsActive: true, Role: domain.RoleParent}
	svc, users, analyzer, keys := newIngestServiceForTest(2)

	users.On("GetUserByID", mock.Anything, "p1").Return(user, nil)
	keys.On("EffectiveKey", mock.Anything, user).Return("sk-test", nil)
	analyzer.On("AnalyzeBatch", mock.Anything, "sk-test", []string{"a", "b"}).
		Return(&domain.LessonAnalysis{Title: "Volcans", Subject: "Géographie", RawText: "Magma"}, domain.TokenUsage{TotalTokens: 100}, nil)
	analyzer.On("AnalyzeBatch", mock.Anything, "sk-test", []string{"c"}).
		Return(&domain.LessonAnalysis{RawText: "Éruption", StudyTips: []string{"Dessiner"}}, domain.TokenUsage{TotalTokens: 50}, nil)
	keys.On("RecordUsage", mock.Anything, "p1", domain.TokenUsage{TotalTokens: 150}).Return()

	var mu sync.Mutex
	var steps []string
	resp, err := svc.Analyze(ctx, "p1", dto.AnalyzeRequest{ImagesBase64: []string{"a", "b", "c"}}, func(p dto.IngestProgress) {
		mu.Lock()
		defer mu.Unlock()
		steps = append(steps, p.Step)
	})
	require.NoError(t, err)
	assert.Equal(t, "Volcans", resp.Title)
	assert.Equal(t, "--- Partie 1 ---\nMagma\n\n--- Partie 2 ---\nÉruption", resp.RawText)
	assert.Equal(t, []string{dto.StepUploading, dto.StepReading, dto.StepAnalyzing, dto.StepSynthesizing, dto.StepComplete}, steps)
	keys.AssertExpectations(t)
}

func TestIngestService_Analyze_NoImages(t *testing.T) {
	svc, _, _, _ := newIngestServiceForTest(5)
	_, err := svc.Analyze(context.Background(), "p1", dto.AnalyzeRequest{ImagesBase64: []string{"  "}}, nil)
	domainErr := assertDomainCode(t, err, domain.CodeInvalidInput)
	assert.Equal(t, "No images provided", domainErr.Message)
}

func TestIngestService_Analyze_BatchFailure(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: "p1", IsActive: true, Role: domain.RoleParent}
	svc, users, analyzer, keys := newIngestServiceForTest(5)
	badResponse := domain.NewLLMBadResponseError(errors.New("no json"))

	users.On("GetUserByID", mock.Anything, "p1").Return(user, nil)
	keys.On("EffectiveKey", mock.Anything, user).Return("sk-test", nil)
	analyzer.On("AnalyzeBatch", mock.Anything, "sk-test", []string{"a"}).
		Return(nil, domain.TokenUsage{TotalTokens: 30}, badResponse)
	keys.On("RecordUsage", mock.Anything, "p1", domain.TokenUsage{TotalTokens: 30}).Return()

	_, err := svc.Analyze(ctx, "p1", dto.AnalyzeRequest{ImagesBase64: []string{"a"}}, nil)
	assertDomainCode(t, err, domain.CodeLLMBadResponse)
	keys.AssertExpectations(t)
}

func TestIngestService_Analyze_MissingKey(t *testing.T) {
	user := &domain.User{ID: "p1", IsActive: true, Role: domain.RoleParent}
	svc, users, analyzer, keys := newIngestServiceForTest(5)
	users.On("GetUserByID", mock.Anything, "p1").Return(user, nil)
	keys.On("EffectiveKey", mock.Anything, user).Return("", domain.NewMissingAPIKeyError())

	_, err := svc.Analyze(context.Background(), "p1", dto.AnalyzeRequest{ImagesBase64: []string{"a"}}, nil)
	assertDomainCode(t, err, domain.CodeMissingAPIKey)
	analyzer.AssertNotCalled(t, "AnalyzeBatch", mock.Anything, mock.Anything, mock.Anything)
}
