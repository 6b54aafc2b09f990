package service

import (
	"context"
	"strings"
	"time"

	"reviflow/internal/domain"
	"reviflow/internal/dto"
	"reviflow/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const statusSuccess = "success"

// QuizService manages revisions: lesson quizzes, their series and saved progress.
type QuizService interface {
	Generate(ctx context.Context, userID string, req dto.GenerateQuizRequest) (*dto.QuizResponse, error)
	SaveProgress(ctx context.Context, userID string, req dto.SaveProgressRequest) (*dto.StatusResponse, error)
	NextSeries(ctx context.Context, userID string, req dto.RevisionActionRequest) (*dto.QuizResponse, error)
	Reset(ctx context.Context, userID string, req dto.RevisionActionRequest) (*dto.QuizResponse, error)
	Review(ctx context.Context, userID, revisionID string) (*dto.RevisionResponse, error)
	ListRevisions(ctx context.Context, userID, learnerID string) ([]dto.RevisionResponse, error)
	DeleteRevision(ctx context.Context, userID, revisionID string) (*dto.StatusResponse, error)
}

type quizServiceImpl struct {
	access          learnerAccess
	revisionRepo    domain.RevisionRepository
	scoreRepo       domain.ScoreRepository
	remediationRepo domain.RemediationRepository
	txManager       domain.TransactionManager
	generator       domain.QuizGenerationService
	apiKeys         APIKeyService
	stats           statsInvalidator
	// series collapses concurrent next-series and reset calls on one revision.
	series singleflight.Group
	now    func() time.Time
}

// NewQuizService creates a new instance of QuizService.
func NewQuizService(
	userRepo domain.UserRepository,
	learnerRepo domain.LearnerRepository,
	revisionRepo domain.RevisionRepository,
	scoreRepo domain.ScoreRepository,
	remediationRepo domain.RemediationRepository,
	txManager domain.TransactionManager,
	generator domain.QuizGenerationService,
	apiKeys APIKeyService,
	cacheClient domain.Cache,
) QuizService {
	return &quizServiceImpl{
		access:          learnerAccess{userRepo: userRepo, learnerRepo: learnerRepo},
		revisionRepo:    revisionRepo,
		scoreRepo:       scoreRepo,
		remediationRepo: remediationRepo,
		txManager:       txManager,
		generator:       generator,
		apiKeys:         apiKeys,
		stats:           statsInvalidator{cache: cacheClient},
		now:             time.Now,
	}
}

func (s *quizServiceImpl) Generate(ctx context.Context, userID string, req dto.GenerateQuizRequest) (*dto.QuizResponse, error) {
	appLogger := logger.Get()

	if strings.TrimSpace(req.TextContent) == "" {
		return nil, domain.NewInvalidInputError("text_content is required")
	}
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.access.scope(ctx, user, req.LearnerID)
	if err != nil {
		return nil, err
	}
	apiKey, err := s.apiKeys.EffectiveKey(ctx, user)
	if err != nil {
		return nil, err
	}

	generated, err := s.generator.GenerateQuiz(ctx, apiKey, domain.QuizGenerationRequest{
		Text:        req.TextContent,
		Difficulty:  req.Difficulty,
		SeriesIndex: 1,
	})
	if err != nil {
		appLogger.Error("Quiz generation failed", zap.String("userID", user.ID), zap.Error(err))
		return nil, err
	}
	s.apiKeys.RecordUsage(ctx, user.ID, generated.Usage)

	topic := strings.TrimSpace(req.Title)
	if topic == "" {
		topic = generated.Quiz.Topic
	}
	rev := &domain.Revision{
		UserID:          user.ID,
		LearnerID:       scope.LearnerID,
		Topic:           topic,
		Subject:         strings.TrimSpace(req.Subject),
		TextContent:     req.TextContent,
		Synthesis:       req.Synthesis,
		StudyTips:       req.StudyTips,
		QuizData:        &generated.Quiz,
		Status:          domain.RevisionStatusNew,
		CurrentSeries:   1,
		CompletedSeries: 0,
		TotalSeries:     max(generated.TotalSeries, 1),
		CreatedAt:       s.now().UTC(),
	}
	if err := s.revisionRepo.CreateRevision(ctx, rev); err != nil {
		return nil, domain.NewInternalError("failed to save revision", err)
	}
	s.stats.invalidate(ctx, scope)

	appLogger.Info("Revision created",
		zap.String("revisionID", rev.ID),
		zap.String("topic", rev.Topic),
		zap.Int("questions", len(generated.Quiz.Questions)),
		zap.Int("totalSeries", rev.TotalSeries))

	return toQuizResponse(&generated.Quiz, rev.ID, &domain.SeriesInfo{Current: 1, Total: rev.TotalSeries}), nil
}

func (s *quizServiceImpl) SaveProgress(ctx context.Context, userID string, req dto.SaveProgressRequest) (*dto.StatusResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rev, err := s.access.checkRevision(ctx, s.revisionRepo, user, req.RevisionID)
	if err != nil {
		return nil, err
	}

	rev.ProgressState = &domain.ProgressState{
		CurrentIndex: req.CurrentIndex,
		Answers:      req.Answers,
		Score:        req.Score,
		Timestamp:    s.now().UTC(),
	}
	rev.Status = domain.RevisionStatusInProgress
	if err := s.revisionRepo.UpdateRevision(ctx, rev); err != nil {
		return nil, domain.NewInternalError("failed to save progress", err)
	}
	return &dto.StatusResponse{Status: statusSuccess}, nil
}

// NextSeries generates the quiz of the following series of a long lesson.
func (s *quizServiceImpl) NextSeries(ctx context.Context, userID string, req dto.RevisionActionRequest) (*dto.QuizResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.checkRevision(ctx, s.revisionRepo, user, req.RevisionID); err != nil {
		return nil, err
	}

	// Callers joining a flight share its quiz and its usage record. The flight
	// outlives a caller that goes away.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.series.Do(seriesFlightKey("next", req.RevisionID, req.Difficulty), func() (any, error) {
		ctx := flightCtx
		// Reload inside the flight so a finished concurrent call is observed.
		rev, err := s.access.checkRevision(ctx, s.revisionRepo, user, req.RevisionID)
		if err != nil {
			return nil, err
		}
		if !rev.HasNextSeries() {
			return nil, domain.NewInvalidInputError("Already at the last series.")
		}
		next := rev.CurrentSeries + 1
		quiz, err := s.generateSeries(ctx, user, rev, req.Difficulty, next)
		if err != nil {
			return nil, err
		}
		rev.CurrentSeries = next
		rev.QuizData = quiz
		rev.ProgressState = nil
		rev.Status = domain.RevisionStatusInProgress
		if err := s.revisionRepo.UpdateRevision(ctx, rev); err != nil {
			return nil, domain.NewInternalError("failed to update revision", err)
		}
		s.stats.invalidate(ctx, domain.OwnerScope{UserID: rev.UserID, LearnerID: rev.LearnerID})
		return toQuizResponse(quiz, rev.ID, &domain.SeriesInfo{Current: next, Total: rev.TotalSeries}), nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Get().Debug("Next series request collapsed", zap.String("revisionID", req.RevisionID))
	}
	return v.(*dto.QuizResponse), nil
}

// Reset restarts a revision at series 1 with a freshly generated quiz.
func (s *quizServiceImpl) Reset(ctx context.Context, userID string, req dto.RevisionActionRequest) (*dto.QuizResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.checkRevision(ctx, s.revisionRepo, user, req.RevisionID); err != nil {
		return nil, err
	}

	flightCtx := context.WithoutCancel(ctx)
	v, err, _ := s.series.Do(seriesFlightKey("reset", req.RevisionID, req.Difficulty), func() (any, error) {
		ctx := flightCtx
		rev, err := s.access.checkRevision(ctx, s.revisionRepo, user, req.RevisionID)
		if err != nil {
			return nil, err
		}
		quiz, err := s.generateSeries(ctx, user, rev, req.Difficulty, 1)
		if err != nil {
			return nil, err
		}
		rev.CurrentSeries = 1
		rev.CompletedSeries = 0
		rev.Status = domain.RevisionStatusInProgress
		rev.ProgressState = nil
		rev.QuizData = quiz
		if err := s.revisionRepo.UpdateRevision(ctx, rev); err != nil {
			return nil, domain.NewInternalError("failed to reset revision", err)
		}
		s.stats.invalidate(ctx, domain.OwnerScope{UserID: rev.UserID, LearnerID: rev.LearnerID})
		return toQuizResponse(quiz, rev.ID, &domain.SeriesInfo{Current: 1, Total: rev.TotalSeries}), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*dto.QuizResponse), nil
}

func seriesFlightKey(action, revisionID, difficulty string) string {
	return action + ":" + revisionID + ":" + difficulty
}

func (s *quizServiceImpl) generateSeries(ctx context.Context, user *domain.User, rev *domain.Revision, difficulty string, series int) (*domain.Quiz, error) {
	apiKey, err := s.apiKeys.EffectiveKey(ctx, user)
	if err != nil {
		return nil, err
	}
	generated, err := s.generator.GenerateQuiz(ctx, apiKey, domain.QuizGenerationRequest{
		Text:        rev.TextContent,
		Difficulty:  difficulty,
		SeriesIndex: series,
	})
	if err != nil {
		logger.Get().Error("Series generation failed",
			zap.String("revisionID", rev.ID),
			zap.Int("series", series),
			zap.Error(err))
		return nil, err
	}
	s.apiKeys.RecordUsage(ctx, user.ID, generated.Usage)
	return &generated.Quiz, nil
}

func (s *quizServiceImpl) Review(ctx context.Context, userID, revisionID string) (*dto.RevisionResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rev, err := s.access.checkRevision(ctx, s.revisionRepo, user, revisionID)
	if err != nil {
		return nil, err
	}
	pending := 0
	if rev.LearnerID != "" {
		if pending, err = s.remediationRepo.CountPending(ctx, rev.LearnerID, rev.ID); err != nil {
			return nil, domain.NewInternalError("failed to count pending errors", err)
		}
	}
	resp := toRevisionResponse(rev, pending)
	return &resp, nil
}

// ListRevisions returns the revisions of the resolved owner, newest first.
func (s *quizServiceImpl) ListRevisions(ctx context.Context, userID, learnerID string) ([]dto.RevisionResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.access.scope(ctx, user, learnerID)
	if err != nil {
		return nil, err
	}
	revisions, err := s.revisionRepo.ListRevisions(ctx, scope)
	if err != nil {
		return nil, domain.NewInternalError("failed to list revisions", err)
	}

	pending := map[string]int{}
	if scope.LearnerID != "" {
		if pending, err = s.remediationRepo.CountPendingByRevision(ctx, scope.LearnerID); err != nil {
			return nil, domain.NewInternalError("failed to count pending errors", err)
		}
	}

	resp := make([]dto.RevisionResponse, 0, len(revisions))
	for _, rev := range revisions {
		resp = append(resp, toRevisionResponse(rev, pending[rev.ID]))
	}
	return resp, nil
}

// DeleteRevision removes a revision with its remediation items and scores.
func (s *quizServiceImpl) DeleteRevision(ctx context.Context, userID, revisionID string) (*dto.StatusResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	rev, err := s.access.checkRevision(ctx, s.revisionRepo, user, revisionID)
	if err != nil {
		return nil, err
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.remediationRepo.DeleteItemsByRevision(txCtx, rev.ID); err != nil {
			return err
		}
		if err := s.scoreRepo.DeleteScoresByRevision(txCtx, rev.ID); err != nil {
			return err
		}
		return s.revisionRepo.DeleteRevision(txCtx, rev.ID)
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to delete revision", err)
	}
	s.stats.invalidate(ctx, domain.OwnerScope{UserID: rev.UserID, LearnerID: rev.LearnerID})

	logger.Get().Info("Revision deleted", zap.String("revisionID", rev.ID), zap.String("userID", user.ID))
	return &dto.StatusResponse{Status: statusSuccess, DeletedID: rev.ID}, nil
}
