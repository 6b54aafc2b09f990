package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"strings"
	"time"

	"reviflow/internal/cache"
	"reviflow/internal/domain"
	"reviflow/internal/dto"
	"reviflow/internal/logger"

	"go.uber.org/zap"
)

const (
	statusSaved            = "saved"
	msgNotEnoughErrors     = "Not enough errors to generate a quiz."
	defaultStatsTTLMinutes = 5
)

// ProgressService records quiz results and derives the learner's progress:
// gamification, the remediation queue and dashboard stats.
type ProgressService interface {
	SubmitScore(ctx context.Context, userID string, req dto.ScoreRequest) (*dto.ScoreResponse, error)
	History(ctx context.Context, userID, learnerID string) ([]dto.ScoreHistoryItem, error)
	RemediationCount(ctx context.Context, userID, learnerID, revisionID string) (*dto.RemediationCountResponse, error)
	GenerateRemediation(ctx context.Context, userID string, req dto.RemediationRequest) (*dto.QuizResponse, error)
	Mastery(ctx context.Context, userID, learnerID string) ([]domain.TopicMastery, error)
	Activity(ctx context.Context, userID, learnerID string) (*domain.ActivityReport, error)
}

type progressServiceImpl struct {
	access          learnerAccess
	learnerRepo     domain.LearnerRepository
	revisionRepo    domain.RevisionRepository
	scoreRepo       domain.ScoreRepository
	remediationRepo domain.RemediationRepository
	txManager       domain.TransactionManager
	generator       domain.QuizGenerationService
	apiKeys         APIKeyService
	cache           domain.Cache
	stats           statsInvalidator
	statsTTL        time.Duration
	now             func() time.Time
	shuffle         func(n int, swap func(i, j int))
}

// NewProgressService creates a new instance of ProgressService.
func NewProgressService(
	userRepo domain.UserRepository,
	learnerRepo domain.LearnerRepository,
	revisionRepo domain.RevisionRepository,
	scoreRepo domain.ScoreRepository,
	remediationRepo domain.RemediationRepository,
	txManager domain.TransactionManager,
	generator domain.QuizGenerationService,
	apiKeys APIKeyService,
	cacheClient domain.Cache,
	statsTTL time.Duration,
) ProgressService {
	if statsTTL <= 0 {
		statsTTL = defaultStatsTTLMinutes * time.Minute
	}
	return &progressServiceImpl{
		access:          learnerAccess{userRepo: userRepo, learnerRepo: learnerRepo},
		learnerRepo:     learnerRepo,
		revisionRepo:    revisionRepo,
		scoreRepo:       scoreRepo,
		remediationRepo: remediationRepo,
		txManager:       txManager,
		generator:       generator,
		apiKeys:         apiKeys,
		cache:           cacheClient,
		stats:           statsInvalidator{cache: cacheClient},
		statsTTL:        statsTTL,
		now:             time.Now,
		shuffle:         rand.Shuffle,
	}
}

// SubmitScore saves a result and, for a learner, updates streak, XP, level,
// badges and the remediation queue in the same transaction. With a revision,
// the submitted series is marked complete.
func (s *progressServiceImpl) SubmitScore(ctx context.Context, userID string, req dto.ScoreRequest) (*dto.ScoreResponse, error) {
	appLogger := logger.Get()

	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.access.scope(ctx, user, req.LearnerID)
	if err != nil {
		return nil, err
	}
	var rev *domain.Revision
	if req.RevisionID != "" {
		if rev, err = s.access.checkRevision(ctx, s.revisionRepo, user, req.RevisionID); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	score := &domain.Score{
		UserID:         user.ID,
		LearnerID:      scope.LearnerID,
		RevisionID:     req.RevisionID,
		Topic:          req.Topic,
		Score:          req.Score,
		TotalQuestions: req.TotalQuestions,
		CreatedAt:      now,
	}
	resp := &dto.ScoreResponse{Status: statusSaved, NewBadges: []string{}}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.scoreRepo.CreateScore(txCtx, score); err != nil {
			return err
		}
		if scope.LearnerID != "" {
			if err := s.applyLearnerProgress(txCtx, scope.LearnerID, score, req.Details, resp, now); err != nil {
				return err
			}
		}
		if rev != nil {
			rev.CompleteSeries(req.CurrentSeries)
			if err := s.revisionRepo.UpdateRevision(txCtx, rev); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		appLogger.Error("Failed to save score", zap.String("userID", user.ID), zap.String("topic", req.Topic), zap.Error(err))
		return nil, domain.NewInternalError("failed to save score", err)
	}
	s.stats.invalidate(ctx, scope)

	resp.ID = score.ID
	resp.Topic = score.Topic
	resp.Score = score.Score
	resp.TotalQuestions = score.TotalQuestions
	resp.CreatedAt = score.CreatedAt
	resp.LearnerID = score.LearnerID
	resp.RevisionID = score.RevisionID

	appLogger.Info("Score saved",
		zap.String("scoreID", score.ID),
		zap.String("learnerID", score.LearnerID),
		zap.Int("score", score.Score),
		zap.Int("total", score.TotalQuestions),
		zap.Strings("newBadges", resp.NewBadges))
	return resp, nil
}

func (s *progressServiceImpl) applyLearnerProgress(
	ctx context.Context,
	learnerID string,
	score *domain.Score,
	details []dto.QuestionResult,
	resp *dto.ScoreResponse,
	now time.Time,
) error {
	profile, err := s.learnerRepo.GetProfileByID(ctx, learnerID)
	if err != nil {
		return err
	}
	if profile == nil {
		return nil
	}

	outcome := profile.ApplyScore(score.Score, now)
	if err := s.learnerRepo.UpdateProfile(ctx, profile); err != nil {
		return err
	}

	held, err := s.learnerRepo.ListBadges(ctx, profile.ID)
	if err != nil {
		return err
	}
	codes := make([]string, 0, len(held))
	for _, b := range held {
		codes = append(codes, b.BadgeCode)
	}
	for _, code := range domain.NewBadges(domain.EligibleBadges(score, profile.StreakCurrent, now), codes) {
		if err := s.learnerRepo.AddBadge(ctx, &domain.Badge{LearnerID: profile.ID, BadgeCode: code, EarnedAt: now}); err != nil {
			return err
		}
		resp.NewBadges = append(resp.NewBadges, code)
	}

	if domain.IsRemediationTopic(score.Topic) {
		reviewed, err := s.remediationRepo.MarkPendingReviewed(ctx, profile.ID, score.RevisionID)
		if err != nil {
			return err
		}
		logger.Get().Debug("Remediation items reviewed", zap.String("learnerID", profile.ID), zap.Int64("count", reviewed))
	}
	for _, d := range details {
		if d.IsCorrect {
			continue
		}
		original := d.OriginalContent
		if strings.TrimSpace(original) == "" {
			original = score.Topic
		}
		item := &domain.RemediationItem{
			LearnerID:       profile.ID,
			RevisionID:      score.RevisionID,
			OriginalContent: original,
			Question:        d.Question,
			WrongAnswer:     d.UserAnswer,
			CorrectAnswer:   d.CorrectAnswer,
			Topic:           score.Topic,
			Status:          domain.RemediationPending,
			CreatedAt:       now,
		}
		if err := s.remediationRepo.CreateItem(ctx, item); err != nil {
			return err
		}
	}

	resp.XP = profile.XP
	resp.Level = profile.Level
	resp.LevelUp = outcome.LevelUp
	resp.Streak = profile.StreakCurrent
	return nil
}

func (s *progressServiceImpl) History(ctx context.Context, userID, learnerID string) ([]dto.ScoreHistoryItem, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.access.scope(ctx, user, learnerID)
	if err != nil {
		return nil, err
	}
	scores, err := s.scoreRepo.ListScores(ctx, scope)
	if err != nil {
		return nil, domain.NewInternalError("failed to list scores", err)
	}
	items := make([]dto.ScoreHistoryItem, 0, len(scores))
	for _, sc := range scores {
		items = append(items, dto.ScoreHistoryItem{
			ID:             sc.ID,
			Topic:          sc.Topic,
			Score:          sc.Score,
			TotalQuestions: sc.TotalQuestions,
			CreatedAt:      sc.CreatedAt,
			LearnerID:      sc.LearnerID,
			RevisionID:     sc.RevisionID,
		})
	}
	return items, nil
}

// RemediationCount returns the number of pending mistakes. Without a learner
// there is no queue and the count is zero.
func (s *progressServiceImpl) RemediationCount(ctx context.Context, userID, learnerID, revisionID string) (*dto.RemediationCountResponse, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.access.scope(ctx, user, learnerID)
	if err != nil {
		return nil, err
	}
	if scope.LearnerID == "" {
		return &dto.RemediationCountResponse{Count: 0}, nil
	}
	count, err := s.remediationRepo.CountPending(ctx, scope.LearnerID, revisionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to count remediation items", err)
	}
	return &dto.RemediationCountResponse{Count: count}, nil
}

// GenerateRemediation builds a correction quiz from the most recent pending
// mistakes, in random order.
func (s *progressServiceImpl) GenerateRemediation(ctx context.Context, userID string, req dto.RemediationRequest) (*dto.QuizResponse, error) {
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
	if scope.LearnerID == "" {
		return nil, domain.NewInvalidInputError(msgNotEnoughErrors)
	}

	sourceText := ""
	if req.RevisionID != "" {
		rev, err := s.access.checkRevision(ctx, s.revisionRepo, user, req.RevisionID)
		if err != nil {
			return nil, err
		}
		sourceText = rev.TextContent
	}

	items, err := s.remediationRepo.ListPending(ctx, scope.LearnerID, req.RevisionID, domain.RemediationPoolSize)
	if err != nil {
		return nil, domain.NewInternalError("failed to load remediation items", err)
	}
	if len(items) == 0 {
		return nil, domain.NewInvalidInputError(msgNotEnoughErrors)
	}
	s.shuffle(len(items), func(i, j int) { items[i], items[j] = items[j], items[i] })

	generated, err := s.generator.GenerateRemediationQuiz(ctx, apiKey, items, sourceText)
	if err != nil {
		logger.Get().Error("Remediation quiz generation failed", zap.String("learnerID", scope.LearnerID), zap.Error(err))
		return nil, err
	}
	s.apiKeys.RecordUsage(ctx, user.ID, generated.Usage)

	return toQuizResponse(&generated.Quiz, req.RevisionID, nil), nil
}

// Mastery aggregates scores per topic. Computation failures are logged and
// yield an empty list so the dashboard keeps rendering.
func (s *progressServiceImpl) Mastery(ctx context.Context, userID, learnerID string) ([]domain.TopicMastery, error) {
	appLogger := logger.Get()

	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.access.scope(ctx, user, learnerID)
	if err != nil {
		return nil, err
	}

	key := cache.MasteryKey(cache.StatsOwner(scope.UserID, scope.LearnerID))
	var cached []domain.TopicMastery
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}

	mastery, err := s.computeMastery(ctx, scope)
	if err != nil {
		appLogger.Error("Failed to compute mastery", zap.String("userID", scope.UserID), zap.String("learnerID", scope.LearnerID), zap.Error(err))
		return []domain.TopicMastery{}, nil
	}
	s.writeCache(ctx, key, mastery)
	return mastery, nil
}

func (s *progressServiceImpl) computeMastery(ctx context.Context, scope domain.OwnerScope) ([]domain.TopicMastery, error) {
	scores, err := s.scoreRepo.ListScores(ctx, scope)
	if err != nil {
		return nil, err
	}
	if len(scores) == 0 {
		return []domain.TopicMastery{}, nil
	}

	var pending []domain.RemediationItem
	if scope.LearnerID != "" {
		items, err := s.remediationRepo.ListPending(ctx, scope.LearnerID, "", 0)
		if err != nil {
			return nil, err
		}
		pending = make([]domain.RemediationItem, 0, len(items))
		for _, item := range items {
			pending = append(pending, *item)
		}
	}

	revisions, err := s.revisionRepo.ListRevisions(ctx, scope)
	if err != nil {
		return nil, err
	}
	// Revisions come newest first; keep the first per topic.
	latest := make(map[string]*domain.Revision, len(revisions))
	for _, rev := range revisions {
		topic := domain.NormalizeTopic(rev.Topic)
		if _, ok := latest[topic]; !ok {
			latest[topic] = rev
		}
	}

	values := make([]domain.Score, 0, len(scores))
	for _, sc := range scores {
		values = append(values, *sc)
	}
	return domain.ComputeMastery(values, pending, latest), nil
}

// Activity reports estimated study time per day for the resolved owner.
func (s *progressServiceImpl) Activity(ctx context.Context, userID, learnerID string) (*domain.ActivityReport, error) {
	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	scope, err := s.access.scope(ctx, user, learnerID)
	if err != nil {
		return nil, err
	}

	key := cache.ActivityKey(cache.StatsOwner(scope.UserID, scope.LearnerID))
	var cached domain.ActivityReport
	if s.readCache(ctx, key, &cached) {
		return &cached, nil
	}

	revisions, err := s.revisionRepo.ListRevisions(ctx, scope)
	if err != nil {
		return nil, domain.NewInternalError("failed to list revisions", err)
	}
	scores, err := s.scoreRepo.ListScores(ctx, scope)
	if err != nil {
		return nil, domain.NewInternalError("failed to list scores", err)
	}
	pending := map[string]int{}
	if scope.LearnerID != "" {
		if pending, err = s.remediationRepo.CountPendingByRevision(ctx, scope.LearnerID); err != nil {
			return nil, domain.NewInternalError("failed to count pending errors", err)
		}
	}

	revValues := make([]domain.Revision, 0, len(revisions))
	for _, r := range revisions {
		revValues = append(revValues, *r)
	}
	scoreValues := make([]domain.Score, 0, len(scores))
	for _, sc := range scores {
		scoreValues = append(scoreValues, *sc)
	}

	report := domain.BuildActivity(revValues, scoreValues, pending, s.now())
	s.writeCache(ctx, key, report)
	return &report, nil
}

// readCache decodes a cached JSON value into v. Misses and cache errors both
// report false; errors are logged.
func (s *progressServiceImpl) readCache(ctx context.Context, key string, v any) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("Failed to read stats cache", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logger.Get().Warn("Discarding unreadable stats cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *progressServiceImpl) writeCache(ctx context.Context, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		logger.Get().Warn("Failed to encode stats for cache", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.statsTTL); err != nil {
		logger.Get().Warn("Failed to write stats cache", zap.String("key", key), zap.Error(err))
	}
}
