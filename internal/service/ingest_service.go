package service

import (
	"context"
	"fmt"
	"strings"

	"reviflow/internal/config"
	"reviflow/internal/domain"
	"reviflow/internal/dto"
	"reviflow/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultIngestBatchSize   = 5
	defaultIngestConcurrency = 2
)

// ProgressFunc receives the steps of a running analysis. It may be nil.
type ProgressFunc func(dto.IngestProgress)

// IngestService turns photographed lesson pages into lesson text.
type IngestService interface {
	Analyze(ctx context.Context, userID string, req dto.AnalyzeRequest, progress ProgressFunc) (*dto.AnalyzeResponse, error)
}

type ingestServiceImpl struct {
	access   learnerAccess
	analyzer domain.LessonAnalyzer
	apiKeys  APIKeyService
	cfg      config.IngestConfig
}

// NewIngestService creates a new instance of IngestService.
func NewIngestService(
	userRepo domain.UserRepository,
	learnerRepo domain.LearnerRepository,
	analyzer domain.LessonAnalyzer,
	apiKeys APIKeyService,
	cfg config.IngestConfig,
) IngestService {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultIngestBatchSize
	}
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultIngestConcurrency
	}
	return &ingestServiceImpl{
		access:   learnerAccess{userRepo: userRepo, learnerRepo: learnerRepo},
		analyzer: analyzer,
		apiKeys:  apiKeys,
		cfg:      cfg,
	}
}

// batchResult keeps each batch at its position so merging follows page order
// whatever order the batches finish in.
type batchResult struct {
	analysis *domain.LessonAnalysis
	usage    domain.TokenUsage
}

func (s *ingestServiceImpl) Analyze(ctx context.Context, userID string, req dto.AnalyzeRequest, progress ProgressFunc) (*dto.AnalyzeResponse, error) {
	appLogger := logger.Get()
	report := func(step, message string, pct int) {
		if progress != nil {
			progress(dto.IngestProgress{Step: step, Message: message, Progress: pct})
		}
	}

	images := make([]string, 0, len(req.ImagesBase64))
	for _, img := range req.ImagesBase64 {
		if strings.TrimSpace(img) != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		return nil, domain.NewInvalidInputError("No images provided")
	}

	user, err := s.access.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.LearnerID != "" {
		if _, err := s.access.checkLearner(ctx, user, req.LearnerID); err != nil {
			return nil, err
		}
	}
	apiKey, err := s.apiKeys.EffectiveKey(ctx, user)
	if err != nil {
		return nil, err
	}

	report(dto.StepUploading, "Téléchargement...", 10)

	batches := chunkImages(images, s.cfg.BatchSize)
	results := make([]batchResult, len(batches))
	appLogger.Info("Analyzing lesson images",
		zap.String("userID", user.ID),
		zap.Int("images", len(images)),
		zap.Int("batches", len(batches)))

	report(dto.StepReading, "Lecture des documents...", 30)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, batch := range batches {
		g.Go(func() error {
			analysis, usage, err := s.analyzer.AnalyzeBatch(gctx, apiKey, batch)
			results[i] = batchResult{analysis: analysis, usage: usage}
			if err != nil {
				appLogger.Error("Lesson batch analysis failed", zap.Int("batch", i+1), zap.Error(err))
				return err
			}
			return nil
		})
	}

	report(dto.StepAnalyzing, "Analyse IA en cours...", 50)

	if err := g.Wait(); err != nil {
		var usage domain.TokenUsage
		for _, r := range results {
			usage.Add(r.usage)
		}
		s.apiKeys.RecordUsage(ctx, user.ID, usage)
		return nil, err
	}

	report(dto.StepSynthesizing, "Génération de la synthèse...", 80)

	resp := mergeAnalyses(results)
	s.apiKeys.RecordUsage(ctx, user.ID, *resp.Usage)

	appLogger.Info("Lesson analysis complete",
		zap.String("userID", user.ID),
		zap.String("title", resp.Title),
		zap.Bool("isMath", resp.IsMathContent),
		zap.Int("totalTokens", resp.Usage.TotalTokens))

	if progress != nil {
		progress(dto.IngestProgress{Step: dto.StepComplete, Message: "Terminé!", Progress: 100, Result: resp})
	}
	return resp, nil
}

func chunkImages(images []string, size int) [][]string {
	batches := make([][]string, 0, (len(images)+size-1)/size)
	for start := 0; start < len(images); start += size {
		end := min(start+size, len(images))
		batches = append(batches, images[start:end])
	}
	return batches
}

func mergeAnalyses(results []batchResult) *dto.AnalyzeResponse {
	resp := &dto.AnalyzeResponse{
		Title:     domain.DefaultLessonTitle,
		Subject:   domain.DefaultLessonSubject,
		StudyTips: []string{},
		Usage:     &domain.TokenUsage{},
	}

	var rawText, synthesis strings.Builder
	seenTips := make(map[string]struct{})
	for i, r := range results {
		resp.Usage.Add(r.usage)
		a := r.analysis
		if a == nil {
			continue
		}
		if i == 0 {
			if t := strings.TrimSpace(a.Title); t != "" {
				resp.Title = t
			}
			if s := strings.TrimSpace(a.Subject); s != "" {
				resp.Subject = s
			}
		}
		fmt.Fprintf(&rawText, "\n\n--- Partie %d ---\n%s", i+1, a.RawText)
		if a.Synthesis != "" {
			synthesis.WriteString("\n")
			synthesis.WriteString(a.Synthesis)
		}
		for _, tip := range a.StudyTips {
			if _, dup := seenTips[tip]; dup || strings.TrimSpace(tip) == "" {
				continue
			}
			seenTips[tip] = struct{}{}
			resp.StudyTips = append(resp.StudyTips, tip)
		}
		if a.IsMathContent || domain.ContainsMathKeyword(a.RawText) {
			resp.IsMathContent = true
		}
	}

	resp.RawText = strings.TrimSpace(rawText.String())
	resp.Synthesis = strings.TrimSpace(synthesis.String())
	resp.MathSafetyTriggered = resp.IsMathContent
	return resp
}
