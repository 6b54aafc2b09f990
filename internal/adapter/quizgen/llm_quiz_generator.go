package quizgen

import (
	"context"
	"errors"
	"strings"

	"reviflow/internal/domain"
	"reviflow/internal/logger"
	"reviflow/internal/util"

	"go.uber.org/zap"
)

const (
	quizMaxTokens        = 4000
	remediationMaxTokens = 8000
)

// LLMQuizGenerator implements domain.QuizGenerationService on a chat model.
type LLMQuizGenerator struct {
	client domain.LLMClient
}

// NewLLMQuizGenerator creates a new instance of LLMQuizGenerator.
func NewLLMQuizGenerator(client domain.LLMClient) *LLMQuizGenerator {
	return &LLMQuizGenerator{client: client}
}

// GenerateQuiz sizes the quiz from the lesson length and asks the model for
// one series of questions.
func (g *LLMQuizGenerator) GenerateQuiz(ctx context.Context, apiKey string, req domain.QuizGenerationRequest) (*domain.GeneratedQuiz, error) {
	l := logger.Get()

	plan := domain.PlanQuiz(req.Text)
	difficulty := strings.TrimSpace(req.Difficulty)
	if difficulty == "" {
		difficulty = domain.DefaultDifficulty
	}
	series := req.SeriesIndex
	if series < 1 {
		series = 1
	}

	l.Info("Generating quiz",
		zap.Int("text_length", len([]rune(req.Text))),
		zap.Int("num_questions", plan.NumQuestions),
		zap.Int("series", series),
		zap.Int("total_series", plan.TotalSeries))

	resp, err := g.client.Complete(ctx, apiKey, domain.LLMRequest{
		SystemPrompt: buildQuizPrompt(plan.NumQuestions, difficulty, series, plan.TotalSeries),
		UserPrompt:   "Here is the lesson text:\n\n" + req.Text,
		MaxTokens:    quizMaxTokens,
		JSONMode:     true,
	})
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	quiz, err := parseQuiz(resp.Content)
	if err != nil {
		return nil, err
	}
	return &domain.GeneratedQuiz{Quiz: *quiz, TotalSeries: plan.TotalSeries, Usage: resp.Usage}, nil
}

// GenerateRemediationQuiz asks for one new question per missed question.
// The returned topic always marks the quiz as a correction.
func (g *LLMQuizGenerator) GenerateRemediationQuiz(ctx context.Context, apiKey string, items []*domain.RemediationItem, sourceText string) (*domain.GeneratedQuiz, error) {
	if len(items) == 0 {
		return nil, domain.NewInvalidInputError("Not enough errors to generate a quiz.")
	}

	system, user := buildRemediationPrompts(items, sourceText)
	resp, err := g.client.Complete(ctx, apiKey, domain.LLMRequest{
		SystemPrompt: system,
		UserPrompt:   user,
		MaxTokens:    remediationMaxTokens,
		JSONMode:     true,
	})
	if err != nil {
		return nil, domain.NewLLMServiceError(err)
	}

	quiz, err := parseQuiz(resp.Content)
	if err != nil {
		return nil, err
	}
	quiz.Topic = correctionTopic(quiz.Topic, remediationTopics(items))
	return &domain.GeneratedQuiz{Quiz: *quiz, TotalSeries: 1, Usage: resp.Usage}, nil
}

func correctionTopic(topic, fallback string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = fallback
	}
	if domain.IsRemediationTopic(topic) {
		return topic
	}
	return topic + " (Correction)"
}

// parseQuiz recovers the quiz object and keeps only gradable questions.
func parseQuiz(content string) (*domain.Quiz, error) {
	l := logger.Get()

	var quiz domain.Quiz
	repaired, err := util.DecodeLLMJSON(content, &quiz)
	if err != nil {
		l.Error("Failed to parse quiz from LLM response",
			zap.Error(err),
			zap.String("content_head", head(content, 500)),
			zap.String("content_tail", tail(content, 500)))
		return nil, domain.NewLLMBadResponseError(err)
	}
	if repaired {
		l.Warn("LLM quiz JSON was truncated and repaired")
	}

	valid := quiz.Questions[:0]
	for _, q := range quiz.Questions {
		if !q.Valid() {
			l.Warn("Dropping invalid question", zap.String("question", q.Question), zap.Int("options", len(q.Options)))
			continue
		}
		valid = append(valid, q)
	}
	if len(valid) == 0 {
		return nil, domain.NewLLMBadResponseError(errors.New("no valid questions in model output"))
	}
	for i := range valid {
		if valid[i].ID == 0 {
			valid[i].ID = domain.FlexInt(i + 1)
		}
	}
	quiz.Questions = valid
	return &quiz, nil
}

func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

var _ domain.QuizGenerationService = (*LLMQuizGenerator)(nil)
