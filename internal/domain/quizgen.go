package domain

import "context"

// LLMRequest is a single chat completion call. ImageURLs are data URLs.
type LLMRequest struct {
	SystemPrompt string
	UserPrompt   string
	ImageURLs    []string
	MaxTokens    int
	JSONMode     bool
}

// LLMResponse carries the raw model output and the usage it reported.
type LLMResponse struct {
	Content string
	Usage   TokenUsage
}

// LLMClient calls a chat completion model on behalf of the owner of apiKey.
type LLMClient interface {
	Complete(ctx context.Context, apiKey string, req LLMRequest) (*LLMResponse, error)
}

// APIKeyValidator checks a provider key against the provider's API.
type APIKeyValidator interface {
	// ValidateKey returns (true, "") for a working key, (false, reason) for a
	// rejected one, and an error when the provider could not be reached.
	ValidateKey(ctx context.Context, apiKey string) (bool, string, error)
}

// QuizGenerationRequest describes one series of a lesson quiz.
type QuizGenerationRequest struct {
	Text        string
	Difficulty  string
	SeriesIndex int
}

// GeneratedQuiz is a parsed model answer together with its cost.
type GeneratedQuiz struct {
	Quiz        Quiz
	TotalSeries int
	Usage       TokenUsage
}

// QuizGenerationService turns lesson text or missed questions into quizzes.
type QuizGenerationService interface {
	GenerateQuiz(ctx context.Context, apiKey string, req QuizGenerationRequest) (*GeneratedQuiz, error)
	GenerateRemediationQuiz(ctx context.Context, apiKey string, items []*RemediationItem, sourceText string) (*GeneratedQuiz, error)
}

// LessonAnalyzer extracts structured lesson content from page images.
type LessonAnalyzer interface {
	AnalyzeBatch(ctx context.Context, apiKey string, images []string) (*LessonAnalysis, TokenUsage, error)
}
