package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"reviflow/internal/config"
	"reviflow/internal/domain"
	"reviflow/internal/logger"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// ModelFactory builds a chat model bound to one caller's API key.
type ModelFactory func(apiKey string) (llms.Model, error)

// LangchainClient implements domain.LLMClient on top of langchaingo models.
type LangchainClient struct {
	newModel  ModelFactory
	maxTokens int
	timeout   time.Duration
}

// NewLangchainClient wraps a model factory. Zero maxTokens leaves the
// provider default; zero timeout disables the per-call deadline.
func NewLangchainClient(factory ModelFactory, maxTokens int, timeout time.Duration) *LangchainClient {
	return &LangchainClient{newModel: factory, maxTokens: maxTokens, timeout: timeout}
}

// NewClient selects the provider configured in cfg.
func NewClient(cfg config.LLMConfig) (*LangchainClient, error) {
	switch cfg.Provider {
	case "", "openrouter":
		return NewLangchainClient(OpenRouterFactory(cfg), cfg.MaxTokens, cfg.Timeout), nil
	case "ollama":
		return NewLangchainClient(OllamaFactory(cfg), cfg.MaxTokens, cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// OpenRouterFactory talks to OpenRouter's OpenAI-compatible endpoint.
func OpenRouterFactory(cfg config.LLMConfig) ModelFactory {
	httpClient := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &attributionTransport{referer: cfg.Referer, title: cfg.Title, base: http.DefaultTransport},
	}
	return func(apiKey string) (llms.Model, error) {
		return openai.New(
			openai.WithToken(apiKey),
			openai.WithModel(cfg.Model),
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithHTTPClient(httpClient),
		)
	}
}

// OllamaFactory serves a local model; the API key is not used.
func OllamaFactory(cfg config.LLMConfig) ModelFactory {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return func(string) (llms.Model, error) {
		return ollama.New(
			ollama.WithServerURL(cfg.OllamaServerURL),
			ollama.WithModel(cfg.Model),
			ollama.WithHTTPClient(httpClient),
		)
	}
}

// attributionTransport adds the app attribution headers OpenRouter expects.
type attributionTransport struct {
	referer string
	title   string
	base    http.RoundTripper
}

func (t *attributionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.referer != "" {
		req.Header.Set("HTTP-Referer", t.referer)
	}
	if t.title != "" {
		req.Header.Set("X-Title", t.title)
	}
	return t.base.RoundTrip(req)
}

// Complete sends one system+user exchange, with optional images, and returns
// the first choice together with the usage the provider reported.
func (c *LangchainClient) Complete(ctx context.Context, apiKey string, req domain.LLMRequest) (*domain.LLMResponse, error) {
	l := logger.Named("llm")

	model, err := c.newModel(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create llm client: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	messages := make([]llms.MessageContent, 0, 2)
	if req.SystemPrompt != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt))
	}
	parts := []llms.ContentPart{llms.TextContent{Text: req.UserPrompt}}
	for _, url := range req.ImageURLs {
		parts = append(parts, llms.ImageURLContent{URL: url})
	}
	messages = append(messages, llms.MessageContent{Role: llms.ChatMessageTypeHuman, Parts: parts})

	opts := []llms.CallOption{llms.WithTemperature(0.3)}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.maxTokens
	}
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}
	if req.JSONMode {
		opts = append(opts, llms.WithJSONMode())
	}

	start := time.Now()
	resp, err := model.GenerateContent(ctx, messages, opts...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			l.Error("LLM request timed out", zap.Error(err))
			return nil, fmt.Errorf("LLM request timed out: %w", err)
		}
		l.Error("Failed to get response from LLM", zap.Error(err))
		return nil, fmt.Errorf("LLM call failed: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return nil, errors.New("LLM returned no choices")
	}

	choice := resp.Choices[0]
	usage := usageFromGenerationInfo(choice.GenerationInfo)
	l.Debug("LLM call completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int("images", len(req.ImageURLs)),
		zap.Int("total_tokens", usage.TotalTokens),
		zap.String("stop_reason", choice.StopReason))

	return &domain.LLMResponse{Content: choice.Content, Usage: usage}, nil
}

func usageFromGenerationInfo(info map[string]any) domain.TokenUsage {
	usage := domain.TokenUsage{
		PromptTokens:     intFromInfo(info, "PromptTokens"),
		CompletionTokens: intFromInfo(info, "CompletionTokens"),
		TotalTokens:      intFromInfo(info, "TotalTokens"),
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
	return usage
}

func intFromInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
