package llm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reviflow/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeModel struct {
	gotMessages []llms.MessageContent
	gotOptions  llms.CallOptions
	resp        *llms.ContentResponse
	err         error
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.gotMessages = messages
	for _, opt := range options {
		opt(&f.gotOptions)
	}
	return f.resp, f.err
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func TestLangchainClient_Complete(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content:        `{"topic":"Volcans"}`,
		GenerationInfo: map[string]any{"PromptTokens": 120, "CompletionTokens": 30, "TotalTokens": 150},
	}}}}
	var gotKey string
	client := NewLangchainClient(func(apiKey string) (llms.Model, error) {
		gotKey = apiKey
		return model, nil
	}, 4000, time.Second)

	resp, err := client.Complete(context.Background(), "sk-user", domain.LLMRequest{
		SystemPrompt: "system",
		UserPrompt:   "Analyse ces images",
		ImageURLs:    []string{"data:image/jpeg;base64,AAA", "data:image/jpeg;base64,BBB"},
		JSONMode:     true,
	})

	require.NoError(t, err)
	assert.Equal(t, "sk-user", gotKey)
	assert.Equal(t, `{"topic":"Volcans"}`, resp.Content)
	assert.Equal(t, domain.TokenUsage{PromptTokens: 120, CompletionTokens: 30, TotalTokens: 150}, resp.Usage)

	require.Len(t, model.gotMessages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, model.gotMessages[0].Role)
	human := model.gotMessages[1]
	assert.Equal(t, llms.ChatMessageTypeHuman, human.Role)
	require.Len(t, human.Parts, 3)
	assert.Equal(t, llms.TextContent{Text: "Analyse ces images"}, human.Parts[0])
	assert.Equal(t, llms.ImageURLContent{URL: "data:image/jpeg;base64,BBB"}, human.Parts[2])
	assert.Equal(t, 4000, model.gotOptions.MaxTokens)
	assert.True(t, model.gotOptions.JSONMode)
}

func TestLangchainClient_Complete_RequestMaxTokensWins(t *testing.T) {
	model := &fakeModel{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "ok"}}}}
	client := NewLangchainClient(func(string) (llms.Model, error) { return model, nil }, 4000, 0)

	resp, err := client.Complete(context.Background(), "k", domain.LLMRequest{UserPrompt: "p", MaxTokens: 1500})
	require.NoError(t, err)
	assert.Equal(t, 1500, model.gotOptions.MaxTokens)
	assert.False(t, model.gotOptions.JSONMode)
	// No system prompt, only the human message is sent.
	assert.Len(t, model.gotMessages, 1)
	assert.Zero(t, resp.Usage.TotalTokens)
}

func TestLangchainClient_Complete_Errors(t *testing.T) {
	t.Run("model error", func(t *testing.T) {
		model := &fakeModel{err: errors.New("401 unauthorized")}
		client := NewLangchainClient(func(string) (llms.Model, error) { return model, nil }, 0, 0)
		_, err := client.Complete(context.Background(), "k", domain.LLMRequest{UserPrompt: "p"})
		assert.ErrorContains(t, err, "401 unauthorized")
	})

	t.Run("no choices", func(t *testing.T) {
		model := &fakeModel{resp: &llms.ContentResponse{}}
		client := NewLangchainClient(func(string) (llms.Model, error) { return model, nil }, 0, 0)
		_, err := client.Complete(context.Background(), "k", domain.LLMRequest{UserPrompt: "p"})
		assert.ErrorContains(t, err, "no choices")
	})

	t.Run("factory error", func(t *testing.T) {
		client := NewLangchainClient(func(string) (llms.Model, error) { return nil, errors.New("missing token") }, 0, 0)
		_, err := client.Complete(context.Background(), "", domain.LLMRequest{UserPrompt: "p"})
		assert.ErrorContains(t, err, "missing token")
	})
}

func TestUsageFromGenerationInfo_SumsWhenTotalMissing(t *testing.T) {
	usage := usageFromGenerationInfo(map[string]any{"PromptTokens": int64(10), "CompletionTokens": float64(5)})
	assert.Equal(t, domain.TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15}, usage)
	assert.Equal(t, domain.TokenUsage{}, usageFromGenerationInfo(nil))
}

func TestAttributionTransport_SetsHeaders(t *testing.T) {
	var referer, title string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		referer = r.Header.Get("HTTP-Referer")
		title = r.Header.Get("X-Title")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := &http.Client{Transport: &attributionTransport{referer: "https://reviflow.app", title: "Reviflow", base: http.DefaultTransport}}
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "https://reviflow.app", referer)
	assert.Equal(t, "Reviflow", title)
}
