package quizgen

import (
	"context"
	"encoding/json"
	"strings"

	"reviflow/internal/domain"
	"reviflow/internal/util"
)

const lessonMaxTokens = 8192

// VisionLessonAnalyzer implements domain.LessonAnalyzer with a vision model.
type VisionLessonAnalyzer struct {
	client domain.LLMClient
}

func NewVisionLessonAnalyzer(client domain.LLMClient) *VisionLessonAnalyzer {
	return &VisionLessonAnalyzer{client: client}
}

// ImageDataURL turns a base64 image, with or without a data URL prefix,
// into the JPEG data URL sent to the model.
func ImageDataURL(b64 string) string {
	if i := strings.Index(b64, "base64,"); i != -1 {
		b64 = b64[i+len("base64,"):]
	}
	return "data:image/jpeg;base64," + strings.TrimSpace(b64)
}

// lessonPayload tolerates synthesis and tips sent either as a string or a list.
type lessonPayload struct {
	Title         string          `json:"title"`
	Subject       string          `json:"subject"`
	RawText       string          `json:"raw_text"`
	Synthesis     json.RawMessage `json:"synthesis"`
	StudyTips     json.RawMessage `json:"study_tips"`
	IsMathContent bool            `json:"is_math_content"`
}

func flexibleLines(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var s string
	if json.Unmarshal(raw, &s) == nil && s != "" {
		return []string{s}
	}
	return nil
}

// AnalyzeBatch extracts one batch of pages.
func (a *VisionLessonAnalyzer) AnalyzeBatch(ctx context.Context, apiKey string, images []string) (*domain.LessonAnalysis, domain.TokenUsage, error) {
	urls := make([]string, 0, len(images))
	for _, img := range images {
		urls = append(urls, ImageDataURL(img))
	}

	resp, err := a.client.Complete(ctx, apiKey, domain.LLMRequest{
		SystemPrompt: lessonSystemPrompt,
		UserPrompt:   lessonUserPrompt,
		ImageURLs:    urls,
		MaxTokens:    lessonMaxTokens,
		JSONMode:     true,
	})
	if err != nil {
		return nil, domain.TokenUsage{}, domain.NewLLMServiceError(err)
	}

	var payload lessonPayload
	if _, err := util.DecodeLLMJSON(resp.Content, &payload); err != nil {
		return nil, resp.Usage, domain.NewLLMBadResponseError(err)
	}

	return &domain.LessonAnalysis{
		Title:         strings.TrimSpace(payload.Title),
		Subject:       strings.TrimSpace(payload.Subject),
		RawText:       payload.RawText,
		Synthesis:     strings.Join(flexibleLines(payload.Synthesis), "\n"),
		StudyTips:     flexibleLines(payload.StudyTips),
		IsMathContent: payload.IsMathContent,
	}, resp.Usage, nil
}

var _ domain.LessonAnalyzer = (*VisionLessonAnalyzer)(nil)
