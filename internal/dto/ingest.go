package dto

import "reviflow/internal/domain"

// AnalyzeRequest carries lesson pages as base64 images, with or without a
// data URL prefix.
type AnalyzeRequest struct {
	ImagesBase64 []string `json:"images_base64" validate:"required,min=1,dive,required"`
	LearnerID    string   `json:"learner_id,omitempty"`
}

// AnalyzeResponse is the merged extraction of every page batch.
type AnalyzeResponse struct {
	Title               string             `json:"title"`
	Subject             string             `json:"subject"`
	RawText             string             `json:"raw_text"`
	Synthesis           string             `json:"synthesis"`
	StudyTips           []string           `json:"study_tips"`
	IsMathContent       bool               `json:"is_math_content"`
	MathSafetyTriggered bool               `json:"math_safety_triggered"`
	Usage               *domain.TokenUsage `json:"usage,omitempty"`
}

// IngestProgress is one Server-Sent Event of the streaming analysis.
type IngestProgress struct {
	Step     string           `json:"step"`
	Message  string           `json:"message"`
	Progress int              `json:"progress"`
	Result   *AnalyzeResponse `json:"result,omitempty"`
}

// Streaming analysis steps.
const (
	StepUploading    = "uploading"
	StepReading      = "reading"
	StepAnalyzing    = "analyzing"
	StepSynthesizing = "synthesizing"
	StepComplete     = "complete"
	StepError        = "error"
)
