package dto

import (
	"encoding/json"
	"time"

	"reviflow/internal/domain"
)

// GenerateQuizRequest creates a revision from lesson text.
// @Description Request body for quiz generation
type GenerateQuizRequest struct {
	TextContent string   `json:"text_content" validate:"required"`
	Title       string   `json:"title,omitempty"`
	Subject     string   `json:"subject,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
	LearnerID   string   `json:"learner_id,omitempty"`
	Synthesis   string   `json:"synthesis,omitempty"`
	StudyTips   []string `json:"study_tips,omitempty"`
}

// QuizResponse is a quiz as served to the client.
type QuizResponse struct {
	Topic      string             `json:"topic"`
	Questions  []domain.Question  `json:"questions"`
	RevisionID string             `json:"revision_id,omitempty"`
	SeriesInfo *domain.SeriesInfo `json:"series_info,omitempty"`
}

// QuestionResult is the outcome of one answered question.
type QuestionResult struct {
	Question        string `json:"question"`
	UserAnswer      string `json:"user_answer"`
	CorrectAnswer   string `json:"correct_answer"`
	IsCorrect       bool   `json:"is_correct"`
	OriginalContent string `json:"original_content,omitempty"`
}

// ScoreRequest submits a finished quiz.
type ScoreRequest struct {
	Topic          string           `json:"topic" validate:"required"`
	Score          int              `json:"score" validate:"min=0"`
	TotalQuestions int              `json:"total_questions" validate:"min=0"`
	LearnerID      string           `json:"learner_id,omitempty"`
	RevisionID     string           `json:"revision_id,omitempty"`
	CurrentSeries  int              `json:"current_series,omitempty" validate:"min=0"`
	Details        []QuestionResult `json:"details,omitempty" validate:"dive"`
}

type ScoreResponse struct {
	ID             string    `json:"id"`
	Status         string    `json:"status"`
	Topic          string    `json:"topic"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
	LearnerID      string    `json:"learner_id,omitempty"`
	RevisionID     string    `json:"revision_id,omitempty"`
	NewBadges      []string  `json:"new_badges"`
	XP             int       `json:"xp"`
	Level          int       `json:"level"`
	LevelUp        bool      `json:"level_up"`
	Streak         int       `json:"streak"`
}

// ScoreHistoryItem is one entry of the score history.
type ScoreHistoryItem struct {
	ID             string    `json:"id"`
	Topic          string    `json:"topic"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"total_questions"`
	CreatedAt      time.Time `json:"created_at"`
	LearnerID      string    `json:"learner_id,omitempty"`
	RevisionID     string    `json:"revision_id,omitempty"`
}

type SaveProgressRequest struct {
	RevisionID   string          `json:"revision_id" validate:"required"`
	CurrentIndex int             `json:"current_index" validate:"min=0"`
	Answers      json.RawMessage `json:"answers"`
	Score        int             `json:"score" validate:"min=0"`
}

// RevisionActionRequest targets a revision for next-series and reset.
type RevisionActionRequest struct {
	RevisionID string `json:"revision_id" validate:"required"`
	Difficulty string `json:"difficulty,omitempty" validate:"omitempty,oneof=easy medium hard"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	DeletedID string `json:"deleted_id,omitempty"`
}

// RevisionResponse is a stored lesson with its quiz and series state.
type RevisionResponse struct {
	ID              string                `json:"id"`
	UserID          string                `json:"user_id"`
	LearnerID       string                `json:"learner_id,omitempty"`
	Topic           string                `json:"topic"`
	Subject         string                `json:"subject,omitempty"`
	TextContent     string                `json:"text_content"`
	Synthesis       string                `json:"synthesis,omitempty"`
	StudyTips       []string              `json:"study_tips"`
	QuizData        *domain.Quiz          `json:"quiz_data,omitempty"`
	ProgressState   *domain.ProgressState `json:"progress_state,omitempty"`
	Status          string                `json:"status"`
	CurrentSeries   int                   `json:"current_series"`
	CompletedSeries int                   `json:"completed_series"`
	TotalSeries     int                   `json:"total_series"`
	PendingErrors   int                   `json:"pending_errors"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

type RemediationCountResponse struct {
	Count int `json:"count"`
}

// RemediationRequest asks for a quiz built from pending mistakes.
type RemediationRequest struct {
	LearnerID  string `json:"learner_id,omitempty"`
	RevisionID string `json:"revision_id,omitempty"`
}
