package domain

import (
	"strings"
	"time"
)

// Score is one submitted quiz result.
type Score struct {
	ID             string
	UserID         string
	LearnerID      string
	RevisionID     string
	Topic          string
	Score          int
	TotalQuestions int
	CreatedAt      time.Time
}

// Ratio returns score/total, or 0 for an empty quiz.
func (s *Score) Ratio() float64 {
	if s.TotalQuestions <= 0 {
		return 0
	}
	return float64(s.Score) / float64(s.TotalQuestions)
}

// AnswerDetail is the per-question outcome sent with a score.
type AnswerDetail struct {
	Question        string
	UserAnswer      string
	CorrectAnswer   string
	IsCorrect       bool
	OriginalContent string
}

// RemediationStatus tracks a missed question through the remediation queue.
type RemediationStatus string

const (
	RemediationPending  RemediationStatus = "PENDING"
	RemediationReviewed RemediationStatus = "REVIEWED"
	RemediationMastered RemediationStatus = "MASTERED"
)

// RemediationItem is a previously missed question waiting to be recycled.
type RemediationItem struct {
	ID              string
	LearnerID       string
	RevisionID      string
	OriginalContent string
	Question        string
	WrongAnswer     string
	CorrectAnswer   string
	Topic           string
	Status          RemediationStatus
	CreatedAt       time.Time
}

// IsRemediationTopic reports whether a quiz topic marks a remediation quiz.
func IsRemediationTopic(topic string) bool {
	t := strings.ToLower(topic)
	return strings.Contains(t, "remedia") || strings.Contains(t, "remédia") || strings.Contains(t, "correct")
}
