package models

import (
	"database/sql"
	"time"
)

// Revision is a stored lesson. Quiz data and progress are JSON CLOBs.
type Revision struct {
	ID              string         `db:"ID"`
	UserID          string         `db:"USER_ID"`
	LearnerID       sql.NullString `db:"LEARNER_ID"`
	Topic           string         `db:"TOPIC"`
	Subject         sql.NullString `db:"SUBJECT"`
	TextContent     sql.NullString `db:"TEXT_CONTENT"`
	Synthesis       sql.NullString `db:"SYNTHESIS"`
	StudyTips       StringSlice    `db:"STUDY_TIPS"`
	QuizData        sql.NullString `db:"QUIZ_DATA"`
	ProgressState   sql.NullString `db:"PROGRESS_STATE"`
	Status          string         `db:"STATUS"`
	CurrentSeries   int            `db:"CURRENT_SERIES"`
	CompletedSeries int            `db:"COMPLETED_SERIES"`
	TotalSeries     int            `db:"TOTAL_SERIES"`
	CreatedAt       time.Time      `db:"CREATED_AT"`
	UpdatedAt       time.Time      `db:"UPDATED_AT"`
}

// Score is one submitted quiz result.
type Score struct {
	ID             string         `db:"ID"`
	UserID         string         `db:"USER_ID"`
	LearnerID      sql.NullString `db:"LEARNER_ID"`
	RevisionID     sql.NullString `db:"REVISION_ID"`
	Topic          string         `db:"TOPIC"`
	Score          int            `db:"SCORE"`
	TotalQuestions int            `db:"TOTAL_QUESTIONS"`
	CreatedAt      time.Time      `db:"CREATED_AT"`
}

// RemediationItem is a row of remediation_queue.
type RemediationItem struct {
	ID              string         `db:"ID"`
	LearnerID       string         `db:"LEARNER_ID"`
	RevisionID      sql.NullString `db:"REVISION_ID"`
	OriginalContent sql.NullString `db:"ORIGINAL_CONTENT"`
	Question        string         `db:"QUESTION"`
	WrongAnswer     sql.NullString `db:"WRONG_ANSWER"`
	CorrectAnswer   string         `db:"CORRECT_ANSWER"`
	Topic           sql.NullString `db:"TOPIC"`
	Status          string         `db:"STATUS"`
	CreatedAt       time.Time      `db:"CREATED_AT"`
}
