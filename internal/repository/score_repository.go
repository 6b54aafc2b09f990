package repository

import (
	"context"
	"fmt"
	"time"

	"reviflow/internal/domain"
	"reviflow/internal/repository/models"
	"reviflow/internal/util"

	"github.com/jmoiron/sqlx"
)

const scoreColumns = `id, user_id, learner_id, revision_id, topic, score, total_questions, created_at`

// sqlxScoreRepository implements domain.ScoreRepository using sqlx.
type sqlxScoreRepository struct {
	db *sqlx.DB
}

// NewSQLXScoreRepository creates a new instance of sqlxScoreRepository.
func NewSQLXScoreRepository(db *sqlx.DB) domain.ScoreRepository {
	return &sqlxScoreRepository{db: db}
}

func toDomainScore(m *models.Score) *domain.Score {
	return &domain.Score{
		ID:             m.ID,
		UserID:         m.UserID,
		LearnerID:      m.LearnerID.String,
		RevisionID:     m.RevisionID.String,
		Topic:          m.Topic,
		Score:          m.Score,
		TotalQuestions: m.TotalQuestions,
		CreatedAt:      m.CreatedAt,
	}
}

func (r *sqlxScoreRepository) CreateScore(ctx context.Context, score *domain.Score) error {
	if score.ID == "" {
		score.ID = util.NewULID()
	}
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now().UTC()
	}
	m := models.Score{
		ID:             score.ID,
		UserID:         score.UserID,
		LearnerID:      util.StringToNullString(score.LearnerID),
		RevisionID:     util.StringToNullString(score.RevisionID),
		Topic:          score.Topic,
		Score:          score.Score,
		TotalQuestions: score.TotalQuestions,
		CreatedAt:      score.CreatedAt,
	}
	query := `INSERT INTO scores (` + scoreColumns + `)
	          VALUES (:ID, :USER_ID, :LEARNER_ID, :REVISION_ID, :TOPIC, :SCORE, :TOTAL_QUESTIONS, :CREATED_AT)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create score: %w", err)
	}
	return nil
}

func (r *sqlxScoreRepository) ListScores(ctx context.Context, scope domain.OwnerScope) ([]*domain.Score, error) {
	where, args := ownerClause(scope)
	var rows []models.Score
	query := `SELECT ` + scoreColumns + ` FROM scores WHERE ` + where + ` ORDER BY created_at DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	scores := make([]*domain.Score, 0, len(rows))
	for i := range rows {
		scores = append(scores, toDomainScore(&rows[i]))
	}
	return scores, nil
}

func (r *sqlxScoreRepository) DeleteScoresByRevision(ctx context.Context, revisionID string) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM scores WHERE revision_id = :1`, revisionID); err != nil {
		return fmt.Errorf("failed to delete scores: %w", err)
	}
	return nil
}
