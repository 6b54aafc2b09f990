package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"reviflow/internal/domain"
	"reviflow/internal/repository/models"
	"reviflow/internal/util"

	"github.com/jmoiron/sqlx"
)

const revisionColumns = `id, user_id, learner_id, topic, subject, text_content, synthesis, study_tips, quiz_data,
	progress_state, status, current_series, completed_series, total_series, created_at, updated_at`

// sqlxRevisionRepository implements domain.RevisionRepository using sqlx.
type sqlxRevisionRepository struct {
	db *sqlx.DB
}

// NewSQLXRevisionRepository creates a new instance of sqlxRevisionRepository.
func NewSQLXRevisionRepository(db *sqlx.DB) domain.RevisionRepository {
	return &sqlxRevisionRepository{db: db}
}

func toDomainRevision(m *models.Revision) (*domain.Revision, error) {
	if m == nil {
		return nil, nil
	}
	rev := &domain.Revision{
		ID:              m.ID,
		UserID:          m.UserID,
		LearnerID:       m.LearnerID.String,
		Topic:           m.Topic,
		Subject:         m.Subject.String,
		TextContent:     m.TextContent.String,
		Synthesis:       m.Synthesis.String,
		StudyTips:       []string(m.StudyTips),
		Status:          domain.RevisionStatus(m.Status),
		CurrentSeries:   m.CurrentSeries,
		CompletedSeries: m.CompletedSeries,
		TotalSeries:     m.TotalSeries,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.QuizData.Valid && m.QuizData.String != "" {
		rev.QuizData = &domain.Quiz{}
		if err := util.NullStringToJSON(m.QuizData, rev.QuizData); err != nil {
			return nil, fmt.Errorf("failed to decode quiz data of revision %s: %w", m.ID, err)
		}
	}
	if m.ProgressState.Valid && m.ProgressState.String != "" {
		rev.ProgressState = &domain.ProgressState{}
		if err := util.NullStringToJSON(m.ProgressState, rev.ProgressState); err != nil {
			return nil, fmt.Errorf("failed to decode progress of revision %s: %w", m.ID, err)
		}
	}
	return rev, nil
}

func fromDomainRevision(r *domain.Revision) (*models.Revision, error) {
	if r == nil {
		return nil, nil
	}
	quizData, err := util.JSONToNullString(r.QuizData)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quiz data: %w", err)
	}
	progress, err := util.JSONToNullString(r.ProgressState)
	if err != nil {
		return nil, fmt.Errorf("failed to encode progress state: %w", err)
	}
	return &models.Revision{
		ID:              r.ID,
		UserID:          r.UserID,
		LearnerID:       util.StringToNullString(r.LearnerID),
		Topic:           r.Topic,
		Subject:         util.StringToNullString(r.Subject),
		TextContent:     util.StringToNullString(r.TextContent),
		Synthesis:       util.StringToNullString(r.Synthesis),
		StudyTips:       models.StringSlice(r.StudyTips),
		QuizData:        quizData,
		ProgressState:   progress,
		Status:          string(r.Status),
		CurrentSeries:   r.CurrentSeries,
		CompletedSeries: r.CompletedSeries,
		TotalSeries:     r.TotalSeries,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

func (r *sqlxRevisionRepository) CreateRevision(ctx context.Context, rev *domain.Revision) error {
	if rev.ID == "" {
		rev.ID = util.NewULID()
	}
	now := time.Now().UTC()
	rev.CreatedAt = now
	rev.UpdatedAt = now

	m, err := fromDomainRevision(rev)
	if err != nil {
		return err
	}
	query := `INSERT INTO revisions (` + revisionColumns + `)
	          VALUES (:ID, :USER_ID, :LEARNER_ID, :TOPIC, :SUBJECT, :TEXT_CONTENT, :SYNTHESIS, :STUDY_TIPS, :QUIZ_DATA,
	          :PROGRESS_STATE, :STATUS, :CURRENT_SERIES, :COMPLETED_SERIES, :TOTAL_SERIES, :CREATED_AT, :UPDATED_AT)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create revision: %w", err)
	}
	return nil
}

func (r *sqlxRevisionRepository) GetRevisionByID(ctx context.Context, id string) (*domain.Revision, error) {
	var m models.Revision
	query := `SELECT ` + revisionColumns + ` FROM revisions WHERE id = :1`
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get revision by id %s: %w", id, err)
	}
	return toDomainRevision(&m)
}

// UpdateRevision writes content, quiz, progress and series state.
func (r *sqlxRevisionRepository) UpdateRevision(ctx context.Context, rev *domain.Revision) error {
	rev.UpdatedAt = time.Now().UTC()
	m, err := fromDomainRevision(rev)
	if err != nil {
		return err
	}
	query := `UPDATE revisions SET
	            topic = :TOPIC,
	            subject = :SUBJECT,
	            synthesis = :SYNTHESIS,
	            study_tips = :STUDY_TIPS,
	            quiz_data = :QUIZ_DATA,
	            progress_state = :PROGRESS_STATE,
	            status = :STATUS,
	            current_series = :CURRENT_SERIES,
	            completed_series = :COMPLETED_SERIES,
	            total_series = :TOTAL_SERIES,
	            updated_at = :UPDATED_AT
	          WHERE id = :ID`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to update revision: %w", err)
	}
	return nil
}

func (r *sqlxRevisionRepository) DeleteRevision(ctx context.Context, id string) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM revisions WHERE id = :1`, id); err != nil {
		return fmt.Errorf("failed to delete revision: %w", err)
	}
	return nil
}

func (r *sqlxRevisionRepository) ListRevisions(ctx context.Context, scope domain.OwnerScope) ([]*domain.Revision, error) {
	where, args := ownerClause(scope)
	var rows []models.Revision
	query := `SELECT ` + revisionColumns + ` FROM revisions WHERE ` + where + ` ORDER BY created_at DESC`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	revisions := make([]*domain.Revision, 0, len(rows))
	for i := range rows {
		rev, err := toDomainRevision(&rows[i])
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, rev)
	}
	return revisions, nil
}
