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

const remediationColumns = `id, learner_id, revision_id, original_content, question, wrong_answer, correct_answer,
	topic, status, created_at`

// sqlxRemediationRepository implements domain.RemediationRepository using sqlx.
type sqlxRemediationRepository struct {
	db *sqlx.DB
}

// NewSQLXRemediationRepository creates a new instance of sqlxRemediationRepository.
func NewSQLXRemediationRepository(db *sqlx.DB) domain.RemediationRepository {
	return &sqlxRemediationRepository{db: db}
}

func toDomainRemediationItem(m *models.RemediationItem) *domain.RemediationItem {
	return &domain.RemediationItem{
		ID:              m.ID,
		LearnerID:       m.LearnerID,
		RevisionID:      m.RevisionID.String,
		OriginalContent: m.OriginalContent.String,
		Question:        m.Question,
		WrongAnswer:     m.WrongAnswer.String,
		CorrectAnswer:   m.CorrectAnswer,
		Topic:           m.Topic.String,
		Status:          domain.RemediationStatus(m.Status),
		CreatedAt:       m.CreatedAt,
	}
}

// pendingClause selects PENDING items of a learner, optionally of one revision.
func pendingClause(learnerID, revisionID string) (string, []interface{}) {
	if revisionID != "" {
		return "learner_id = :1 AND status = :2 AND revision_id = :3",
			[]interface{}{learnerID, string(domain.RemediationPending), revisionID}
	}
	return "learner_id = :1 AND status = :2", []interface{}{learnerID, string(domain.RemediationPending)}
}

func (r *sqlxRemediationRepository) CreateItem(ctx context.Context, item *domain.RemediationItem) error {
	if item.ID == "" {
		item.ID = util.NewULID()
	}
	if item.Status == "" {
		item.Status = domain.RemediationPending
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	m := models.RemediationItem{
		ID:              item.ID,
		LearnerID:       item.LearnerID,
		RevisionID:      util.StringToNullString(item.RevisionID),
		OriginalContent: util.StringToNullString(item.OriginalContent),
		Question:        item.Question,
		WrongAnswer:     util.StringToNullString(item.WrongAnswer),
		CorrectAnswer:   item.CorrectAnswer,
		Topic:           util.StringToNullString(item.Topic),
		Status:          string(item.Status),
		CreatedAt:       item.CreatedAt,
	}
	query := `INSERT INTO remediation_queue (` + remediationColumns + `)
	          VALUES (:ID, :LEARNER_ID, :REVISION_ID, :ORIGINAL_CONTENT, :QUESTION, :WRONG_ANSWER, :CORRECT_ANSWER,
	          :TOPIC, :STATUS, :CREATED_AT)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, m); err != nil {
		return fmt.Errorf("failed to create remediation item: %w", err)
	}
	return nil
}

func (r *sqlxRemediationRepository) ListPending(ctx context.Context, learnerID, revisionID string, limit int) ([]*domain.RemediationItem, error) {
	where, args := pendingClause(learnerID, revisionID)
	query := `SELECT ` + remediationColumns + ` FROM remediation_queue WHERE ` + where + ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(" FETCH FIRST %d ROWS ONLY", limit)
	}
	var rows []models.RemediationItem
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list remediation items: %w", err)
	}
	items := make([]*domain.RemediationItem, 0, len(rows))
	for i := range rows {
		items = append(items, toDomainRemediationItem(&rows[i]))
	}
	return items, nil
}

func (r *sqlxRemediationRepository) CountPending(ctx context.Context, learnerID, revisionID string) (int, error) {
	where, args := pendingClause(learnerID, revisionID)
	var count int
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &count, `SELECT COUNT(*) FROM remediation_queue WHERE `+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count remediation items: %w", err)
	}
	return count, nil
}

func (r *sqlxRemediationRepository) CountPendingByRevision(ctx context.Context, learnerID string) (map[string]int, error) {
	var rows []struct {
		RevisionID string `db:"REVISION_ID"`
		Cnt        int    `db:"CNT"`
	}
	query := `SELECT revision_id, COUNT(*) AS cnt FROM remediation_queue
	          WHERE learner_id = :1 AND status = :2 AND revision_id IS NOT NULL
	          GROUP BY revision_id`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, learnerID, string(domain.RemediationPending)); err != nil {
		return nil, fmt.Errorf("failed to count remediation items by revision: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.RevisionID] = row.Cnt
	}
	return counts, nil
}

func (r *sqlxRemediationRepository) MarkPendingReviewed(ctx context.Context, learnerID, revisionID string) (int64, error) {
	// Oracle binds by position, so the new status comes first.
	query := `UPDATE remediation_queue SET status = :1 WHERE learner_id = :2 AND status = :3`
	args := []interface{}{string(domain.RemediationReviewed), learnerID, string(domain.RemediationPending)}
	if revisionID != "" {
		query += ` AND revision_id = :4`
		args = append(args, revisionID)
	}
	res, err := GetExecutor(ctx, r.db).ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark remediation items reviewed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return n, nil
}

func (r *sqlxRemediationRepository) DeleteItemsByRevision(ctx context.Context, revisionID string) error {
	if _, err := GetExecutor(ctx, r.db).ExecContext(ctx, `DELETE FROM remediation_queue WHERE revision_id = :1`, revisionID); err != nil {
		return fmt.Errorf("failed to delete remediation items: %w", err)
	}
	return nil
}
