package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"reviflow/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func revisionRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"ID", "USER_ID", "LEARNER_ID", "TOPIC", "SUBJECT", "TEXT_CONTENT", "SYNTHESIS", "STUDY_TIPS",
		"QUIZ_DATA", "PROGRESS_STATE", "STATUS", "CURRENT_SERIES", "COMPLETED_SERIES", "TOTAL_SERIES", "CREATED_AT", "UPDATED_AT"})
}

func TestRevisionConverters_RoundTripJSONColumns(t *testing.T) {
	rev := &domain.Revision{
		ID:        "rev-1",
		UserID:    "user-1",
		Topic:     "Les volcans",
		StudyTips: []string{"Faire un schéma"},
		QuizData: &domain.Quiz{Topic: "Les volcans", Questions: []domain.Question{
			{ID: 1, Question: "Q?", Options: []string{"a", "b"}, CorrectAnswer: 1},
		}},
		Status:        domain.RevisionStatusNew,
		CurrentSeries: 1,
		TotalSeries:   2,
	}

	m, err := fromDomainRevision(rev)
	require.NoError(t, err)
	assert.True(t, m.QuizData.Valid)
	assert.False(t, m.ProgressState.Valid)
	assert.False(t, m.LearnerID.Valid)

	back, err := toDomainRevision(m)
	require.NoError(t, err)
	require.NotNil(t, back.QuizData)
	assert.Equal(t, rev.QuizData.Questions, back.QuizData.Questions)
	assert.Nil(t, back.ProgressState)
	assert.Equal(t, []string{"Faire un schéma"}, back.StudyTips)
}

func TestSQLXRevisionRepository_GetRevisionByID(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXRevisionRepository(db)
	defer db.Close()

	now := time.Now()
	quiz := `{"topic":"Fractions","questions":[{"id":1,"question":"1/2 + 1/2 ?","options":["1","2"],"correct_answer":0,"explanation":""}]}`
	progress := `{"current_index":2,"answers":{"0":1},"score":1,"timestamp":"2026-03-10T10:00:00Z"}`
	mock.ExpectQuery(regexp.QuoteMeta(`FROM revisions WHERE id = :1`)).
		WithArgs("rev-1").
		WillReturnRows(revisionRows().AddRow("rev-1", "user-1", "lp-1", "Fractions", "Mathématiques", "texte", "synthèse",
			`["Relire"]`, quiz, progress, "IN_PROGRESS", 1, 0, 2, now, now))

	rev, err := repo.GetRevisionByID(context.Background(), "rev-1")

	require.NoError(t, err)
	require.NotNil(t, rev)
	assert.Equal(t, "lp-1", rev.LearnerID)
	assert.Equal(t, domain.RevisionStatusInProgress, rev.Status)
	require.NotNil(t, rev.QuizData)
	assert.Len(t, rev.QuizData.Questions, 1)
	require.NotNil(t, rev.ProgressState)
	assert.Equal(t, 2, rev.ProgressState.CurrentIndex)
	assert.JSONEq(t, `{"0":1}`, string(rev.ProgressState.Answers))
	assert.True(t, rev.HasNextSeries())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXRevisionRepository_GetRevisionByID_BadQuizJSON(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXRevisionRepository(db)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM revisions WHERE id = :1`)).
		WithArgs("rev-1").
		WillReturnRows(revisionRows().AddRow("rev-1", "user-1", nil, "T", nil, nil, nil, nil, "{not json", nil, "NEW", 1, 0, 1, now, now))

	rev, err := repo.GetRevisionByID(context.Background(), "rev-1")
	assert.Error(t, err)
	assert.Nil(t, rev)
}

func TestSQLXRevisionRepository_ListRevisions_Scopes(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXRevisionRepository(db)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM revisions WHERE learner_id = :1 ORDER BY created_at DESC`)).
		WithArgs("lp-1").
		WillReturnRows(revisionRows().AddRow("rev-2", "user-1", "lp-1", "B", nil, nil, nil, nil, nil, nil, "NEW", 1, 0, 1, now, now))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM revisions WHERE user_id = :1 AND learner_id IS NULL ORDER BY created_at DESC`)).
		WithArgs("user-1").
		WillReturnRows(revisionRows())

	learnerRevs, err := repo.ListRevisions(context.Background(), domain.OwnerScope{UserID: "user-1", LearnerID: "lp-1"})
	require.NoError(t, err)
	require.Len(t, learnerRevs, 1)
	assert.Nil(t, learnerRevs[0].QuizData)

	ownRevs, err := repo.ListRevisions(context.Background(), domain.OwnerScope{UserID: "user-1"})
	require.NoError(t, err)
	assert.Empty(t, ownRevs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXRevisionRepository_CreateAndUpdate(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXRevisionRepository(db)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO revisions`)).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE revisions SET`)).WillReturnResult(sqlmock.NewResult(0, 1))

	rev := &domain.Revision{UserID: "user-1", Topic: "T", Status: domain.RevisionStatusNew, CurrentSeries: 1, TotalSeries: 1}
	require.NoError(t, repo.CreateRevision(context.Background(), rev))
	assert.NotEmpty(t, rev.ID)

	rev.Status = domain.RevisionStatusInProgress
	rev.ProgressState = &domain.ProgressState{CurrentIndex: 1}
	require.NoError(t, repo.UpdateRevision(context.Background(), rev))
	assert.NoError(t, mock.ExpectationsWereMet())
}
