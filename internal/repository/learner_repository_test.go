package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"reviflow/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLXLearnerRepository_ListProfilesByParent(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLearnerRepository(db)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"ID", "USER_ID", "FIRST_NAME", "AVATAR_URL", "STREAK_CURRENT", "STREAK_MAX",
		"LAST_ACTIVITY_DATE", "XP", "LEARNER_LEVEL", "CREATED_AT", "UPDATED_AT"}).
		AddRow("lp-1", "child-1", "Léa", nil, 3, 5, now, 120, 2, now, now).
		AddRow("lp-2", "child-2", "Tom", "https://img/tom.png", 0, 0, nil, 0, 1, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE u.parent_id = :1`)).
		WithArgs("parent-1").
		WillReturnRows(rows)

	profiles, err := repo.ListProfilesByParent(context.Background(), "parent-1")

	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, 120, profiles[0].XP)
	assert.Equal(t, 2, profiles[0].Level)
	require.NotNil(t, profiles[0].LastActivity)
	assert.Nil(t, profiles[1].LastActivity)
	assert.Equal(t, "https://img/tom.png", profiles[1].AvatarURL)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXLearnerRepository_CreateProfile_DefaultsLevel(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLearnerRepository(db)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO learner_profiles`)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	profile := &domain.LearnerProfile{UserID: "child-1", FirstName: "Léa"}
	require.NoError(t, repo.CreateProfile(context.Background(), profile))
	assert.Equal(t, 1, profile.Level)
	assert.NotEmpty(t, profile.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXLearnerRepository_UpdateProfile(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLearnerRepository(db)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE learner_profiles SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := &domain.LearnerProfile{ID: "lp-1", UserID: "child-1", FirstName: "Léa", XP: 42, Level: 1}
	require.NoError(t, repo.UpdateProfile(context.Background(), profile))
	assert.False(t, profile.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXLearnerRepository_AddBadge_DuplicateIsIgnored(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLearnerRepository(db)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO learner_badges`)).
		WillReturnError(errors.New("ORA-00001: unique constraint (REVIFLOW.UQ_LEARNER_BADGES_CODE) violated"))

	err := repo.AddBadge(context.Background(), &domain.Badge{LearnerID: "lp-1", BadgeCode: domain.BadgeFirstSteps})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLXLearnerRepository_ListBadges(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewSQLXLearnerRepository(db)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`FROM learner_badges WHERE learner_id = :1`)).
		WithArgs("lp-1").
		WillReturnRows(sqlmock.NewRows([]string{"ID", "LEARNER_ID", "BADGE_CODE", "EARNED_AT"}).
			AddRow("b1", "lp-1", domain.BadgeFirstSteps, now).
			AddRow("b2", "lp-1", domain.BadgeOnFire, now))

	badges, err := repo.ListBadges(context.Background(), "lp-1")
	require.NoError(t, err)
	require.Len(t, badges, 2)
	assert.Equal(t, domain.BadgeOnFire, badges[1].BadgeCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
