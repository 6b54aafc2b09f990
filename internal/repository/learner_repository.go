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

const learnerColumns = `id, user_id, first_name, avatar_url, streak_current, streak_max, last_activity_date,
	xp, learner_level, created_at, updated_at`

// sqlxLearnerRepository implements domain.LearnerRepository using sqlx.
type sqlxLearnerRepository struct {
	db *sqlx.DB
}

// NewSQLXLearnerRepository creates a new instance of sqlxLearnerRepository.
func NewSQLXLearnerRepository(db *sqlx.DB) domain.LearnerRepository {
	return &sqlxLearnerRepository{db: db}
}

func toDomainLearnerProfile(m *models.LearnerProfile) *domain.LearnerProfile {
	if m == nil {
		return nil
	}
	return &domain.LearnerProfile{
		ID:            m.ID,
		UserID:        m.UserID,
		FirstName:     m.FirstName,
		AvatarURL:     m.AvatarURL.String,
		StreakCurrent: m.StreakCurrent,
		StreakMax:     m.StreakMax,
		LastActivity:  util.NullTimeToPtr(m.LastActivityDate),
		XP:            m.XP,
		Level:         m.LearnerLevel,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromDomainLearnerProfile(p *domain.LearnerProfile) *models.LearnerProfile {
	if p == nil {
		return nil
	}
	return &models.LearnerProfile{
		ID:               p.ID,
		UserID:           p.UserID,
		FirstName:        p.FirstName,
		AvatarURL:        util.StringToNullString(p.AvatarURL),
		StreakCurrent:    p.StreakCurrent,
		StreakMax:        p.StreakMax,
		LastActivityDate: util.TimePtrToNullTime(p.LastActivity),
		XP:               p.XP,
		LearnerLevel:     p.Level,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (r *sqlxLearnerRepository) CreateProfile(ctx context.Context, profile *domain.LearnerProfile) error {
	if profile.ID == "" {
		profile.ID = util.NewULID()
	}
	if profile.Level < 1 {
		profile.Level = 1
	}
	now := time.Now().UTC()
	profile.CreatedAt = now
	profile.UpdatedAt = now

	query := `INSERT INTO learner_profiles (` + learnerColumns + `)
	          VALUES (:ID, :USER_ID, :FIRST_NAME, :AVATAR_URL, :STREAK_CURRENT, :STREAK_MAX, :LAST_ACTIVITY_DATE,
	          :XP, :LEARNER_LEVEL, :CREATED_AT, :UPDATED_AT)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainLearnerProfile(profile)); err != nil {
		return fmt.Errorf("failed to create learner profile: %w", err)
	}
	return nil
}

func (r *sqlxLearnerRepository) getOne(ctx context.Context, where string, arg interface{}) (*domain.LearnerProfile, error) {
	var m models.LearnerProfile
	query := `SELECT ` + learnerColumns + ` FROM learner_profiles WHERE ` + where
	if err := GetExecutor(ctx, r.db).GetContext(ctx, &m, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learner profile: %w", err)
	}
	return toDomainLearnerProfile(&m), nil
}

func (r *sqlxLearnerRepository) GetProfileByID(ctx context.Context, id string) (*domain.LearnerProfile, error) {
	return r.getOne(ctx, "id = :1", id)
}

func (r *sqlxLearnerRepository) GetProfileByUserID(ctx context.Context, userID string) (*domain.LearnerProfile, error) {
	return r.getOne(ctx, "user_id = :1", userID)
}

// ListProfilesByParent returns the profiles of every child account of parentID.
func (r *sqlxLearnerRepository) ListProfilesByParent(ctx context.Context, parentID string) ([]*domain.LearnerProfile, error) {
	var rows []models.LearnerProfile
	query := `SELECT p.id, p.user_id, p.first_name, p.avatar_url, p.streak_current, p.streak_max,
	                 p.last_activity_date, p.xp, p.learner_level, p.created_at, p.updated_at
	          FROM learner_profiles p
	          JOIN users u ON u.id = p.user_id
	          WHERE u.parent_id = :1
	          ORDER BY p.created_at`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, parentID); err != nil {
		return nil, fmt.Errorf("failed to list learner profiles: %w", err)
	}
	profiles := make([]*domain.LearnerProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, toDomainLearnerProfile(&rows[i]))
	}
	return profiles, nil
}

// UpdateProfile writes display and gamification fields.
func (r *sqlxLearnerRepository) UpdateProfile(ctx context.Context, profile *domain.LearnerProfile) error {
	profile.UpdatedAt = time.Now().UTC()
	query := `UPDATE learner_profiles SET
	            first_name = :FIRST_NAME,
	            avatar_url = :AVATAR_URL,
	            streak_current = :STREAK_CURRENT,
	            streak_max = :STREAK_MAX,
	            last_activity_date = :LAST_ACTIVITY_DATE,
	            xp = :XP,
	            learner_level = :LEARNER_LEVEL,
	            updated_at = :UPDATED_AT
	          WHERE id = :ID`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, fromDomainLearnerProfile(profile)); err != nil {
		return fmt.Errorf("failed to update learner profile: %w", err)
	}
	return nil
}

func (r *sqlxLearnerRepository) ListBadges(ctx context.Context, learnerID string) ([]domain.Badge, error) {
	var rows []models.LearnerBadge
	query := `SELECT id, learner_id, badge_code, earned_at FROM learner_badges WHERE learner_id = :1 ORDER BY earned_at`
	if err := GetExecutor(ctx, r.db).SelectContext(ctx, &rows, query, learnerID); err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	badges := make([]domain.Badge, 0, len(rows))
	for _, b := range rows {
		badges = append(badges, domain.Badge{ID: b.ID, LearnerID: b.LearnerID, BadgeCode: b.BadgeCode, EarnedAt: b.EarnedAt})
	}
	return badges, nil
}

// AddBadge awards a badge. Awarding an already earned badge is a no-op.
func (r *sqlxLearnerRepository) AddBadge(ctx context.Context, badge *domain.Badge) error {
	if badge.ID == "" {
		badge.ID = util.NewULID()
	}
	if badge.EarnedAt.IsZero() {
		badge.EarnedAt = time.Now().UTC()
	}
	m := models.LearnerBadge{ID: badge.ID, LearnerID: badge.LearnerID, BadgeCode: badge.BadgeCode, EarnedAt: badge.EarnedAt}
	query := `INSERT INTO learner_badges (id, learner_id, badge_code, earned_at) VALUES (:ID, :LEARNER_ID, :BADGE_CODE, :EARNED_AT)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, m); err != nil {
		if isUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("failed to add badge: %w", err)
	}
	return nil
}
