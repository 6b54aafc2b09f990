package domain

import "context"

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// OwnerScope selects rows belonging to a learner profile, or, when LearnerID
// is empty, the main (non-learner) profile of UserID.
type OwnerScope struct {
	UserID    string
	LearnerID string
}

// UserRepository persists accounts. Getters return (nil, nil) when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ListChildren(ctx context.Context, parentID string) ([]*User, error)
	// AddUsage increments token and cost counters in place.
	AddUsage(ctx context.Context, userID string, totalTokens int) error
}

// LearnerRepository persists learner profiles and their badges.
type LearnerRepository interface {
	CreateProfile(ctx context.Context, profile *LearnerProfile) error
	GetProfileByID(ctx context.Context, id string) (*LearnerProfile, error)
	GetProfileByUserID(ctx context.Context, userID string) (*LearnerProfile, error)
	ListProfilesByParent(ctx context.Context, parentID string) ([]*LearnerProfile, error)
	UpdateProfile(ctx context.Context, profile *LearnerProfile) error
	ListBadges(ctx context.Context, learnerID string) ([]Badge, error)
	AddBadge(ctx context.Context, badge *Badge) error
}

// RevisionRepository persists lessons and their quiz series.
type RevisionRepository interface {
	CreateRevision(ctx context.Context, rev *Revision) error
	GetRevisionByID(ctx context.Context, id string) (*Revision, error)
	UpdateRevision(ctx context.Context, rev *Revision) error
	DeleteRevision(ctx context.Context, id string) error
	// ListRevisions returns the scope's revisions, newest first.
	ListRevisions(ctx context.Context, scope OwnerScope) ([]*Revision, error)
}

// ScoreRepository persists quiz results.
type ScoreRepository interface {
	CreateScore(ctx context.Context, score *Score) error
	// ListScores returns the scope's scores, newest first.
	ListScores(ctx context.Context, scope OwnerScope) ([]*Score, error)
	DeleteScoresByRevision(ctx context.Context, revisionID string) error
}

// RemediationRepository persists the queue of missed questions.
type RemediationRepository interface {
	CreateItem(ctx context.Context, item *RemediationItem) error
	// ListPending returns PENDING items, newest first. An empty revisionID
	// matches every revision; limit <= 0 means no limit.
	ListPending(ctx context.Context, learnerID, revisionID string, limit int) ([]*RemediationItem, error)
	CountPending(ctx context.Context, learnerID, revisionID string) (int, error)
	// CountPendingByRevision groups PENDING items that are linked to a revision.
	CountPendingByRevision(ctx context.Context, learnerID string) (map[string]int, error)
	// MarkPendingReviewed closes PENDING items and returns how many changed.
	MarkPendingReviewed(ctx context.Context, learnerID, revisionID string) (int64, error)
	DeleteItemsByRevision(ctx context.Context, revisionID string) error
}
