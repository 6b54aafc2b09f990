package service

import (
	"context"

	"reviflow/internal/domain"
)

const msgProfileAccessDenied = "Profile not found or access denied"

// learnerAccess decides which learner profiles and revisions a user may act
// on: their own learner profile, or the profiles of their child accounts.
type learnerAccess struct {
	userRepo    domain.UserRepository
	learnerRepo domain.LearnerRepository
}

func (a learnerAccess) loadUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil || !user.IsActive {
		return nil, domain.NewUnauthorizedError("User not found or inactive")
	}
	return user, nil
}

// checkLearner returns the profile when user owns it or is the parent of its owner.
func (a learnerAccess) checkLearner(ctx context.Context, user *domain.User, learnerID string) (*domain.LearnerProfile, error) {
	profile, err := a.learnerRepo.GetProfileByID(ctx, learnerID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load learner profile", err)
	}
	if profile == nil {
		return nil, domain.NewNotFoundError(msgProfileAccessDenied)
	}
	if profile.UserID == user.ID {
		return profile, nil
	}
	owner, err := a.userRepo.GetUserByID(ctx, profile.UserID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load profile owner", err)
	}
	if owner == nil || owner.ParentID != user.ID {
		return nil, domain.NewNotFoundError(msgProfileAccessDenied)
	}
	return profile, nil
}

// scope resolves the data owner of a request. A learner account without an
// explicit learner_id acts on its own profile.
func (a learnerAccess) scope(ctx context.Context, user *domain.User, learnerID string) (domain.OwnerScope, error) {
	if learnerID == "" && user.IsLearner() {
		profile, err := a.learnerRepo.GetProfileByUserID(ctx, user.ID)
		if err != nil {
			return domain.OwnerScope{}, domain.NewInternalError("failed to load learner profile", err)
		}
		if profile != nil {
			learnerID = profile.ID
		}
	}
	if learnerID != "" {
		if _, err := a.checkLearner(ctx, user, learnerID); err != nil {
			return domain.OwnerScope{}, err
		}
	}
	return domain.OwnerScope{UserID: user.ID, LearnerID: learnerID}, nil
}

// checkRevision loads a revision readable by user: its creator, or anyone
// with access to its learner.
func (a learnerAccess) checkRevision(ctx context.Context, revRepo domain.RevisionRepository, user *domain.User, revisionID string) (*domain.Revision, error) {
	rev, err := revRepo.GetRevisionByID(ctx, revisionID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load revision", err)
	}
	if rev == nil {
		return nil, domain.NewRevisionNotFoundError(revisionID)
	}
	if rev.UserID == user.ID {
		return rev, nil
	}
	if rev.LearnerID != "" {
		if _, err := a.checkLearner(ctx, user, rev.LearnerID); err == nil {
			return rev, nil
		}
	}
	return nil, domain.NewRevisionNotFoundError(revisionID)
}
