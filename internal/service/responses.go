package service

import (
	"reviflow/internal/domain"
	"reviflow/internal/dto"
)

// ToUserResponse is the public view of an account.
func ToUserResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Username:        u.Username,
		FirstName:       u.FirstName,
		Role:            string(u.Role),
		IsActive:        u.IsActive,
		IsVerified:      u.IsVerified,
		HasAPIKey:       u.HasAPIKey(),
		HasParentalPIN:  u.HasParentalPIN(),
		ParentID:        u.ParentID,
		TotalTokensUsed: u.TotalTokensUsed,
		TotalCostUSD:    u.TotalCostUSD,
		CreatedAt:       u.CreatedAt,
	}
}

func toProfileResponse(p *domain.LearnerProfile) dto.LearnerProfileResponse {
	badges := make([]dto.BadgeResponse, 0, len(p.Badges))
	for _, b := range p.Badges {
		badges = append(badges, dto.BadgeResponse{ID: b.ID, BadgeCode: b.BadgeCode, EarnedAt: b.EarnedAt})
	}
	return dto.LearnerProfileResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		FirstName:     p.FirstName,
		AvatarURL:     p.AvatarURL,
		StreakCurrent: p.StreakCurrent,
		StreakMax:     p.StreakMax,
		XP:            p.XP,
		Level:         p.Level,
		LastActivity:  p.LastActivity,
		Badges:        badges,
	}
}

func toRevisionResponse(r *domain.Revision, pendingErrors int) dto.RevisionResponse {
	tips := r.StudyTips
	if tips == nil {
		tips = []string{}
	}
	return dto.RevisionResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		LearnerID:       r.LearnerID,
		Topic:           r.Topic,
		Subject:         r.Subject,
		TextContent:     r.TextContent,
		Synthesis:       r.Synthesis,
		StudyTips:       tips,
		QuizData:        r.QuizData,
		ProgressState:   r.ProgressState,
		Status:          string(r.Status),
		CurrentSeries:   r.CurrentSeries,
		CompletedSeries: r.CompletedSeries,
		TotalSeries:     r.TotalSeries,
		PendingErrors:   pendingErrors,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func toQuizResponse(q *domain.Quiz, revisionID string, series *domain.SeriesInfo) *dto.QuizResponse {
	questions := q.Questions
	if questions == nil {
		questions = []domain.Question{}
	}
	return &dto.QuizResponse{Topic: q.Topic, Questions: questions, RevisionID: revisionID, SeriesInfo: series}
}
