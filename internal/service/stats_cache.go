package service

import (
	"context"

	"reviflow/internal/cache"
	"reviflow/internal/domain"
	"reviflow/internal/logger"

	"go.uber.org/zap"
)

// statsInvalidator drops the cached mastery and activity of an owner after
// any write that changes them.
type statsInvalidator struct {
	cache domain.Cache
}

func (i statsInvalidator) invalidate(ctx context.Context, scope domain.OwnerScope) {
	if i.cache == nil {
		return
	}
	owner := cache.StatsOwner(scope.UserID, scope.LearnerID)
	if err := i.cache.Delete(ctx, cache.StatsKeys(owner)...); err != nil {
		logger.Get().Warn("Failed to invalidate stats cache", zap.String("owner", owner), zap.Error(err))
	}
}
