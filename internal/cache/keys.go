package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	GlobalKeyPrefix = "reviflow"
)

// Service names used as the second key segment.
const (
	ServiceStats = "stats"
	ServiceAuth  = "auth"
)

// GenerateCacheKey generates a cache key for a given service, object type, and identifier.
// If paramsKey are provided, they are joined by "_" and appended to the cache key.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// StatsOwner identifies the owner of cached stats: the learner profile when
// one is selected, else the user's own profile.
func StatsOwner(userID, learnerID string) string {
	if learnerID != "" {
		return "learner-" + learnerID
	}
	return "user-" + userID
}

// MasteryKey caches the per-topic mastery list of an owner.
func MasteryKey(owner string) string {
	return GenerateCacheKey(ServiceStats, "mastery", owner)
}

// ActivityKey caches the activity report of an owner.
func ActivityKey(owner string) string {
	return GenerateCacheKey(ServiceStats, "activity", owner)
}

// StatsKeys lists every stats key of an owner, for invalidation.
func StatsKeys(owner string) []string {
	return []string{MasteryKey(owner), ActivityKey(owner)}
}

// ParentalGateAttemptsKey counts failed parental gate attempts of a user.
func ParentalGateAttemptsKey(userID string) string {
	return GenerateCacheKey(ServiceAuth, "parental_gate", userID, "attempts")
}

// APIKeyValidationKey caches a key validation result. The key is hashed so
// that no secret is stored in Redis.
func APIKeyValidationKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return GenerateCacheKey(ServiceAuth, "api_key_validation", hex.EncodeToString(sum[:16]))
}
