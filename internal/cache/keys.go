package cache

import "strings"

const (
	GlobalKeyPrefix = "quizbot"
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

// SessionKey is where a quiz session is stored.
func SessionKey(sessionID string) string {
	return GenerateCacheKey("session", "quiz", sessionID)
}

// ReviewKey is where the last review of a session is stored.
func ReviewKey(sessionID string) string {
	return GenerateCacheKey("review", "report", sessionID)
}
