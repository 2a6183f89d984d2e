package cache

import (
	"context"
	"pomodoro-api-svc/src/internal/models"
	"time"
)

// noopCacheService is used when caching is disabled: every lookup misses and
// revocation is unavailable.
type noopCacheService struct {
	prefix string
}

func NewNoopCacheService() Service {
	return &noopCacheService{prefix: "stats"}
}

func (n *noopCacheService) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	return false, nil
}

func (n *noopCacheService) SaveReport(ctx context.Context, key string, report any) error {
	return nil
}

func (n *noopCacheService) InvalidateUserStats(ctx context.Context, userID string) error {
	return nil
}

func (n *noopCacheService) StatsVersion(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (n *noopCacheService) StatsKey(userID, report string, params ...string) string {
	return statsKey(n.prefix, userID, report, params...)
}

func (n *noopCacheService) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return models.ErrRevocationUnavailable
}

func (n *noopCacheService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	return false, nil
}
