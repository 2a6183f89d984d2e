package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/models"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type Service interface {
	GetReport(ctx context.Context, key string, dest any) (bool, error)
	SaveReport(ctx context.Context, key string, report any) error
	InvalidateUserStats(ctx context.Context, userID string) error
	StatsVersion(ctx context.Context, userID string) (int64, error)
	StatsKey(userID, report string, params ...string) string
	RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type cacheService struct {
	client *redis.Client
	cfg    *config.CacheConfig
}

func NewCacheService(client *redis.Client, cfg *config.Configuration) Service {
	return &cacheService{
		client: client,
		cfg:    &cfg.Cache,
	}
}

// StatsKey builds stats:<userId>:<report>[:<param>...].
func (c *cacheService) StatsKey(userID, report string, params ...string) string {
	return statsKey(c.cfg.StatsKeyPrefix, userID, report, params...)
}

func statsKey(prefix, userID, report string, params ...string) string {
	parts := append([]string{prefix, userID, report}, params...)
	return strings.Join(parts, ":")
}

// versionKey names the per-user counter bumped on every invalidation. It sits
// outside the stats:<userId>:* pattern so invalidation never deletes it.
func versionKey(prefix, userID string) string {
	return prefix + "-version:" + userID
}

// StatsVersion returns the user's invalidation counter, zero when never bumped.
func (c *cacheService) StatsVersion(ctx context.Context, userID string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(c.cfg.StatsKeyPrefix, userID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to get stats version")
		return 0, models.ErrRedisGet
	}
	return v, nil
}

func (c *cacheService) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("key", key).Debug("Report not found in cache")
			return false, nil
		}
		logrus.WithError(err).WithField("key", key).Error("Failed to get report from cache")
		return false, models.ErrRedisGet
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to unmarshal report from cache")
		return false, models.ErrRedisGet
	}

	logrus.WithField("key", key).Debug("Report retrieved from cache")
	return true, nil
}

func (c *cacheService) SaveReport(ctx context.Context, key string, report any) error {
	data, err := json.Marshal(report)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to marshal report for cache")
		return models.ErrRedisSet
	}

	expiration := time.Duration(c.cfg.StatsExpirationMinutes) * time.Minute
	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to cache report")
		return models.ErrRedisSet
	}

	return nil
}

// InvalidateUserStats bumps the user's stats version, so reports computed from
// older data land under keys no reader asks for, then drops the cached reports.
func (c *cacheService) InvalidateUserStats(ctx context.Context, userID string) error {
	if err := c.client.Incr(ctx, versionKey(c.cfg.StatsKeyPrefix, userID)).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to bump stats version")
		return models.ErrRedisSet
	}

	pattern := statsKey(c.cfg.StatsKeyPrefix, userID, "*")

	var keys []string
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).WithField("pattern", pattern).Error("Failed to scan cached reports")
		return models.ErrRedisGet
	}

	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to delete cached reports")
		return models.ErrRedisDelete
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"keys":    len(keys),
	}).Debug("Cached reports invalidated")
	return nil
}

func (c *cacheService) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		logrus.WithField("token_id", tokenID).Debug("Token already expired, not revoking")
		return nil
	}

	key := fmt.Sprintf("%s:%s", c.cfg.RevokedTokenKeyPrefix, tokenID)
	if err := c.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		logrus.WithError(err).WithField("token_id", tokenID).Error("Failed to revoke token")
		return models.ErrRedisSet
	}
	return nil
}

func (c *cacheService) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	key := fmt.Sprintf("%s:%s", c.cfg.RevokedTokenKeyPrefix, tokenID)
	n, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		logrus.WithError(err).WithField("token_id", tokenID).Error("Failed to check token revocation")
		return false, models.ErrRedisGet
	}
	return n > 0, nil
}
