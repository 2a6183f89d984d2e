package cache

import (
	"context"
	"errors"
	"path"
	"pomodoro-api-svc/src/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "stats:u1:weekly:2024-01-07", statsKey("stats", "u1", "weekly", "2024-01-07"))
	assert.Equal(t, "stats:u1:monthly:2024:1", statsKey("stats", "u1", "monthly", "2024", "1"))
	assert.Equal(t, "stats:u1:*", statsKey("stats", "u1", "*"))
}

func TestVersionKeyOutsideInvalidationPattern(t *testing.T) {
	key := versionKey("stats", "u1")

	assert.Equal(t, "stats-version:u1", key)
	matched, err := path.Match(statsKey("stats", "u1", "*"), key)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestNoopCacheService(t *testing.T) {
	ctx := context.Background()
	c := NewNoopCacheService()

	var dest map[string]int
	found, err := c.GetReport(ctx, "stats:u1:overall", &dest)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SaveReport(ctx, "stats:u1:overall", map[string]int{"a": 1}))
	require.NoError(t, c.InvalidateUserStats(ctx, "u1"))
	assert.True(t, errors.Is(c.RevokeToken(ctx, "jti", time.Hour), models.ErrRevocationUnavailable))

	version, err := c.StatsVersion(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, version)

	revoked, err := c.IsTokenRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)

	assert.Equal(t, "stats:u1:daily:2024-01-01", c.StatsKey("u1", "daily", "2024-01-01"))
}
