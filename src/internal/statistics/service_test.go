package statistics

import (
	"context"
	"errors"
	"pomodoro-api-svc/src/internal/cache"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/models"
	"pomodoro-api-svc/src/internal/session"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	session.Repository
	sessions []*models.Session
	filters  []session.Filter
	err      error
	// afterFind runs once the snapshot is taken, like a write racing the read.
	afterFind func()
}

func (f *fakeRepository) FindSessions(ctx context.Context, userID string, filter session.Filter) ([]*models.Session, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}

	result := make([]*models.Session, 0)
	for _, s := range f.sessions {
		if s.UserID != userID {
			continue
		}
		if filter.CompletedOnly && !s.IsCompleted {
			continue
		}
		if filter.EndFrom != nil && (s.EndTime == nil || s.EndTime.Before(*filter.EndFrom)) {
			continue
		}
		if filter.EndTo != nil && (s.EndTime == nil || !s.EndTime.Before(*filter.EndTo)) {
			continue
		}
		result = append(result, s)
	}

	if f.afterFind != nil {
		f.afterFind()
	}
	return result, nil
}

// memoryCache keeps reports in memory so cache hits can be observed.
type memoryCache struct {
	cache.Service
	reports  map[string]any
	versions map[string]int64
	gets     int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{
		Service:  cache.NewNoopCacheService(),
		reports:  make(map[string]any),
		versions: make(map[string]int64),
	}
}

func (m *memoryCache) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	m.gets++
	report, ok := m.reports[key]
	if !ok {
		return false, nil
	}
	switch d := dest.(type) {
	case *models.Stats:
		*d = *report.(*models.Stats)
	case *models.MonthlyStats:
		*d = *report.(*models.MonthlyStats)
	default:
		return false, nil
	}
	return true, nil
}

func (m *memoryCache) SaveReport(ctx context.Context, key string, report any) error {
	m.reports[key] = report
	return nil
}

func (m *memoryCache) StatsVersion(ctx context.Context, userID string) (int64, error) {
	return m.versions[userID], nil
}

func (m *memoryCache) InvalidateUserStats(ctx context.Context, userID string) error {
	m.versions[userID]++
	prefix := "stats:" + userID + ":"
	for key := range m.reports {
		if strings.HasPrefix(key, prefix) {
			delete(m.reports, key)
		}
	}
	return nil
}

func testConfig() *config.Configuration {
	return &config.Configuration{
		App:   config.Application{Timeout: 5, TimeZone: "UTC"},
		Stats: config.StatsConfig{MaxCalendarDays: 1096},
	}
}

func newTestService(repo session.Repository, c cache.Service, now string) *statisticsService {
	svc := NewStatisticsService(repo, c, testConfig()).(*statisticsService)
	svc.now = func() time.Time { return at(now) }
	return svc
}

func TestServiceGetDailyDetailQueriesDayBounds(t *testing.T) {
	repo := &fakeRepository{sessions: scenarioSessions()}
	svc := newTestService(repo, cache.NewNoopCacheService(), "2024-01-05T12:00:00Z")

	detail, err := svc.GetDailyDetail(context.Background(), "u1", at("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, 2, detail.TotalPomodoros)

	require.Len(t, repo.filters, 1)
	f := repo.filters[0]
	assert.True(t, f.CompletedOnly)
	assert.True(t, at("2024-01-01T00:00:00Z").Equal(*f.EndFrom))
	assert.True(t, at("2024-01-02T00:00:00Z").Equal(*f.EndTo))
}

func TestServiceGetWeeklyStats(t *testing.T) {
	repo := &fakeRepository{sessions: scenarioSessions()}
	svc := newTestService(repo, cache.NewNoopCacheService(), "2024-01-02T18:00:00Z")

	week, err := svc.GetWeeklyStats(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, 2, week[5].Pomodoros)
	assert.Equal(t, 1, week[6].Pomodoros)
	assert.True(t, at("2023-12-27T00:00:00Z").Equal(*repo.filters[0].EndFrom))
}

func TestServiceGetStatisticsUsesCache(t *testing.T) {
	repo := &fakeRepository{sessions: scenarioSessions()}
	mem := newMemoryCache()
	svc := newTestService(repo, mem, "2024-01-02T18:00:00Z")

	first, err := svc.GetStatistics(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, first.TotalPomodoros)
	assert.Contains(t, mem.reports, "stats:u1:overall:v0:2024-01-02")

	second, err := svc.GetStatistics(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, repo.filters, 1)
	assert.Equal(t, session.Filter{}, repo.filters[0])
}

func TestServiceWriteDuringComputeNotServedFromCache(t *testing.T) {
	repo := &fakeRepository{sessions: scenarioSessions()}
	mem := newMemoryCache()
	svc := newTestService(repo, mem, "2024-01-02T18:00:00Z")

	repo.afterFind = func() {
		repo.afterFind = nil
		repo.sessions = append(repo.sessions,
			completed(4, "read", "2024-01-02T15:00:00Z", "2024-01-02T15:25:00Z", 25))
		require.NoError(t, mem.InvalidateUserStats(context.Background(), "u1"))
	}

	stale, err := svc.GetStatistics(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, stale.TotalPomodoros)

	fresh, err := svc.GetStatistics(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, fresh.TotalPomodoros)
	assert.Len(t, repo.filters, 2)
	assert.Contains(t, mem.reports, "stats:u1:overall:v1:2024-01-02")
}

type versionlessCache struct {
	*memoryCache
}

func (v *versionlessCache) StatsVersion(ctx context.Context, userID string) (int64, error) {
	return 0, models.ErrRedisGet
}

func TestServiceSkipsCacheWithoutVersion(t *testing.T) {
	repo := &fakeRepository{sessions: scenarioSessions()}
	mem := newMemoryCache()
	svc := newTestService(repo, &versionlessCache{memoryCache: mem}, "2024-01-02T18:00:00Z")

	for i := 0; i < 2; i++ {
		stats, err := svc.GetStatistics(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, 3, stats.TotalPomodoros)
	}

	assert.Len(t, repo.filters, 2)
	assert.Empty(t, mem.reports)
	assert.Zero(t, mem.gets)
}

func TestServiceGetMonthlyStats(t *testing.T) {
	repo := &fakeRepository{sessions: scenarioSessions()}
	svc := newTestService(repo, newMemoryCache(), "2024-03-02T18:00:00Z")

	stats, err := svc.GetMonthlyStats(context.Background(), "u1", 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPomodoros)
	assert.True(t, at("2024-02-01T00:00:00Z").Equal(*repo.filters[0].EndTo))

	_, err = svc.GetMonthlyStats(context.Background(), "u1", 2024, 13)
	assert.True(t, errors.Is(err, models.ErrInvalidRange))
	assert.Len(t, repo.filters, 1)
}

func TestServiceGetCalendarData(t *testing.T) {
	repo := &fakeRepository{sessions: scenarioSessions()}
	svc := newTestService(repo, cache.NewNoopCacheService(), "2024-01-02T18:00:00Z")

	data, err := svc.GetCalendarData(context.Background(), "u1", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "2023-10-04", data.StartDate)
	assert.Equal(t, "2024-01-02", data.EndDate)
	assert.Len(t, data.Data, 91)
	assert.Equal(t, 3, data.Summary.TotalPomodoros)

	start, end := at("2024-01-03T00:00:00Z"), at("2024-01-01T00:00:00Z")
	_, err = svc.GetCalendarData(context.Background(), "u1", &start, &end)
	assert.True(t, errors.Is(err, models.ErrInvalidRange))
}

func TestServiceOtherUsersInvisible(t *testing.T) {
	repo := &fakeRepository{sessions: scenarioSessions()}
	svc := newTestService(repo, cache.NewNoopCacheService(), "2024-01-02T18:00:00Z")

	stats, err := svc.GetStatistics(context.Background(), "someone-else")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalTasks)
	assert.Nil(t, stats.MostProductiveDay)
}

func TestServiceRepositoryError(t *testing.T) {
	repo := &fakeRepository{err: models.ErrDatabaseQuery}
	svc := newTestService(repo, cache.NewNoopCacheService(), "2024-01-02T18:00:00Z")

	_, err := svc.GetDailyDetail(context.Background(), "u1", at("2024-01-01T00:00:00Z"))
	assert.True(t, errors.Is(err, models.ErrDatabaseQuery))
}
