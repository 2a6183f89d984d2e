package statistics

import (
	"context"
	"pomodoro-api-svc/src/internal/cache"
	"pomodoro-api-svc/src/internal/config"
	"pomodoro-api-svc/src/internal/models"
	"pomodoro-api-svc/src/internal/session"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	reportOverall  = "overall"
	reportWeekly   = "weekly"
	reportMonthly  = "monthly"
	reportCalendar = "calendar"
	reportDaily    = "daily"
)

type Service interface {
	GetStatistics(ctx context.Context, userID string) (*models.Stats, error)
	GetWeeklyStats(ctx context.Context, userID string) ([]models.WeeklyDay, error)
	GetMonthlyStats(ctx context.Context, userID string, year, month int) (*models.MonthlyStats, error)
	GetCalendarData(ctx context.Context, userID string, start, end *time.Time) (*models.CalendarData, error)
	GetDailyDetail(ctx context.Context, userID string, date time.Time) (*models.DailyDetail, error)
}

type statisticsService struct {
	repository   session.Repository
	cacheService cache.Service
	location     *time.Location
	maxDays      int
	now          func() time.Time
}

func NewStatisticsService(repository session.Repository, cacheService cache.Service, cfg *config.Configuration) Service {
	return &statisticsService{
		repository:   repository,
		cacheService: cacheService,
		location:     cfg.Location(),
		maxDays:      cfg.Stats.MaxCalendarDays,
		now:          time.Now,
	}
}

func (s *statisticsService) today() time.Time {
	return s.now().In(s.location)
}

func (s *statisticsService) GetStatistics(ctx context.Context, userID string) (*models.Stats, error) {
	today := s.today()
	key := s.reportKey(ctx, userID, reportOverall, DayOf(today, s.location).Format(DateLayout))

	var cached models.Stats
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	sessions, err := s.repository.FindSessions(ctx, userID, session.Filter{})
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Failed to load sessions for statistics")
		return nil, err
	}

	stats := Overall(sessions, today, s.location)

	logrus.WithFields(logrus.Fields{
		"user_id":         userID,
		"total_pomodoros": stats.TotalPomodoros,
	}).Debug("Overall statistics computed")

	s.toCache(ctx, key, stats)
	return stats, nil
}

func (s *statisticsService) GetWeeklyStats(ctx context.Context, userID string) ([]models.WeeklyDay, error) {
	today := s.today()
	key := s.reportKey(ctx, userID, reportWeekly, DayOf(today, s.location).Format(DateLayout))

	var cached []models.WeeklyDay
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}

	last := DayOf(today, s.location)
	sessions, err := s.completedBetween(ctx, userID, addDays(last, -(weekLength-1)), last)
	if err != nil {
		return nil, err
	}

	week := Weekly(sessions, today, s.location)
	s.toCache(ctx, key, week)
	return week, nil
}

func (s *statisticsService) GetMonthlyStats(ctx context.Context, userID string, year, month int) (*models.MonthlyStats, error) {
	if err := ValidateMonth(year, month); err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"year":    year,
			"month":   month,
		}).Warn("Invalid month requested")
		return nil, err
	}

	key := s.reportKey(ctx, userID, reportMonthly, strconv.Itoa(year), strconv.Itoa(month))

	var cached models.MonthlyStats
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	sessions, err := s.completedBetween(ctx, userID, first, last)
	if err != nil {
		return nil, err
	}

	stats := Monthly(sessions, year, month, s.location)
	s.toCache(ctx, key, stats)
	return stats, nil
}

func (s *statisticsService) GetCalendarData(ctx context.Context, userID string, start, end *time.Time) (*models.CalendarData, error) {
	first, last, err := ResolveCalendarRange(start, end, s.today(), s.location, s.maxDays)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Invalid calendar range")
		return nil, err
	}

	key := s.reportKey(ctx, userID, reportCalendar, first.Format(DateLayout), last.Format(DateLayout))

	var cached models.CalendarData
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	sessions, err := s.completedBetween(ctx, userID, first, last)
	if err != nil {
		return nil, err
	}

	data := CalendarRange(sessions, first, last, s.location)

	logrus.WithFields(logrus.Fields{
		"user_id":     userID,
		"start":       data.StartDate,
		"end":         data.EndDate,
		"active_days": data.Summary.ActiveDays,
	}).Debug("Calendar data computed")

	s.toCache(ctx, key, data)
	return data, nil
}

func (s *statisticsService) GetDailyDetail(ctx context.Context, userID string, date time.Time) (*models.DailyDetail, error) {
	day := civilDate(date)
	key := s.reportKey(ctx, userID, reportDaily, day.Format(DateLayout))

	var cached models.DailyDetail
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	sessions, err := s.completedBetween(ctx, userID, day, day)
	if err != nil {
		return nil, err
	}

	detail := DailyDetail(sessions, day, s.location)
	s.toCache(ctx, key, detail)
	return detail, nil
}

// completedBetween loads the completed sessions that ended on the dates first..last.
func (s *statisticsService) completedBetween(ctx context.Context, userID string, first, last time.Time) ([]*models.Session, error) {
	from, to := DayBounds(first, last, s.location)

	sessions, err := s.repository.FindSessions(ctx, userID, session.Filter{
		CompletedOnly: true,
		EndFrom:       &from,
		EndTo:         &to,
	})
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"user_id": userID,
			"from":    from,
			"to":      to,
		}).Error("Failed to load sessions for statistics")
		return nil, err
	}

	return sessions, nil
}

// reportKey scopes a report key to the user's stats version. Take it before
// loading sessions. An empty key disables caching for the request.
func (s *statisticsService) reportKey(ctx context.Context, userID, report string, params ...string) string {
	version, err := s.cacheService.StatsVersion(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Warn("Stats version unavailable, report will not be cached")
		return ""
	}

	return s.cacheService.StatsKey(userID, report, append([]string{"v" + strconv.FormatInt(version, 10)}, params...)...)
}

// fromCache reports a hit. Cache failures are treated as misses.
func (s *statisticsService) fromCache(ctx context.Context, key string, dest any) bool {
	if key == "" {
		return false
	}

	hit, err := s.cacheService.GetReport(ctx, key, dest)
	if err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Cached report unavailable")
		return false
	}
	return hit
}

func (s *statisticsService) toCache(ctx context.Context, key string, report any) {
	if key == "" {
		return
	}

	if err := s.cacheService.SaveReport(ctx, key, report); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("Failed to cache report")
	}
}
