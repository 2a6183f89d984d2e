package statistics

import (
	"pomodoro-api-svc/src/internal/models"
	"time"
)

const recentWindowDays = 30

// Overall computes lifetime totals plus today's numbers and a trailing 30 day view.
// sessions must contain every session of the user, completed or not.
func Overall(sessions []*models.Session, today time.Time, loc *time.Location) *models.Stats {
	day := DayOf(today, loc)
	todayKey := day.Format(DateLayout)
	windowStart := addDays(day, -recentWindowDays).Format(DateLayout)

	stats := &models.Stats{TotalTasks: len(sessions)}
	recent := make(map[string]*dayTotal)
	recentCount := 0

	for _, s := range sessions {
		key, ok := completedOn(s, loc)
		if !ok {
			continue
		}

		stats.TotalPomodoros++
		stats.TotalMinutes += s.Duration

		if key == todayKey {
			stats.TodayPomodoros++
			stats.TodayMinutes += s.Duration
		}

		if key >= windowStart {
			recentCount++
			t, ok := recent[key]
			if !ok {
				t = &dayTotal{}
				recent[key] = t
			}
			t.pomodoros++
			t.minutes += s.Duration
		}
	}

	stats.CompletedTasks = stats.TotalPomodoros
	stats.AverageSessionDuration = average(stats.TotalMinutes, stats.TotalPomodoros)
	stats.AveragePerDay = average(recentCount, len(recent))

	if key, best := busiestDay(recent); best != nil {
		stats.MostProductiveDay = &models.ProductiveDay{
			Date:      key,
			Pomodoros: best.pomodoros,
			Minutes:   best.minutes,
		}
	}

	return stats
}
