package statistics

import (
	"pomodoro-api-svc/src/internal/models"
	"time"
)

const weekLength = 7

// Weekly returns the trailing seven days ending on today, oldest first.
// Days without sessions are reported with zero values.
func Weekly(sessions []*models.Session, today time.Time, loc *time.Location) []models.WeeklyDay {
	last := DayOf(today, loc)

	totals := make(map[string]*dayTotal)
	for _, s := range sessions {
		key, ok := completedOn(s, loc)
		if !ok {
			continue
		}
		t, ok := totals[key]
		if !ok {
			t = &dayTotal{}
			totals[key] = t
		}
		t.pomodoros++
		t.minutes += s.Duration
	}

	week := make([]models.WeeklyDay, 0, weekLength)
	for i := weekLength - 1; i >= 0; i-- {
		day := addDays(last, -i)
		key := day.Format(DateLayout)

		point := models.WeeklyDay{
			Date: key,
			Day:  DayName(day.Weekday()),
		}
		if t, ok := totals[key]; ok {
			point.Pomodoros = t.pomodoros
			point.Minutes = t.minutes
			point.Hours = hoursOf(t.minutes)
		}
		week = append(week, point)
	}

	return week
}
