package statistics

import (
	"pomodoro-api-svc/src/internal/models"
	"time"
)

// CalendarRange returns one record per date from start to end inclusive.
// Dates without completed sessions get a zero record. start must not be after end.
func CalendarRange(sessions []*models.Session, start, end time.Time, loc *time.Location) *models.CalendarData {
	first, last := civilDate(start), civilDate(end)
	from, to := first.Format(DateLayout), last.Format(DateLayout)

	var selected []*models.Session
	for _, s := range sessions {
		if key, ok := completedOn(s, loc); ok && key >= from && key <= to {
			selected = append(selected, s)
		}
	}
	byStartTime(selected)

	sparse := make(map[string]*models.CalendarDay)
	for _, s := range selected {
		key, _ := completedOn(s, loc)
		day, ok := sparse[key]
		if !ok {
			day = &models.CalendarDay{Date: key, Sessions: make([]models.CalendarSession, 0, 1)}
			sparse[key] = day
		}
		day.Pomodoros++
		day.Minutes += s.Duration
		day.Sessions = append(day.Sessions, models.CalendarSession{
			ID:        s.ID,
			TaskName:  s.TaskName,
			Duration:  s.Duration,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		})
	}

	data := make([]models.CalendarDay, 0, len(sparse))
	for d := first; !d.After(last); d = addDays(d, 1) {
		key := d.Format(DateLayout)
		if day, ok := sparse[key]; ok {
			day.Hours = hoursOf(day.Minutes)
			data = append(data, *day)
			continue
		}
		data = append(data, models.CalendarDay{
			Date:     key,
			Sessions: []models.CalendarSession{},
		})
	}

	totalMinutes := sumMinutes(selected)
	return &models.CalendarData{
		StartDate: from,
		EndDate:   to,
		Data:      data,
		Summary: models.CalendarSummary{
			TotalPomodoros: len(selected),
			TotalMinutes:   totalMinutes,
			TotalHours:     hoursOf(totalMinutes),
			ActiveDays:     len(sparse),
		},
	}
}
