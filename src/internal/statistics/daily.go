package statistics

import (
	"pomodoro-api-svc/src/internal/models"
	"sort"
	"time"
)

// DailyDetail groups the sessions completed on date by task and by start hour.
func DailyDetail(sessions []*models.Session, date time.Time, loc *time.Location) *models.DailyDetail {
	day := civilDate(date)
	target := day.Format(DateLayout)

	var selected []*models.Session
	for _, s := range sessions {
		if key, ok := completedOn(s, loc); ok && key == target {
			selected = append(selected, s)
		}
	}
	byStartTime(selected)

	totalPomodoros := len(selected)
	totalMinutes := sumMinutes(selected)

	detail := &models.DailyDetail{
		Date:                   target,
		DayName:                DayName(day.Weekday()),
		TotalPomodoros:         totalPomodoros,
		TotalMinutes:           totalMinutes,
		TotalHours:             hoursOf(totalMinutes),
		AverageSessionDuration: average(totalMinutes, totalPomodoros),
		Tasks:                  dailyTaskGroups(selected, totalPomodoros, loc),
		HourlyDistribution:     hourlyDistribution(selected, loc),
		Sessions:               make([]models.DailySessionRow, 0, len(selected)),
	}

	for _, s := range selected {
		detail.Sessions = append(detail.Sessions, models.DailySessionRow{
			ID:            s.ID,
			TaskName:      s.TaskName,
			Duration:      s.Duration,
			StartTime:     s.StartTime.In(loc).Format(clockLayout),
			EndTime:       formatClock(s.EndTime, loc),
			FullStartTime: s.StartTime,
			FullEndTime:   s.EndTime,
		})
	}

	return detail
}

func dailyTaskGroups(sessions []*models.Session, total int, loc *time.Location) []models.DailyTaskGroup {
	index := make(map[string]int)
	groups := make([]models.DailyTaskGroup, 0)

	for _, s := range sessions {
		i, ok := index[s.TaskName]
		if !ok {
			i = len(groups)
			index[s.TaskName] = i
			groups = append(groups, models.DailyTaskGroup{
				TaskName: s.TaskName,
				Sessions: make([]models.DailyTaskSession, 0, 1),
			})
		}

		g := &groups[i]
		g.Pomodoros++
		g.Minutes += s.Duration
		g.Sessions = append(g.Sessions, models.DailyTaskSession{
			ID:        s.ID,
			StartTime: s.StartTime.In(loc).Format(clockLayout),
			EndTime:   formatClock(s.EndTime, loc),
			Duration:  s.Duration,
		})
	}

	for i := range groups {
		groups[i].Hours = hoursOf(groups[i].Minutes)
		groups[i].Percentage = percentage(groups[i].Pomodoros, total)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Pomodoros != groups[j].Pomodoros {
			return groups[i].Pomodoros > groups[j].Pomodoros
		}
		return groups[i].TaskName < groups[j].TaskName
	})

	return groups
}

func hourlyDistribution(sessions []*models.Session, loc *time.Location) []models.HourlyBucket {
	buckets := make(map[int]*models.HourlyBucket)
	for _, s := range sessions {
		hour := s.StartTime.In(loc).Hour()
		b, ok := buckets[hour]
		if !ok {
			b = &models.HourlyBucket{Hour: hour}
			buckets[hour] = b
		}
		b.Pomodoros++
		b.Minutes += s.Duration
	}

	result := make([]models.HourlyBucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Hour < result[j].Hour })

	return result
}
