package statistics

import (
	"pomodoro-api-svc/src/internal/models"
	"sort"
	"time"
)

const topTaskLimit = 5

// Monthly summarizes the sessions completed within the given calendar month.
// year and month must already be validated with ValidateMonth.
func Monthly(sessions []*models.Session, year, month int, loc *time.Location) *models.MonthlyStats {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := addDays(first.AddDate(0, 1, 0), -1)
	from, to := first.Format(DateLayout), last.Format(DateLayout)

	totals := make(map[string]*dayTotal)
	tasks := make(map[string]*models.TaskBreakdown)
	taskOrder := make([]string, 0)
	totalPomodoros, totalMinutes := 0, 0

	for _, s := range sessions {
		key, ok := completedOn(s, loc)
		if !ok || key < from || key > to {
			continue
		}

		totalPomodoros++
		totalMinutes += s.Duration

		d, ok := totals[key]
		if !ok {
			d = &dayTotal{}
			totals[key] = d
		}
		d.pomodoros++
		d.minutes += s.Duration

		t, ok := tasks[s.TaskName]
		if !ok {
			t = &models.TaskBreakdown{TaskName: s.TaskName}
			tasks[s.TaskName] = t
			taskOrder = append(taskOrder, s.TaskName)
		}
		t.Pomodoros++
		t.Minutes += s.Duration
	}

	stats := &models.MonthlyStats{
		Month:          month,
		Year:           year,
		TotalPomodoros: totalPomodoros,
		TotalMinutes:   totalMinutes,
		TotalHours:     hoursOf(totalMinutes),
		ActiveDays:     len(totals),
		AveragePerDay:  average(totalPomodoros, len(totals)),
		TopTasks:       topTasks(tasks, taskOrder, totalPomodoros),
	}

	if key, best := busiestDay(totals); best != nil {
		hours := hoursOf(best.minutes)
		stats.MostProductiveDay = &models.ProductiveDay{
			Date:      key,
			Pomodoros: best.pomodoros,
			Minutes:   best.minutes,
			Hours:     &hours,
		}
	}

	return stats
}

func topTasks(tasks map[string]*models.TaskBreakdown, order []string, total int) []models.TaskBreakdown {
	ranked := make([]models.TaskBreakdown, 0, len(order))
	for _, name := range order {
		t := *tasks[name]
		t.Percentage = percentage(t.Pomodoros, total)
		ranked = append(ranked, t)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Pomodoros != ranked[j].Pomodoros {
			return ranked[i].Pomodoros > ranked[j].Pomodoros
		}
		return ranked[i].TaskName < ranked[j].TaskName
	})

	if len(ranked) > topTaskLimit {
		ranked = ranked[:topTaskLimit]
	}
	return ranked
}
