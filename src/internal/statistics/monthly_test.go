package statistics

import (
	"fmt"
	"pomodoro-api-svc/src/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyScenario(t *testing.T) {
	sessions := append(scenarioSessions(),
		completed(4, "write", "2024-02-01T10:00:00Z", "2024-02-01T10:25:00Z", 25),
	)

	stats := Monthly(sessions, 2024, 1, time.UTC)

	assert.Equal(t, 1, stats.Month)
	assert.Equal(t, 2024, stats.Year)
	assert.Equal(t, 3, stats.TotalPomodoros)
	assert.Equal(t, 80, stats.TotalMinutes)
	assert.Equal(t, 1.3, stats.TotalHours)
	assert.Equal(t, 2, stats.ActiveDays)
	assert.Equal(t, 1.5, stats.AveragePerDay)

	require.NotNil(t, stats.MostProductiveDay)
	assert.Equal(t, "2024-01-01", stats.MostProductiveDay.Date)
	assert.Equal(t, 2, stats.MostProductiveDay.Pomodoros)
	require.NotNil(t, stats.MostProductiveDay.Hours)
	assert.Equal(t, 0.8, *stats.MostProductiveDay.Hours)

	require.Len(t, stats.TopTasks, 2)
	assert.Equal(t, models.TaskBreakdown{TaskName: "write", Pomodoros: 2, Minutes: 55, Percentage: 66.6}, stats.TopTasks[0])
	assert.Equal(t, models.TaskBreakdown{TaskName: "read", Pomodoros: 1, Minutes: 25, Percentage: 33.3}, stats.TopTasks[1])
}

func TestMonthlyTopTasksLimitedAndBounded(t *testing.T) {
	var sessions []*models.Session
	id := int64(0)
	// task-0 gets 7 sessions, task-6 gets 1
	for task := 0; task < 7; task++ {
		for n := 0; n < 7-task; n++ {
			id++
			day := 1 + n
			start := fmt.Sprintf("2024-05-%02dT%02d:00:00Z", day, 8+task)
			end := fmt.Sprintf("2024-05-%02dT%02d:25:00Z", day, 8+task)
			sessions = append(sessions, completed(id, fmt.Sprintf("task-%d", task), start, end, 25))
		}
	}

	stats := Monthly(sessions, 2024, 5, time.UTC)

	require.Len(t, stats.TopTasks, 5)
	sum := 0.0
	for i, task := range stats.TopTasks {
		assert.Equal(t, fmt.Sprintf("task-%d", i), task.TaskName)
		if i > 0 {
			assert.GreaterOrEqual(t, stats.TopTasks[i-1].Pomodoros, task.Pomodoros)
		}
		sum += task.Percentage
	}
	assert.LessOrEqual(t, sum, 100.0)
}

func TestMonthlyTiesPickEarliestDay(t *testing.T) {
	sessions := []*models.Session{
		completed(1, "a", "2024-06-20T08:00:00Z", "2024-06-20T08:25:00Z", 25),
		completed(2, "a", "2024-06-03T08:00:00Z", "2024-06-03T08:25:00Z", 25),
		completed(3, "b", "2024-06-11T08:00:00Z", "2024-06-11T08:25:00Z", 25),
	}

	stats := Monthly(sessions, 2024, 6, time.UTC)
	require.NotNil(t, stats.MostProductiveDay)
	assert.Equal(t, "2024-06-03", stats.MostProductiveDay.Date)
}

func TestMonthlyIncludesLastDay(t *testing.T) {
	sessions := []*models.Session{
		completed(1, "leap", "2024-02-29T22:00:00Z", "2024-02-29T23:59:00Z", 25),
		completed(2, "next", "2024-03-01T00:00:00Z", "2024-03-01T00:25:00Z", 25),
	}

	stats := Monthly(sessions, 2024, 2, time.UTC)
	assert.Equal(t, 1, stats.TotalPomodoros)
}

func TestMonthlyEmpty(t *testing.T) {
	stats := Monthly(nil, 2024, 2, time.UTC)

	assert.Zero(t, stats.TotalPomodoros)
	assert.Zero(t, stats.ActiveDays)
	assert.Zero(t, stats.AveragePerDay)
	assert.Nil(t, stats.MostProductiveDay)
	assert.NotNil(t, stats.TopTasks)
	assert.Empty(t, stats.TopTasks)
}
