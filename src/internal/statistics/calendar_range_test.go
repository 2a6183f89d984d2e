package statistics

import (
	"pomodoro-api-svc/src/internal/models"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarRangeScenario(t *testing.T) {
	data := CalendarRange(scenarioSessions(), at("2024-01-01T00:00:00Z"), at("2024-01-02T00:00:00Z"), time.UTC)

	assert.Equal(t, "2024-01-01", data.StartDate)
	assert.Equal(t, "2024-01-02", data.EndDate)
	require.Len(t, data.Data, 2)
	assert.Equal(t, 2, data.Data[0].Pomodoros)
	assert.Equal(t, 50, data.Data[0].Minutes)
	assert.Equal(t, 1, data.Data[1].Pomodoros)
	assert.Equal(t, 30, data.Data[1].Minutes)
	assert.Equal(t, models.CalendarSummary{TotalPomodoros: 3, TotalMinutes: 80, TotalHours: 1.3, ActiveDays: 2}, data.Summary)

	require.Len(t, data.Data[0].Sessions, 2)
	assert.Equal(t, int64(1), data.Data[0].Sessions[0].ID)
}

func TestCalendarRangeIsDense(t *testing.T) {
	start, end := at("2023-12-28T00:00:00Z"), at("2024-01-05T00:00:00Z")
	data := CalendarRange(scenarioSessions(), start, end, time.UTC)

	require.Len(t, data.Data, DaysInRange(start, end))
	assert.Len(t, data.Data, 9)

	minutes := 0
	for i, day := range data.Data {
		if i > 0 {
			assert.Less(t, data.Data[i-1].Date, day.Date)
		}
		assert.NotNil(t, day.Sessions)
		minutes += day.Minutes
	}
	assert.Equal(t, data.Summary.TotalMinutes, minutes)
	assert.Equal(t, 2, data.Summary.ActiveDays)

	empty := data.Data[0]
	assert.Equal(t, models.CalendarDay{Date: "2023-12-28", Sessions: []models.CalendarSession{}}, empty)
}

func TestCalendarRangeSingleDay(t *testing.T) {
	day := at("2024-01-02T00:00:00Z")
	data := CalendarRange(scenarioSessions(), day, day, time.UTC)

	require.Len(t, data.Data, 1)
	assert.Equal(t, 1, data.Summary.TotalPomodoros)
}

func TestCalendarRangeEmpty(t *testing.T) {
	data := CalendarRange(nil, at("2024-01-01T00:00:00Z"), at("2024-01-03T00:00:00Z"), time.UTC)

	require.Len(t, data.Data, 3)
	assert.Zero(t, data.Summary.TotalPomodoros)
	assert.Zero(t, data.Summary.ActiveDays)
}
