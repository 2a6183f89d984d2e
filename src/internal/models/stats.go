package models

import "time"

// DailyDetail is the per-day breakdown of completed sessions.
type DailyDetail struct {
	Date                   string            `json:"date"`
	DayName                string            `json:"dayName"`
	TotalPomodoros         int               `json:"totalPomodoros"`
	TotalMinutes           int               `json:"totalMinutes"`
	TotalHours             float64           `json:"totalHours"`
	AverageSessionDuration float64           `json:"averageSessionDuration"`
	Tasks                  []DailyTaskGroup  `json:"tasks"`
	HourlyDistribution     []HourlyBucket    `json:"hourlyDistribution"`
	Sessions               []DailySessionRow `json:"sessions"`
}

type DailyTaskGroup struct {
	TaskName   string             `json:"taskName"`
	Pomodoros  int                `json:"pomodoros"`
	Minutes    int                `json:"minutes"`
	Hours      float64            `json:"hours"`
	Percentage float64            `json:"percentage"`
	Sessions   []DailyTaskSession `json:"sessions"`
}

type DailyTaskSession struct {
	ID        int64   `json:"id"`
	StartTime string  `json:"startTime"`
	EndTime   *string `json:"endTime"`
	Duration  int     `json:"duration"`
}

type HourlyBucket struct {
	Hour      int `json:"hour"`
	Pomodoros int `json:"pomodoros"`
	Minutes   int `json:"minutes"`
}

type DailySessionRow struct {
	ID            int64      `json:"id"`
	TaskName      string     `json:"taskName"`
	Duration      int        `json:"duration"`
	StartTime     string     `json:"startTime"`
	EndTime       *string    `json:"endTime"`
	FullStartTime time.Time  `json:"fullStartTime"`
	FullEndTime   *time.Time `json:"fullEndTime"`
}

// WeeklyDay is one point of the trailing seven day series.
type WeeklyDay struct {
	Date      string  `json:"date"`
	Day       string  `json:"day"`
	Pomodoros int     `json:"pomodoros"`
	Minutes   int     `json:"minutes"`
	Hours     float64 `json:"hours"`
}

type MonthlyStats struct {
	Month             int             `json:"month"`
	Year              int             `json:"year"`
	TotalPomodoros    int             `json:"totalPomodoros"`
	TotalMinutes      int             `json:"totalMinutes"`
	TotalHours        float64         `json:"totalHours"`
	ActiveDays        int             `json:"activeDays"`
	AveragePerDay     float64         `json:"averagePerDay"`
	MostProductiveDay *ProductiveDay  `json:"mostProductiveDay"`
	TopTasks          []TaskBreakdown `json:"topTasks"`
}

// ProductiveDay is the busiest date of a window. Hours is only reported by the monthly view.
type ProductiveDay struct {
	Date      string   `json:"date"`
	Pomodoros int      `json:"pomodoros"`
	Minutes   int      `json:"minutes"`
	Hours     *float64 `json:"hours,omitempty"`
}

type TaskBreakdown struct {
	TaskName   string  `json:"taskName"`
	Pomodoros  int     `json:"pomodoros"`
	Minutes    int     `json:"minutes"`
	Percentage float64 `json:"percentage"`
}

type CalendarData struct {
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	Data      []CalendarDay   `json:"data"`
	Summary   CalendarSummary `json:"summary"`
}

type CalendarDay struct {
	Date      string            `json:"date"`
	Pomodoros int               `json:"pomodoros"`
	Minutes   int               `json:"minutes"`
	Hours     float64           `json:"hours"`
	Sessions  []CalendarSession `json:"sessions"`
}

type CalendarSession struct {
	ID        int64      `json:"id"`
	TaskName  string     `json:"taskName"`
	Duration  int        `json:"duration"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

type CalendarSummary struct {
	TotalPomodoros int     `json:"totalPomodoros"`
	TotalMinutes   int     `json:"totalMinutes"`
	TotalHours     float64 `json:"totalHours"`
	ActiveDays     int     `json:"activeDays"`
}

// Stats is the lifetime overview of a user.
type Stats struct {
	TotalPomodoros         int            `json:"totalPomodoros"`
	TotalMinutes           int            `json:"totalMinutes"`
	TotalTasks             int            `json:"totalTasks"`
	CompletedTasks         int            `json:"completedTasks"`
	AveragePerDay          float64        `json:"averagePerDay"`
	TodayPomodoros         int            `json:"todayPomodoros"`
	TodayMinutes           int            `json:"todayMinutes"`
	AverageSessionDuration float64        `json:"averageSessionDuration"`
	MostProductiveDay      *ProductiveDay `json:"mostProductiveDay"`
}
