package statistics

import (
	"math"
	"pomodoro-api-svc/src/internal/models"
	"sort"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// Day names served to existing clients. Keep exact.
var dayNames = map[time.Weekday]string{
	time.Monday:    "Pazartesi",
	time.Tuesday:   "Salı",
	time.Wednesday: "Çarşamba",
	time.Thursday:  "Perşembe",
	time.Friday:    "Cuma",
	time.Saturday:  "Cumartesi",
	time.Sunday:    "Pazar",
}

// DayName returns the localized name of a weekday.
func DayName(d time.Weekday) string {
	return dayNames[d]
}

// Calendar dates are carried as UTC midnights so that date arithmetic never
// meets a DST transition. Zones only come into play when a date is turned
// into instants, see startOfDay.

// DayOf returns the calendar date, in loc, of the instant t.
func DayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// civilDate returns the calendar date named by t's own year/month/day fields.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func addDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// startOfDay returns the first instant of the calendar date day in loc.
// Where local midnight is skipped the day starts at the transition.
func startOfDay(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	for i := 0; i < 24*4; i++ {
		if ly, lm, ld := start.In(loc).Date(); ly == y && lm == m && ld == d {
			break
		}
		start = start.Truncate(15 * time.Minute).Add(15 * time.Minute)
	}
	return start
}

// completedOn returns the calendar date (in loc) a session was completed on.
func completedOn(s *models.Session, loc *time.Location) (string, bool) {
	if s == nil || !s.IsFinished() {
		return "", false
	}
	return s.EndTime.In(loc).Format(DateLayout), true
}

func formatClock(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	v := t.In(loc).Format(clockLayout)
	return &v
}

// round1 rounds half to even on the first decimal.
func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

func hoursOf(minutes int) float64 {
	return round1(float64(minutes) / 60)
}

func average(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return round1(float64(num) / float64(den))
}

// percentage is part/total*100 truncated to one decimal, so shares of disjoint
// groups never add up to more than 100.
func percentage(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part*1000/total) / 10
}

type dayTotal struct {
	pomodoros int
	minutes   int
}

// busiestDay picks the date with the most pomodoros. Earliest date wins ties.
func busiestDay(totals map[string]*dayTotal) (string, *dayTotal) {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var bestKey string
	var best *dayTotal
	for _, k := range keys {
		if best == nil || totals[k].pomodoros > best.pomodoros {
			bestKey, best = k, totals[k]
		}
	}
	return bestKey, best
}

func sumMinutes(sessions []*models.Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Duration
	}
	return total
}

func byStartTime(sessions []*models.Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].StartTime.Equal(sessions[j].StartTime) {
			return sessions[i].StartTime.Before(sessions[j].StartTime)
		}
		return sessions[i].ID < sessions[j].ID
	})
}
