package statistics

import (
	"net/http"
	"pomodoro-api-svc/src/internal/middleware"
	"pomodoro-api-svc/src/internal/models"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In America/Santiago clocks jump from 00:00 to 01:00 on 2024-09-08, so that
// date has no local midnight.
func santiago(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Santiago")
	require.NoError(t, err)
	return loc
}

// gapDaySessions end at 12:00 local on the gap day and at 23:30 local the day before.
func gapDaySessions() []*models.Session {
	return []*models.Session{
		completed(1, "gap", "2024-09-08T14:35:00Z", "2024-09-08T15:00:00Z", 25),
		completed(2, "late", "2024-09-08T03:05:00Z", "2024-09-08T03:30:00Z", 25),
	}
}

func TestDayOfMidnightGap(t *testing.T) {
	loc := santiago(t)

	assert.Equal(t, "2024-09-08", DayOf(time.Date(2024, 9, 8, 12, 0, 0, 0, loc), loc).Format(DateLayout))
	assert.Equal(t, "2024-09-07", DayOf(at("2024-09-08T03:30:00Z"), loc).Format(DateLayout))
	assert.Equal(t, "2024-09-08", DayOf(at("2024-09-08T04:00:00Z"), loc).Format(DateLayout))
}

func TestWeeklyAcrossMidnightGap(t *testing.T) {
	loc := santiago(t)

	week := Weekly(gapDaySessions(), time.Date(2024, 9, 10, 12, 0, 0, 0, loc), loc)

	require.Len(t, week, 7)
	seen := make(map[string]bool)
	for _, d := range week {
		assert.False(t, seen[d.Date], "duplicate date %s", d.Date)
		seen[d.Date] = true
	}
	assert.Equal(t, "2024-09-04", week[0].Date)
	assert.Equal(t, "2024-09-07", week[3].Date)
	assert.Equal(t, 1, week[3].Pomodoros)
	assert.Equal(t, "2024-09-08", week[4].Date)
	assert.Equal(t, "Pazar", week[4].Day)
	assert.Equal(t, 1, week[4].Pomodoros)
	assert.Equal(t, "2024-09-10", week[6].Date)
}

func TestCalendarRangeAcrossMidnightGap(t *testing.T) {
	loc := santiago(t)

	done := make(chan *models.CalendarData, 1)
	go func() {
		done <- CalendarRange(gapDaySessions(), at("2024-09-06T00:00:00Z"), at("2024-09-10T00:00:00Z"), loc)
	}()

	var data *models.CalendarData
	select {
	case data = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("calendar range over a skipped midnight did not finish")
	}

	require.Len(t, data.Data, 5)
	for i, want := range []string{"2024-09-06", "2024-09-07", "2024-09-08", "2024-09-09", "2024-09-10"} {
		assert.Equal(t, want, data.Data[i].Date)
	}
	assert.Equal(t, 1, data.Data[2].Pomodoros)
	assert.Equal(t, 2, data.Summary.TotalPomodoros)
}

func TestDailyDetailOnGapDay(t *testing.T) {
	loc := santiago(t)

	detail := DailyDetail(gapDaySessions(), at("2024-09-08T00:00:00Z"), loc)

	assert.Equal(t, "2024-09-08", detail.Date)
	assert.Equal(t, "Pazar", detail.DayName)
	assert.Equal(t, 1, detail.TotalPomodoros)
	require.Len(t, detail.Sessions, 1)
	assert.Equal(t, "11:35", detail.Sessions[0].StartTime)
}

func TestDayBoundsMidnightGap(t *testing.T) {
	loc := santiago(t)
	gap := at("2024-09-08T00:00:00Z")

	from, to := DayBounds(gap, gap, loc)
	assert.True(t, at("2024-09-08T04:00:00Z").Equal(from), "from = %s", from)
	assert.True(t, at("2024-09-09T03:00:00Z").Equal(to), "to = %s", to)

	// the day before the gap ends where the gap day starts
	before := at("2024-09-07T00:00:00Z")
	_, to = DayBounds(before, before, loc)
	assert.True(t, at("2024-09-08T04:00:00Z").Equal(to), "to = %s", to)
}

func TestResolveCalendarRangeOnGapDay(t *testing.T) {
	loc := santiago(t)

	first, last, err := ResolveCalendarRange(nil, nil, time.Date(2024, 9, 8, 12, 0, 0, 0, loc), loc, 1096)
	require.NoError(t, err)
	assert.Equal(t, "2024-09-08", last.Format(DateLayout))
	assert.Equal(t, "2024-06-10", first.Format(DateLayout))
	assert.Equal(t, DefaultCalendarDays+1, DaysInRange(first, last))
}

func TestDailyDetailQueryOnGapDay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &stubService{}
	h := NewHandler(testConfig(), svc).(*handler)
	h.location = santiago(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, "u1")
		c.Next()
	})
	r.GET("/daily-detail", h.GetDailyDetail)

	w := serve(r, "/daily-detail?date=2024-09-08")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-09-08", svc.date.Format(DateLayout))

	w = serve(r, "/daily-detail?date=2024-09-08T03:30:00Z")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2024-09-07", svc.date.Format(DateLayout))
}
