package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekdayIndex(t *testing.T) {
	// 2026-01-05 是周一
	monday := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i, WeekdayIndex(monday.AddDate(0, 0, i)))
	}
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Monday", WeekdayName(0))
	assert.Equal(t, "Sunday", WeekdayName(6))
	assert.Equal(t, "", WeekdayName(7))
	assert.Equal(t, "", WeekdayName(-1))
}

func TestDays(t *testing.T) {
	start := time.Date(2026, 1, 5, 15, 30, 0, 0, time.UTC) // 时间部分应被归一化
	days := Days(start, 2)
	require.Len(t, days, 14)

	assert.Equal(t, time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), days[0].Date)
	assert.Equal(t, 0, days[0].Offset)
	assert.Equal(t, 0, days[0].Weekday)
	assert.Equal(t, 1, days[0].WeekNumber)

	assert.Equal(t, 6, days[6].Weekday)
	assert.Equal(t, 1, days[6].WeekNumber)
	assert.Equal(t, 0, days[7].Weekday)
	assert.Equal(t, 2, days[7].WeekNumber)
}

func TestDaysMidWeekStart(t *testing.T) {
	// 周四起排：周号仍按视野内 7 天计，不按日历周
	thursday := time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC)
	days := Days(thursday, 1)
	require.Len(t, days, 7)
	assert.Equal(t, 3, days[0].Weekday)
	assert.Equal(t, 1, days[6].WeekNumber)
	assert.Equal(t, 2, days[6].Weekday) // 周四 +6 天 = 下周三
}

func TestWeekKey(t *testing.T) {
	// ISO 周跨年：2025-12-29 已属 2026 年第 1 周
	assert.Equal(t, 202601, WeekKey(time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 202540, WeekKey(time.Date(2025, 10, 4, 0, 0, 0, 0, time.UTC)))
	// 2027-01-01 是周五，属 2026 年第 53 周
	assert.Equal(t, 202653, WeekKey(time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)))
}
