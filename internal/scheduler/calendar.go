package scheduler

import "time"

// Day 排班视野中的一天
type Day struct {
	Date       time.Time
	Offset     int // 距 startDate 的天数，从 0 起
	Weekday    int // 0=Monday .. 6=Sunday
	WeekNumber int // 视野内周号，从 1 起，每 7 天递增
}

var weekdayNames = [7]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayName 周几的显示名（0=Monday）
func WeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return weekdayNames[weekday]
}

// WeekdayIndex 把 time.Weekday（周日=0）换算成周一=0 的索引
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Days 枚举 [start, start+numWeeks*7) 的每一天。
// start 不要求是周一；WeekNumber 按视野内第几个 7 天计
func Days(start time.Time, numWeeks int) []Day {
	start = Midnight(start)
	total := numWeeks * 7
	days := make([]Day, 0, total)
	for offset := 0; offset < total; offset++ {
		date := start.AddDate(0, 0, offset)
		days = append(days, Day{
			Date:       date,
			Offset:     offset,
			Weekday:    WeekdayIndex(date),
			WeekNumber: offset/7 + 1,
		})
	}
	return days
}

// Midnight 归一化到当天零点（UTC），日期比较都用这个基准
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DateKey 日期的 map key 形式
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
