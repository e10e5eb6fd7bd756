package scheduler

import (
	"testing"
	"time"

	"wisefido-roster/internal/domain"

	"github.com/stretchr/testify/assert"
)

// testRoster 五角色各一人的测试编制，按角色优先级命名 e1..e5
func testRoster() []domain.Employee {
	return []domain.Employee{
		{EmployeeID: "e1", Name: "Olivia P.", Role: domain.RoleEarlyOpener, DailyHours: 8, Active: true},
		{EmployeeID: "e2", Name: "Anna F.", Role: domain.RoleStandard, DailyHours: 8, Active: true},
		{EmployeeID: "e3", Name: "Tomas C.", Role: domain.RoleRotator, DailyHours: 8, Active: true},
		{EmployeeID: "e4", Name: "Mia G.", Role: domain.RoleFloater, DailyHours: 8, Active: true},
		{EmployeeID: "e5", Name: "Evan S.", Role: domain.RoleCloser, DailyHours: 8, Active: true},
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSnapshotFiltersInactive(t *testing.T) {
	employees := testRoster()
	employees[2].Active = false
	snap := NewSnapshot(employees, nil, nil, nil, nil)
	assert.Len(t, snap.ActiveEmployees(), 4)
	for _, e := range snap.ActiveEmployees() {
		assert.NotEqual(t, "e3", e.EmployeeID)
	}
}

func TestSnapshotClosedLabel(t *testing.T) {
	closed := []domain.ClosedDate{
		{Date: date(2025, 12, 25), Note: "Holiday"},
		{Date: date(2025, 12, 26), Note: ""},
	}
	snap := NewSnapshot(testRoster(), nil, nil, closed, nil)

	note, ok := snap.ClosedLabel(date(2025, 12, 25))
	assert.True(t, ok)
	assert.Equal(t, "Holiday", note)

	// 备注为空回退默认标签
	note, ok = snap.ClosedLabel(date(2025, 12, 26))
	assert.True(t, ok)
	assert.Equal(t, DefaultClosedLabel, note)

	_, ok = snap.ClosedLabel(date(2025, 12, 27))
	assert.False(t, ok)
}

func TestSnapshotOnLeave(t *testing.T) {
	leaves := []domain.LeavePeriod{
		{EmployeeID: "e2", StartDate: date(2026, 1, 5), EndDate: date(2026, 1, 9)},
	}
	snap := NewSnapshot(testRoster(), leaves, nil, nil, nil)

	// 闭区间：首尾两天都算休假
	assert.True(t, snap.OnLeave("e2", date(2026, 1, 5)))
	assert.True(t, snap.OnLeave("e2", date(2026, 1, 9)))
	assert.False(t, snap.OnLeave("e2", date(2026, 1, 4)))
	assert.False(t, snap.OnLeave("e2", date(2026, 1, 10)))
	assert.False(t, snap.OnLeave("e1", date(2026, 1, 5)))
}

func TestSnapshotRestDay(t *testing.T) {
	cycles := []domain.RestCycleEntry{
		{EmployeeID: "e4", WeekKey: 202540, Weekday: 5},
	}
	snap := NewSnapshot(testRoster(), nil, nil, nil, cycles)

	// 2025-10-04 是 ISO 2025 年第 40 周的周六（weekday 5）
	assert.True(t, snap.RestDay("e4", date(2025, 10, 4)))
	// 同周其它天、其它周的同一天都不命中
	assert.False(t, snap.RestDay("e4", date(2025, 10, 3)))
	assert.False(t, snap.RestDay("e4", date(2025, 10, 11)))
	assert.False(t, snap.RestDay("e1", date(2025, 10, 4)))
}

func TestSnapshotFixedLabel(t *testing.T) {
	fixed := []domain.FixedAssignment{
		{EmployeeID: "e3", Date: date(2026, 1, 10), ShiftLabel: "10:00 - 19:00"},
	}
	snap := NewSnapshot(testRoster(), nil, fixed, nil, nil)

	label, ok := snap.FixedLabel("e3", date(2026, 1, 10))
	assert.True(t, ok)
	assert.Equal(t, "10:00 - 19:00", label)

	_, ok = snap.FixedLabel("e3", date(2026, 1, 11))
	assert.False(t, ok)
	_, ok = snap.FixedLabel("e4", date(2026, 1, 10))
	assert.False(t, ok)
}
