package scheduler

import (
	"testing"
	"time"

	"wisefido-roster/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// monday 2026-01-05，后续场景的默认视野起点
var monday = date(2026, 1, 5)

func generate(t *testing.T, snap *Snapshot, start time.Time, weeks int) []DayRecord {
	t.Helper()
	records, err := NewGenerator(zap.NewNop()).Generate(snap, start, weeks)
	require.NoError(t, err)
	require.Len(t, records, weeks*7)
	return records
}

func labels(rec DayRecord) map[string]string {
	out := make(map[string]string, len(rec.Shifts))
	for id, s := range rec.Shifts {
		out[id] = s.FormatLabel()
	}
	return out
}

func TestGenerateFullRosterMonday(t *testing.T) {
	snap := NewSnapshot(testRoster(), nil, nil, nil, nil)
	records := generate(t, snap, monday, 1)

	// 周一：早班开门，轮换班还在起始缓冲收晚班，机动班补中段，收尾班见到 11 点起始改早中班
	assert.Equal(t, map[string]string{
		"e1": "05:00 - 14:00",
		"e2": "07:00 - 16:00",
		"e3": "11:00 - 20:00",
		"e4": "09:00 - 18:00",
		"e5": "06:00 - 15:00",
	}, labels(records[0]))

	// 周二：标准班和收尾班切换到周二窗口
	assert.Equal(t, "06:00 - 15:00", records[1].Shifts["e2"].FormatLabel())
	assert.Equal(t, "05:00 - 14:00", records[1].Shifts["e5"].FormatLabel())

	// 周末：早班开门休息
	assert.Equal(t, DayOff(), records[5].Shifts["e1"])
	assert.Equal(t, DayOff(), records[6].Shifts["e1"])
	assert.Equal(t, "Saturday", records[5].WeekdayName)
}

func TestGenerateClosedDate(t *testing.T) {
	closed := []domain.ClosedDate{{Date: date(2025, 12, 25), Note: "Holiday"}}
	snap := NewSnapshot(testRoster(), nil, nil, closed, nil)
	records := generate(t, snap, date(2025, 12, 22), 1)

	// 12-25 落在视野第 4 天，全员统一闭店备注
	rec := records[3]
	require.Equal(t, "2025-12-25", DateKey(rec.Date))
	for _, emp := range testRoster() {
		s := rec.Shifts[emp.EmployeeID]
		assert.Equal(t, ShiftClosed, s.Kind)
		assert.Equal(t, "Holiday", s.FormatLabel())
	}

	// 前后两天正常排班
	assert.Equal(t, ShiftWorking, records[2].Shifts["e1"].Kind)
	assert.Equal(t, ShiftWorking, records[4].Shifts["e1"].Kind)
}

func TestGenerateClosedDateBeatsFixedAndLeave(t *testing.T) {
	closed := []domain.ClosedDate{{Date: monday, Note: "Inventory"}}
	fixed := []domain.FixedAssignment{{EmployeeID: "e3", Date: monday, ShiftLabel: "10:00 - 19:00"}}
	leaves := []domain.LeavePeriod{{EmployeeID: "e2", StartDate: monday, EndDate: monday}}
	snap := NewSnapshot(testRoster(), leaves, fixed, closed, nil)
	records := generate(t, snap, monday, 1)

	for _, s := range records[0].Shifts {
		assert.Equal(t, ShiftClosed, s.Kind)
		assert.Equal(t, "Inventory", s.FormatLabel())
	}
}

func TestGenerateFixedAssignmentProtected(t *testing.T) {
	saturday := date(2026, 1, 10)
	fixed := []domain.FixedAssignment{{EmployeeID: "e3", Date: saturday, ShiftLabel: "10:00 - 19:00"}}
	snap := NewSnapshot(testRoster(), nil, fixed, nil, nil)
	records := generate(t, snap, monday, 1)

	s := records[5].Shifts["e3"]
	assert.True(t, s.Protected)
	assert.Equal(t, "10:00 - 19:00", s.FormatLabel())
}

func TestGenerateFixedBeatsLeaveAndRestCycle(t *testing.T) {
	// 固定覆盖优先于休假和休息日
	cycles := []domain.RestCycleEntry{
		{EmployeeID: "e4", WeekKey: WeekKey(monday), Weekday: 0},
	}
	leaves := []domain.LeavePeriod{{EmployeeID: "e4", StartDate: monday, EndDate: monday.AddDate(0, 0, 1)}}
	fixed := []domain.FixedAssignment{{EmployeeID: "e4", Date: monday, ShiftLabel: "08:00 - 17:00"}}
	snap := NewSnapshot(testRoster(), leaves, fixed, nil, cycles)
	records := generate(t, snap, monday, 1)

	assert.Equal(t, "08:00 - 17:00", records[0].Shifts["e4"].FormatLabel())
	assert.Equal(t, Leave(), records[1].Shifts["e4"])
}

func TestGenerateRestCycle(t *testing.T) {
	cycles := []domain.RestCycleEntry{{EmployeeID: "e4", WeekKey: 202540, Weekday: 5}}
	snap := NewSnapshot(testRoster(), nil, nil, nil, cycles)
	// 2025-09-29 是 ISO 2025 年第 40 周的周一
	records := generate(t, snap, date(2025, 9, 29), 2)

	assert.Equal(t, DayOff(), records[5].Shifts["e4"])
	// 下一周同一 weekday 不受影响
	assert.Equal(t, ShiftWorking, records[12].Shifts["e4"].Kind)
}

func TestGenerateUnknownRoleFails(t *testing.T) {
	employees := testRoster()
	employees[4].Role = "apprentice"
	snap := NewSnapshot(employees, nil, nil, nil, nil)

	_, err := NewGenerator(zap.NewNop()).Generate(snap, monday, 1)
	require.Error(t, err)
	var unresolved *UnresolvedDayError
	require.ErrorAs(t, err, &unresolved)
	assert.Equal(t, "e5", unresolved.EmployeeID)
	assert.Equal(t, "apprentice", unresolved.Role)
	assert.Equal(t, monday, unresolved.Date)
}

func TestGenerateInvalidWeeks(t *testing.T) {
	snap := NewSnapshot(testRoster(), nil, nil, nil, nil)
	_, err := NewGenerator(zap.NewNop()).Generate(snap, monday, 0)
	assert.Error(t, err)
}

func TestGenerateDeterministic(t *testing.T) {
	leaves := []domain.LeavePeriod{{EmployeeID: "e2", StartDate: date(2026, 1, 7), EndDate: date(2026, 1, 8)}}
	fixed := []domain.FixedAssignment{{EmployeeID: "e3", Date: date(2026, 1, 10), ShiftLabel: "10:00 - 19:00"}}
	closed := []domain.ClosedDate{{Date: date(2026, 1, 14), Note: "Holiday"}}
	cycles := []domain.RestCycleEntry{{EmployeeID: "e4", WeekKey: WeekKey(monday), Weekday: 4}}
	snap := NewSnapshot(testRoster(), leaves, fixed, closed, cycles)

	first := generate(t, snap, monday, 4)
	second := generate(t, snap, monday, 4)
	assert.Equal(t, first, second)
}

func TestGenerateCoverageProperties(t *testing.T) {
	snap := NewSnapshot(testRoster(), nil, nil, nil, nil)
	records := generate(t, snap, monday, 4)

	for _, rec := range records {
		hasEarly := false
		hasLate := false
		for _, s := range rec.Shifts {
			if s.IsWorking() && s.Start < 8 {
				hasEarly = true
			}
			if s.IsWorking() && s.End == 20 {
				hasLate = true
			}
		}
		assert.True(t, hasEarly, "no early opener on %s", DateKey(rec.Date))
		assert.True(t, hasLate, "no late coverage on %s", DateKey(rec.Date))
	}
}

func TestGenerateDriftBound(t *testing.T) {
	// 可变起始角色的相邻工作日起始漂移不超过 3 小时
	snap := NewSnapshot(testRoster(), nil, nil, nil, nil)
	records := generate(t, snap, monday, 4)

	for _, id := range []string{"e3", "e4"} {
		for i := 1; i < len(records); i++ {
			cur := records[i].Shifts[id]
			prev := records[i-1].Shifts[id]
			if !cur.IsWorking() || !prev.IsWorking() || cur.Protected {
				continue
			}
			diff := cur.Start - prev.Start
			if diff < 0 {
				diff = -diff
			}
			assert.LessOrEqual(t, diff, 3, "employee %s drifts on %s", id, DateKey(records[i].Date))
		}
	}
}

func TestEarlyCoverageBalancing(t *testing.T) {
	// 早班开门和收尾班休假、标准班固定中段：没人在 08:00 前开工，
	// 平衡器按逆序改第一个可动员工（机动班）补 07:00–16:00
	leaves := []domain.LeavePeriod{
		{EmployeeID: "e1", StartDate: monday, EndDate: monday},
		{EmployeeID: "e5", StartDate: monday, EndDate: monday},
	}
	fixed := []domain.FixedAssignment{{EmployeeID: "e2", Date: monday, ShiftLabel: "09:00 - 18:00"}}
	snap := NewSnapshot(testRoster(), leaves, fixed, nil, nil)
	records := generate(t, snap, monday, 1)

	rec := records[0]
	assert.Equal(t, Leave(), rec.Shifts["e1"])
	assert.Equal(t, Leave(), rec.Shifts["e5"])
	assert.Equal(t, "09:00 - 18:00", rec.Shifts["e2"].FormatLabel())
	assert.Equal(t, "11:00 - 20:00", rec.Shifts["e3"].FormatLabel())
	assert.Equal(t, "07:00 - 16:00", rec.Shifts["e4"].FormatLabel())
}

func TestLateCoverageBalancing(t *testing.T) {
	// 轮换班被固定到 12:00–21:00：没人收到 20:00，收尾班被 12 点起始
	// 守卫挡掉，机动班被拉长到 11:00–20:00
	fixed := []domain.FixedAssignment{{EmployeeID: "e3", Date: monday, ShiftLabel: "12:00 - 21:00"}}
	snap := NewSnapshot(testRoster(), nil, fixed, nil, nil)
	records := generate(t, snap, monday, 1)

	rec := records[0]
	assert.Equal(t, "12:00 - 21:00", rec.Shifts["e3"].FormatLabel())
	assert.True(t, rec.Shifts["e3"].Protected)
	assert.Equal(t, "11:00 - 20:00", rec.Shifts["e4"].FormatLabel())
}

func TestLateCoverageRequiresThreePresent(t *testing.T) {
	// 第二周周一：标准班被固定到 11:00–19:00，策略初排没人收到 20:00
	nextMonday := monday.AddDate(0, 0, 7)
	fixed := []domain.FixedAssignment{{EmployeeID: "e2", Date: nextMonday, ShiftLabel: "11:00 - 19:00"}}

	// 4 人在岗：收尾班被拉长补位
	leaves := []domain.LeavePeriod{{EmployeeID: "e4", StartDate: monday, EndDate: nextMonday}}
	snap := NewSnapshot(testRoster(), leaves, fixed, nil, nil)
	records := generate(t, snap, monday, 2)
	assert.Equal(t, "11:00 - 20:00", records[7].Shifts["e5"].FormatLabel())

	// 在岗只剩 2 人：缺口保留，不拉长任何人
	leaves = append(leaves,
		domain.LeavePeriod{EmployeeID: "e1", StartDate: monday, EndDate: nextMonday},
		domain.LeavePeriod{EmployeeID: "e5", StartDate: monday, EndDate: nextMonday},
	)
	snap = NewSnapshot(testRoster(), leaves, fixed, nil, nil)
	records = generate(t, snap, monday, 2)
	for _, s := range records[7].Shifts {
		if s.IsWorking() {
			assert.NotEqual(t, 20, s.End)
		}
	}
}

func TestSmootherClampsDrift(t *testing.T) {
	// 机动班第一天被固定到 11:00–20:00，第二天策略建议 07:00 起，
	// 漂移 -4 超限，向前一天收拢到 08:00–17:00
	leaves := []domain.LeavePeriod{
		{EmployeeID: "e1", StartDate: monday, EndDate: monday.AddDate(0, 0, 1)},
		{EmployeeID: "e2", StartDate: monday, EndDate: monday.AddDate(0, 0, 1)},
		{EmployeeID: "e3", StartDate: monday, EndDate: monday.AddDate(0, 0, 1)},
		{EmployeeID: "e5", StartDate: monday, EndDate: monday.AddDate(0, 0, 1)},
	}
	fixed := []domain.FixedAssignment{{EmployeeID: "e4", Date: monday, ShiftLabel: "11:00 - 20:00"}}
	snap := NewSnapshot(testRoster(), leaves, fixed, nil, nil)
	records := generate(t, snap, monday, 1)

	assert.Equal(t, "11:00 - 20:00", records[0].Shifts["e4"].FormatLabel())
	assert.Equal(t, "08:00 - 17:00", records[1].Shifts["e4"].FormatLabel())
}

func TestSmootherSkipsAfterAbsence(t *testing.T) {
	// 前一天休假：没有可比较的起始小时，平滑不介入
	leaves := []domain.LeavePeriod{{EmployeeID: "e4", StartDate: monday, EndDate: monday}}
	snap := NewSnapshot(testRoster(), leaves, nil, nil, nil)
	records := generate(t, snap, monday, 1)

	assert.Equal(t, Leave(), records[0].Shifts["e4"])
	assert.Equal(t, ShiftWorking, records[1].Shifts["e4"].Kind)
}

func TestEvaluationOrderStable(t *testing.T) {
	g := NewGenerator(zap.NewNop())
	employees := []domain.Employee{
		{EmployeeID: "z9", Role: domain.RoleCloser, Active: true},
		{EmployeeID: "a2", Role: domain.RoleFloater, Active: true},
		{EmployeeID: "a1", Role: domain.RoleFloater, Active: true},
		{EmployeeID: "m5", Role: domain.RoleEarlyOpener, Active: true},
	}
	ordered := g.evaluationOrder(employees)
	got := make([]string, len(ordered))
	for i, e := range ordered {
		got[i] = e.EmployeeID
	}
	assert.Equal(t, []string{"m5", "a1", "a2", "z9"}, got)
}
