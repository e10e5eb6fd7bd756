package service

import (
	"context"
	"testing"

	"wisefido-roster/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRosterService() (RosterService, *repository.MemoryRosterRepository) {
	repo := repository.NewMemoryRosterRepository()
	return NewRosterService(repo, zap.NewNop()), repo
}

func TestCreateEmployeeValidation(t *testing.T) {
	svc, _ := newRosterService()
	ctx := context.Background()

	_, err := svc.CreateEmployee(ctx, EmployeeRequest{Name: "", Role: "standard"})
	assert.Error(t, err)

	_, err = svc.CreateEmployee(ctx, EmployeeRequest{Name: "X", Role: "apprentice"})
	assert.Error(t, err)

	_, err = svc.CreateEmployee(ctx, EmployeeRequest{Name: "X", Role: "standard", DailyHours: 30})
	assert.Error(t, err)
}

func TestCreateEmployeeDefaults(t *testing.T) {
	svc, repo := newRosterService()
	ctx := context.Background()

	id, err := svc.CreateEmployee(ctx, EmployeeRequest{Name: "  Anna F. ", Role: "standard", Color: "#D4EDDA"})
	require.NoError(t, err)

	employees, err := repo.ListEmployees(ctx, true)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, id, employees[0].EmployeeID)
	assert.Equal(t, "Anna F.", employees[0].Name)
	assert.Equal(t, 8, employees[0].DailyHours)
	assert.True(t, employees[0].Active)
	// # 前缀剥离，导出层再补
	assert.Equal(t, "D4EDDA", employees[0].Color)
}

func TestAddLeavePeriodValidation(t *testing.T) {
	svc, _ := newRosterService()
	ctx := context.Background()

	_, err := svc.AddLeavePeriod(ctx, LeaveRequest{EmployeeID: "e1", StartDate: "2026-01-10", EndDate: "2026-01-05"})
	assert.Error(t, err)

	_, err = svc.AddLeavePeriod(ctx, LeaveRequest{EmployeeID: "e1", StartDate: "not-a-date", EndDate: "2026-01-05"})
	assert.Error(t, err)

	_, err = svc.AddLeavePeriod(ctx, LeaveRequest{EmployeeID: "", StartDate: "2026-01-05", EndDate: "2026-01-05"})
	assert.Error(t, err)

	id, err := svc.AddLeavePeriod(ctx, LeaveRequest{EmployeeID: "e1", StartDate: "2026-01-05", EndDate: "2026-01-05"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
}

func TestSetFixedAssignmentValidation(t *testing.T) {
	svc, _ := newRosterService()
	ctx := context.Background()

	// 形如窗口但不合法
	_, err := svc.SetFixedAssignment(ctx, FixedAssignmentRequest{EmployeeID: "e3", Date: "2026-01-10", ShiftLabel: "25:00 - 30:00"})
	assert.Error(t, err)

	_, err = svc.SetFixedAssignment(ctx, FixedAssignmentRequest{EmployeeID: "e3", Date: "2026-01-10", ShiftLabel: "  "})
	assert.Error(t, err)

	// 合法窗口
	_, err = svc.SetFixedAssignment(ctx, FixedAssignmentRequest{EmployeeID: "e3", Date: "2026-01-10", ShiftLabel: "10:00 - 19:00"})
	assert.NoError(t, err)

	// 自定义文字标签原样接受
	_, err = svc.SetFixedAssignment(ctx, FixedAssignmentRequest{EmployeeID: "e3", Date: "2026-01-11", ShiftLabel: "Training day"})
	assert.NoError(t, err)
}

func TestReplaceRestWeekValidation(t *testing.T) {
	svc, repo := newRosterService()
	ctx := context.Background()

	assert.Error(t, svc.ReplaceRestWeek(ctx, RestWeekRequest{EmployeeID: "e4", WeekKey: "20254", Weekdays: []int{0}}))
	assert.Error(t, svc.ReplaceRestWeek(ctx, RestWeekRequest{EmployeeID: "e4", WeekKey: "2025W40", Weekdays: []int{0}}))
	assert.Error(t, svc.ReplaceRestWeek(ctx, RestWeekRequest{EmployeeID: "e4", WeekKey: "202540", Weekdays: []int{7}}))
	assert.Error(t, svc.ReplaceRestWeek(ctx, RestWeekRequest{EmployeeID: "", WeekKey: "202540", Weekdays: []int{0}}))

	// 重复的 weekday 去重
	require.NoError(t, svc.ReplaceRestWeek(ctx, RestWeekRequest{EmployeeID: "e4", WeekKey: "202540", Weekdays: []int{5, 5, 0}}))
	entries, err := repo.ListRestCycleEntries(ctx, "e4")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestSetClosedDateValidation(t *testing.T) {
	svc, _ := newRosterService()
	ctx := context.Background()

	_, err := svc.SetClosedDate(ctx, ClosedDateRequest{Date: "25/12/2025", Note: "Holiday"})
	assert.Error(t, err)

	id, err := svc.SetClosedDate(ctx, ClosedDateRequest{Date: "2025-12-25", Note: "Holiday"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// 同日期再次写入：替换而不是新增
	again, err := svc.SetClosedDate(ctx, ClosedDateRequest{Date: "2025-12-25", Note: "Inventory"})
	require.NoError(t, err)
	assert.Equal(t, id, again)

	closed, err := svc.ListClosedDates(ctx)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "Inventory", closed[0].Note)
}
