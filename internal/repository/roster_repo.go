package repository

import (
	"context"
	"errors"
	"time"

	"wisefido-roster/internal/domain"
)

// ErrNotFound 目标记录不存在
var ErrNotFound = errors.New("record not found")

// RosterRepository 排班输入五关系的持久化接口。
// 生成器在 run 开始时通过这些 List 方法取一次只读快照
type RosterRepository interface {
	// ListEmployees 员工列表；activeOnly 时只返回在编员工
	ListEmployees(ctx context.Context, activeOnly bool) ([]domain.Employee, error)
	// CreateEmployee 创建员工，返回生成的 employee_id
	CreateEmployee(ctx context.Context, e *domain.Employee) (string, error)
	// UpdateEmployee 更新员工
	UpdateEmployee(ctx context.Context, e *domain.Employee) error
	// DeleteEmployee 删除员工
	DeleteEmployee(ctx context.Context, employeeID string) error

	// ListLeavePeriods 休假区间；employeeID 为空时返回全部
	ListLeavePeriods(ctx context.Context, employeeID string) ([]domain.LeavePeriod, error)
	// CreateLeavePeriod 新增休假区间，返回 leave_id
	CreateLeavePeriod(ctx context.Context, p *domain.LeavePeriod) (string, error)
	// DeleteLeavePeriod 删除休假区间
	DeleteLeavePeriod(ctx context.Context, leaveID string) error

	// ListFixedAssignments 全部固定班次覆盖
	ListFixedAssignments(ctx context.Context) ([]domain.FixedAssignment, error)
	// UpsertFixedAssignment 写入固定覆盖；(employee_id, date) 冲突时替换标签
	UpsertFixedAssignment(ctx context.Context, a *domain.FixedAssignment) (string, error)
	// DeleteFixedAssignment 删除固定覆盖
	DeleteFixedAssignment(ctx context.Context, assignmentID string) error

	// ListClosedDates 全部闭店日
	ListClosedDates(ctx context.Context) ([]domain.ClosedDate, error)
	// UpsertClosedDate 写入闭店日；同日期冲突时替换备注
	UpsertClosedDate(ctx context.Context, c *domain.ClosedDate) (string, error)
	// DeleteClosedDate 按日期删除闭店日
	DeleteClosedDate(ctx context.Context, date time.Time) error

	// ListRestCycleEntries 周期休息日；employeeID 为空时返回全部
	ListRestCycleEntries(ctx context.Context, employeeID string) ([]domain.RestCycleEntry, error)
	// ReplaceRestWeek 整周替换：删除 (employee, weekKey) 原有记录后写入 weekdays
	ReplaceRestWeek(ctx context.Context, employeeID string, weekKey int, weekdays []int) error
	// DeleteRestCycle 删除员工的全部周期休息日
	DeleteRestCycle(ctx context.Context, employeeID string) error
}

// ScheduleRepository 排班结果的持久化接口
type ScheduleRepository interface {
	// SaveRun 保存一次生成；同 (start_date, num_weeks) 的旧 run 整组替换
	SaveRun(ctx context.Context, run *domain.ScheduleRun, entries []domain.ScheduleEntry) error
	// GetRun 按 run_id 读取
	GetRun(ctx context.Context, runID string) (*domain.ScheduleRun, []domain.ScheduleEntry, error)
	// GetLatestRun 最近一次生成（按 generated_at）
	GetLatestRun(ctx context.Context) (*domain.ScheduleRun, []domain.ScheduleEntry, error)
}
