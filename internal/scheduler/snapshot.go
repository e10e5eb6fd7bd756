package scheduler

import (
	"fmt"
	"time"

	"wisefido-roster/internal/domain"
)

// Snapshot 一次生成所依赖的五个关系的只读快照。
// 生成开始时构建一次，之后不再变化；缺失数据一律视为"无覆盖"，不报错
type Snapshot struct {
	employees []domain.Employee

	leave    map[string][]leaveRange // employee_id -> 休假区间（闭区间）
	fixed    map[string]string       // date|employee_id -> 固定班次标签
	closed   map[string]string       // date -> 闭店备注
	restDays map[string]struct{}     // employee_id|weekKey|weekday
}

type leaveRange struct {
	start time.Time
	end   time.Time
}

// NewSnapshot 构建快照。仅保留 active 员工，日期全部归一化到零点
func NewSnapshot(
	employees []domain.Employee,
	leaves []domain.LeavePeriod,
	fixed []domain.FixedAssignment,
	closed []domain.ClosedDate,
	cycles []domain.RestCycleEntry,
) *Snapshot {
	s := &Snapshot{
		leave:    make(map[string][]leaveRange),
		fixed:    make(map[string]string),
		closed:   make(map[string]string),
		restDays: make(map[string]struct{}),
	}
	for _, e := range employees {
		if e.Active {
			s.employees = append(s.employees, e)
		}
	}
	for _, l := range leaves {
		s.leave[l.EmployeeID] = append(s.leave[l.EmployeeID], leaveRange{
			start: Midnight(l.StartDate),
			end:   Midnight(l.EndDate),
		})
	}
	for _, f := range fixed {
		s.fixed[DateKey(f.Date)+"|"+f.EmployeeID] = f.ShiftLabel
	}
	for _, c := range closed {
		s.closed[DateKey(c.Date)] = c.Note
	}
	for _, rc := range cycles {
		s.restDays[restKey(rc.EmployeeID, rc.WeekKey, rc.Weekday)] = struct{}{}
	}
	return s
}

func restKey(employeeID string, weekKey, weekday int) string {
	return fmt.Sprintf("%s|%06d|%d", employeeID, weekKey, weekday)
}

// ActiveEmployees 快照中的 active 员工（未排序）
func (s *Snapshot) ActiveEmployees() []domain.Employee {
	return s.employees
}

// ClosedLabel 闭店解析：该日期是否闭店，以及显示标签（备注为空时回退默认标签）
func (s *Snapshot) ClosedLabel(date time.Time) (string, bool) {
	note, ok := s.closed[DateKey(date)]
	if !ok {
		return "", false
	}
	if note == "" {
		note = DefaultClosedLabel
	}
	return note, true
}

// FixedLabel 固定覆盖解析
func (s *Snapshot) FixedLabel(employeeID string, date time.Time) (string, bool) {
	label, ok := s.fixed[DateKey(date)+"|"+employeeID]
	return label, ok
}

// OnLeave 休假解析：date 是否落在该员工任一休假区间内（闭区间）
func (s *Snapshot) OnLeave(employeeID string, date time.Time) bool {
	d := Midnight(date)
	for _, r := range s.leave[employeeID] {
		if !d.Before(r.start) && !d.After(r.end) {
			return true
		}
	}
	return false
}

// RestDay 周期休息日解析：按 date 的 ISO 周 key + weekday 查稀疏表
func (s *Snapshot) RestDay(employeeID string, date time.Time) bool {
	_, ok := s.restDays[restKey(employeeID, WeekKey(date), WeekdayIndex(date))]
	return ok
}

// WeekKey 计算 6 位 ISO 周标识：isoYear*100 + isoWeek
func WeekKey(date time.Time) int {
	year, week := date.ISOWeek()
	return year*100 + week
}
