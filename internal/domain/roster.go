package domain

import "time"

// LeavePeriod 休假区间（对应 leave_periods 表，闭区间）
type LeavePeriod struct {
	LeaveID    string    `db:"leave_id"`    // UUID, PRIMARY KEY
	EmployeeID string    `db:"employee_id"` // UUID, NOT NULL, FK to employees
	StartDate  time.Time `db:"start_date"`  // DATE, NOT NULL
	EndDate    time.Time `db:"end_date"`    // DATE, NOT NULL, >= start_date
	Note       string    `db:"note"`        // TEXT, nullable
}

// FixedAssignment 固定班次覆盖（对应 fixed_assignments 表）
// 每个 (employee_id, date) 至多一条；受保护：生成器的后续 pass 不得修改
type FixedAssignment struct {
	AssignmentID string    `db:"assignment_id"` // UUID, PRIMARY KEY
	EmployeeID   string    `db:"employee_id"`   // UUID, NOT NULL, FK to employees
	Date         time.Time `db:"date"`          // DATE, NOT NULL
	ShiftLabel   string    `db:"shift_label"`   // VARCHAR(50), NOT NULL（如 "10:00 - 19:00"）
	Note         string    `db:"note"`          // TEXT, nullable
}

// ClosedDate 闭店日（对应 closed_dates 表）
// 每个日期至多一条；对当天所有员工生效，note 作为显示标签
type ClosedDate struct {
	ClosedID string    `db:"closed_id"` // UUID, PRIMARY KEY
	Date     time.Time `db:"date"`      // DATE, NOT NULL, UNIQUE
	Note     string    `db:"note"`      // TEXT, nullable（空时回退到默认 "Closed" 标签）
}

// RestCycleEntry 周期休息日（对应 rest_cycle_entries 表）
// week_key 是 6 位 ISO 周标识（YYYYWW，周数补零到 2 位）；
// 存在记录表示该员工在该具体日历周的该 weekday 休息，缺省即工作日（稀疏表）
type RestCycleEntry struct {
	EntryID    string `db:"entry_id"`    // UUID, PRIMARY KEY
	EmployeeID string `db:"employee_id"` // UUID, NOT NULL, FK to employees
	WeekKey    int    `db:"week_key"`    // INTEGER, NOT NULL（isoYear*100 + isoWeek）
	Weekday    int    `db:"weekday"`     // INTEGER, NOT NULL, 0=Monday..6=Sunday
}
