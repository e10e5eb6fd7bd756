package domain

import "time"

// ScheduleRun 一次排班生成（对应 schedule_runs 表）
// 同一 (start_date, num_weeks) 重新生成时整组替换
type ScheduleRun struct {
	RunID       string    `db:"run_id"`       // UUID, PRIMARY KEY
	StartDate   time.Time `db:"start_date"`   // DATE, NOT NULL
	NumWeeks    int       `db:"num_weeks"`    // INTEGER, NOT NULL, >= 1
	GeneratedAt time.Time `db:"generated_at"` // TIMESTAMPTZ, NOT NULL
}

// ScheduleEntry 单条排班记录（对应 schedule_entries 表）
// 每个 run 内 (employee_id, date) 唯一
type ScheduleEntry struct {
	RunID      string    `db:"run_id"`      // UUID, NOT NULL, FK to schedule_runs
	EmployeeID string    `db:"employee_id"` // UUID, NOT NULL, FK to employees
	Date       time.Time `db:"date"`        // DATE, NOT NULL
	Weekday    int       `db:"weekday"`     // INTEGER, 0=Monday..6=Sunday
	WeekNumber int       `db:"week_number"` // INTEGER, 1-based within the run
	ShiftLabel string    `db:"shift_label"` // VARCHAR(100)："HH:MM - HH:MM" / "DAY_OFF" / "LEAVE" / closure note
}
