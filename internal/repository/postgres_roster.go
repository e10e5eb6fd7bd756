package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"wisefido-roster/internal/domain"

	"github.com/google/uuid"
)

// PostgresRosterRepository RosterRepository 的 PostgreSQL 实现
type PostgresRosterRepository struct {
	db *sql.DB
}

// NewPostgresRosterRepository 创建 RosterRepository
func NewPostgresRosterRepository(db *sql.DB) *PostgresRosterRepository {
	return &PostgresRosterRepository{db: db}
}

// 确保实现了接口
var _ RosterRepository = (*PostgresRosterRepository)(nil)

// ListEmployees 员工列表
func (r *PostgresRosterRepository) ListEmployees(ctx context.Context, activeOnly bool) ([]domain.Employee, error) {
	query := `
		SELECT employee_id::text, name, role, daily_hours, active, COALESCE(color, 'FFFFFF')
		FROM employees
	`
	if activeOnly {
		query += ` WHERE active = true`
	}
	query += ` ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []domain.Employee
	for rows.Next() {
		var e domain.Employee
		if err := rows.Scan(&e.EmployeeID, &e.Name, &e.Role, &e.DailyHours, &e.Active, &e.Color); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// CreateEmployee 创建员工
func (r *PostgresRosterRepository) CreateEmployee(ctx context.Context, e *domain.Employee) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO employees (employee_id, name, role, daily_hours, active, color)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, id, e.Name, e.Role, e.DailyHours, e.Active, e.Color)
	if err != nil {
		return "", fmt.Errorf("failed to create employee: %w", err)
	}
	e.EmployeeID = id
	return id, nil
}

// UpdateEmployee 更新员工
func (r *PostgresRosterRepository) UpdateEmployee(ctx context.Context, e *domain.Employee) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE employees
		SET name = $2, role = $3, daily_hours = $4, active = $5, color = $6
		WHERE employee_id = $1
	`, e.EmployeeID, e.Name, e.Role, e.DailyHours, e.Active, e.Color)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	return requireRowAffected(res)
}

// DeleteEmployee 删除员工
func (r *PostgresRosterRepository) DeleteEmployee(ctx context.Context, employeeID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE employee_id = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return requireRowAffected(res)
}

// ListLeavePeriods 休假区间
func (r *PostgresRosterRepository) ListLeavePeriods(ctx context.Context, employeeID string) ([]domain.LeavePeriod, error) {
	query := `
		SELECT leave_id::text, employee_id::text, start_date, end_date, COALESCE(note, '')
		FROM leave_periods
	`
	var args []any
	if employeeID != "" {
		query += ` WHERE employee_id = $1`
		args = append(args, employeeID)
	}
	query += ` ORDER BY start_date`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave periods: %w", err)
	}
	defer rows.Close()

	var out []domain.LeavePeriod
	for rows.Next() {
		var p domain.LeavePeriod
		if err := rows.Scan(&p.LeaveID, &p.EmployeeID, &p.StartDate, &p.EndDate, &p.Note); err != nil {
			return nil, fmt.Errorf("failed to scan leave period: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateLeavePeriod 新增休假区间
func (r *PostgresRosterRepository) CreateLeavePeriod(ctx context.Context, p *domain.LeavePeriod) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO leave_periods (leave_id, employee_id, start_date, end_date, note)
		VALUES ($1, $2, $3, $4, $5)
	`, id, p.EmployeeID, p.StartDate, p.EndDate, p.Note)
	if err != nil {
		return "", fmt.Errorf("failed to create leave period: %w", err)
	}
	p.LeaveID = id
	return id, nil
}

// DeleteLeavePeriod 删除休假区间
func (r *PostgresRosterRepository) DeleteLeavePeriod(ctx context.Context, leaveID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM leave_periods WHERE leave_id = $1`, leaveID)
	if err != nil {
		return fmt.Errorf("failed to delete leave period: %w", err)
	}
	return requireRowAffected(res)
}

// ListFixedAssignments 全部固定班次覆盖
func (r *PostgresRosterRepository) ListFixedAssignments(ctx context.Context) ([]domain.FixedAssignment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT assignment_id::text, employee_id::text, date, shift_label, COALESCE(note, '')
		FROM fixed_assignments
		ORDER BY date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed assignments: %w", err)
	}
	defer rows.Close()

	var out []domain.FixedAssignment
	for rows.Next() {
		var a domain.FixedAssignment
		if err := rows.Scan(&a.AssignmentID, &a.EmployeeID, &a.Date, &a.ShiftLabel, &a.Note); err != nil {
			return nil, fmt.Errorf("failed to scan fixed assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpsertFixedAssignment 写入固定覆盖，(employee_id, date) 冲突时替换
func (r *PostgresRosterRepository) UpsertFixedAssignment(ctx context.Context, a *domain.FixedAssignment) (string, error) {
	id := uuid.NewString()
	var assignmentID string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO fixed_assignments (assignment_id, employee_id, date, shift_label, note)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, date)
		DO UPDATE SET shift_label = EXCLUDED.shift_label,
		              note = EXCLUDED.note
		RETURNING assignment_id::text
	`, id, a.EmployeeID, a.Date, a.ShiftLabel, a.Note).Scan(&assignmentID)
	if err != nil {
		return "", fmt.Errorf("failed to upsert fixed assignment: %w", err)
	}
	a.AssignmentID = assignmentID
	return assignmentID, nil
}

// DeleteFixedAssignment 删除固定覆盖
func (r *PostgresRosterRepository) DeleteFixedAssignment(ctx context.Context, assignmentID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM fixed_assignments WHERE assignment_id = $1`, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to delete fixed assignment: %w", err)
	}
	return requireRowAffected(res)
}

// ListClosedDates 全部闭店日
func (r *PostgresRosterRepository) ListClosedDates(ctx context.Context) ([]domain.ClosedDate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT closed_id::text, date, COALESCE(note, '')
		FROM closed_dates
		ORDER BY date
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list closed dates: %w", err)
	}
	defer rows.Close()

	var out []domain.ClosedDate
	for rows.Next() {
		var c domain.ClosedDate
		if err := rows.Scan(&c.ClosedID, &c.Date, &c.Note); err != nil {
			return nil, fmt.Errorf("failed to scan closed date: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpsertClosedDate 写入闭店日，同日期冲突时替换备注
func (r *PostgresRosterRepository) UpsertClosedDate(ctx context.Context, c *domain.ClosedDate) (string, error) {
	id := uuid.NewString()
	var closedID string
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO closed_dates (closed_id, date, note)
		VALUES ($1, $2, $3)
		ON CONFLICT (date)
		DO UPDATE SET note = EXCLUDED.note
		RETURNING closed_id::text
	`, id, c.Date, c.Note).Scan(&closedID)
	if err != nil {
		return "", fmt.Errorf("failed to upsert closed date: %w", err)
	}
	c.ClosedID = closedID
	return closedID, nil
}

// DeleteClosedDate 按日期删除闭店日
func (r *PostgresRosterRepository) DeleteClosedDate(ctx context.Context, date time.Time) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM closed_dates WHERE date = $1`, date)
	if err != nil {
		return fmt.Errorf("failed to delete closed date: %w", err)
	}
	return requireRowAffected(res)
}

// ListRestCycleEntries 周期休息日
func (r *PostgresRosterRepository) ListRestCycleEntries(ctx context.Context, employeeID string) ([]domain.RestCycleEntry, error) {
	query := `
		SELECT entry_id::text, employee_id::text, week_key, weekday
		FROM rest_cycle_entries
	`
	var args []any
	if employeeID != "" {
		query += ` WHERE employee_id = $1`
		args = append(args, employeeID)
	}
	query += ` ORDER BY week_key, weekday`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rest cycle entries: %w", err)
	}
	defer rows.Close()

	var out []domain.RestCycleEntry
	for rows.Next() {
		var rc domain.RestCycleEntry
		if err := rows.Scan(&rc.EntryID, &rc.EmployeeID, &rc.WeekKey, &rc.Weekday); err != nil {
			return nil, fmt.Errorf("failed to scan rest cycle entry: %w", err)
		}
		out = append(out, rc)
	}
	return out, rows.Err()
}

// ReplaceRestWeek 整周替换：事务内先删后插
func (r *PostgresRosterRepository) ReplaceRestWeek(ctx context.Context, employeeID string, weekKey int, weekdays []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM rest_cycle_entries WHERE employee_id = $1 AND week_key = $2
	`, employeeID, weekKey); err != nil {
		return fmt.Errorf("failed to clear rest week: %w", err)
	}
	for _, weekday := range weekdays {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO rest_cycle_entries (entry_id, employee_id, week_key, weekday)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), employeeID, weekKey, weekday); err != nil {
			return fmt.Errorf("failed to insert rest day: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rest week: %w", err)
	}
	return nil
}

// DeleteRestCycle 删除员工的全部周期休息日
func (r *PostgresRosterRepository) DeleteRestCycle(ctx context.Context, employeeID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM rest_cycle_entries WHERE employee_id = $1`, employeeID)
	if err != nil {
		return fmt.Errorf("failed to delete rest cycle: %w", err)
	}
	return nil
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
