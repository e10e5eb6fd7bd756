package repository

import (
	"context"
	"database/sql"
	"fmt"

	"wisefido-roster/internal/domain"
)

// PostgresScheduleRepository ScheduleRepository 的 PostgreSQL 实现
type PostgresScheduleRepository struct {
	db *sql.DB
}

// NewPostgresScheduleRepository 创建 ScheduleRepository
func NewPostgresScheduleRepository(db *sql.DB) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{db: db}
}

// 确保实现了接口
var _ ScheduleRepository = (*PostgresScheduleRepository)(nil)

// SaveRun 保存一次生成。同 (start_date, num_weeks) 的旧 run 在同一事务内
// 整组删除后写入新记录，保证读到的永远是完整的一次生成
func (r *PostgresScheduleRepository) SaveRun(ctx context.Context, run *domain.ScheduleRun, entries []domain.ScheduleEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	// 旧 run 替换；schedule_entries 对 run_id 有 ON DELETE CASCADE
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM schedule_runs WHERE start_date = $1 AND num_weeks = $2
	`, run.StartDate, run.NumWeeks); err != nil {
		return fmt.Errorf("failed to replace previous runs: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO schedule_runs (run_id, start_date, num_weeks, generated_at)
		VALUES ($1, $2, $3, $4)
	`, run.RunID, run.StartDate, run.NumWeeks, run.GeneratedAt); err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO schedule_entries (run_id, employee_id, date, weekday, week_number, shift_label)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, run.RunID, e.EmployeeID, e.Date, e.Weekday, e.WeekNumber, e.ShiftLabel); err != nil {
			return fmt.Errorf("failed to insert entry (%s, %s): %w", e.EmployeeID, e.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}
	return nil
}

// GetRun 按 run_id 读取
func (r *PostgresScheduleRepository) GetRun(ctx context.Context, runID string) (*domain.ScheduleRun, []domain.ScheduleEntry, error) {
	return r.getRun(ctx, `
		SELECT run_id::text, start_date, num_weeks, generated_at
		FROM schedule_runs
		WHERE run_id = $1
	`, runID)
}

// GetLatestRun 最近一次生成
func (r *PostgresScheduleRepository) GetLatestRun(ctx context.Context) (*domain.ScheduleRun, []domain.ScheduleEntry, error) {
	return r.getRun(ctx, `
		SELECT run_id::text, start_date, num_weeks, generated_at
		FROM schedule_runs
		ORDER BY generated_at DESC
		LIMIT 1
	`)
}

func (r *PostgresScheduleRepository) getRun(ctx context.Context, query string, args ...any) (*domain.ScheduleRun, []domain.ScheduleEntry, error) {
	var run domain.ScheduleRun
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&run.RunID, &run.StartDate, &run.NumWeeks, &run.GeneratedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT run_id::text, employee_id::text, date, weekday, week_number, shift_label
		FROM schedule_entries
		WHERE run_id = $1
		ORDER BY date, employee_id
	`, run.RunID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScheduleEntry
	for rows.Next() {
		var e domain.ScheduleEntry
		if err := rows.Scan(&e.RunID, &e.EmployeeID, &e.Date, &e.Weekday, &e.WeekNumber, &e.ShiftLabel); err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return &run, entries, rows.Err()
}
