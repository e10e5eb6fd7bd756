package repository

import (
	"context"
	"testing"
	"time"

	"wisefido-roster/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRosterMock(t *testing.T) (*PostgresRosterRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRosterRepository(db), mock
}

func TestListEmployeesActiveOnly(t *testing.T) {
	repo, mock := newRosterMock(t)

	rows := sqlmock.NewRows([]string{"employee_id", "name", "role", "daily_hours", "active", "color"}).
		AddRow("e1", "Olivia P.", "early_opener", 8, true, "E8F5E8").
		AddRow("e2", "Anna F.", "standard", 8, true, "D4EDDA")
	mock.ExpectQuery(`SELECT employee_id::text, name, role, daily_hours, active, COALESCE\(color, 'FFFFFF'\)\s+FROM employees\s+WHERE active = true`).
		WillReturnRows(rows)

	out, err := repo.ListEmployees(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Olivia P.", out[0].Name)
	assert.Equal(t, "standard", out[1].Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmployeeNotFound(t *testing.T) {
	repo, mock := newRosterMock(t)

	mock.ExpectExec(`UPDATE employees`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateEmployee(context.Background(), &domain.Employee{
		EmployeeID: "missing", Name: "X", Role: "standard", DailyHours: 8,
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertFixedAssignmentKeepsExistingID(t *testing.T) {
	repo, mock := newRosterMock(t)

	// 冲突时 RETURNING 返回已存在的 assignment_id
	mock.ExpectQuery(`INSERT INTO fixed_assignments`).
		WillReturnRows(sqlmock.NewRows([]string{"assignment_id"}).AddRow("existing-id"))

	a := &domain.FixedAssignment{
		EmployeeID: "e3",
		Date:       time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
		ShiftLabel: "10:00 - 19:00",
	}
	id, err := repo.UpsertFixedAssignment(context.Background(), a)
	require.NoError(t, err)
	assert.Equal(t, "existing-id", id)
	assert.Equal(t, "existing-id", a.AssignmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReplaceRestWeekTransaction(t *testing.T) {
	repo, mock := newRosterMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM rest_cycle_entries WHERE employee_id = \$1 AND week_key = \$2`).
		WithArgs("e4", 202540).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`INSERT INTO rest_cycle_entries`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO rest_cycle_entries`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.ReplaceRestWeek(context.Background(), "e4", 202540, []int{0, 5})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClosedDateNotFound(t *testing.T) {
	repo, mock := newRosterMock(t)

	mock.ExpectExec(`DELETE FROM closed_dates WHERE date = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteClosedDate(context.Background(), time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
