package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"wisefido-roster/internal/domain"
	"wisefido-roster/internal/repository"
	"wisefido-roster/internal/scheduler"

	"go.uber.org/zap"
)

var weekKeyPattern = regexp.MustCompile(`^\d{6}$`)

// EmployeeRequest 新建/更新员工
type EmployeeRequest struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	DailyHours int    `json:"dailyHours"`
	Active     *bool  `json:"active"`
	Color      string `json:"color"` // RRGGBB，可带 # 前缀
}

// LeaveRequest 新增请假区间
type LeaveRequest struct {
	EmployeeID string `json:"employeeId"`
	StartDate  string `json:"startDate"` // YYYY-MM-DD
	EndDate    string `json:"endDate"`
	Note       string `json:"note"`
}

// FixedAssignmentRequest 设置某天的固定覆盖
type FixedAssignmentRequest struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`  // YYYY-MM-DD
	ShiftLabel string `json:"shiftLabel"` // 时间窗或自定义文字
	Note       string `json:"note"`
}

// ClosedDateRequest 设置闭店日
type ClosedDateRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
	Note string `json:"note"`
}

// RestWeekRequest 整周替换某员工某周的休息日
type RestWeekRequest struct {
	EmployeeID string `json:"employeeId"`
	WeekKey    string `json:"weekKey"` // 六位数字 YYYYWW
	Weekdays   []int  `json:"weekdays"` // 0=Monday .. 6=Sunday
}

// RosterService 编制维护（员工/请假/固定班次/闭店日/休息周期）
type RosterService interface {
	ListEmployees(ctx context.Context, activeOnly bool) ([]domain.Employee, error)
	CreateEmployee(ctx context.Context, req EmployeeRequest) (string, error)
	UpdateEmployee(ctx context.Context, employeeID string, req EmployeeRequest) error
	DeleteEmployee(ctx context.Context, employeeID string) error

	ListLeavePeriods(ctx context.Context, employeeID string) ([]domain.LeavePeriod, error)
	AddLeavePeriod(ctx context.Context, req LeaveRequest) (string, error)
	DeleteLeavePeriod(ctx context.Context, leaveID string) error

	ListFixedAssignments(ctx context.Context) ([]domain.FixedAssignment, error)
	SetFixedAssignment(ctx context.Context, req FixedAssignmentRequest) (string, error)
	DeleteFixedAssignment(ctx context.Context, assignmentID string) error

	ListClosedDates(ctx context.Context) ([]domain.ClosedDate, error)
	SetClosedDate(ctx context.Context, req ClosedDateRequest) (string, error)
	DeleteClosedDate(ctx context.Context, date string) error

	ListRestCycleEntries(ctx context.Context, employeeID string) ([]domain.RestCycleEntry, error)
	ReplaceRestWeek(ctx context.Context, req RestWeekRequest) error
	DeleteRestCycle(ctx context.Context, employeeID string) error
}

type rosterService struct {
	repo   repository.RosterRepository
	logger *zap.Logger
}

// NewRosterService 创建 RosterService
func NewRosterService(repo repository.RosterRepository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger}
}

func (s *rosterService) ListEmployees(ctx context.Context, activeOnly bool) ([]domain.Employee, error) {
	return s.repo.ListEmployees(ctx, activeOnly)
}

func (s *rosterService) CreateEmployee(ctx context.Context, req EmployeeRequest) (string, error) {
	emp, err := employeeFromRequest(req)
	if err != nil {
		return "", err
	}
	id, err := s.repo.CreateEmployee(ctx, emp)
	if err != nil {
		return "", fmt.Errorf("failed to create employee: %w", err)
	}
	s.logger.Info("employee created", zap.String("employee_id", id), zap.String("role", emp.Role))
	return id, nil
}

func (s *rosterService) UpdateEmployee(ctx context.Context, employeeID string, req EmployeeRequest) error {
	if employeeID == "" {
		return fmt.Errorf("employeeId is required")
	}
	emp, err := employeeFromRequest(req)
	if err != nil {
		return err
	}
	emp.EmployeeID = employeeID
	if err := s.repo.UpdateEmployee(ctx, emp); err != nil {
		return fmt.Errorf("failed to update employee %s: %w", employeeID, err)
	}
	return nil
}

func (s *rosterService) DeleteEmployee(ctx context.Context, employeeID string) error {
	if employeeID == "" {
		return fmt.Errorf("employeeId is required")
	}
	return s.repo.DeleteEmployee(ctx, employeeID)
}

func (s *rosterService) ListLeavePeriods(ctx context.Context, employeeID string) ([]domain.LeavePeriod, error) {
	return s.repo.ListLeavePeriods(ctx, employeeID)
}

func (s *rosterService) AddLeavePeriod(ctx context.Context, req LeaveRequest) (string, error) {
	if req.EmployeeID == "" {
		return "", fmt.Errorf("employeeId is required")
	}
	start, err := parseDate(req.StartDate, "startDate")
	if err != nil {
		return "", err
	}
	end, err := parseDate(req.EndDate, "endDate")
	if err != nil {
		return "", err
	}
	if end.Before(start) {
		return "", fmt.Errorf("endDate %s is before startDate %s", req.EndDate, req.StartDate)
	}
	period := &domain.LeavePeriod{
		EmployeeID: req.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		Note:       req.Note,
	}
	id, err := s.repo.CreateLeavePeriod(ctx, period)
	if err != nil {
		return "", fmt.Errorf("failed to create leave period: %w", err)
	}
	return id, nil
}

func (s *rosterService) DeleteLeavePeriod(ctx context.Context, leaveID string) error {
	if leaveID == "" {
		return fmt.Errorf("leaveId is required")
	}
	return s.repo.DeleteLeavePeriod(ctx, leaveID)
}

func (s *rosterService) ListFixedAssignments(ctx context.Context) ([]domain.FixedAssignment, error) {
	return s.repo.ListFixedAssignments(ctx)
}

func (s *rosterService) SetFixedAssignment(ctx context.Context, req FixedAssignmentRequest) (string, error) {
	if req.EmployeeID == "" {
		return "", fmt.Errorf("employeeId is required")
	}
	date, err := parseDate(req.Date, "date")
	if err != nil {
		return "", err
	}
	label := strings.TrimSpace(req.ShiftLabel)
	if label == "" {
		return "", fmt.Errorf("shiftLabel is required")
	}
	// 形如时间窗的标签必须是合法时间窗，避免导出和还原时歧义
	if strings.Contains(label, " - ") {
		if _, _, ok := scheduler.ParseWindow(label); !ok {
			return "", fmt.Errorf("shiftLabel %q looks like a time window but is malformed, want HH:MM - HH:MM", label)
		}
	}
	assignment := &domain.FixedAssignment{
		EmployeeID: req.EmployeeID,
		Date:       date,
		ShiftLabel: label,
		Note:       req.Note,
	}
	id, err := s.repo.UpsertFixedAssignment(ctx, assignment)
	if err != nil {
		return "", fmt.Errorf("failed to upsert fixed assignment: %w", err)
	}
	return id, nil
}

func (s *rosterService) DeleteFixedAssignment(ctx context.Context, assignmentID string) error {
	if assignmentID == "" {
		return fmt.Errorf("assignmentId is required")
	}
	return s.repo.DeleteFixedAssignment(ctx, assignmentID)
}

func (s *rosterService) ListClosedDates(ctx context.Context) ([]domain.ClosedDate, error) {
	return s.repo.ListClosedDates(ctx)
}

func (s *rosterService) SetClosedDate(ctx context.Context, req ClosedDateRequest) (string, error) {
	date, err := parseDate(req.Date, "date")
	if err != nil {
		return "", err
	}
	closed := &domain.ClosedDate{Date: date, Note: req.Note}
	id, err := s.repo.UpsertClosedDate(ctx, closed)
	if err != nil {
		return "", fmt.Errorf("failed to upsert closed date: %w", err)
	}
	return id, nil
}

func (s *rosterService) DeleteClosedDate(ctx context.Context, date string) error {
	parsed, err := parseDate(date, "date")
	if err != nil {
		return err
	}
	return s.repo.DeleteClosedDate(ctx, parsed)
}

func (s *rosterService) ListRestCycleEntries(ctx context.Context, employeeID string) ([]domain.RestCycleEntry, error) {
	return s.repo.ListRestCycleEntries(ctx, employeeID)
}

func (s *rosterService) ReplaceRestWeek(ctx context.Context, req RestWeekRequest) error {
	if req.EmployeeID == "" {
		return fmt.Errorf("employeeId is required")
	}
	if !weekKeyPattern.MatchString(req.WeekKey) {
		return fmt.Errorf("weekKey %q must be exactly six digits (YYYYWW)", req.WeekKey)
	}
	weekKey, _ := strconv.Atoi(req.WeekKey)

	// 去重并校验范围
	seen := make(map[int]struct{}, len(req.Weekdays))
	var weekdays []int
	for _, weekday := range req.Weekdays {
		if weekday < 0 || weekday > 6 {
			return fmt.Errorf("weekday %d out of range [0,6]", weekday)
		}
		if _, ok := seen[weekday]; ok {
			continue
		}
		seen[weekday] = struct{}{}
		weekdays = append(weekdays, weekday)
	}
	sort.Ints(weekdays)

	if err := s.repo.ReplaceRestWeek(ctx, req.EmployeeID, weekKey, weekdays); err != nil {
		return fmt.Errorf("failed to replace rest week: %w", err)
	}
	return nil
}

func (s *rosterService) DeleteRestCycle(ctx context.Context, employeeID string) error {
	if employeeID == "" {
		return fmt.Errorf("employeeId is required")
	}
	return s.repo.DeleteRestCycle(ctx, employeeID)
}

func employeeFromRequest(req EmployeeRequest) (*domain.Employee, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if !validRole(req.Role) {
		return nil, fmt.Errorf("unknown role %q", req.Role)
	}
	hours := req.DailyHours
	if hours == 0 {
		hours = 8
	}
	if hours < 1 || hours > 24 {
		return nil, fmt.Errorf("dailyHours %d out of range [1,24]", hours)
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	color := strings.TrimPrefix(strings.TrimSpace(req.Color), "#")
	return &domain.Employee{
		Name:       name,
		Role:       req.Role,
		DailyHours: hours,
		Active:     active,
		Color:      color,
	}, nil
}

func validRole(role string) bool {
	for _, r := range domain.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func parseDate(value, field string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return t, nil
}
