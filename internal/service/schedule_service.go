package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wisefido-roster/internal/domain"
	"wisefido-roster/internal/export"
	"wisefido-roster/internal/notify"
	"wisefido-roster/internal/repository"
	"wisefido-roster/internal/scheduler"
	"wisefido-roster/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// cacheKeyLatest 最近一次生成结果的缓存键
const cacheKeyLatest = "roster:schedule:latest"

// ErrNoSchedule 还没有任何生成结果
var ErrNoSchedule = errors.New("no schedule generated yet")

// GenerateScheduleRequest 生成请求
type GenerateScheduleRequest struct {
	StartDate string `json:"startDate"` // YYYY-MM-DD
	NumWeeks  int    `json:"numWeeks"`  // >= 1
}

// EmployeeDTO 响应中的员工信息（导出着色需要颜色）
type EmployeeDTO struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Color      string `json:"color"`
}

// ScheduleDayDTO 一天的排班（employee_id -> 标签）
type ScheduleDayDTO struct {
	Date       string            `json:"date"` // YYYY-MM-DD
	Weekday    string            `json:"weekday"`
	WeekNumber int               `json:"weekNumber"`
	Labels     map[string]string `json:"labels"`
}

// EmployeeSummary 每员工的工作日/小时汇总
type EmployeeSummary struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	DaysWorked int    `json:"daysWorked"`
	Hours      int    `json:"hours"`
}

// ScheduleResponse 一次生成的完整视图
type ScheduleResponse struct {
	RunID       string            `json:"runId"`
	StartDate   string            `json:"startDate"`
	NumWeeks    int               `json:"numWeeks"`
	GeneratedAt string            `json:"generatedAt"` // RFC3339
	Employees   []EmployeeDTO     `json:"employees"`
	Days        []ScheduleDayDTO  `json:"days"`
	Summary     []EmployeeSummary `json:"summary"`
}

// ScheduleService 排班生成服务
type ScheduleService interface {
	// Generate 执行一次完整生成并持久化（同参数重复生成时整组替换）
	Generate(ctx context.Context, req GenerateScheduleRequest) (*ScheduleResponse, error)
	// Latest 最近一次生成（优先读缓存）
	Latest(ctx context.Context) (*ScheduleResponse, error)
	// ExportLatest 最近一次生成的 xlsx 渲染
	ExportLatest(ctx context.Context) ([]byte, error)
}

type scheduleService struct {
	roster       repository.RosterRepository
	schedules    repository.ScheduleRepository
	kv           store.KV
	webhook      *notify.Webhook
	generator    *scheduler.Generator
	defaultWeeks int
	cacheTTL     time.Duration
	logger       *zap.Logger
}

// NewScheduleService 创建 ScheduleService。kv、webhook 可为 nil（对应功能禁用）
func NewScheduleService(
	roster repository.RosterRepository,
	schedules repository.ScheduleRepository,
	kv store.KV,
	webhook *notify.Webhook,
	defaultWeeks int,
	cacheTTL time.Duration,
	logger *zap.Logger,
) ScheduleService {
	if defaultWeeks < 1 {
		defaultWeeks = 4
	}
	return &scheduleService{
		roster:       roster,
		schedules:    schedules,
		kv:           kv,
		webhook:      webhook,
		generator:    scheduler.NewGenerator(logger),
		defaultWeeks: defaultWeeks,
		cacheTTL:     cacheTTL,
		logger:       logger,
	}
}

func (s *scheduleService) Generate(ctx context.Context, req GenerateScheduleRequest) (*ScheduleResponse, error) {
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid startDate %q: %w", req.StartDate, err)
	}
	if req.NumWeeks == 0 {
		req.NumWeeks = s.defaultWeeks
	}
	if req.NumWeeks < 1 {
		return nil, fmt.Errorf("numWeeks must be >= 1, got %d", req.NumWeeks)
	}

	snap, employees, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	records, err := s.generator.Generate(snap, startDate, req.NumWeeks)
	if err != nil {
		return nil, fmt.Errorf("schedule generation failed: %w", err)
	}

	run := &domain.ScheduleRun{
		RunID:       uuid.NewString(),
		StartDate:   scheduler.Midnight(startDate),
		NumWeeks:    req.NumWeeks,
		GeneratedAt: time.Now().UTC(),
	}
	entries := buildEntries(run, employees, records)
	if err := s.schedules.SaveRun(ctx, run, entries); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	resp := buildResponse(run, employees, records)
	s.cacheLatest(ctx, resp)

	if s.webhook.Enabled() {
		event := notify.RunCompletedEvent{
			RunID:       run.RunID,
			StartDate:   scheduler.DateKey(run.StartDate),
			NumWeeks:    run.NumWeeks,
			Days:        len(records),
			GeneratedAt: run.GeneratedAt.Format(time.RFC3339),
		}
		go s.webhook.RunCompleted(context.Background(), event)
	}

	s.logger.Info("schedule run generated",
		zap.String("run_id", run.RunID),
		zap.String("start_date", scheduler.DateKey(run.StartDate)),
		zap.Int("num_weeks", run.NumWeeks),
		zap.Int("entries", len(entries)),
	)
	return resp, nil
}

func (s *scheduleService) Latest(ctx context.Context) (*ScheduleResponse, error) {
	if s.kv != nil {
		if cached, err := s.kv.Get(ctx, cacheKeyLatest); err == nil {
			var resp ScheduleResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
			// 缓存坏了就当没命中，回源重建
			_ = s.kv.Del(ctx, cacheKeyLatest)
		}
	}

	run, entries, err := s.schedules.GetLatestRun(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSchedule
		}
		return nil, fmt.Errorf("failed to load latest run: %w", err)
	}
	employees, err := s.roster.ListEmployees(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	records := rebuildRecords(entries)
	resp := buildResponse(run, employees, records)
	s.cacheLatest(ctx, resp)
	return resp, nil
}

func (s *scheduleService) ExportLatest(ctx context.Context) ([]byte, error) {
	run, entries, err := s.schedules.GetLatestRun(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSchedule
		}
		return nil, fmt.Errorf("failed to load latest run: %w", err)
	}
	employees, err := s.roster.ListEmployees(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	// 标记固定覆盖，导出时高亮
	fixed, err := s.roster.ListFixedAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixed assignments: %w", err)
	}
	fixedSet := make(map[string]struct{}, len(fixed))
	for _, a := range fixed {
		fixedSet[scheduler.DateKey(a.Date)+"|"+a.EmployeeID] = struct{}{}
	}

	records := rebuildRecords(entries)
	for i := range records {
		for id, shift := range records[i].Shifts {
			if _, ok := fixedSet[scheduler.DateKey(records[i].Date)+"|"+id]; ok && !shift.Absent() && shift.Kind != scheduler.ShiftClosed {
				shift.Protected = true
				records[i].Shifts[id] = shift
			}
		}
	}

	present := presentEmployees(employees, records)
	return export.BuildScheduleWorkbook(present, records, run.GeneratedAt)
}

// loadSnapshot 取五个关系的只读快照
func (s *scheduleService) loadSnapshot(ctx context.Context) (*scheduler.Snapshot, []domain.Employee, error) {
	employees, err := s.roster.ListEmployees(ctx, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list employees: %w", err)
	}
	leaves, err := s.roster.ListLeavePeriods(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list leave periods: %w", err)
	}
	fixed, err := s.roster.ListFixedAssignments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list fixed assignments: %w", err)
	}
	closed, err := s.roster.ListClosedDates(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list closed dates: %w", err)
	}
	cycles, err := s.roster.ListRestCycleEntries(ctx, "")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list rest cycle entries: %w", err)
	}
	return scheduler.NewSnapshot(employees, leaves, fixed, closed, cycles), employees, nil
}

func (s *scheduleService) cacheLatest(ctx context.Context, resp *ScheduleResponse) {
	if s.kv == nil {
		return
	}
	payload, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.kv.Set(ctx, cacheKeyLatest, string(payload), s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache latest schedule", zap.Error(err))
	}
}

// buildEntries 把逐日记录展开成持久化行
func buildEntries(run *domain.ScheduleRun, employees []domain.Employee, records []scheduler.DayRecord) []domain.ScheduleEntry {
	entries := make([]domain.ScheduleEntry, 0, len(records)*len(employees))
	for _, rec := range records {
		for _, emp := range employees {
			shift, ok := rec.Shifts[emp.EmployeeID]
			if !ok {
				continue // 生成时已不在编
			}
			entries = append(entries, domain.ScheduleEntry{
				RunID:      run.RunID,
				EmployeeID: emp.EmployeeID,
				Date:       rec.Date,
				Weekday:    rec.Weekday,
				WeekNumber: rec.WeekNumber,
				ShiftLabel: shift.FormatLabel(),
			})
		}
	}
	return entries
}

func buildResponse(run *domain.ScheduleRun, employees []domain.Employee, records []scheduler.DayRecord) *ScheduleResponse {
	present := presentEmployees(employees, records)

	resp := &ScheduleResponse{
		RunID:       run.RunID,
		StartDate:   scheduler.DateKey(run.StartDate),
		NumWeeks:    run.NumWeeks,
		GeneratedAt: run.GeneratedAt.Format(time.RFC3339),
	}
	for _, emp := range present {
		resp.Employees = append(resp.Employees, EmployeeDTO{
			EmployeeID: emp.EmployeeID,
			Name:       emp.Name,
			Role:       emp.Role,
			Color:      emp.Color,
		})
	}

	worked := make(map[string]int)
	for _, rec := range records {
		day := ScheduleDayDTO{
			Date:       scheduler.DateKey(rec.Date),
			Weekday:    rec.WeekdayName,
			WeekNumber: rec.WeekNumber,
			Labels:     make(map[string]string, len(rec.Shifts)),
		}
		for id, shift := range rec.Shifts {
			day.Labels[id] = shift.FormatLabel()
			if !shift.Absent() && shift.Kind != scheduler.ShiftClosed {
				worked[id]++
			}
		}
		resp.Days = append(resp.Days, day)
	}

	for _, emp := range present {
		resp.Summary = append(resp.Summary, EmployeeSummary{
			EmployeeID: emp.EmployeeID,
			Name:       emp.Name,
			DaysWorked: worked[emp.EmployeeID],
			Hours:      worked[emp.EmployeeID] * emp.DailyHours,
		})
	}
	return resp
}

// rebuildRecords 从持久化行还原逐日记录（标签反解析回结构化班次）。
// 不是窗口也不是状态令牌的标签视为闭店备注
func rebuildRecords(entries []domain.ScheduleEntry) []scheduler.DayRecord {
	byDate := make(map[string]*scheduler.DayRecord)
	var order []string
	for _, e := range entries {
		key := scheduler.DateKey(e.Date)
		rec, ok := byDate[key]
		if !ok {
			rec = &scheduler.DayRecord{
				Date:        scheduler.Midnight(e.Date),
				Weekday:     e.Weekday,
				WeekdayName: scheduler.WeekdayName(e.Weekday),
				WeekNumber:  e.WeekNumber,
				Shifts:      make(map[string]scheduler.Shift),
			}
			byDate[key] = rec
			order = append(order, key)
		}
		rec.Shifts[e.EmployeeID] = shiftFromLabel(e.ShiftLabel)
	}

	records := make([]scheduler.DayRecord, 0, len(order))
	for _, key := range order {
		records = append(records, *byDate[key])
	}
	return records
}

func shiftFromLabel(label string) scheduler.Shift {
	switch label {
	case scheduler.LabelDayOff:
		return scheduler.DayOff()
	case scheduler.LabelLeave:
		return scheduler.Leave()
	}
	if start, end, ok := scheduler.ParseWindow(label); ok {
		return scheduler.Working(start, end)
	}
	return scheduler.Closed(label)
}

// presentEmployees run 中实际出现的员工，保持传入顺序
func presentEmployees(employees []domain.Employee, records []scheduler.DayRecord) []domain.Employee {
	seen := make(map[string]struct{})
	for _, rec := range records {
		for id := range rec.Shifts {
			seen[id] = struct{}{}
		}
	}
	var out []domain.Employee
	for _, emp := range employees {
		if _, ok := seen[emp.EmployeeID]; ok {
			out = append(out, emp)
		}
	}
	return out
}
