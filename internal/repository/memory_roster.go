package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"wisefido-roster/internal/domain"

	"github.com/google/uuid"
)

// MemoryRosterRepository 内存版 RosterRepository。
// DB 未就绪时的联调后备：预置一个默认五人编制，页面和生成接口都能直接用
type MemoryRosterRepository struct {
	mu        sync.RWMutex
	employees map[string]domain.Employee
	leaves    map[string]domain.LeavePeriod
	fixed     map[string]domain.FixedAssignment
	closed    map[string]domain.ClosedDate // date key -> record
	cycles    map[string]domain.RestCycleEntry
}

// 确保实现了接口
var _ RosterRepository = (*MemoryRosterRepository)(nil)

// NewMemoryRosterRepository 创建空的内存 repo
func NewMemoryRosterRepository() *MemoryRosterRepository {
	return &MemoryRosterRepository{
		employees: make(map[string]domain.Employee),
		leaves:    make(map[string]domain.LeavePeriod),
		fixed:     make(map[string]domain.FixedAssignment),
		closed:    make(map[string]domain.ClosedDate),
		cycles:    make(map[string]domain.RestCycleEntry),
	}
}

// SeedDefaultRoster 预置默认编制：五个角色各一人
func (r *MemoryRosterRepository) SeedDefaultRoster() {
	seed := []domain.Employee{
		{Name: "Olivia P.", Role: domain.RoleEarlyOpener, DailyHours: 8, Active: true, Color: "E8F5E8"},
		{Name: "Anna F.", Role: domain.RoleStandard, DailyHours: 8, Active: true, Color: "D4EDDA"},
		{Name: "Tomas C.", Role: domain.RoleRotator, DailyHours: 8, Active: true, Color: "FFF3CD"},
		{Name: "Mia G.", Role: domain.RoleFloater, DailyHours: 8, Active: true, Color: "CCE5FF"},
		{Name: "Evan S.", Role: domain.RoleCloser, DailyHours: 8, Active: true, Color: "F0E6FF"},
	}
	for _, e := range seed {
		_, _ = r.CreateEmployee(context.Background(), &e)
	}
}

func (r *MemoryRosterRepository) ListEmployees(ctx context.Context, activeOnly bool) ([]domain.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Employee
	for _, e := range r.employees {
		if activeOnly && !e.Active {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRosterRepository) CreateEmployee(ctx context.Context, e *domain.Employee) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.EmployeeID = uuid.NewString()
	r.employees[e.EmployeeID] = *e
	return e.EmployeeID, nil
}

func (r *MemoryRosterRepository) UpdateEmployee(ctx context.Context, e *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[e.EmployeeID]; !ok {
		return ErrNotFound
	}
	r.employees[e.EmployeeID] = *e
	return nil
}

func (r *MemoryRosterRepository) DeleteEmployee(ctx context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[employeeID]; !ok {
		return ErrNotFound
	}
	delete(r.employees, employeeID)
	return nil
}

func (r *MemoryRosterRepository) ListLeavePeriods(ctx context.Context, employeeID string) ([]domain.LeavePeriod, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.LeavePeriod
	for _, p := range r.leaves {
		if employeeID != "" && p.EmployeeID != employeeID {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (r *MemoryRosterRepository) CreateLeavePeriod(ctx context.Context, p *domain.LeavePeriod) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.LeaveID = uuid.NewString()
	r.leaves[p.LeaveID] = *p
	return p.LeaveID, nil
}

func (r *MemoryRosterRepository) DeleteLeavePeriod(ctx context.Context, leaveID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.leaves[leaveID]; !ok {
		return ErrNotFound
	}
	delete(r.leaves, leaveID)
	return nil
}

func (r *MemoryRosterRepository) ListFixedAssignments(ctx context.Context) ([]domain.FixedAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.FixedAssignment
	for _, a := range r.fixed {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MemoryRosterRepository) UpsertFixedAssignment(ctx context.Context, a *domain.FixedAssignment) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// (employee_id, date) 至多一条
	for id, existing := range r.fixed {
		if existing.EmployeeID == a.EmployeeID && existing.Date.Equal(a.Date) {
			a.AssignmentID = id
			r.fixed[id] = *a
			return id, nil
		}
	}
	a.AssignmentID = uuid.NewString()
	r.fixed[a.AssignmentID] = *a
	return a.AssignmentID, nil
}

func (r *MemoryRosterRepository) DeleteFixedAssignment(ctx context.Context, assignmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.fixed[assignmentID]; !ok {
		return ErrNotFound
	}
	delete(r.fixed, assignmentID)
	return nil
}

func (r *MemoryRosterRepository) ListClosedDates(ctx context.Context) ([]domain.ClosedDate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.ClosedDate
	for _, c := range r.closed {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *MemoryRosterRepository) UpsertClosedDate(ctx context.Context, c *domain.ClosedDate) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := c.Date.Format("2006-01-02")
	if existing, ok := r.closed[key]; ok {
		c.ClosedID = existing.ClosedID
	} else {
		c.ClosedID = uuid.NewString()
	}
	r.closed[key] = *c
	return c.ClosedID, nil
}

func (r *MemoryRosterRepository) DeleteClosedDate(ctx context.Context, date time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := date.Format("2006-01-02")
	if _, ok := r.closed[key]; !ok {
		return ErrNotFound
	}
	delete(r.closed, key)
	return nil
}

func (r *MemoryRosterRepository) ListRestCycleEntries(ctx context.Context, employeeID string) ([]domain.RestCycleEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.RestCycleEntry
	for _, rc := range r.cycles {
		if employeeID != "" && rc.EmployeeID != employeeID {
			continue
		}
		out = append(out, rc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WeekKey != out[j].WeekKey {
			return out[i].WeekKey < out[j].WeekKey
		}
		return out[i].Weekday < out[j].Weekday
	})
	return out, nil
}

func (r *MemoryRosterRepository) ReplaceRestWeek(ctx context.Context, employeeID string, weekKey int, weekdays []int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rc := range r.cycles {
		if rc.EmployeeID == employeeID && rc.WeekKey == weekKey {
			delete(r.cycles, id)
		}
	}
	for _, weekday := range weekdays {
		id := uuid.NewString()
		r.cycles[id] = domain.RestCycleEntry{
			EntryID:    id,
			EmployeeID: employeeID,
			WeekKey:    weekKey,
			Weekday:    weekday,
		}
	}
	return nil
}

func (r *MemoryRosterRepository) DeleteRestCycle(ctx context.Context, employeeID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rc := range r.cycles {
		if rc.EmployeeID == employeeID {
			delete(r.cycles, id)
		}
	}
	return nil
}

// MemoryScheduleRepository 内存版 ScheduleRepository（联调后备）
type MemoryScheduleRepository struct {
	mu      sync.RWMutex
	runs    []domain.ScheduleRun
	entries map[string][]domain.ScheduleEntry // run_id -> entries
}

// 确保实现了接口
var _ ScheduleRepository = (*MemoryScheduleRepository)(nil)

// NewMemoryScheduleRepository 创建内存 ScheduleRepository
func NewMemoryScheduleRepository() *MemoryScheduleRepository {
	return &MemoryScheduleRepository{entries: make(map[string][]domain.ScheduleEntry)}
}

func (r *MemoryScheduleRepository) SaveRun(ctx context.Context, run *domain.ScheduleRun, entries []domain.ScheduleEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// 同 (start_date, num_weeks) 整组替换
	kept := r.runs[:0]
	for _, existing := range r.runs {
		if existing.StartDate.Equal(run.StartDate) && existing.NumWeeks == run.NumWeeks {
			delete(r.entries, existing.RunID)
			continue
		}
		kept = append(kept, existing)
	}
	r.runs = append(kept, *run)
	r.entries[run.RunID] = append([]domain.ScheduleEntry(nil), entries...)
	return nil
}

func (r *MemoryScheduleRepository) GetRun(ctx context.Context, runID string) (*domain.ScheduleRun, []domain.ScheduleEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, run := range r.runs {
		if run.RunID == runID {
			out := run
			return &out, append([]domain.ScheduleEntry(nil), r.entries[runID]...), nil
		}
	}
	return nil, nil, ErrNotFound
}

func (r *MemoryScheduleRepository) GetLatestRun(ctx context.Context) (*domain.ScheduleRun, []domain.ScheduleEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.runs) == 0 {
		return nil, nil, ErrNotFound
	}
	latest := r.runs[0]
	for _, run := range r.runs[1:] {
		if run.GeneratedAt.After(latest.GeneratedAt) {
			latest = run
		}
	}
	out := latest
	return &out, append([]domain.ScheduleEntry(nil), r.entries[latest.RunID]...), nil
}
