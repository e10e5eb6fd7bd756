package scheduler

import (
	"fmt"
	"sort"
	"time"

	"wisefido-roster/internal/domain"

	"go.uber.org/zap"
)

// DayRecord 一天的最终排班记录
type DayRecord struct {
	Date        time.Time
	Weekday     int
	WeekdayName string
	WeekNumber  int
	Shifts      map[string]Shift // employee_id -> 最终班次
}

// UnresolvedDayError 前置条件违反：active 员工在某天没有任何可解析的班次
// （典型原因：角色没有注册策略）。按 §错误处理要求带上日期和员工定位信息
type UnresolvedDayError struct {
	Date       time.Time
	EmployeeID string
	Role       string
}

func (e *UnresolvedDayError) Error() string {
	return fmt.Sprintf("no shift resolvable for employee %s (role %q) on %s",
		e.EmployeeID, e.Role, e.Date.Format("2006-01-02"))
}

// dayState 单日评估的可变状态；Shift.Protected 标记固定覆盖
type dayState struct {
	employees []domain.Employee // 评估顺序
	shifts    map[string]Shift
}

func newDayState(employees []domain.Employee) *dayState {
	return &dayState{
		employees: employees,
		shifts:    make(map[string]Shift, len(employees)),
	}
}

// peers 本人之外的已计算班次（副本，策略只读）
func (st *dayState) peers(selfID string) map[string]Shift {
	out := make(map[string]Shift, len(st.shifts))
	for id, s := range st.shifts {
		if id != selfID {
			out[id] = s
		}
	}
	return out
}

func (st *dayState) anyWorking(pred func(Shift) bool) bool {
	for _, s := range st.shifts {
		if s.IsWorking() && pred(s) {
			return true
		}
	}
	return false
}

// presentCount 当天在岗人数（非休息/休假；不透明固定标签也算在岗）
func (st *dayState) presentCount() int {
	n := 0
	for _, s := range st.shifts {
		if !s.Absent() {
			n++
		}
	}
	return n
}

// Generator 排班生成器：逐日严格按时间顺序折叠，前一天的完整记录
// 向前传递给平滑器。单线程、无 I/O、纯计算；同一快照 + 参数下输出确定
type Generator struct {
	registry *Registry
	balancer Balancer
	smoother Smoother
	logger   *zap.Logger
}

// NewGenerator 使用默认角色策略目录创建生成器
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		registry: NewRegistry(),
		logger:   logger,
	}
}

// Registry 暴露策略目录（用于注册自定义角色）
func (g *Generator) Registry() *Registry { return g.registry }

// Generate 生成 [startDate, startDate+numWeeks*7) 的全部排班记录
func (g *Generator) Generate(snap *Snapshot, startDate time.Time, numWeeks int) ([]DayRecord, error) {
	if numWeeks < 1 {
		return nil, fmt.Errorf("numWeeks must be >= 1, got %d", numWeeks)
	}

	employees := g.evaluationOrder(snap.ActiveEmployees())
	days := Days(startDate, numWeeks)
	records := make([]DayRecord, 0, len(days))

	var prev *DayRecord
	for _, day := range days {
		rec, err := g.generateDay(snap, employees, day, prev)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
		prev = &records[len(records)-1]
	}

	g.logger.Debug("schedule generated",
		zap.String("start_date", DateKey(startDate)),
		zap.Int("num_weeks", numWeeks),
		zap.Int("days", len(records)),
		zap.Int("employees", len(employees)),
	)
	return records, nil
}

// evaluationOrder 同日员工评估顺序：角色优先级，id 兜底。
// 顺序必须确定，后评估的策略会读取先评估同事的结果
func (g *Generator) evaluationOrder(employees []domain.Employee) []domain.Employee {
	ordered := make([]domain.Employee, len(employees))
	copy(ordered, employees)
	sort.SliceStable(ordered, func(i, j int) bool {
		pi, pj := g.registry.RolePriority(ordered[i].Role), g.registry.RolePriority(ordered[j].Role)
		if pi != pj {
			return pi < pj
		}
		return ordered[i].EmployeeID < ordered[j].EmployeeID
	})
	return ordered
}

func (g *Generator) generateDay(snap *Snapshot, employees []domain.Employee, day Day, prev *DayRecord) (*DayRecord, error) {
	rec := &DayRecord{
		Date:        day.Date,
		Weekday:     day.Weekday,
		WeekdayName: WeekdayName(day.Weekday),
		WeekNumber:  day.WeekNumber,
	}

	// 闭店优先于一切：全员统一闭店标签，跳过平衡与平滑
	if note, closed := snap.ClosedLabel(day.Date); closed {
		rec.Shifts = make(map[string]Shift, len(employees))
		for _, emp := range employees {
			rec.Shifts[emp.EmployeeID] = Closed(note)
		}
		return rec, nil
	}

	st := newDayState(employees)

	// 固定覆盖先落位，标记保护
	for _, emp := range employees {
		if label, ok := snap.FixedLabel(emp.EmployeeID, day.Date); ok {
			st.shifts[emp.EmployeeID] = FixedFromLabel(label)
		}
	}

	// 第一遍：按顺序评估角色策略
	for _, emp := range employees {
		if s, ok := st.shifts[emp.EmployeeID]; ok && s.Protected {
			continue
		}
		policy, ok := g.registry.Lookup(emp.Role)
		if !ok {
			return nil, &UnresolvedDayError{Date: day.Date, EmployeeID: emp.EmployeeID, Role: emp.Role}
		}
		ctx := DayContext{
			Date:      day.Date,
			Weekday:   day.Weekday,
			DayOffset: day.Offset,
			Off:       snap.RestDay(emp.EmployeeID, day.Date),
			OnLeave:   snap.OnLeave(emp.EmployeeID, day.Date),
			Peers:     st.peers(emp.EmployeeID),
		}
		st.shifts[emp.EmployeeID] = policy.Evaluate(ctx)
	}

	// 第二遍：覆盖平衡，然后对照前一天做漂移平滑
	g.balancer.Apply(day, st)
	g.smoother.Apply(st, prev)

	rec.Shifts = st.shifts
	return rec, nil
}
