package scheduler

import (
	"time"

	"wisefido-roster/internal/domain"
)

// DayContext 策略评估输入：当天的日历信息、本人缺勤状态、
// 以及同日已评估同事的班次（含固定覆盖）
type DayContext struct {
	Date      time.Time
	Weekday   int // 0=Monday .. 6=Sunday
	DayOffset int // 距视野起点的天数
	Off       bool
	OnLeave   bool
	Peers     map[string]Shift // employee_id -> 已计算班次（不含本人）
}

// Weekend 是否周六/周日
func (c DayContext) Weekend() bool { return c.Weekday >= 5 }

// anyPeer 对所有工作窗口同事做谓词检查（休息/休假/不透明标签不参与）
func (c DayContext) anyPeer(pred func(Shift) bool) bool {
	for _, s := range c.Peers {
		if !s.IsWorking() {
			continue
		}
		if pred(s) {
			return true
		}
	}
	return false
}

// PeerStartsBefore 是否有同事在 hour 之前开工
func (c DayContext) PeerStartsBefore(hour int) bool {
	return c.anyPeer(func(s Shift) bool { return s.Start < hour })
}

// PeerStartsAt 是否有同事在给定整点之一开工
func (c DayContext) PeerStartsAt(hours ...int) bool {
	return c.anyPeer(func(s Shift) bool {
		for _, h := range hours {
			if s.Start == h {
				return true
			}
		}
		return false
	})
}

// PeerEndsAt 是否有同事在 hour 收工
func (c DayContext) PeerEndsAt(hour int) bool {
	return c.anyPeer(func(s Shift) bool { return s.End == hour })
}

// absence 缺勤优先：休息/休假状态无条件先于角色规则返回
func (c DayContext) absence() (Shift, bool) {
	if c.Off {
		return DayOff(), true
	}
	if c.OnLeave {
		return Leave(), true
	}
	return Shift{}, false
}

// Policy 角色班次策略。同日内按固定优先级顺序评估，
// 后评估的策略可以读取先评估同事的结果
type Policy interface {
	Role() string
	Evaluate(ctx DayContext) Shift
}

// Registry 角色 -> 策略映射。新增角色只注册策略，不改评估循环
type Registry struct {
	policies map[string]Policy
	priority map[string]int // 角色评估顺序
}

// NewRegistry 注册默认的五个角色策略
func NewRegistry() *Registry {
	r := &Registry{
		policies: make(map[string]Policy),
		priority: make(map[string]int),
	}
	for i, role := range domain.Roles {
		r.priority[role] = i
	}
	r.Register(EarlyOpenerPolicy{})
	r.Register(StandardPolicy{})
	r.Register(RotatorPolicy{})
	r.Register(FloaterPolicy{})
	r.Register(CloserPolicy{})
	return r
}

// Register 注册或替换一个角色策略
func (r *Registry) Register(p Policy) {
	if _, ok := r.priority[p.Role()]; !ok {
		r.priority[p.Role()] = len(r.priority)
	}
	r.policies[p.Role()] = p
}

// Lookup 查找角色策略
func (r *Registry) Lookup(role string) (Policy, bool) {
	p, ok := r.policies[role]
	return p, ok
}

// RolePriority 角色的评估优先级（越小越先）；未知角色排最后
func (r *Registry) RolePriority(role string) int {
	if p, ok := r.priority[role]; ok {
		return p
	}
	return len(r.priority)
}
