package scheduler

import "wisefido-roster/internal/domain"

// lateCandidateRoles 晚班覆盖的候选角色，按调整优先级排序
var lateCandidateRoles = []string{domain.RoleCloser, domain.RoleFloater, domain.RoleRotator}

// Balancer 同日第二遍：全员初排（含固定覆盖）完成后检查覆盖缺口。
// 先补晚班覆盖再补早班覆盖，与上游实现的执行顺序一致；
// 每个缺口至多调整一名非保护、非缺勤员工
type Balancer struct{}

// Apply 对当天的排班状态做覆盖平衡
func (b Balancer) Apply(day Day, st *dayState) {
	b.ensureLateCoverage(day, st)
	b.ensureEarlyCoverage(st)
}

// ensureLateCoverage 晚班覆盖：需要有人收到 20:00。
// 只有当天至少 3 人在岗才调整（只剩 2 人说明有人休息/休假，不值得拉长班）。
// 候选按 closer > floater > rotator，附带角色守卫：
//   - closer：周二跳过；已有人 12:00 开工跳过
//   - floater：除非他处已有早段班（08:00 前开工）否则跳过
//   - rotator：周末跳过（周末规则已在策略内处理）；已有人 12:00 开工跳过
func (b Balancer) ensureLateCoverage(day Day, st *dayState) {
	if st.anyWorking(func(s Shift) bool { return s.End == 20 }) {
		return
	}
	if st.presentCount() < 3 {
		return
	}

	hasNoonStart := st.anyWorking(func(s Shift) bool { return s.Start == 12 })
	hasEarlyBand := st.anyWorking(func(s Shift) bool { return s.Start < 8 })

	for _, role := range lateCandidateRoles {
		for _, emp := range st.employees {
			if emp.Role != role {
				continue
			}
			s := st.shifts[emp.EmployeeID]
			if s.Protected || !s.IsWorking() {
				continue
			}
			switch role {
			case domain.RoleCloser:
				if day.Weekday == 1 || hasNoonStart {
					continue
				}
			case domain.RoleFloater:
				if !hasEarlyBand {
					continue
				}
			case domain.RoleRotator:
				if day.Weekday >= 5 || hasNoonStart {
					continue
				}
			}
			st.shifts[emp.EmployeeID] = Working(11, 20)
			return
		}
	}
}

// ensureEarlyCoverage 早班覆盖：需要有人在 08:00 前开工。
// 按评估顺序的逆序扫描，改第一个非保护、非缺勤、当前未早开的员工：
// closer 角色改为 06:00–15:00，其余改为 07:00–16:00。只改一人
func (b Balancer) ensureEarlyCoverage(st *dayState) {
	if st.anyWorking(func(s Shift) bool { return s.Start < 8 }) {
		return
	}
	for i := len(st.employees) - 1; i >= 0; i-- {
		emp := st.employees[i]
		s := st.shifts[emp.EmployeeID]
		if s.Protected || !s.IsWorking() {
			continue
		}
		if s.Start < 8 {
			continue
		}
		if emp.Role == domain.RoleCloser {
			st.shifts[emp.EmployeeID] = Working(6, 15)
		} else {
			st.shifts[emp.EmployeeID] = Working(7, 16)
		}
		return
	}
}
