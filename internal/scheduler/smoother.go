package scheduler

import "wisefido-roster/internal/domain"

// smoothedRoleFloors 参与日间漂移平滑的角色及各自的起始小时下限
var smoothedRoleFloors = map[string]int{
	domain.RoleRotator: 9,
	domain.RoleFloater: 7,
}

// Smoother 连续性平滑：可变起始角色今天的起始小时与前一天相比
// 漂移不得超过 3 小时，超出时向前一天的小时方向收拢 3 小时并按
// [h, h+9] 重算窗口。不碰固定覆盖、休息、休假和闭店
type Smoother struct{}

// Apply prev 为前一天已组装的记录；前一天不是工作窗口（含闭店）则跳过
func (Smoother) Apply(st *dayState, prev *DayRecord) {
	if prev == nil {
		return
	}
	for _, emp := range st.employees {
		floor, ok := smoothedRoleFloors[emp.Role]
		if !ok {
			continue
		}
		cur := st.shifts[emp.EmployeeID]
		if cur.Protected || !cur.IsWorking() {
			continue
		}
		prevShift, ok := prev.Shifts[emp.EmployeeID]
		if !ok || !prevShift.IsWorking() {
			continue
		}
		diff := cur.Start - prevShift.Start
		if diff > 3 {
			h := prevShift.Start + 3
			st.shifts[emp.EmployeeID] = Working(h, h+9)
		} else if diff < -3 {
			h := prevShift.Start - 3
			if h < floor {
				h = floor
			}
			st.shifts[emp.EmployeeID] = Working(h, h+9)
		}
	}
}
