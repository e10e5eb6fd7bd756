package domain

// 角色标签：每个员工绑定一个班次策略（见 internal/scheduler 的 policy registry）
const (
	RoleEarlyOpener = "early_opener" // 固定早班，周一至周五
	RoleStandard    = "standard"     // 标准白班
	RoleRotator     = "rotator"      // 双周轮换班
	RoleFloater     = "floater"      // 机动班，按同事班次填补缺口
	RoleCloser      = "closer"       // 晚班/收尾
)

// Roles 所有已知角色（按每日评估优先级排序）
var Roles = []string{RoleEarlyOpener, RoleStandard, RoleRotator, RoleFloater, RoleCloser}

// Employee 排班员工（对应 employees 表）
type Employee struct {
	EmployeeID string `db:"employee_id"` // UUID, PRIMARY KEY
	Name       string `db:"name"`        // VARCHAR(255), NOT NULL, UNIQUE
	Role       string `db:"role"`        // VARCHAR(50), NOT NULL（见上方角色常量）
	DailyHours int    `db:"daily_hours"` // INTEGER, DEFAULT 8
	Active     bool   `db:"active"`      // BOOLEAN, DEFAULT true
	Color      string `db:"color"`       // VARCHAR(6), hex RGB, 仅用于导出着色
}
