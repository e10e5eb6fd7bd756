package scheduler

import "wisefido-roster/internal/domain"

// FloaterPolicy 机动班：按同事已排班次填补早/晚缺口。
// 建议起始小时钳制在 [7,11]，收工 = 起始 + 9
type FloaterPolicy struct{}

func (FloaterPolicy) Role() string { return domain.RoleFloater }

func (FloaterPolicy) Evaluate(ctx DayContext) Shift {
	if s, done := ctx.absence(); done {
		return s
	}

	hasEarly := ctx.PeerStartsBefore(8)  // 05:/06:/07: 开工
	hasLate := ctx.PeerStartsAt(11, 12) // 已有人排晚段起始

	var start int
	switch {
	case hasLate:
		start = 9
	case !hasEarly:
		start = 7
	case !hasLate:
		start = 11
	default:
		if ctx.DayOffset%2 == 0 {
			start = 8
		} else {
			start = 9
		}
	}

	if start < 7 {
		start = 7
	}
	if start > 11 {
		start = 11
	}
	return Working(start, start+9)
}
