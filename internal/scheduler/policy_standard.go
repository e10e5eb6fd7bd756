package scheduler

import "wisefido-roster/internal/domain"

// StandardPolicy 标准白班：周二 06:00–15:00，其余 07:00–16:00
type StandardPolicy struct{}

func (StandardPolicy) Role() string { return domain.RoleStandard }

func (StandardPolicy) Evaluate(ctx DayContext) Shift {
	if s, done := ctx.absence(); done {
		return s
	}
	if ctx.Weekday == 1 {
		return Working(6, 15)
	}
	return Working(7, 16)
}
