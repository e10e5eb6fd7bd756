package scheduler

import "wisefido-roster/internal/domain"

// EarlyOpenerPolicy 固定早班：周一至周五 05:00–14:00，周末休息
type EarlyOpenerPolicy struct{}

func (EarlyOpenerPolicy) Role() string { return domain.RoleEarlyOpener }

func (EarlyOpenerPolicy) Evaluate(ctx DayContext) Shift {
	if s, done := ctx.absence(); done {
		return s
	}
	if ctx.Weekday <= 4 {
		return Working(5, 14)
	}
	return DayOff()
}
