package scheduler

import "wisefido-roster/internal/domain"

// CloserPolicy 晚班/收尾：周二无条件 05:00–14:00；
// 其余日子若已有同事（固定覆盖或已评估结果）在 11:00/12:00 开工
// 则排 06:00–15:00，否则自己收晚班 11:00–20:00
type CloserPolicy struct{}

func (CloserPolicy) Role() string { return domain.RoleCloser }

func (CloserPolicy) Evaluate(ctx DayContext) Shift {
	if s, done := ctx.absence(); done {
		return s
	}
	if ctx.Weekday == 1 {
		return Working(5, 14)
	}
	if ctx.PeerStartsAt(11, 12) {
		return Working(6, 15)
	}
	return Working(11, 20)
}
