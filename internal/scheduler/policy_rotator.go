package scheduler

import "wisefido-roster/internal/domain"

// RotatorPolicy 双周轮换班。
// 视野前 4 天（offset 0..3）固定 11:00–20:00 作为起始缓冲；之后按
// completedWeeks = (offset-4)/7 的奇偶在 09:00–18:00 / 11:00–20:00 间轮换。
// 周末优先保证覆盖：先保证有人收到 20:00，再保证有人早开
// （周末 08:00 也算早开）。这些整点阈值编码的是具体的排班缺口规则，
// 不能改动
type RotatorPolicy struct{}

func (RotatorPolicy) Role() string { return domain.RoleRotator }

func (p RotatorPolicy) Evaluate(ctx DayContext) Shift {
	if s, done := ctx.absence(); done {
		return s
	}

	hasEarly := ctx.PeerStartsBefore(9) // 05:..08: 开工都算早，周末含 08:00
	hasLate := ctx.PeerEndsAt(20)

	if ctx.Weekend() {
		// 最高优先：保证有人收到 20:00
		if !hasLate {
			return Working(11, 20)
		}
		// 已有人收尾，再看是否缺早开
		if !hasEarly {
			return Working(8, 17)
		}
		return Working(9, 18)
	}

	shift := p.biweeklyDefault(ctx.DayOffset)
	// 轮到晚班但已有人收到 20:00 时回退到普通班
	if shift.Start == 11 && hasLate {
		shift = Working(9, 18)
	}
	return shift
}

// biweeklyDefault 双周轮换的默认窗口（仅工作日调用）
func (RotatorPolicy) biweeklyDefault(dayOffset int) Shift {
	if dayOffset <= 3 {
		return Working(11, 20)
	}
	completedWeeks := (dayOffset - 4) / 7
	if completedWeeks%2 == 0 {
		return Working(9, 18)
	}
	return Working(11, 20)
}
