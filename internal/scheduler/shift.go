package scheduler

import (
	"fmt"
	"strconv"
	"strings"
)

// ShiftKind 班次种类
type ShiftKind int

const (
	ShiftWorking ShiftKind = iota // 工作窗口 [Start, End)
	ShiftDayOff                   // 周期休息日
	ShiftLeave                    // 休假
	ShiftClosed                   // 闭店（标签为闭店备注）
	ShiftOpaque                   // 固定覆盖但标签不是标准窗口格式（原样保留）
)

// 状态标签（输出令牌，持久化/导出层按原文消费）
const (
	LabelDayOff        = "DAY_OFF"
	LabelLeave         = "LEAVE"
	DefaultClosedLabel = "Closed"
)

// Shift 结构化班次。覆盖/漂移检查全部用数值小时比较，
// 不做字符串前缀解析
type Shift struct {
	Kind      ShiftKind
	Start     int    // 起始整点小时，仅 ShiftWorking 有效
	End       int    // 结束整点小时，仅 ShiftWorking 有效
	Label     string // ShiftClosed 的备注 / ShiftOpaque 的原始标签
	Protected bool   // 来自固定覆盖；后续 pass 不得修改
}

func Working(start, end int) Shift { return Shift{Kind: ShiftWorking, Start: start, End: end} }

func DayOff() Shift { return Shift{Kind: ShiftDayOff} }

func Leave() Shift { return Shift{Kind: ShiftLeave} }

// Closed 闭店班次；note 为空时使用默认标签
func Closed(note string) Shift {
	if note == "" {
		note = DefaultClosedLabel
	}
	return Shift{Kind: ShiftClosed, Label: note}
}

// FixedFromLabel 把固定覆盖标签转成受保护班次。
// 能解析为 "HH:MM - HH:MM" 的参与同日小时比较，否则作为不透明标签保留
func FixedFromLabel(label string) Shift {
	if start, end, ok := ParseWindow(label); ok {
		return Shift{Kind: ShiftWorking, Start: start, End: end, Protected: true}
	}
	return Shift{Kind: ShiftOpaque, Label: label, Protected: true}
}

// IsWorking 是否为可参与小时比较的工作窗口
func (s Shift) IsWorking() bool { return s.Kind == ShiftWorking }

// Absent 当天不在岗（休息或休假）
func (s Shift) Absent() bool { return s.Kind == ShiftDayOff || s.Kind == ShiftLeave }

// FormatLabel 输出标签
func (s Shift) FormatLabel() string {
	switch s.Kind {
	case ShiftWorking:
		return fmt.Sprintf("%02d:00 - %02d:00", s.Start, s.End)
	case ShiftDayOff:
		return LabelDayOff
	case ShiftLeave:
		return LabelLeave
	default:
		return s.Label
	}
}

// ParseWindow 解析 "HH:MM - HH:MM" 工作窗口标签
func ParseWindow(label string) (start, end int, ok bool) {
	parts := strings.Split(label, " - ")
	if len(parts) != 2 {
		return 0, 0, false
	}
	start, ok = parseHour(parts[0])
	if !ok {
		return 0, 0, false
	}
	end, ok = parseHour(parts[1])
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

func parseHour(s string) (int, bool) {
	hm := strings.Split(strings.TrimSpace(s), ":")
	if len(hm) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}
