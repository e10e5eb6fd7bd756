package export

import (
	"bytes"
	"fmt"
	"time"

	"wisefido-roster/internal/domain"
	"wisefido-roster/internal/scheduler"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Work Schedule"

// 固定样式色值（沿用排班表的显示约定）
const (
	headerFill    = "#3498DB"
	dayOffFill    = "#D1ECF1"
	dayOffFont    = "#0C5460"
	leaveFill     = "#FFD700"
	closedFill    = "#FF6666"
	closedFont    = "#990000"
	protectedFill = "#FFCCCC"
	protectedFont = "#CC0000"
	weekendFill   = "#F8D7DA"
)

// BuildScheduleWorkbook 把一次生成渲染成 xlsx：
// 表头行 + 每天一行（Week / Date / Day / 每员工一列），按状态与员工颜色着色，
// 固定覆盖高亮，末尾追加生成时间
func BuildScheduleWorkbook(employees []domain.Employee, days []scheduler.DayRecord, generatedAt time.Time) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo 之前不能 Close

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	styles, err := newStyleSet(f, employees)
	if err != nil {
		f.Close()
		return nil, err
	}

	headers := []string{"Week", "Date", "Day"}
	for _, emp := range employees {
		headers = append(headers, emp.Name)
	}
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, styles.header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, day := range days {
		row := rowIdx + 2
		weekend := day.Weekday >= 5

		if err := setCell(f, 1, row, day.WeekNumber, styles.base); err != nil {
			f.Close()
			return nil, err
		}
		if err := setCell(f, 2, row, day.Date.Format("02/01/2006"), styles.base); err != nil {
			f.Close()
			return nil, err
		}
		dayStyle := styles.base
		if weekend {
			dayStyle = styles.weekend
		}
		if err := setCell(f, 3, row, day.WeekdayName, dayStyle); err != nil {
			f.Close()
			return nil, err
		}

		for colIdx, emp := range employees {
			shift := day.Shifts[emp.EmployeeID]
			style := styles.shiftStyle(emp, shift)
			if err := setCell(f, colIdx+4, row, shift.FormatLabel(), style); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	footerRow := len(days) + 3
	cell, _ := excelize.CoordinatesToCellName(1, footerRow)
	_ = f.SetCellValue(sheetName, cell, "Generated at:")
	cell, _ = excelize.CoordinatesToCellName(2, footerRow)
	_ = f.SetCellValue(sheetName, cell, generatedAt.Format("02/01/2006 15:04:05"))

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "B", 12)
	_ = f.SetColWidth(sheetName, "C", "C", 12)
	if len(employees) > 0 {
		last, _ := excelize.ColumnNumberToName(3 + len(employees))
		_ = f.SetColWidth(sheetName, "D", last, 16)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type styleSet struct {
	header    int
	base      int
	weekend   int
	dayOff    int
	leave     int
	closed    int
	protected int
	byColor   map[string]int // 员工底色 -> style id
}

func newStyleSet(f *excelize.File, employees []domain.Employee) (*styleSet, error) {
	s := &styleSet{byColor: make(map[string]int)}
	var err error

	if s.header, err = newFillStyle(f, headerFill, "#FFFFFF", true); err != nil {
		return nil, err
	}
	if s.base, err = newFillStyle(f, "", "", false); err != nil {
		return nil, err
	}
	if s.weekend, err = newFillStyle(f, weekendFill, "", false); err != nil {
		return nil, err
	}
	if s.dayOff, err = newFillStyle(f, dayOffFill, dayOffFont, true); err != nil {
		return nil, err
	}
	if s.leave, err = newFillStyle(f, leaveFill, "#000000", true); err != nil {
		return nil, err
	}
	if s.closed, err = newFillStyle(f, closedFill, closedFont, true); err != nil {
		return nil, err
	}
	if s.protected, err = newFillStyle(f, protectedFill, protectedFont, true); err != nil {
		return nil, err
	}
	for _, emp := range employees {
		color := emp.Color
		if color == "" {
			color = "FFFFFF"
		}
		if _, ok := s.byColor[color]; ok {
			continue
		}
		id, err := newFillStyle(f, "#"+color, "", false)
		if err != nil {
			return nil, err
		}
		s.byColor[color] = id
	}
	return s, nil
}

func (s *styleSet) shiftStyle(emp domain.Employee, shift scheduler.Shift) int {
	switch {
	case shift.Kind == scheduler.ShiftClosed:
		return s.closed
	case shift.Protected:
		return s.protected
	case shift.Kind == scheduler.ShiftDayOff:
		return s.dayOff
	case shift.Kind == scheduler.ShiftLeave:
		return s.leave
	default:
		color := emp.Color
		if color == "" {
			color = "FFFFFF"
		}
		if id, ok := s.byColor[color]; ok {
			return id
		}
		return s.base
	}
}

func newFillStyle(f *excelize.File, fill, font string, bold bool) (int, error) {
	style := &excelize.Style{
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}
	if fill != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{fill}, Pattern: 1}
	}
	if font != "" || bold {
		style.Font = &excelize.Font{Bold: bold}
		if font != "" {
			style.Font.Color = font
		}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style: %w", err)
	}
	return id, nil
}

func setCell(f *excelize.File, col, row int, value any, style int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
		return fmt.Errorf("failed to style cell %s: %w", cell, err)
	}
	return nil
}
