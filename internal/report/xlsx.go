package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

var xlsxHeader = []any{"Date", "Project", "Worked", "Overtime", "Leave", "Location", "Description"}

// SheetName returns the worksheet name of the week, e.g. "Week 2026-W09".
func SheetName(w timecalc.Window) string {
	return "Week " + w.Label()
}

// WriteWeekXLSX writes the week as a workbook: one row per entry, a total
// row per day and the week's totals at the bottom.
func WriteWeekXLSX(out io.Writer, w timecalc.Window, days []timesheet.DayAggregate) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(w)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating style: %w", err)
	}

	row := 1
	put := func(values []any, style int) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
		if style != 0 {
			last, _ := excelize.CoordinatesToCellName(len(xlsxHeader), row)
			if err := f.SetCellStyle(sheet, cell, last, style); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	if err := put(xlsxHeader, bold); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	worked, overtime, leave := decimal.Zero, decimal.Zero, decimal.Zero
	for _, d := range days {
		for _, e := range d.Entries {
			leaveHours := any("")
			if e.IsLeave() {
				leaveHours = e.WorkedHours
			}
			values := []any{d.Date.String(), e.ProjectName(), e.WorkedHours, e.OvertimeHours, leaveHours, string(e.WorkLocation), e.Description}
			if err := put(values, 0); err != nil {
				return fmt.Errorf("writing entry %d: %w", e.ID, err)
			}
		}
		total := []any{d.Date.String(), "Day total", d.WorkedHours, d.OvertimeHours, d.LeaveHours, "", Notes(d)}
		if err := put(total, bold); err != nil {
			return fmt.Errorf("writing total of %s: %w", d.Date, err)
		}
		worked = worked.Add(decimal.NewFromFloat(d.WorkedHours))
		overtime = overtime.Add(decimal.NewFromFloat(d.OvertimeHours))
		leave = leave.Add(decimal.NewFromFloat(d.LeaveHours))
	}
	if err := put([]any{"", "Week total", worked.InexactFloat64(), overtime.InexactFloat64(), leave.InexactFloat64(), "", ""}, bold); err != nil {
		return fmt.Errorf("writing week total: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "A", 12); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "G", "G", 48); err != nil {
		return err
	}
	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
