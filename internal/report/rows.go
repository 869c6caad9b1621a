// Package report flattens a week into rows for export.
package report

import (
	"strings"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

// Row is one time entry of the week.
type Row struct {
	Date         model.Date         `json:"date"`
	Project      string             `json:"project"`
	Worked       float64            `json:"workedHours"`
	Overtime     float64            `json:"overtimeHours"`
	Leave        bool               `json:"leave"`
	WorkLocation model.WorkLocation `json:"workLocation"`
	Description  string             `json:"description"`
}

// Rows lists the entries of days in day order.
func Rows(days []timesheet.DayAggregate) []Row {
	var rows []Row
	for _, d := range days {
		for _, e := range d.Entries {
			rows = append(rows, Row{
				Date:         d.Date,
				Project:      e.ProjectName(),
				Worked:       e.WorkedHours,
				Overtime:     e.OvertimeHours,
				Leave:        e.IsLeave(),
				WorkLocation: e.WorkLocation,
				Description:  e.Description,
			})
		}
	}
	return rows
}

// Notes describes what sets the day apart: holiday, weekend, leave.
func Notes(d timesheet.DayAggregate) string {
	var notes []string
	if d.Holiday != nil {
		n := d.Holiday.Name
		if d.Holiday.HalfDay {
			n += " (half day)"
		}
		notes = append(notes, n)
	}
	if d.IsWeekend {
		notes = append(notes, "weekend")
	}
	for _, l := range d.Leaves {
		notes = append(notes, "leave "+string(l.LeaveType)+" "+string(l.LeaveStatus))
	}
	return strings.Join(notes, "; ")
}
