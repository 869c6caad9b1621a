package timesheet

import (
	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
)

// DayAggregate is the derived view of one calendar day of the week.
type DayAggregate struct {
	Date          model.Date          `json:"date"`
	WorkedHours   float64             `json:"workedHours"`
	OvertimeHours float64             `json:"overtimeHours"`
	LeaveHours    float64             `json:"leaveHours"`
	Entries       []model.TimeEntry   `json:"entries"`
	Leaves        []model.LeaveRecord `json:"leaves"`
	Holiday       *model.Holiday      `json:"holiday,omitempty"`

	IsWeekend            bool `json:"isWeekend"`
	IsToday              bool `json:"isToday"`
	HasApprovedFullLeave bool `json:"hasApprovedFullLeave"`
}

// Total returns worked plus overtime hours.
func (d DayAggregate) Total() float64 {
	return addHours(d.WorkedHours, d.OvertimeHours)
}

// WorkedExcludingLeave returns the worked hours that are not leave placeholders.
func (d DayAggregate) WorkedExcludingLeave() float64 {
	return subHours(d.WorkedHours, d.LeaveHours)
}

func (d DayAggregate) IsHoliday() bool { return d.Holiday != nil }

// Aggregate folds the week's collections into one DayAggregate per day of
// the window. Rows dated outside the window and canceled leave are dropped.
func Aggregate(w timecalc.Window, entries []model.TimeEntry, leaves []model.LeaveRecord, holidays []model.Holiday, today model.Date) []DayAggregate {
	index := make(map[model.Date]int, len(w))
	days := make([]DayAggregate, len(w))
	for i, d := range w {
		index[d] = i
		days[i] = DayAggregate{
			Date:      d,
			Entries:   []model.TimeEntry{},
			Leaves:    []model.LeaveRecord{},
			IsWeekend: timecalc.IsWeekend(d),
			IsToday:   d == today,
		}
	}

	for _, e := range entries {
		i, ok := index[e.Date]
		if !ok {
			continue
		}
		day := &days[i]
		day.Entries = append(day.Entries, e)
		day.WorkedHours = addHours(day.WorkedHours, e.WorkedHours)
		day.OvertimeHours = addHours(day.OvertimeHours, e.OvertimeHours)
		if e.IsLeave() {
			day.LeaveHours = addHours(day.LeaveHours, e.WorkedHours)
		}
	}

	for _, l := range leaves {
		if l.LeaveStatus == model.LeaveCanceled {
			continue
		}
		i, ok := index[l.Date]
		if !ok {
			continue
		}
		days[i].Leaves = append(days[i].Leaves, l)
	}

	for _, h := range holidays {
		i, ok := index[h.Date]
		if !ok || days[i].Holiday != nil {
			continue
		}
		h := h
		days[i].Holiday = &h
	}

	for i := range days {
		days[i].HasApprovedFullLeave = HasApprovedFullLeave(days[i].Leaves)
	}
	return days
}

// HasApprovedFullLeave reports whether any non-canceled leave in leaves is an
// APPROVED FULL leave.
func HasApprovedFullLeave(leaves []model.LeaveRecord) bool {
	for _, l := range leaves {
		if l.LeaveStatus != model.LeaveCanceled && l.IsApprovedFull() {
			return true
		}
	}
	return false
}
