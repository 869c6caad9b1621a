package timecalc

import (
	"fmt"
	"strconv"
	"time"

	"github.com/Tiliavir/chronos-timereg/internal/model"
)

// Window is the Monday→Sunday week containing a reference day.
type Window [7]model.Date

// WeekStart returns the Monday on or before ref.
func WeekStart(ref model.Date) model.Date {
	// Go's weekday: Sunday=0, Monday=1, …, Saturday=6
	offset := (int(ref.Weekday()) + 6) % 7
	return ref.AddDays(-offset)
}

// WeekWindow returns the seven days of the week containing ref.
func WeekWindow(ref model.Date) Window {
	var w Window
	start := WeekStart(ref)
	for i := range w {
		w[i] = start.AddDays(i)
	}
	return w
}

// ShiftWeeks moves ref by n whole weeks.
func ShiftWeeks(ref model.Date, n int) model.Date {
	return ref.AddDays(7 * n)
}

func (w Window) Start() model.Date { return w[0] }
func (w Window) End() model.Date   { return w[6] }

// Contains reports whether d falls inside the window.
func (w Window) Contains(d model.Date) bool {
	return !d.Before(w.Start()) && !d.After(w.End())
}

// Years returns the calendar years the window touches, in order.
func (w Window) Years() []int {
	first, last := w.Start().Year(), w.End().Year()
	if first == last {
		return []int{first}
	}
	return []int{first, last}
}

// Label returns the ISO week label of the window, e.g. "2026-W09".
func (w Window) Label() string {
	return ISOWeekLabel(w.Start().Time)
}

// ISOWeekLabel returns a label like "2026-W09".
func ISOWeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// IsWeekend reports whether d is a Saturday or a Sunday.
func IsWeekend(d model.Date) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// FormatHours formats an hour count like "8h", "7.5h" or "0.25h".
func FormatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64) + "h"
}

// FormatDay formats a day like "Mon Feb 23".
func FormatDay(d model.Date) string {
	return d.Format("Mon Jan 02")
}
