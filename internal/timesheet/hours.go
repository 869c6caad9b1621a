package timesheet

import (
	"github.com/shopspring/decimal"

	"github.com/Tiliavir/chronos-timereg/internal/model"
)

// StandardDayHours is the daily capacity counted as worked time; anything
// beyond it is overtime.
const StandardDayHours = 8

// HalfDayHours is the leave length that maps to a half-day leave type.
const HalfDayHours = 4

var (
	standardDay = decimal.NewFromInt(StandardDayHours)
	halfDay     = decimal.NewFromInt(HalfDayHours)
)

// Split is a requested hour count divided into worked and overtime parts.
type Split struct {
	Worked   float64 `json:"workedHours"`
	Overtime float64 `json:"overtimeHours"`
}

// SplitHours divides requested hours so the day's worked total never exceeds
// the standard day: whatever does not fit into the remaining capacity becomes
// overtime.
func SplitHours(requested, priorWorked float64) Split {
	req := decimal.NewFromFloat(requested)
	remaining := decimal.Max(decimal.Zero, standardDay.Sub(decimal.NewFromFloat(priorWorked)))
	return Split{
		Worked:   decimal.Min(req, remaining).InexactFloat64(),
		Overtime: decimal.Max(decimal.Zero, req.Sub(remaining)).InexactFloat64(),
	}
}

// ClassifyLeave labels a leave request from its length and the hours already
// worked that day.
func ClassifyLeave(hours, priorWorked float64) model.LeaveType {
	h := decimal.NewFromFloat(hours)
	switch {
	case h.Equal(standardDay):
		return model.LeaveFull
	case h.Equal(halfDay) && decimal.NewFromFloat(priorWorked).GreaterThanOrEqual(halfDay):
		return model.LeaveSecondHalf
	case h.Equal(halfDay):
		return model.LeaveFirstHalf
	default:
		return model.LeavePartial
	}
}

// Shortfall returns how many hours are missing from a standard day.
func Shortfall(total float64) float64 {
	return decimal.Max(decimal.Zero, standardDay.Sub(decimal.NewFromFloat(total))).InexactFloat64()
}

func addHours(values ...float64) float64 {
	sum := decimal.Zero
	for _, v := range values {
		sum = sum.Add(decimal.NewFromFloat(v))
	}
	return sum.InexactFloat64()
}

func subHours(a, b float64) float64 {
	return decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).InexactFloat64()
}
