package timesheet_test

import (
	"testing"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

func TestSplitHours(t *testing.T) {
	tests := []struct {
		requested, prior float64
		worked, overtime float64
	}{
		{5, 6, 2, 3},
		{8, 0, 8, 0},
		{3, 8, 0, 3},
		{3, 10, 0, 3},
		{2.5, 3, 2.5, 0},
		{0.2, 7.9, 0.1, 0.1},
		{0.3, 0.1, 0.3, 0},
	}
	for _, tt := range tests {
		got := timesheet.SplitHours(tt.requested, tt.prior)
		if got.Worked != tt.worked || got.Overtime != tt.overtime {
			t.Errorf("SplitHours(%v, %v) = %+v, want worked %v overtime %v",
				tt.requested, tt.prior, got, tt.worked, tt.overtime)
		}
		if sum := got.Worked + got.Overtime; sum-tt.requested > 1e-9 || tt.requested-sum > 1e-9 {
			t.Errorf("SplitHours(%v, %v) parts sum to %v", tt.requested, tt.prior, sum)
		}
	}
}

func TestClassifyLeave(t *testing.T) {
	tests := []struct {
		hours, prior float64
		want         model.LeaveType
	}{
		{8, 0, model.LeaveFull},
		{4, 0, model.LeaveFirstHalf},
		{4, 3.5, model.LeaveFirstHalf},
		{4, 4, model.LeaveSecondHalf},
		{4, 6, model.LeaveSecondHalf},
		{3, 5, model.LeavePartial},
		{0.5, 0, model.LeavePartial},
		{7.5, 0.5, model.LeavePartial},
	}
	for _, tt := range tests {
		if got := timesheet.ClassifyLeave(tt.hours, tt.prior); got != tt.want {
			t.Errorf("ClassifyLeave(%v, %v) = %s, want %s", tt.hours, tt.prior, got, tt.want)
		}
	}
}

func TestShortfall(t *testing.T) {
	tests := []struct {
		total, want float64
	}{
		{0, 8},
		{5, 3},
		{7.9, 0.1},
		{8, 0},
		{11, 0},
	}
	for _, tt := range tests {
		if got := timesheet.Shortfall(tt.total); got != tt.want {
			t.Errorf("Shortfall(%v) = %v, want %v", tt.total, got, tt.want)
		}
	}
}
