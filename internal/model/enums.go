package model

import (
	"fmt"
	"strings"
)

// LeaveType classifies a leave record by how much of the day it covers.
type LeaveType string

const (
	LeaveFull       LeaveType = "FULL"
	LeaveFirstHalf  LeaveType = "FIRST_HALF"
	LeaveSecondHalf LeaveType = "SECOND_HALF"
	LeavePartial    LeaveType = "PARTIAL_LEAVE"
)

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveFull, LeaveFirstHalf, LeaveSecondHalf, LeavePartial:
		return true
	}
	return false
}

func (t *LeaveType) UnmarshalText(b []byte) error {
	v := LeaveType(strings.ToUpper(strings.TrimSpace(string(b))))
	if !v.Valid() {
		return fmt.Errorf("unknown leave type %q", string(b))
	}
	*t = v
	return nil
}

// LeaveStatus is the approval state of a leave record.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
	LeaveCanceled LeaveStatus = "CANCELED"
)

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected, LeaveCanceled:
		return true
	}
	return false
}

func (s *LeaveStatus) UnmarshalText(b []byte) error {
	raw := strings.ToUpper(strings.TrimSpace(string(b)))
	if raw == "CANCELLED" {
		raw = string(LeaveCanceled)
	}
	v := LeaveStatus(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown leave status %q", string(b))
	}
	*s = v
	return nil
}

// WorkLocation is where a time entry was worked.
type WorkLocation string

const (
	LocationOffice WorkLocation = "OFFICE"
	LocationHome   WorkLocation = "HOME"
)

func (l WorkLocation) Valid() bool {
	return l == LocationOffice || l == LocationHome
}

func (l *WorkLocation) UnmarshalText(b []byte) error {
	v := WorkLocation(strings.ToUpper(strings.TrimSpace(string(b))))
	if v == "" {
		*l = ""
		return nil
	}
	if !v.Valid() {
		return fmt.Errorf("unknown work location %q", string(b))
	}
	*l = v
	return nil
}

// SpecialDayType tags a holiday calendar entry.
type SpecialDayType string

const (
	DayNormal       SpecialDayType = "NORMAL"
	DaySaturday     SpecialDayType = "SATURDAY"
	DaySunday       SpecialDayType = "SUNDAY"
	DayGreekHoliday SpecialDayType = "GREEK_HOLIDAY"
	DayHalfDay      SpecialDayType = "HALF_DAY"
)

func (t SpecialDayType) Valid() bool {
	switch t {
	case DayNormal, DaySaturday, DaySunday, DayGreekHoliday, DayHalfDay:
		return true
	}
	return false
}

// UnmarshalText treats an empty tag as NORMAL; the holidays endpoint omits it
// for plain holidays.
func (t *SpecialDayType) UnmarshalText(b []byte) error {
	raw := strings.ToUpper(strings.TrimSpace(string(b)))
	if raw == "" {
		*t = DayNormal
		return nil
	}
	v := SpecialDayType(raw)
	if !v.Valid() {
		return fmt.Errorf("unknown special day type %q", string(b))
	}
	*t = v
	return nil
}
