package model

import "strconv"

// LeaveProjectID is the project id of a leave placeholder time entry.
const LeaveProjectID int64 = -1

// ProjectRef is the project summary nested in time entries.
type ProjectRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Project is a bookable project.
type Project struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TimeEntry is one logged work interval for a user on a date.
type TimeEntry struct {
	ID            int64        `json:"id"`
	UserID        int64        `json:"userId"`
	Date          Date         `json:"date"`
	ProjectID     int64        `json:"projectId"`
	Project       *ProjectRef  `json:"project,omitempty"`
	WorkedHours   float64      `json:"workedHours"`
	OvertimeHours float64      `json:"overtimeHours"`
	WorkLocation  WorkLocation `json:"workLocation"`
	Description   string       `json:"description,omitempty"`
}

// EffectiveProjectID returns the project id, taking it from the nested
// project when the flat field is absent.
func (e TimeEntry) EffectiveProjectID() int64 {
	if e.ProjectID == 0 && e.Project != nil {
		return e.Project.ID
	}
	return e.ProjectID
}

// IsLeave reports whether e is a leave placeholder.
func (e TimeEntry) IsLeave() bool {
	return e.EffectiveProjectID() == LeaveProjectID
}

// ProjectName returns a display label for the entry's project.
func (e TimeEntry) ProjectName() string {
	if e.IsLeave() {
		return "Leave"
	}
	if e.Project != nil && e.Project.Name != "" {
		return e.Project.Name
	}
	return strconv.FormatInt(e.EffectiveProjectID(), 10)
}

// TimeEntryInput is the body of a time entry create or update request.
type TimeEntryInput struct {
	UserID        int64        `json:"userId"`
	ProjectID     int64        `json:"projectId"`
	Date          Date         `json:"date"`
	WorkedHours   float64      `json:"workedHours"`
	OvertimeHours float64      `json:"overtimeHours"`
	WorkLocation  WorkLocation `json:"workLocation"`
	Description   string       `json:"description"`
}

// UserRef is the user summary nested in leave records.
type UserRef struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// LeaveRecord is a request or grant of leave for a user on a date.
type LeaveRecord struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"userId"`
	User        *UserRef    `json:"user,omitempty"`
	Date        Date        `json:"date"`
	LeaveType   LeaveType   `json:"leaveType"`
	LeaveStatus LeaveStatus `json:"leaveStatus"`
}

// OwnerID returns the owning user id, taking it from the nested user when
// the flat field is absent.
func (l LeaveRecord) OwnerID() int64 {
	if l.UserID == 0 && l.User != nil {
		return l.User.ID
	}
	return l.UserID
}

// IsApprovedFull reports whether l is an APPROVED FULL leave.
func (l LeaveRecord) IsApprovedFull() bool {
	return l.LeaveType == LeaveFull && l.LeaveStatus == LeaveApproved
}

// LeaveInput is the body of a leave create request.
type LeaveInput struct {
	UserID    int64     `json:"userId"`
	Date      Date      `json:"date"`
	LeaveType LeaveType `json:"leaveType"`
}

// Holiday is a calendar-level non-working or special day.
type Holiday struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Date           Date           `json:"date"`
	HalfDay        bool           `json:"halfDay"`
	SpecialDayType SpecialDayType `json:"specialDayType"`
}
