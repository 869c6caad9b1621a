package timesheet

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrOutsideWindow = errors.New("date is outside the loaded week")
	ErrFullLeaveDay  = errors.New("day is covered by approved full leave")
	ErrEntryNotFound = errors.New("time entry not found in this week")
	ErrLeaveNotFound = errors.New("leave record not found in this week")
	ErrInvalidHours  = errors.New("invalid hours")
)

// ValidationErrors maps an input field to what is wrong with it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	msgs := make([]string, 0, len(fields))
	for _, f := range fields {
		msgs = append(msgs, f+": "+v[f])
	}
	return strings.Join(msgs, "; ")
}

// Problem is a collection that could not be fetched. The week keeps serving
// the last data it had for that collection.
type Problem struct {
	Collection string `json:"collection"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (p Problem) String() string {
	return "failed to load " + p.Collection + ": " + p.Message
}
