package timesheet_test

import (
	"context"
	"errors"
	"sync"

	"github.com/Tiliavir/chronos-timereg/internal/model"
)

var errBackend = errors.New("backend unavailable")

// fakeBackend keeps the remote collections in memory. Setting one of the
// fail flags makes the matching call return errBackend.
type fakeBackend struct {
	mu       sync.Mutex
	nextID   int64
	entries  []model.TimeEntry
	leaves   []model.LeaveRecord
	holidays []model.Holiday
	projects []model.Project

	failListEntries  bool
	failListLeaves   bool
	failHolidays     bool
	failProjects     bool
	failCreateEntry  bool
	failCreateLeave  bool
	holidayYears     []int
	createdEntries   []model.TimeEntryInput
	canceledByUserID map[int64]int64
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:           100,
		projects:         []model.Project{{ID: 1, Name: "Chronos"}, {ID: 2, Name: "Support"}},
		canceledByUserID: map[int64]int64{},
	}
}

func (f *fakeBackend) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeBackend) ListTimeEntries(_ context.Context, userID int64, from, to model.Date) ([]model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListEntries {
		return nil, errBackend
	}
	var out []model.TimeEntry
	for _, e := range f.entries {
		if e.UserID == userID && !e.Date.Before(from) && !e.Date.After(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeBackend) CreateTimeEntry(_ context.Context, in model.TimeEntryInput) (model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateEntry {
		return model.TimeEntry{}, errBackend
	}
	f.createdEntries = append(f.createdEntries, in)
	e := entryFrom(f.id(), in)
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeBackend) UpdateTimeEntry(_ context.Context, id int64, in model.TimeEntryInput) (model.TimeEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id {
			f.entries[i] = entryFrom(id, in)
			return f.entries[i], nil
		}
	}
	return model.TimeEntry{}, errBackend
}

func (f *fakeBackend) DeleteTimeEntry(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return errBackend
}

func (f *fakeBackend) CreateLeave(_ context.Context, in model.LeaveInput) (model.LeaveRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreateLeave {
		return model.LeaveRecord{}, errBackend
	}
	l := model.LeaveRecord{
		ID:          f.id(),
		UserID:      in.UserID,
		Date:        in.Date,
		LeaveType:   in.LeaveType,
		LeaveStatus: model.LeavePending,
	}
	f.leaves = append(f.leaves, l)
	return l, nil
}

func (f *fakeBackend) ListLeaves(_ context.Context, userID int64, from, to model.Date) ([]model.LeaveRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failListLeaves {
		return nil, errBackend
	}
	var out []model.LeaveRecord
	for _, l := range f.leaves {
		if l.OwnerID() == userID && !l.Date.Before(from) && !l.Date.After(to) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeBackend) CancelLeave(_ context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, l := range f.leaves {
		if l.ID == id {
			f.leaves[i].LeaveStatus = model.LeaveCanceled
			f.canceledByUserID[id] = userID
			return nil
		}
	}
	return errBackend
}

func (f *fakeBackend) ListHolidays(_ context.Context, year int) ([]model.Holiday, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failHolidays {
		return nil, errBackend
	}
	f.holidayYears = append(f.holidayYears, year)
	var out []model.Holiday
	for _, h := range f.holidays {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeBackend) ListProjects(context.Context) ([]model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProjects {
		return nil, errBackend
	}
	return append([]model.Project(nil), f.projects...), nil
}

func (f *fakeBackend) set(fn func(f *fakeBackend)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func entryFrom(id int64, in model.TimeEntryInput) model.TimeEntry {
	return model.TimeEntry{
		ID:            id,
		UserID:        in.UserID,
		Date:          in.Date,
		ProjectID:     in.ProjectID,
		WorkedHours:   in.WorkedHours,
		OvertimeHours: in.OvertimeHours,
		WorkLocation:  in.WorkLocation,
		Description:   in.Description,
	}
}
