package timesheet_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

const userID int64 = 7

// 2026-02-25 is the Wednesday of the week starting Monday 2026-02-23.
var (
	now    = time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC)
	monday = model.NewDate(2026, 2, 23)
)

func fixedClock() time.Time { return now }

func loadWeek(t *testing.T, b *fakeBackend, opts ...timesheet.Option) *timesheet.Week {
	t.Helper()
	opts = append([]timesheet.Option{timesheet.WithClock(fixedClock)}, opts...)
	w, err := timesheet.NewSheet(b, opts...).LoadWeek(context.Background(), userID, model.DateOf(now))
	require.NoError(t, err)
	return w
}

func entry(d model.Date, hours float64) timesheet.EntryInput {
	return timesheet.EntryInput{
		Date:         d,
		ProjectID:    1,
		Hours:        hours,
		WorkLocation: model.LocationOffice,
	}
}

func day(t *testing.T, w *timesheet.Week, d model.Date) timesheet.DayAggregate {
	t.Helper()
	agg, ok := w.Day(d)
	require.True(t, ok, "day %s not in week", d)
	return agg
}

func neverPrompt(t *testing.T) timesheet.Prompter {
	return timesheet.PromptFunc(func(_ context.Context, d model.Date, h float64) (bool, error) {
		t.Errorf("unexpected leave prompt for %s (%vh)", d, h)
		return false, nil
	})
}

func TestAddEntryRegistersShortfallAsLeave(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	var prompted float64
	p := timesheet.PromptFunc(func(_ context.Context, d model.Date, h float64) (bool, error) {
		assert.Equal(t, monday, d)
		prompted = h
		return true, nil
	})

	res, err := w.AddEntry(context.Background(), entry(monday, 5), p)
	require.NoError(t, err)
	assert.Equal(t, timesheet.Split{Worked: 5, Overtime: 0}, res.Split)
	assert.Equal(t, 3.0, prompted)
	assert.Equal(t, 3.0, res.Shortfall)

	require.NotNil(t, res.Leave)
	assert.Equal(t, model.LeavePartial, res.Leave.Leave.LeaveType)
	assert.Equal(t, model.LeavePending, res.Leave.Leave.LeaveStatus)
	require.NotNil(t, res.Leave.Placeholder)
	assert.Equal(t, model.LeaveProjectID, res.Leave.Placeholder.ProjectID)
	assert.Equal(t, 3.0, res.Leave.Placeholder.WorkedHours)
	assert.Equal(t, model.LocationHome, res.Leave.Placeholder.WorkLocation)
	assert.Equal(t, fmt.Sprintf("Leave #%d (PARTIAL_LEAVE)", res.Leave.Leave.ID), res.Leave.Placeholder.Description)

	mon := day(t, w, monday)
	assert.Equal(t, 8.0, mon.Total())
	assert.Equal(t, 3.0, mon.LeaveHours)
	assert.Len(t, mon.Entries, 2)
	assert.Len(t, mon.Leaves, 1)
}

func TestAddEntrySplitsOvertime(t *testing.T) {
	b := newFakeBackend()
	b.entries = []model.TimeEntry{{ID: 1, UserID: userID, Date: monday, ProjectID: 2, WorkedHours: 6}}
	w := loadWeek(t, b)

	res, err := w.AddEntry(context.Background(), entry(monday, 5), neverPrompt(t))
	require.NoError(t, err)
	assert.Equal(t, timesheet.Split{Worked: 2, Overtime: 3}, res.Split)
	assert.Equal(t, 11.0, res.DayTotal)
	assert.Zero(t, res.Shortfall)

	require.Len(t, b.createdEntries, 1)
	assert.Equal(t, 2.0, b.createdEntries[0].WorkedHours)
	assert.Equal(t, 3.0, b.createdEntries[0].OvertimeHours)
	assert.Equal(t, userID, b.createdEntries[0].UserID)

	mon := day(t, w, monday)
	assert.Equal(t, 8.0, mon.WorkedHours)
	assert.Equal(t, 3.0, mon.OvertimeHours)
}

func TestAddEntryOnFullDayIsAllOvertime(t *testing.T) {
	b := newFakeBackend()
	b.entries = []model.TimeEntry{{ID: 1, UserID: userID, Date: monday, ProjectID: 2, WorkedHours: 8}}
	w := loadWeek(t, b)

	res, err := w.AddEntry(context.Background(), entry(monday, 3), neverPrompt(t))
	require.NoError(t, err)
	assert.Equal(t, timesheet.Split{Worked: 0, Overtime: 3}, res.Split)
}

func TestAddEntryHalfDayLeaveAfterMorningWork(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	res, err := w.AddEntry(context.Background(), entry(monday, 4), timesheet.AlwaysPrompt(true))
	require.NoError(t, err)
	require.NotNil(t, res.Leave)
	assert.Equal(t, model.LeaveSecondHalf, res.Leave.Leave.LeaveType)
}

func TestAddEntryDeclinedPromptLeavesShortfall(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	res, err := w.AddEntry(context.Background(), entry(monday, 5), timesheet.AlwaysPrompt(false))
	require.NoError(t, err)
	assert.Nil(t, res.Leave)
	assert.Empty(t, b.leaves)
	assert.Equal(t, 5.0, day(t, w, monday).Total())
}

func TestAddEntryPromptErrorKeepsEntry(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	p := timesheet.PromptFunc(func(context.Context, model.Date, float64) (bool, error) {
		return false, errors.New("stdin closed")
	})
	res, err := w.AddEntry(context.Background(), entry(monday, 5), p)
	require.NoError(t, err)
	assert.Nil(t, res.Leave)
	assert.Len(t, b.entries, 1)
}

func TestAddEntryRejectsInvalidInput(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	in := entry(monday, 0)
	in.WorkLocation = "MOON"
	in.ProjectID = 0
	_, err := w.AddEntry(context.Background(), in, nil)

	var verrs timesheet.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs, "Hours")
	assert.Equal(t, "must be OFFICE or HOME", verrs["WorkLocation"])
	assert.Contains(t, verrs, "ProjectID")
	assert.Empty(t, b.createdEntries)
}

func TestAddEntryOutsideWindow(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	_, err := w.AddEntry(context.Background(), entry(monday.AddDays(7), 2), nil)
	assert.ErrorIs(t, err, timesheet.ErrOutsideWindow)
	_, err = w.RegisterLeave(context.Background(), monday.AddDays(-1), 2)
	assert.ErrorIs(t, err, timesheet.ErrOutsideWindow)
}

func TestAddEntryRemoteFailure(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)
	b.set(func(f *fakeBackend) { f.failCreateEntry = true })

	_, err := w.AddEntry(context.Background(), entry(monday, 5), neverPrompt(t))
	assert.ErrorIs(t, err, errBackend)
}

func TestApprovedFullLeaveBlocksDay(t *testing.T) {
	wed := monday.AddDays(2)
	b := newFakeBackend()
	b.entries = []model.TimeEntry{{ID: 1, UserID: userID, Date: wed, ProjectID: 1, WorkedHours: 2}}
	b.leaves = []model.LeaveRecord{{ID: 2, UserID: userID, Date: wed, LeaveType: model.LeaveFull, LeaveStatus: model.LeaveApproved}}
	w := loadWeek(t, b)

	_, err := w.AddEntry(context.Background(), entry(wed, 2), nil)
	assert.ErrorIs(t, err, timesheet.ErrFullLeaveDay)

	_, err = w.EditEntry(context.Background(), 1, entry(wed, 3), nil)
	assert.ErrorIs(t, err, timesheet.ErrFullLeaveDay)

	_, err = w.RegisterLeave(context.Background(), wed, 2)
	assert.ErrorIs(t, err, timesheet.ErrFullLeaveDay)

	require.NoError(t, w.DeleteEntry(context.Background(), 1))
	assert.Empty(t, day(t, w, wed).Entries)

	require.NoError(t, w.CancelLeave(context.Background(), 2))
	assert.False(t, day(t, w, wed).HasApprovedFullLeave)

	_, err = w.AddEntry(context.Background(), entry(wed, 2), nil)
	assert.NoError(t, err)
}

func TestEditEntryExcludesItselfFromPriorHours(t *testing.T) {
	b := newFakeBackend()
	b.entries = []model.TimeEntry{
		{ID: 1, UserID: userID, Date: monday, ProjectID: 1, WorkedHours: 6},
		{ID: 2, UserID: userID, Date: monday, ProjectID: 2, WorkedHours: 2},
	}
	w := loadWeek(t, b)

	in := entry(model.Date{}, 7)
	res, err := w.EditEntry(context.Background(), 1, in, neverPrompt(t))
	require.NoError(t, err)
	assert.Equal(t, timesheet.Split{Worked: 6, Overtime: 1}, res.Split)
	assert.Equal(t, monday, res.Entry.Date)
	assert.Equal(t, 9.0, res.DayTotal)

	mon := day(t, w, monday)
	assert.Equal(t, 8.0, mon.WorkedHours)
	assert.Equal(t, 1.0, mon.OvertimeHours)
}

func TestEditEntryMovesToAnotherDay(t *testing.T) {
	tue := monday.AddDays(1)
	b := newFakeBackend()
	b.entries = []model.TimeEntry{
		{ID: 1, UserID: userID, Date: monday, ProjectID: 1, WorkedHours: 6},
		{ID: 2, UserID: userID, Date: tue, ProjectID: 2, WorkedHours: 7},
	}
	w := loadWeek(t, b)

	res, err := w.EditEntry(context.Background(), 1, entry(tue, 3), nil)
	require.NoError(t, err)
	assert.Equal(t, timesheet.Split{Worked: 1, Overtime: 2}, res.Split)
	assert.Zero(t, day(t, w, monday).Total())
	assert.Equal(t, 10.0, day(t, w, tue).Total())
}

func TestEditUnknownEntry(t *testing.T) {
	w := loadWeek(t, newFakeBackend())
	_, err := w.EditEntry(context.Background(), 99, entry(monday, 1), nil)
	assert.ErrorIs(t, err, timesheet.ErrEntryNotFound)
	assert.ErrorIs(t, w.DeleteEntry(context.Background(), 99), timesheet.ErrEntryNotFound)
}

func TestRegisterLeave(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	res, err := w.RegisterLeave(context.Background(), monday, 8)
	require.NoError(t, err)
	assert.Equal(t, model.LeaveFull, res.Leave.LeaveType)
	require.NotNil(t, res.Placeholder)
	assert.Equal(t, 8.0, day(t, w, monday).Total())

	_, err = w.RegisterLeave(context.Background(), monday, 1)
	assert.ErrorIs(t, err, timesheet.ErrInvalidHours)
}

func TestRegisterLeaveRejectsMoreThanShortfall(t *testing.T) {
	b := newFakeBackend()
	b.entries = []model.TimeEntry{{ID: 1, UserID: userID, Date: monday, ProjectID: 1, WorkedHours: 6}}
	w := loadWeek(t, b)

	_, err := w.RegisterLeave(context.Background(), monday, 4)
	assert.ErrorIs(t, err, timesheet.ErrInvalidHours)

	_, err = w.RegisterLeave(context.Background(), monday, 9)
	var verrs timesheet.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	res, err := w.RegisterLeave(context.Background(), monday, 2)
	require.NoError(t, err)
	assert.Equal(t, model.LeavePartial, res.Leave.LeaveType)
}

func TestRegisterLeavePlaceholderFailure(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)
	b.set(func(f *fakeBackend) { f.failCreateEntry = true })

	res, err := w.RegisterLeave(context.Background(), monday, 4)
	require.ErrorIs(t, err, errBackend)
	assert.NotZero(t, res.Leave.ID)
	assert.Nil(t, res.Placeholder)
	assert.Len(t, day(t, w, monday).Leaves, 1)
}

func TestCancelLeaveRemovesPlaceholder(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	res, err := w.AddEntry(context.Background(), entry(monday, 5), timesheet.AlwaysPrompt(true))
	require.NoError(t, err)
	require.NotNil(t, res.Leave)

	require.NoError(t, w.CancelLeave(context.Background(), res.Leave.Leave.ID))
	assert.Equal(t, userID, b.canceledByUserID[res.Leave.Leave.ID])

	mon := day(t, w, monday)
	assert.Empty(t, mon.Leaves)
	assert.Equal(t, 5.0, mon.Total())
	assert.Zero(t, mon.LeaveHours)

	assert.ErrorIs(t, w.CancelLeave(context.Background(), res.Leave.Leave.ID), timesheet.ErrLeaveNotFound)
}

func TestCancelLeaveRemovesOnlyItsPlaceholder(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	first, err := w.RegisterLeave(context.Background(), monday, 3)
	require.NoError(t, err)
	second, err := w.RegisterLeave(context.Background(), monday, 3)
	require.NoError(t, err)

	require.NoError(t, w.CancelLeave(context.Background(), first.Leave.ID))
	mon := day(t, w, monday)
	require.Len(t, mon.Leaves, 1)
	assert.Equal(t, second.Leave.ID, mon.Leaves[0].ID)
	assert.Equal(t, 3.0, mon.LeaveHours)
	assert.Equal(t, 3.0, mon.Total())
	require.Len(t, mon.Entries, 1)
	assert.Equal(t, second.Placeholder.ID, mon.Entries[0].ID)

	again, err := w.RegisterLeave(context.Background(), monday, 3)
	require.NoError(t, err)
	assert.Equal(t, model.LeavePartial, again.Leave.LeaveType)
	assert.Equal(t, 6.0, day(t, w, monday).Total())
}

func TestCancelLeaveWithUnlinkedPlaceholders(t *testing.T) {
	b := newFakeBackend()
	b.entries = []model.TimeEntry{
		{ID: 1, UserID: userID, Date: monday, ProjectID: model.LeaveProjectID, WorkedHours: 4, Description: "Leave (FIRST_HALF)"},
		{ID: 2, UserID: userID, Date: monday, ProjectID: model.LeaveProjectID, WorkedHours: 2, Description: "Leave (PARTIAL_LEAVE)"},
	}
	b.leaves = []model.LeaveRecord{
		{ID: 10, UserID: userID, Date: monday, LeaveType: model.LeaveFirstHalf, LeaveStatus: model.LeavePending},
		{ID: 11, UserID: userID, Date: monday, LeaveType: model.LeavePartial, LeaveStatus: model.LeaveRejected},
		{ID: 12, UserID: userID, Date: monday, LeaveType: model.LeavePartial, LeaveStatus: model.LeaveApproved},
	}
	w := loadWeek(t, b)

	require.NoError(t, w.CancelLeave(context.Background(), 10))
	mon := day(t, w, monday)
	require.Len(t, mon.Entries, 1)
	assert.Equal(t, int64(2), mon.Entries[0].ID)
	assert.Equal(t, 2.0, mon.LeaveHours)

	// The rejected leave does not keep the last placeholder alive.
	require.NoError(t, w.CancelLeave(context.Background(), 12))
	assert.Empty(t, day(t, w, monday).Entries)
}

func TestAddEntryUsesReloadedDay(t *testing.T) {
	b := newFakeBackend()
	w := loadWeek(t, b)

	// Another session logs 2h after this week was loaded.
	b.set(func(f *fakeBackend) {
		f.entries = []model.TimeEntry{{ID: 1, UserID: userID, Date: monday, ProjectID: 2, WorkedHours: 2}}
	})

	var prompted float64
	p := timesheet.PromptFunc(func(_ context.Context, _ model.Date, h float64) (bool, error) {
		prompted = h
		return false, nil
	})
	res, err := w.AddEntry(context.Background(), entry(monday, 5), p)
	require.NoError(t, err)
	assert.Equal(t, 7.0, res.DayTotal)
	assert.Equal(t, 1.0, res.Shortfall)
	assert.Equal(t, 1.0, prompted)
}

func TestReloadKeepsStaleDataOnFailure(t *testing.T) {
	b := newFakeBackend()
	b.entries = []model.TimeEntry{{ID: 1, UserID: userID, Date: monday, ProjectID: 1, WorkedHours: 6}}
	w := loadWeek(t, b)
	require.Empty(t, w.Problems())

	b.set(func(f *fakeBackend) {
		f.failListEntries = true
		f.failProjects = true
		f.entries = nil
	})
	require.NoError(t, w.Reload(context.Background()))

	problems := w.Problems()
	require.Len(t, problems, 2)
	assert.Equal(t, "time entries", problems[0].Collection)
	assert.Equal(t, "projects", problems[1].Collection)
	assert.ErrorIs(t, problems[0].Err, errBackend)

	assert.Equal(t, 6.0, day(t, w, monday).Total())
	assert.Len(t, w.Projects(), 2)

	b.set(func(f *fakeBackend) { f.failListEntries, f.failProjects = false, false })
	require.NoError(t, w.Reload(context.Background()))
	assert.Empty(t, w.Problems())
	assert.Zero(t, day(t, w, monday).Total())
}

func TestHolidaysFetchedForEveryYearOfTheWeek(t *testing.T) {
	b := newFakeBackend()
	b.holidays = []model.Holiday{
		{ID: 1, Name: "New Year", Date: model.NewDate(2026, 1, 1)},
		{ID: 2, Name: "Boxing Day", Date: model.NewDate(2025, 12, 26)},
	}
	w, err := timesheet.NewSheet(b, timesheet.WithClock(fixedClock)).
		LoadWeek(context.Background(), userID, model.NewDate(2026, 1, 1))
	require.NoError(t, err)

	assert.ElementsMatch(t, []int{2025, 2026}, b.holidayYears)
	thu := day(t, w, model.NewDate(2026, 1, 1))
	require.True(t, thu.IsHoliday())
	assert.Equal(t, "New Year", thu.Holiday.Name)
}

func TestTotalHours(t *testing.T) {
	b := newFakeBackend()
	b.entries = []model.TimeEntry{
		{ID: 1, UserID: userID, Date: monday, ProjectID: 1, WorkedHours: 8, OvertimeHours: 1.5},
		{ID: 2, UserID: userID, Date: monday.AddDays(1), ProjectID: 1, WorkedHours: 7.25},
	}
	w := loadWeek(t, b)

	worked, overtime := w.TotalHours()
	assert.Equal(t, 15.25, worked)
	assert.Equal(t, 1.5, overtime)
}
