package timesheet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
)

const (
	collectionEntries  = "time entries"
	collectionLeaves   = "leave"
	collectionHolidays = "holidays"
	collectionProjects = "projects"
)

var collections = []string{collectionEntries, collectionLeaves, collectionHolidays, collectionProjects}

// Week is one user's Monday→Sunday window with the data last fetched for
// it. Commands on a Week run one at a time and each successful command
// reloads all collections before returning.
type Week struct {
	UserID int64
	Window timecalc.Window

	sheet *Sheet

	// cmdMu serializes commands and reloads; mu guards the fields below.
	cmdMu sync.Mutex
	mu    sync.RWMutex

	entries  []model.TimeEntry
	leaves   []model.LeaveRecord
	holidays []model.Holiday
	projects []model.Project
	days     []DayAggregate
	problems []Problem
	loadedAt time.Time
}

func (w *Week) seed(wf model.WeekFile) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = wf.Entries
	w.leaves = wf.Leaves
	w.holidays = wf.Holidays
	w.projects = wf.Projects
}

// Reload fetches all collections again.
func (w *Week) Reload(ctx context.Context) error {
	w.cmdMu.Lock()
	defer w.cmdMu.Unlock()
	w.reload(ctx)
	return ctx.Err()
}

func (w *Week) reload(ctx context.Context) {
	s := w.sheet
	start, end := w.Window.Start(), w.Window.End()
	began := s.now()

	var (
		entries  []model.TimeEntry
		leaves   []model.LeaveRecord
		holidays []model.Holiday
		projects []model.Project
		errs     = map[string]error{}
		errsMu   sync.Mutex
	)
	fail := func(collection string, err error) {
		errsMu.Lock()
		errs[collection] = err
		errsMu.Unlock()
	}

	// Each collection is handled on its own; one failing never cancels the
	// others, so the goroutines always return nil.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if entries, err = s.backend.ListTimeEntries(ctx, w.UserID, start, end); err != nil {
			fail(collectionEntries, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if leaves, err = s.backend.ListLeaves(ctx, w.UserID, start, end); err != nil {
			fail(collectionLeaves, err)
		}
		return nil
	})
	g.Go(func() error {
		for _, year := range w.Window.Years() {
			hs, err := s.backend.ListHolidays(ctx, year)
			if err != nil {
				fail(collectionHolidays, err)
				return nil
			}
			holidays = append(holidays, hs...)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if projects, err = s.backend.ListProjects(ctx); err != nil {
			fail(collectionProjects, err)
		}
		return nil
	})
	_ = g.Wait()

	w.mu.Lock()
	var problems []Problem
	for _, c := range collections {
		if err, ok := errs[c]; ok {
			problems = append(problems, Problem{Collection: c, Message: err.Error(), Err: err})
		}
	}
	if _, failed := errs[collectionEntries]; !failed {
		w.entries = entries
	}
	if _, failed := errs[collectionLeaves]; !failed {
		w.leaves = leaves
	}
	if _, failed := errs[collectionHolidays]; !failed {
		w.holidays = holidays
	}
	if _, failed := errs[collectionProjects]; !failed {
		w.projects = projects
	}
	w.problems = problems
	w.days = Aggregate(w.Window, w.entries, w.leaves, w.holidays, s.today())
	w.loadedAt = s.now()
	wf := model.WeekFile{
		UserID:    w.UserID,
		WeekStart: start,
		SavedAt:   w.loadedAt,
		Entries:   w.entries,
		Leaves:    w.leaves,
		Holidays:  w.holidays,
		Projects:  w.projects,
	}
	w.mu.Unlock()

	for _, p := range problems {
		s.log.Warn("fetch failed", "user", w.UserID, "week", w.Window.Label(), "collection", p.Collection, "error", p.Err)
	}
	s.log.Debug("week loaded", "user", w.UserID, "week", w.Window.Label(), "problems", len(problems), "took", s.now().Sub(began))

	if s.snapshots != nil && len(problems) < len(collections) {
		if err := s.snapshots.SaveWeek(w.UserID, start, wf); err != nil {
			s.log.Warn("could not save week snapshot", "user", w.UserID, "week", w.Window.Label(), "error", err)
		}
	}
}

// Days returns the aggregates of the seven days, Monday first.
func (w *Week) Days() []DayAggregate {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]DayAggregate, len(w.days))
	copy(out, w.days)
	return out
}

// Day returns the aggregate of d.
func (w *Week) Day(d model.Date) (DayAggregate, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.dayLocked(d)
}

func (w *Week) dayLocked(d model.Date) (DayAggregate, bool) {
	for _, day := range w.days {
		if day.Date == d {
			return day, true
		}
	}
	return DayAggregate{}, false
}

// Entry returns the time entry with the given id.
func (w *Week) Entry(id int64) (model.TimeEntry, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, e := range w.entries {
		if e.ID == id && w.Window.Contains(e.Date) {
			return e, true
		}
	}
	return model.TimeEntry{}, false
}

// Leave returns the non-canceled leave record with the given id.
func (w *Week) Leave(id int64) (model.LeaveRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, l := range w.leaves {
		if l.ID == id && l.LeaveStatus != model.LeaveCanceled && w.Window.Contains(l.Date) {
			return l, true
		}
	}
	return model.LeaveRecord{}, false
}

func (w *Week) Projects() []model.Project {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]model.Project(nil), w.projects...)
}

// Problems lists the collections that failed on the last reload.
func (w *Week) Problems() []Problem {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]Problem(nil), w.problems...)
}

func (w *Week) LoadedAt() time.Time {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loadedAt
}

// TotalHours sums worked and overtime hours over the week.
func (w *Week) TotalHours() (worked, overtime float64) {
	for _, d := range w.Days() {
		worked = addHours(worked, d.WorkedHours)
		overtime = addHours(overtime, d.OvertimeHours)
	}
	return worked, overtime
}

func (w *Week) openDay(d model.Date) (DayAggregate, error) {
	day, ok := w.Day(d)
	if !ok {
		return DayAggregate{}, fmt.Errorf("%w: %s is not in %s..%s", ErrOutsideWindow, d, w.Window.Start(), w.Window.End())
	}
	if day.HasApprovedFullLeave {
		return DayAggregate{}, fmt.Errorf("%w: %s", ErrFullLeaveDay, d)
	}
	return day, nil
}
