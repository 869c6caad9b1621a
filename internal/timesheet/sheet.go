// Package timesheet derives the weekly time-registration view from the
// remote time entry, leave and holiday collections, and runs the day-scoped
// commands that change them.
package timesheet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
)

// ErrNoUser is returned when a week is requested without a user id.
var ErrNoUser = errors.New("no user id")

type TimeEntryService interface {
	ListTimeEntries(ctx context.Context, userID int64, from, to model.Date) ([]model.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, in model.TimeEntryInput) (model.TimeEntry, error)
	UpdateTimeEntry(ctx context.Context, id int64, in model.TimeEntryInput) (model.TimeEntry, error)
	DeleteTimeEntry(ctx context.Context, id int64) error
}

type LeaveService interface {
	CreateLeave(ctx context.Context, in model.LeaveInput) (model.LeaveRecord, error)
	ListLeaves(ctx context.Context, userID int64, from, to model.Date) ([]model.LeaveRecord, error)
	CancelLeave(ctx context.Context, id, userID int64) error
}

type HolidayService interface {
	ListHolidays(ctx context.Context, year int) ([]model.Holiday, error)
}

type ProjectService interface {
	ListProjects(ctx context.Context) ([]model.Project, error)
}

// Backend is everything the week view consumes from the server.
type Backend interface {
	TimeEntryService
	LeaveService
	HolidayService
	ProjectService
}

// SnapshotStore keeps the last fetched copy of a week so a later process can
// fall back to it when a collection cannot be fetched.
type SnapshotStore interface {
	LoadWeek(userID int64, weekStart model.Date) (model.WeekFile, error)
	SaveWeek(userID int64, weekStart model.Date, wf model.WeekFile) error
}

const defaultMaxWeeks = 32

// Sheet loads weeks and keeps the recently used ones keyed by user and
// week start.
type Sheet struct {
	backend   Backend
	snapshots SnapshotStore
	now       func() time.Time
	log       *slog.Logger
	maxWeeks  int

	mu    sync.Mutex
	weeks map[weekKey]*Week
}

type weekKey struct {
	userID int64
	start  model.Date
}

type Option func(*Sheet)

func WithSnapshots(s SnapshotStore) Option { return func(sh *Sheet) { sh.snapshots = s } }
func WithClock(now func() time.Time) Option { return func(sh *Sheet) { sh.now = now } }
func WithLogger(l *slog.Logger) Option      { return func(sh *Sheet) { sh.log = l } }

// WithMaxWeeks sets how many weeks are kept.
func WithMaxWeeks(n int) Option { return func(sh *Sheet) { sh.maxWeeks = n } }

func NewSheet(backend Backend, opts ...Option) *Sheet {
	s := &Sheet{
		backend:  backend,
		now:      time.Now,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxWeeks: defaultMaxWeeks,
		weeks:    map[weekKey]*Week{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sheet) today() model.Date {
	return model.DateOf(s.now())
}

// LoadWeek builds the week containing ref and fetches its collections. A
// collection that fails to load is reported through Week.Problems and falls
// back to the stored snapshot, or to empty.
func (s *Sheet) LoadWeek(ctx context.Context, userID int64, ref model.Date) (*Week, error) {
	if userID <= 0 {
		return nil, ErrNoUser
	}
	w := &Week{
		UserID: userID,
		Window: timecalc.WeekWindow(ref),
		sheet:  s,
	}
	if s.snapshots != nil {
		wf, err := s.snapshots.LoadWeek(userID, w.Window.Start())
		if err != nil {
			s.log.Warn("ignoring week snapshot", "user", userID, "week", w.Window.Label(), "error", err)
		} else {
			w.seed(wf)
		}
	}
	w.reload(ctx)
	return w, nil
}

// Week returns the week containing ref with all collections fetched again.
// A cached week is reused so commands on it stay serialized, but its data
// is never served without a reload.
func (s *Sheet) Week(ctx context.Context, userID int64, ref model.Date) (*Week, error) {
	if userID <= 0 {
		return nil, ErrNoUser
	}
	key := weekKey{userID: userID, start: timecalc.WeekStart(ref)}

	s.mu.Lock()
	w, ok := s.weeks[key]
	s.mu.Unlock()
	if ok {
		if err := w.Reload(ctx); err != nil {
			return nil, err
		}
		return w, nil
	}

	w, err := s.LoadWeek(ctx, userID, ref)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.weeks[key]; ok {
		// Another caller loaded it first; keep a single Week per key so
		// commands stay serialized.
		return existing, nil
	}
	s.evictLocked()
	s.weeks[key] = w
	return w, nil
}

// Forget drops a week from the cache.
func (s *Sheet) Forget(userID int64, ref model.Date) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.weeks, weekKey{userID: userID, start: timecalc.WeekStart(ref)})
}

func (s *Sheet) evictLocked() {
	for len(s.weeks) >= s.maxWeeks && len(s.weeks) > 0 {
		var (
			oldestKey weekKey
			oldest    time.Time
			first     = true
		)
		for k, w := range s.weeks {
			if at := w.LoadedAt(); first || at.Before(oldest) {
				oldestKey, oldest, first = k, at, false
			}
		}
		delete(s.weeks, oldestKey)
	}
}
