package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/storage"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

var _ timesheet.SnapshotStore = storage.Weeks{}

var weekStart = model.NewDate(2026, 2, 23)

func TestLoadWeekNotExist(t *testing.T) {
	base := t.TempDir()
	wf, err := storage.LoadWeek(base, 7, weekStart)
	if err != nil {
		t.Fatalf("LoadWeek on missing file: %v", err)
	}
	if wf.WeekStart != weekStart || wf.UserID != 7 {
		t.Errorf("LoadWeek = user %d week %s, want user 7 week %s", wf.UserID, wf.WeekStart, weekStart)
	}
	if len(wf.Entries) != 0 {
		t.Errorf("LoadWeek entries = %d, want 0", len(wf.Entries))
	}
}

func TestSaveWeekAndLoadWeek(t *testing.T) {
	base := t.TempDir()
	wf := model.WeekFile{
		UserID:    7,
		WeekStart: weekStart,
		SavedAt:   time.Date(2026, 2, 25, 10, 0, 0, 0, time.UTC),
		Entries: []model.TimeEntry{
			{ID: 1, UserID: 7, Date: weekStart, ProjectID: 3, WorkedHours: 6, WorkLocation: model.LocationOffice},
			{ID: 2, UserID: 7, Date: weekStart, ProjectID: model.LeaveProjectID, WorkedHours: 2, WorkLocation: model.LocationHome},
		},
		Leaves: []model.LeaveRecord{
			{ID: 9, UserID: 7, Date: weekStart, LeaveType: model.LeavePartial, LeaveStatus: model.LeavePending},
		},
		Holidays: []model.Holiday{{ID: 4, Name: "Clean Monday", Date: weekStart, SpecialDayType: model.DayGreekHoliday}},
		Projects: []model.Project{{ID: 3, Name: "Chronos"}},
	}

	store := storage.Weeks{Base: base}
	if err := store.SaveWeek(7, weekStart, wf); err != nil {
		t.Fatalf("SaveWeek: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "7", "2026-02-23.json")); err != nil {
		t.Fatalf("snapshot file: %v", err)
	}

	loaded, err := store.LoadWeek(7, weekStart)
	if err != nil {
		t.Fatalf("LoadWeek after save: %v", err)
	}
	if len(loaded.Entries) != 2 {
		t.Fatalf("LoadWeek entries = %d, want 2", len(loaded.Entries))
	}
	if !loaded.Entries[1].IsLeave() {
		t.Errorf("entry 2 should be a leave placeholder")
	}
	if loaded.Leaves[0].LeaveType != model.LeavePartial {
		t.Errorf("leave type = %s, want %s", loaded.Leaves[0].LeaveType, model.LeavePartial)
	}
	if loaded.Holidays[0].Date != weekStart {
		t.Errorf("holiday date = %s, want %s", loaded.Holidays[0].Date, weekStart)
	}
	if !loaded.SavedAt.Equal(wf.SavedAt) {
		t.Errorf("saved at = %s, want %s", loaded.SavedAt, wf.SavedAt)
	}
}

func TestLoadWeekCorrupt(t *testing.T) {
	base := t.TempDir()

	path := filepath.Join(base, "7", "2026-02-23.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{bad json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := storage.LoadWeek(base, 7, weekStart)
	if err == nil {
		t.Fatal("expected error for corrupt JSON, got nil")
	}
	if _, err2 := os.Stat(path + ".corrupt"); os.IsNotExist(err2) {
		t.Error("expected backup file to exist after corrupt JSON")
	}

	// The next load starts fresh.
	if _, err := storage.LoadWeek(base, 7, weekStart); err != nil {
		t.Errorf("LoadWeek after backup: %v", err)
	}
}

func TestLoadWeekRejectsMismatchedSnapshot(t *testing.T) {
	base := t.TempDir()
	other := model.WeekFile{UserID: 8, WeekStart: weekStart}
	if err := storage.SaveWeek(base, 8, weekStart, other); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(filepath.Join(base, "8"), filepath.Join(base, "7")); err != nil {
		t.Fatal(err)
	}
	if _, err := storage.LoadWeek(base, 7, weekStart); err == nil {
		t.Error("expected error for a snapshot of another user")
	}
}

func TestClear(t *testing.T) {
	base := t.TempDir()
	if err := storage.SaveWeek(base, 7, weekStart, model.WeekFile{UserID: 7, WeekStart: weekStart}); err != nil {
		t.Fatal(err)
	}
	if err := storage.Clear(base, 7); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "7")); !os.IsNotExist(err) {
		t.Errorf("user directory still exists: %v", err)
	}
}
