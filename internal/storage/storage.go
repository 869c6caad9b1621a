// Package storage keeps the last fetched copy of each week on disk.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrg/xdg"

	"github.com/Tiliavir/chronos-timereg/internal/model"
)

// BaseDir returns the root snapshot directory ($XDG_CACHE_HOME/chronos/weeks).
func BaseDir() string {
	return filepath.Join(xdg.CacheHome, "chronos", "weeks")
}

// weekFilePath returns the path for the given user's week snapshot.
func weekFilePath(base string, userID int64, weekStart model.Date) string {
	return filepath.Join(base, strconv.FormatInt(userID, 10), weekStart.String()+".json")
}

// LoadWeek loads the snapshot of the week starting at weekStart. Returns an
// empty WeekFile if there is none.
func LoadWeek(base string, userID int64, weekStart model.Date) (model.WeekFile, error) {
	path := weekFilePath(base, userID, weekStart)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.WeekFile{UserID: userID, WeekStart: weekStart}, nil
	}
	if err != nil {
		return model.WeekFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var wf model.WeekFile
	if err := json.Unmarshal(data, &wf); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.WeekFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	if wf.UserID != userID || wf.WeekStart != weekStart {
		return model.WeekFile{}, fmt.Errorf("snapshot %s belongs to user %d week %s", path, wf.UserID, wf.WeekStart)
	}
	return wf, nil
}

// SaveWeek atomically writes the snapshot of the week starting at weekStart.
func SaveWeek(base string, userID int64, weekStart model.Date, wf model.WeekFile) error {
	path := weekFilePath(base, userID, weekStart)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(wf, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Clear removes every snapshot of the user.
func Clear(base string, userID int64) error {
	dir := filepath.Join(base, strconv.FormatInt(userID, 10))
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("storage error removing %s: %w", dir, err)
	}
	return nil
}

// Weeks stores snapshots under Base.
type Weeks struct {
	Base string
}

func (w Weeks) LoadWeek(userID int64, weekStart model.Date) (model.WeekFile, error) {
	return LoadWeek(w.Base, userID, weekStart)
}

func (w Weeks) SaveWeek(userID int64, weekStart model.Date, wf model.WeekFile) error {
	return SaveWeek(w.Base, userID, weekStart, wf)
}
