package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Tiliavir/chronos-timereg/internal/chronos"
	"github.com/Tiliavir/chronos-timereg/internal/config"
	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/storage"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

// errUsage marks errors in the command line itself.
var errUsage = errors.New("usage error")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// session is everything a command needs to talk to the backend.
type session struct {
	cfg    config.Config
	log    *slog.Logger
	loc    *time.Location
	client *chronos.Client
	sheet  *timesheet.Sheet
	userID int64
}

func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	log := newLogger(cfg)
	return cfg, log, err
}

func apiConfig(cfg config.Config) chronos.Config {
	return chronos.Config{
		BaseURL:      cfg.API.BaseURL,
		ClientID:     cfg.API.ClientID,
		ClientSecret: cfg.API.ClientSecret,
		Timeout:      time.Duration(cfg.API.Timeout),
	}
}

// openSession loads the config and the stored token and builds the client
// and week sheet on top of them.
func openSession(ctx context.Context) (*session, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	tokenPath, err := chronos.TokenFilePath()
	if err != nil {
		return nil, err
	}
	tok, err := chronos.LoadToken(tokenPath)
	if err != nil {
		return nil, err
	}
	client, err := chronos.NewClient(ctx, apiConfig(cfg), tok, chronos.WithTokenFile(tokenPath), chronos.WithLogger(log))
	if err != nil {
		return nil, err
	}

	userID := cfg.UserID
	if userID == 0 {
		if userID, err = chronos.UserIDFromToken(tok.AccessToken); err != nil {
			return nil, err
		}
	}

	now := func() time.Time { return time.Now().In(loc) }
	sheet := timesheet.NewSheet(client,
		timesheet.WithSnapshots(storage.Weeks{Base: storage.BaseDir()}),
		timesheet.WithClock(now),
		timesheet.WithLogger(log),
	)
	return &session{cfg: cfg, log: log, loc: loc, client: client, sheet: sheet, userID: userID}, nil
}

func (s *session) today() model.Date {
	return model.DateOf(time.Now().In(s.loc))
}

// week loads the week containing ref shifted by offset weeks and prints a
// warning for every collection that could not be fetched.
func (s *session) week(ctx context.Context, ref model.Date, offset int) (*timesheet.Week, error) {
	w, err := s.sheet.LoadWeek(ctx, s.userID, timecalc.ShiftWeeks(ref, offset))
	if err != nil {
		return nil, err
	}
	for _, p := range w.Problems() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", p)
	}
	return w, nil
}

// refDate parses a --date flag value, defaulting to today.
func (s *session) refDate(raw string) (model.Date, error) {
	if raw == "" {
		return s.today(), nil
	}
	d, err := model.ParseDate(raw)
	if err != nil {
		return model.Date{}, usageErrorf("%v", err)
	}
	return d, nil
}

// exitCode maps an error to the process exit code: 1 for input the user can
// fix, 2 for storage and backend failures.
func exitCode(err error) int {
	var verrs timesheet.ValidationErrors
	switch {
	case errors.As(err, &verrs),
		errors.Is(err, errUsage),
		errors.Is(err, chronos.ErrNotLoggedIn),
		errors.Is(err, timesheet.ErrNoUser),
		errors.Is(err, timesheet.ErrOutsideWindow),
		errors.Is(err, timesheet.ErrFullLeaveDay),
		errors.Is(err, timesheet.ErrEntryNotFound),
		errors.Is(err, timesheet.ErrLeaveNotFound),
		errors.Is(err, timesheet.ErrInvalidHours):
		return 1
	}
	return 2
}

// fail prints err and exits.
func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	var apiErr *chronos.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		fmt.Fprintln(os.Stderr, "Your login may have expired; run `chronos login`.")
	}
	os.Exit(exitCode(err))
}
