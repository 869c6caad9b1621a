package timesheet

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
)

// Prompter decides whether the hours still missing from a day after a time
// entry was saved should be registered as leave.
type Prompter interface {
	ConfirmLeave(ctx context.Context, date model.Date, hours float64) (bool, error)
}

// PromptFunc adapts a function to Prompter.
type PromptFunc func(ctx context.Context, date model.Date, hours float64) (bool, error)

func (f PromptFunc) ConfirmLeave(ctx context.Context, date model.Date, hours float64) (bool, error) {
	return f(ctx, date, hours)
}

// AlwaysPrompt returns a Prompter that answers every prompt with accept.
func AlwaysPrompt(accept bool) Prompter {
	return PromptFunc(func(context.Context, model.Date, float64) (bool, error) { return accept, nil })
}

// EntryResult reports a saved time entry and what followed it.
type EntryResult struct {
	Entry     model.TimeEntry `json:"entry"`
	Split     Split           `json:"split"`
	DayTotal  float64         `json:"dayTotal"`
	Shortfall float64         `json:"shortfall"`
	Leave     *LeaveResult    `json:"leave,omitempty"`
}

// LeaveResult reports a registered leave and its placeholder entry.
type LeaveResult struct {
	Leave       model.LeaveRecord `json:"leave"`
	Hours       float64           `json:"hours"`
	Placeholder *model.TimeEntry  `json:"placeholder,omitempty"`
}

// AddEntry logs hours on a day of the week. Hours beyond the standard day
// are booked as overtime. When the day still falls short of a standard day
// afterwards, p is asked whether to register the rest as leave; a nil p
// skips the prompt.
func (w *Week) AddEntry(ctx context.Context, in EntryInput, p Prompter) (EntryResult, error) {
	w.cmdMu.Lock()
	defer w.cmdMu.Unlock()

	if err := checkInput(in); err != nil {
		return EntryResult{}, err
	}
	day, err := w.openDay(in.Date)
	if err != nil {
		return EntryResult{}, err
	}

	split := SplitHours(in.Hours, day.WorkedHours)
	created, err := w.sheet.backend.CreateTimeEntry(ctx, w.entryPayload(in, split))
	if err != nil {
		return EntryResult{}, fmt.Errorf("creating time entry: %w", err)
	}
	w.reload(ctx)

	res := EntryResult{
		Entry:    created,
		Split:    split,
		DayTotal: addHours(day.Total(), split.Worked, split.Overtime),
	}
	worked := addHours(day.WorkedExcludingLeave(), split.Worked)
	if after, ok := w.dayWith(in.Date, created.ID); ok {
		res.DayTotal = after.Total()
		worked = after.WorkedExcludingLeave()
	}
	return w.followUp(ctx, in.Date, worked, res, p)
}

// EditEntry replaces a time entry of the week. The split is computed against
// the day's worked hours without the entry being edited. The entry may move
// to another day of the same week.
func (w *Week) EditEntry(ctx context.Context, id int64, in EntryInput, p Prompter) (EntryResult, error) {
	w.cmdMu.Lock()
	defer w.cmdMu.Unlock()

	existing, ok := w.Entry(id)
	if !ok {
		return EntryResult{}, fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	if in.Date.IsZero() {
		in.Date = existing.Date
	}
	if err := checkInput(in); err != nil {
		return EntryResult{}, err
	}
	day, err := w.openDay(in.Date)
	if err != nil {
		return EntryResult{}, err
	}

	prior := day.WorkedHours
	priorTotal := day.Total()
	priorWorked := day.WorkedExcludingLeave()
	if existing.Date == in.Date {
		prior = subHours(prior, existing.WorkedHours)
		priorTotal = subHours(priorTotal, addHours(existing.WorkedHours, existing.OvertimeHours))
		if !existing.IsLeave() {
			priorWorked = subHours(priorWorked, existing.WorkedHours)
		}
	}

	split := SplitHours(in.Hours, prior)
	updated, err := w.sheet.backend.UpdateTimeEntry(ctx, id, w.entryPayload(in, split))
	if err != nil {
		return EntryResult{}, fmt.Errorf("updating time entry %d: %w", id, err)
	}
	w.reload(ctx)

	res := EntryResult{
		Entry:    updated,
		Split:    split,
		DayTotal: addHours(priorTotal, split.Worked, split.Overtime),
	}
	worked := addHours(priorWorked, split.Worked)
	if after, ok := w.dayWith(in.Date, id); ok {
		res.DayTotal = after.Total()
		worked = after.WorkedExcludingLeave()
	}
	return w.followUp(ctx, in.Date, worked, res, p)
}

// DeleteEntry removes a time entry of the week. Deleting is allowed on days
// covered by approved full leave.
func (w *Week) DeleteEntry(ctx context.Context, id int64) error {
	w.cmdMu.Lock()
	defer w.cmdMu.Unlock()

	if _, ok := w.Entry(id); !ok {
		return fmt.Errorf("%w: %d", ErrEntryNotFound, id)
	}
	if err := w.sheet.backend.DeleteTimeEntry(ctx, id); err != nil {
		return fmt.Errorf("deleting time entry %d: %w", id, err)
	}
	w.reload(ctx)
	return nil
}

// RegisterLeave books hours of leave on a day of the week. The leave type is
// derived from the hours and what was already worked that day; a placeholder
// time entry carries the hours so the day adds up.
func (w *Week) RegisterLeave(ctx context.Context, date model.Date, hours float64) (LeaveResult, error) {
	w.cmdMu.Lock()
	defer w.cmdMu.Unlock()

	if err := checkInput(leaveInput{Hours: hours}); err != nil {
		return LeaveResult{}, err
	}
	day, err := w.openDay(date)
	if err != nil {
		return LeaveResult{}, err
	}
	if open := Shortfall(day.Total()); hours > open {
		return LeaveResult{}, fmt.Errorf("%w: %s of leave exceeds the %s still open on %s",
			ErrInvalidHours, timecalc.FormatHours(hours), timecalc.FormatHours(open), date)
	}
	return w.registerLeave(ctx, date, hours, day.WorkedExcludingLeave())
}

func (w *Week) registerLeave(ctx context.Context, date model.Date, hours, priorWorked float64) (LeaveResult, error) {
	leaveType := ClassifyLeave(hours, priorWorked)
	rec, err := w.sheet.backend.CreateLeave(ctx, model.LeaveInput{
		UserID:    w.UserID,
		Date:      date,
		LeaveType: leaveType,
	})
	if err != nil {
		return LeaveResult{}, fmt.Errorf("creating %s leave: %w", leaveType, err)
	}
	if rec.LeaveType == "" {
		rec.LeaveType = leaveType
	}
	if rec.LeaveStatus == "" {
		rec.LeaveStatus = model.LeavePending
	}
	res := LeaveResult{Leave: rec, Hours: hours}

	placeholder, err := w.sheet.backend.CreateTimeEntry(ctx, model.TimeEntryInput{
		UserID:       w.UserID,
		ProjectID:    model.LeaveProjectID,
		Date:         date,
		WorkedHours:  hours,
		WorkLocation: model.LocationHome,
		Description:  placeholderDescription(rec.ID, leaveType),
	})
	w.reload(ctx)
	if err != nil {
		return res, fmt.Errorf("leave %d registered, but its placeholder entry failed: %w", rec.ID, err)
	}
	res.Placeholder = &placeholder
	return res, nil
}

// CancelLeave cancels a leave record of the week and removes the placeholder
// entry that carried its hours.
func (w *Week) CancelLeave(ctx context.Context, id int64) error {
	w.cmdMu.Lock()
	defer w.cmdMu.Unlock()

	rec, ok := w.Leave(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrLeaveNotFound, id)
	}
	owner := rec.OwnerID()
	if owner == 0 {
		owner = w.UserID
	}
	if err := w.sheet.backend.CancelLeave(ctx, id, owner); err != nil {
		return fmt.Errorf("canceling leave %d: %w", id, err)
	}

	var placeholders []int64
	if day, ok := w.Day(rec.Date); ok {
		placeholders = placeholdersOf(day, rec)
	}
	for _, pid := range placeholders {
		if err := w.sheet.backend.DeleteTimeEntry(ctx, pid); err != nil {
			w.reload(ctx)
			return fmt.Errorf("leave %d canceled, but removing placeholder entry %d failed: %w", id, pid, err)
		}
	}
	w.reload(ctx)
	return nil
}

// dayWith returns the aggregate of d after a reload, provided the reload
// picked up the entry with the given id.
func (w *Week) dayWith(d model.Date, entryID int64) (DayAggregate, bool) {
	day, ok := w.Day(d)
	if !ok {
		return DayAggregate{}, false
	}
	for _, e := range day.Entries {
		if e.ID == entryID {
			return day, true
		}
	}
	return DayAggregate{}, false
}

const placeholderPrefix = "Leave #"

// placeholderDescription links a placeholder entry to its leave record,
// e.g. "Leave #42 (PARTIAL_LEAVE)".
func placeholderDescription(leaveID int64, t model.LeaveType) string {
	return fmt.Sprintf("%s%d (%s)", placeholderPrefix, leaveID, t)
}

// placeholderLeaveID returns the leave id a placeholder description links to.
func placeholderLeaveID(desc string) (int64, bool) {
	rest, ok := strings.CutPrefix(desc, placeholderPrefix)
	if !ok {
		return 0, false
	}
	digits, _, _ := strings.Cut(rest, " ")
	id, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// placeholdersOf picks the placeholder entries of day that carry the hours
// of leave rec. Linked placeholders are matched by leave id. Unlinked ones
// (written by other clients as "Leave (TYPE)") go with the last active leave
// of the day; while other active leave remains, only one unlinked placeholder
// of rec's type is taken.
func placeholdersOf(day DayAggregate, rec model.LeaveRecord) []int64 {
	var linked, unlinked, sameType []int64
	legacy := "Leave (" + string(rec.LeaveType) + ")"
	for _, e := range day.Entries {
		if !e.IsLeave() {
			continue
		}
		if id, ok := placeholderLeaveID(e.Description); ok {
			if id == rec.ID {
				linked = append(linked, e.ID)
			}
			continue
		}
		unlinked = append(unlinked, e.ID)
		if e.Description == legacy {
			sameType = append(sameType, e.ID)
		}
	}
	if len(linked) > 0 {
		return linked
	}

	others := 0
	for _, l := range day.Leaves {
		if l.ID != rec.ID && (l.LeaveStatus == model.LeavePending || l.LeaveStatus == model.LeaveApproved) {
			others++
		}
	}
	switch {
	case others == 0:
		return unlinked
	case len(sameType) > 0:
		return sameType[:1]
	}
	return nil
}

func (w *Week) entryPayload(in EntryInput, split Split) model.TimeEntryInput {
	return model.TimeEntryInput{
		UserID:        w.UserID,
		ProjectID:     in.ProjectID,
		Date:          in.Date,
		WorkedHours:   split.Worked,
		OvertimeHours: split.Overtime,
		WorkLocation:  in.WorkLocation,
		Description:   in.Description,
	}
}

// followUp runs the leave prompt after a saved entry. A failing prompt does
// not undo the entry; it is logged and the entry result returned as is.
func (w *Week) followUp(ctx context.Context, date model.Date, worked float64, res EntryResult, p Prompter) (EntryResult, error) {
	res.Shortfall = Shortfall(res.DayTotal)
	if res.Shortfall == 0 || p == nil {
		return res, nil
	}
	if day, ok := w.Day(date); ok && day.HasApprovedFullLeave {
		return res, nil
	}
	accept, err := p.ConfirmLeave(ctx, date, res.Shortfall)
	if err != nil {
		w.sheet.log.Warn("leave prompt failed", "date", date, "error", err)
		return res, nil
	}
	if !accept {
		return res, nil
	}
	leave, err := w.registerLeave(ctx, date, res.Shortfall, worked)
	if leave.Leave.ID != 0 || err == nil {
		res.Leave = &leave
	}
	if err != nil {
		return res, fmt.Errorf("time entry saved, but registering leave failed: %w", err)
	}
	return res, nil
}
