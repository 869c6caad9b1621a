package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

var (
	entryDate        string
	entryWeek        string
	entryProject     string
	entryHours       float64
	entryLocation    string
	entryDescription string
	entryYes         bool
	entryNoLeave     bool
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Add, edit or delete time entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log hours on a day",
	Long: `Log hours against a project. Hours beyond the standard 8h day are
booked as overtime. When the day is still short of 8h afterwards, you are
asked whether to register the rest as leave (--yes / --no-leave answer
without asking).`,
	Example: `  chronos entry add --project Chronos --hours 5
  chronos entry add --date 2026-02-23 --project 3 --hours 6.5 --location HOME --no-leave`,
	Args: cobra.NoArgs,
	RunE: runEntryAdd,
}

var entryEditCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a time entry",
	Long: `Change a time entry of the week. Flags that are not given keep the
entry's current value; --date moves the entry to another day of the same week.`,
	Args: cobra.ExactArgs(1),
	RunE: runEntryEdit,
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a time entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryDelete,
}

func init() {
	for _, c := range []*cobra.Command{entryAddCmd, entryEditCmd} {
		c.Flags().StringVar(&entryDate, "date", "", "Day of the entry, YYYY-MM-DD (default today)")
		c.Flags().StringVarP(&entryProject, "project", "p", "", "Project id or name")
		c.Flags().Float64VarP(&entryHours, "hours", "H", 0, "Hours to log")
		c.Flags().StringVarP(&entryLocation, "location", "l", string(model.LocationOffice), "Work location: OFFICE or HOME")
		c.Flags().StringVarP(&entryDescription, "description", "d", "", "What you worked on")
		c.Flags().BoolVarP(&entryYes, "yes", "y", false, "Register any shortfall as leave without asking")
		c.Flags().BoolVar(&entryNoLeave, "no-leave", false, "Never register leave for the shortfall")
		c.MarkFlagsMutuallyExclusive("yes", "no-leave")
	}
	entryAddCmd.MarkFlagRequired("project")
	entryAddCmd.MarkFlagRequired("hours")
	for _, c := range []*cobra.Command{entryEditCmd, entryDeleteCmd} {
		c.Flags().StringVar(&entryWeek, "week", "", "Any day of the entry's week, YYYY-MM-DD (default --date or today)")
	}

	entryCmd.AddCommand(entryAddCmd)
	entryCmd.AddCommand(entryEditCmd)
	entryCmd.AddCommand(entryDeleteCmd)
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, usageErrorf("invalid id %q", arg)
	}
	return id, nil
}

func parseLocation(raw string) (model.WorkLocation, error) {
	var loc model.WorkLocation
	if err := loc.UnmarshalText([]byte(raw)); err != nil {
		return "", usageErrorf("%v", err)
	}
	return loc, nil
}

// resolveProject accepts a numeric project id or a project name, matched
// case-insensitively against the bookable projects.
func resolveProject(raw string, projects []model.Project) (int64, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return id, nil
	}
	var matches []model.Project
	for _, p := range projects {
		if strings.EqualFold(p.Name, raw) {
			return p.ID, nil
		}
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(raw)) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 0:
		return 0, usageErrorf("no project matches %q (see `chronos projects`)", raw)
	case 1:
		return matches[0].ID, nil
	}
	names := make([]string, len(matches))
	for i, p := range matches {
		names[i] = p.Name
	}
	return 0, usageErrorf("project %q is ambiguous: %s", raw, strings.Join(names, ", "))
}

// weekRef picks the week a command works on: --week, else --date, else today.
func weekRef(s *session, week, date string) (model.Date, error) {
	if week != "" {
		return s.refDate(week)
	}
	return s.refDate(date)
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		fail(err)
	}
	date, err := s.refDate(entryDate)
	if err != nil {
		fail(err)
	}
	loc, err := parseLocation(entryLocation)
	if err != nil {
		fail(err)
	}
	w, err := s.week(ctx, date, 0)
	if err != nil {
		fail(err)
	}
	projectID, err := resolveProject(entryProject, w.Projects())
	if err != nil {
		fail(err)
	}

	res, err := w.AddEntry(ctx, timesheet.EntryInput{
		Date:         date,
		ProjectID:    projectID,
		Hours:        entryHours,
		WorkLocation: loc,
		Description:  entryDescription,
	}, leavePrompter(entryYes, entryNoLeave))
	printEntryResult(res, err == nil)
	if err != nil {
		fail(err)
	}
	return nil
}

func runEntryEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseID(args[0])
	if err != nil {
		fail(err)
	}
	s, err := openSession(ctx)
	if err != nil {
		fail(err)
	}
	ref, err := weekRef(s, entryWeek, entryDate)
	if err != nil {
		fail(err)
	}
	w, err := s.week(ctx, ref, 0)
	if err != nil {
		fail(err)
	}
	existing, ok := w.Entry(id)
	if !ok {
		fail(fmt.Errorf("%w: %d", timesheet.ErrEntryNotFound, id))
	}

	in, err := editInput(cmd, existing, w.Projects())
	if err != nil {
		fail(err)
	}
	res, err := w.EditEntry(ctx, id, in, leavePrompter(entryYes, entryNoLeave))
	printEntryResult(res, err == nil)
	if err != nil {
		fail(err)
	}
	return nil
}

// editInput starts from the existing entry and applies the flags that were
// given.
func editInput(cmd *cobra.Command, existing model.TimeEntry, projects []model.Project) (timesheet.EntryInput, error) {
	in := timesheet.EntryInput{
		Date:         existing.Date,
		ProjectID:    existing.EffectiveProjectID(),
		Hours:        existing.WorkedHours + existing.OvertimeHours,
		WorkLocation: existing.WorkLocation,
		Description:  existing.Description,
	}
	flags := cmd.Flags()
	if flags.Changed("date") {
		d, err := model.ParseDate(entryDate)
		if err != nil {
			return in, usageErrorf("%v", err)
		}
		in.Date = d
	}
	if flags.Changed("project") {
		id, err := resolveProject(entryProject, projects)
		if err != nil {
			return in, err
		}
		in.ProjectID = id
	}
	if flags.Changed("hours") {
		in.Hours = entryHours
	}
	if flags.Changed("location") {
		loc, err := parseLocation(entryLocation)
		if err != nil {
			return in, err
		}
		in.WorkLocation = loc
	}
	if flags.Changed("description") {
		in.Description = entryDescription
	}
	return in, nil
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseID(args[0])
	if err != nil {
		fail(err)
	}
	s, err := openSession(ctx)
	if err != nil {
		fail(err)
	}
	ref, err := s.refDate(entryWeek)
	if err != nil {
		fail(err)
	}
	if err := deleteEntry(ctx, s, ref, id); err != nil {
		fail(err)
	}
	fmt.Printf("Deleted entry #%d.\n", id)
	return nil
}

func deleteEntry(ctx context.Context, s *session, ref model.Date, id int64) error {
	w, err := s.week(ctx, ref, 0)
	if err != nil {
		return err
	}
	return w.DeleteEntry(ctx, id)
}

// printEntryResult reports what a saved entry did to its day. Nothing is
// printed when the entry itself was not saved.
func printEntryResult(res timesheet.EntryResult, ok bool) {
	if res.Entry.ID == 0 && !ok {
		return
	}
	line := fmt.Sprintf("Saved entry #%d on %s: %s", res.Entry.ID, timecalc.FormatDay(res.Entry.Date), timecalc.FormatHours(res.Split.Worked))
	if res.Split.Overtime > 0 {
		line += " + " + timecalc.FormatHours(res.Split.Overtime) + " overtime"
	}
	fmt.Println(line + ".")
	fmt.Printf("Day total: %s", timecalc.FormatHours(res.DayTotal))
	if res.Shortfall > 0 && res.Leave == nil {
		fmt.Printf(" (%s short)", timecalc.FormatHours(res.Shortfall))
	}
	fmt.Println(".")
	if res.Leave != nil {
		fmt.Printf("Registered %s leave #%d for %s (%s).\n",
			res.Leave.Leave.LeaveType, res.Leave.Leave.ID, timecalc.FormatHours(res.Leave.Hours), res.Leave.Leave.LeaveStatus)
	}
}
