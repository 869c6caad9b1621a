package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

var (
	weekDate   string
	weekOffset int
)

var weekCmd = &cobra.Command{
	Use:   "week",
	Short: "Show the week's days, entries and leave",
	Args:  cobra.NoArgs,
	RunE:  runWeek,
}

func init() {
	addWeekFlags(weekCmd, &weekDate, &weekOffset)
}

// addWeekFlags registers the flags that pick a week.
func addWeekFlags(c *cobra.Command, date *string, offset *int) {
	c.Flags().StringVar(date, "date", "", "Any day of the week, YYYY-MM-DD (default today)")
	c.Flags().IntVar(offset, "offset", 0, "Shift by this many weeks, e.g. -1 for last week")
}

func runWeek(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		fail(err)
	}
	ref, err := s.refDate(weekDate)
	if err != nil {
		fail(err)
	}
	w, err := s.week(cmd.Context(), ref, weekOffset)
	if err != nil {
		fail(err)
	}
	printWeek(os.Stdout, w.Window, w.Days())
	return nil
}

// printWeek prints each day with its entries and leave, then the totals.
func printWeek(out io.Writer, w timecalc.Window, days []timesheet.DayAggregate) {
	fmt.Fprintf(out, "Week %s (%s – %s)\n", w.Label(), w.Start(), w.End())

	worked, overtime := decimal.Zero, decimal.Zero
	for _, d := range days {
		fmt.Fprintln(out, dayLine(d))
		for _, e := range d.Entries {
			hours := timecalc.FormatHours(e.WorkedHours)
			if e.OvertimeHours > 0 {
				hours += " +" + timecalc.FormatHours(e.OvertimeHours) + " OT"
			}
			fmt.Fprintf(out, "  #%-6d %-20s %-12s %-7s %s\n", e.ID, e.ProjectName(), hours, e.WorkLocation, e.Description)
		}
		for _, l := range d.Leaves {
			fmt.Fprintf(out, "  leave #%d %s %s\n", l.ID, l.LeaveType, l.LeaveStatus)
		}
		worked = worked.Add(decimal.NewFromFloat(d.WorkedHours))
		overtime = overtime.Add(decimal.NewFromFloat(d.OvertimeHours))
	}

	fmt.Fprintln(out, "--------------------------------")
	fmt.Fprintf(out, "Total: %s worked, %s overtime\n", timecalc.FormatHours(worked.InexactFloat64()), timecalc.FormatHours(overtime.InexactFloat64()))
}

// dayLine summarises a day: "Mon Feb 23  8h +1h OT  2 projects  today".
func dayLine(d timesheet.DayAggregate) string {
	parts := []string{timecalc.FormatDay(d.Date)}
	if d.Total() == 0 {
		parts = append(parts, "–")
	} else {
		parts = append(parts, timecalc.FormatHours(d.WorkedHours))
		if d.OvertimeHours > 0 {
			parts = append(parts, "+"+timecalc.FormatHours(d.OvertimeHours)+" OT")
		}
	}
	if n := projectCount(d); n > 0 {
		label := "projects"
		if n == 1 {
			label = "project"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, label))
	}
	if d.IsToday {
		parts = append(parts, "today")
	}
	if d.HasApprovedFullLeave {
		parts = append(parts, "on leave")
	} else if short := timesheet.Shortfall(d.Total()); short > 0 && !d.IsWeekend && !d.IsHoliday() && d.Total() > 0 {
		parts = append(parts, timecalc.FormatHours(short)+" short")
	}
	if d.Holiday != nil {
		parts = append(parts, d.Holiday.Name)
	}
	return strings.Join(parts, "  ")
}

// projectCount counts the distinct projects booked on a day, leave excluded.
func projectCount(d timesheet.DayAggregate) int {
	seen := map[int64]bool{}
	for _, e := range d.Entries {
		if !e.IsLeave() {
			seen[e.EffectiveProjectID()] = true
		}
	}
	return len(seen)
}
