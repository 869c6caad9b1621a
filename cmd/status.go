package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's hours and what is still missing",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		fail(err)
	}
	today := s.today()
	w, err := s.week(cmd.Context(), today, 0)
	if err != nil {
		fail(err)
	}
	day, _ := w.Day(today)

	fmt.Println(dayLine(day))
	switch {
	case day.HasApprovedFullLeave:
		fmt.Println("Today is covered by approved leave.")
	case day.IsHoliday():
		fmt.Printf("Today is a holiday: %s.\n", day.Holiday.Name)
	default:
		fmt.Printf("Today: %s logged", timecalc.FormatHours(day.Total()))
		if short := timesheet.Shortfall(day.Total()); short > 0 {
			fmt.Printf(", %s missing", timecalc.FormatHours(short))
		}
		fmt.Println(".")
	}

	worked, overtime := w.TotalHours()
	fmt.Printf("Week %s: %s worked, %s overtime.\n", w.Window.Label(), timecalc.FormatHours(worked), timecalc.FormatHours(overtime))
	if len(w.Problems()) > 0 {
		fmt.Fprintln(os.Stderr, "Some data could not be loaded; totals may be stale.")
	}
	return nil
}
