package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/chronos-timereg/internal/report"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
)

var (
	reportDate   string
	reportOffset int
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the week's hours per project",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	addWeekFlags(reportCmd, &reportDate, &reportOffset)
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

type projectTotal struct {
	Project  string  `json:"project"`
	Worked   float64 `json:"workedHours"`
	Overtime float64 `json:"overtimeHours"`
}

// projectTotals sums rows per project, sorted by project name.
func projectTotals(rows []report.Row) []projectTotal {
	type sums struct{ worked, overtime decimal.Decimal }
	totals := map[string]*sums{}
	var order []string
	for _, r := range rows {
		t, seen := totals[r.Project]
		if !seen {
			t = &sums{}
			totals[r.Project] = t
			order = append(order, r.Project)
		}
		t.worked = t.worked.Add(decimal.NewFromFloat(r.Worked))
		t.overtime = t.overtime.Add(decimal.NewFromFloat(r.Overtime))
	}
	sort.Strings(order)

	out := make([]projectTotal, 0, len(order))
	for _, p := range order {
		out = append(out, projectTotal{
			Project:  p,
			Worked:   totals[p].worked.InexactFloat64(),
			Overtime: totals[p].overtime.InexactFloat64(),
		})
	}
	return out
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		fail(err)
	}
	ref, err := s.refDate(reportDate)
	if err != nil {
		fail(err)
	}
	w, err := s.week(cmd.Context(), ref, reportOffset)
	if err != nil {
		fail(err)
	}

	label := w.Window.Label()
	totals := projectTotals(report.Rows(w.Days()))
	worked, overtime := w.TotalHours()

	switch reportFormat {
	case "csv":
		fmt.Println("project,worked_hours,overtime_hours")
		for _, t := range totals {
			fmt.Printf("%s,%g,%g\n", csvEscape(t.Project), t.Worked, t.Overtime)
		}
	case "json":
		data, err := json.MarshalIndent(struct {
			Week          string         `json:"week"`
			Projects      []projectTotal `json:"projects"`
			WorkedHours   float64        `json:"workedHours"`
			OvertimeHours float64        `json:"overtimeHours"`
		}{label, totals, worked, overtime}, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "error encoding JSON:", err)
			os.Exit(2)
		}
		fmt.Println(string(data))
	default: // md
		fmt.Printf("Week %s\n", label)
		fmt.Println("--------------------------------")
		for _, t := range totals {
			line := fmt.Sprintf("%-20s%s", t.Project, timecalc.FormatHours(t.Worked))
			if t.Overtime > 0 {
				line += " +" + timecalc.FormatHours(t.Overtime) + " OT"
			}
			fmt.Println(line)
		}
		fmt.Println("--------------------------------")
		fmt.Printf("%-20s%s +%s OT\n", "Total", timecalc.FormatHours(worked), timecalc.FormatHours(overtime))
	}

	return nil
}
