package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Tiliavir/chronos-timereg/internal/report"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

var (
	exportFormat string
	exportDate   string
	exportOffset int
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the week's time entries",
	Example: `  chronos export --format csv > week.csv
  chronos export --format xlsx --offset -1 -o last-week.xlsx`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	addWeekFlags(exportCmd, &exportDate, &exportOffset)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json, md, xlsx")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case "csv", "json", "md":
	case "xlsx":
		if exportOutput == "" && term.IsTerminal(int(os.Stdout.Fd())) {
			fail(usageErrorf("xlsx output is binary; pass --output or redirect stdout"))
		}
	default:
		fail(usageErrorf("unknown format %q", exportFormat))
	}

	s, err := openSession(cmd.Context())
	if err != nil {
		fail(err)
	}
	ref, err := s.refDate(exportDate)
	if err != nil {
		fail(err)
	}
	w, err := s.week(cmd.Context(), ref, exportOffset)
	if err != nil {
		fail(err)
	}

	if exportOutput == "" {
		if err := writeExport(os.Stdout, exportFormat, w.Window, w.Days()); err != nil {
			fail(err)
		}
		return nil
	}

	// Write next to the target and rename, so a failed export never leaves
	// a truncated file behind.
	tmp, err := os.CreateTemp(filepath.Dir(exportOutput), ".chronos-export-*")
	if err != nil {
		fail(err)
	}
	defer os.Remove(tmp.Name())
	if err := writeExport(tmp, exportFormat, w.Window, w.Days()); err != nil {
		tmp.Close()
		fail(err)
	}
	if err := tmp.Close(); err != nil {
		fail(err)
	}
	if err := os.Rename(tmp.Name(), exportOutput); err != nil {
		fail(err)
	}
	fmt.Fprintf(os.Stderr, "Wrote %s.\n", exportOutput)
	return nil
}

func writeExport(out io.Writer, format string, w timecalc.Window, days []timesheet.DayAggregate) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report.Rows(days), "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case "md":
		printWeek(out, w, days)
		return nil
	case "xlsx":
		return report.WriteWeekXLSX(out, w, days)
	default: // csv
		return writeCSV(out, report.Rows(days))
	}
}

func writeCSV(out io.Writer, rows []report.Row) error {
	if _, err := fmt.Fprintln(out, "date,project,worked_hours,overtime_hours,leave,work_location,description"); err != nil {
		return err
	}
	for _, r := range rows {
		_, err := fmt.Fprintf(out, "%s,%s,%g,%g,%t,%s,%s\n",
			r.Date,
			csvEscape(r.Project),
			r.Worked,
			r.Overtime,
			r.Leave,
			r.WorkLocation,
			csvEscape(r.Description),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
