package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
)

var holidaysYear int

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the projects you can book hours on",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

var holidaysCmd = &cobra.Command{
	Use:   "holidays",
	Short: "List the holidays of a year",
	Args:  cobra.NoArgs,
	RunE:  runHolidays,
}

func init() {
	holidaysCmd.Flags().IntVar(&holidaysYear, "year", 0, "Year to list (default the current year)")
}

func runProjects(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		fail(err)
	}
	projects, err := s.client.ListProjects(cmd.Context())
	if err != nil {
		fail(err)
	}
	sort.Slice(projects, func(i, j int) bool {
		return strings.ToLower(projects[i].Name) < strings.ToLower(projects[j].Name)
	})

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, p := range projects {
		fmt.Fprintf(tw, "%d\t%s\n", p.ID, p.Name)
	}
	tw.Flush()
	return nil
}

func runHolidays(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd.Context())
	if err != nil {
		fail(err)
	}
	year := holidaysYear
	if year == 0 {
		year = s.today().Year()
	}
	holidays, err := s.client.ListHolidays(cmd.Context(), year)
	if err != nil {
		fail(err)
	}
	if len(holidays) == 0 {
		fmt.Printf("No holidays in %d.\n", year)
		return nil
	}
	sort.Slice(holidays, func(i, j int) bool { return holidays[i].Date.Before(holidays[j].Date) })
	for _, h := range holidays {
		fmt.Println(holidayLine(h))
	}
	return nil
}

func holidayLine(h model.Holiday) string {
	line := fmt.Sprintf("%s  %s", timecalc.FormatDay(h.Date), h.Name)
	if h.HalfDay {
		line += " (half day)"
	}
	return line
}
