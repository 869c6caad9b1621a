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
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

var (
	leaveDate    string
	leaveHours   float64
	leaveWeek    string
	leaveApprove bool
	leaveReject  bool
	leaveAll     bool
)

var leaveCmd = &cobra.Command{
	Use:   "leave",
	Short: "Register, cancel and review leave",
}

var leaveAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register leave on a day",
	Long: `Register leave for the hours a day is still missing. The leave type
(FULL, FIRST_HALF, SECOND_HALF or PARTIAL_LEAVE) follows from the hours and
what was already worked that day.`,
	Example: `  chronos leave add --date 2026-02-24
  chronos leave add --date 2026-02-24 --hours 4`,
	Args: cobra.NoArgs,
	RunE: runLeaveAdd,
}

var leaveCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a leave record",
	Args:  cobra.ExactArgs(1),
	RunE:  runLeaveCancel,
}

var leaveReviewCmd = &cobra.Command{
	Use:   "review [id]",
	Short: "List or decide the leave requests of your reports",
	Example: `  chronos leave review
  chronos leave review 42 --approve`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLeaveReview,
}

func init() {
	leaveAddCmd.Flags().StringVar(&leaveDate, "date", "", "Day of the leave, YYYY-MM-DD (default today)")
	leaveAddCmd.Flags().Float64VarP(&leaveHours, "hours", "H", 0, "Hours of leave (default: what the day is short of)")

	leaveCancelCmd.Flags().StringVar(&leaveWeek, "week", "", "Any day of the leave's week, YYYY-MM-DD (default today)")

	leaveReviewCmd.Flags().BoolVar(&leaveApprove, "approve", false, "Approve the leave request")
	leaveReviewCmd.Flags().BoolVar(&leaveReject, "reject", false, "Reject the leave request")
	leaveReviewCmd.Flags().BoolVar(&leaveAll, "all", false, "List decided requests too")
	leaveReviewCmd.MarkFlagsMutuallyExclusive("approve", "reject")

	leaveCmd.AddCommand(leaveAddCmd)
	leaveCmd.AddCommand(leaveCancelCmd)
	leaveCmd.AddCommand(leaveReviewCmd)
}

func runLeaveAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		fail(err)
	}
	date, err := s.refDate(leaveDate)
	if err != nil {
		fail(err)
	}
	w, err := s.week(ctx, date, 0)
	if err != nil {
		fail(err)
	}

	hours := leaveHours
	if !cmd.Flags().Changed("hours") {
		day, ok := w.Day(date)
		if !ok {
			fail(fmt.Errorf("%w: %s", timesheet.ErrOutsideWindow, date))
		}
		hours = timesheet.Shortfall(day.Total())
		if hours == 0 {
			fmt.Printf("%s already has %s; no leave needed.\n", timecalc.FormatDay(date), timecalc.FormatHours(day.Total()))
			return nil
		}
	}

	res, err := w.RegisterLeave(ctx, date, hours)
	if res.Leave.ID != 0 {
		fmt.Printf("Registered %s leave #%d on %s for %s (%s).\n",
			res.Leave.LeaveType, res.Leave.ID, timecalc.FormatDay(date), timecalc.FormatHours(res.Hours), res.Leave.LeaveStatus)
	}
	if err != nil {
		fail(err)
	}
	return nil
}

func runLeaveCancel(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := parseID(args[0])
	if err != nil {
		fail(err)
	}
	s, err := openSession(ctx)
	if err != nil {
		fail(err)
	}
	ref, err := s.refDate(leaveWeek)
	if err != nil {
		fail(err)
	}
	w, err := s.week(ctx, ref, 0)
	if err != nil {
		fail(err)
	}
	if err := w.CancelLeave(ctx, id); err != nil {
		fail(err)
	}
	fmt.Printf("Canceled leave #%d.\n", id)
	return nil
}

func runLeaveReview(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	s, err := openSession(ctx)
	if err != nil {
		fail(err)
	}

	if len(args) == 0 {
		if leaveApprove || leaveReject {
			fail(usageErrorf("--approve and --reject need a leave id"))
		}
		leaves, err := s.client.SubordinateLeaves(ctx, s.userID)
		if err != nil {
			fail(err)
		}
		printLeaveRequests(leaves, leaveAll)
		return nil
	}

	id, err := parseID(args[0])
	if err != nil {
		fail(err)
	}
	var status model.LeaveStatus
	switch {
	case leaveApprove:
		status = model.LeaveApproved
	case leaveReject:
		status = model.LeaveRejected
	default:
		fail(usageErrorf("pass --approve or --reject"))
	}
	if err := s.client.ReviewLeave(ctx, s.userID, id, status); err != nil {
		fail(err)
	}
	fmt.Printf("Leave #%d is now %s.\n", id, status)
	return nil
}

// pendingLeaves returns the requests still waiting for a decision, oldest
// date first. With all set, decided requests are kept as well.
func pendingLeaves(leaves []model.LeaveRecord, all bool) []model.LeaveRecord {
	out := make([]model.LeaveRecord, 0, len(leaves))
	for _, l := range leaves {
		if all || l.LeaveStatus == model.LeavePending {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func printLeaveRequests(leaves []model.LeaveRecord, all bool) {
	list := pendingLeaves(leaves, all)
	if len(list) == 0 {
		fmt.Println("No leave requests waiting for you.")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tEMPLOYEE\tTYPE\tSTATUS")
	for _, l := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", l.ID, l.Date, employeeName(l), l.LeaveType, l.LeaveStatus)
	}
	tw.Flush()
}

func employeeName(l model.LeaveRecord) string {
	if l.User != nil && (l.User.FirstName != "" || l.User.LastName != "") {
		return strings.TrimSpace(l.User.FirstName + " " + l.User.LastName)
	}
	return fmt.Sprintf("user %d", l.OwnerID())
}
