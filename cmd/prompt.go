package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/Tiliavir/chronos-timereg/internal/model"
	"github.com/Tiliavir/chronos-timereg/internal/timecalc"
	"github.com/Tiliavir/chronos-timereg/internal/timesheet"
)

// linePrompter asks on out and reads a y/n answer from in.
type linePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func (p linePrompter) ConfirmLeave(ctx context.Context, date model.Date, hours float64) (bool, error) {
	fmt.Fprintf(p.out, "%s is %s short of %s. Register %s as leave? [y/N] ",
		timecalc.FormatDay(date), timecalc.FormatHours(hours),
		timecalc.FormatHours(timesheet.StandardDayHours), timecalc.FormatHours(hours))
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return false, err
	}
	return isYes(line), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}

// leavePrompter picks how the post-entry leave question is answered: by
// flag, interactively, or not at all when stdin is not a terminal.
func leavePrompter(yes, no bool) timesheet.Prompter {
	switch {
	case yes:
		return timesheet.AlwaysPrompt(true)
	case no:
		return nil
	case term.IsTerminal(int(os.Stdin.Fd())):
		return linePrompter{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	}
	return nil
}
