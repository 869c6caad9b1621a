package chronos

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Tiliavir/chronos-timereg/internal/model"
)

func dateRange(from, to model.Date) url.Values {
	return url.Values{"startDate": {from.String()}, "endDate": {to.String()}}
}

func id(n int64) string { return strconv.FormatInt(n, 10) }

// ListTimeEntries returns the user's time entries dated from..to inclusive.
func (c *Client) ListTimeEntries(ctx context.Context, userID int64, from, to model.Date) ([]model.TimeEntry, error) {
	var out []model.TimeEntry
	err := c.do(ctx, http.MethodGet, "/api/time-entries/"+id(userID)+"/time-entries", dateRange(from, to), nil, &out)
	return out, err
}

func (c *Client) CreateTimeEntry(ctx context.Context, in model.TimeEntryInput) (model.TimeEntry, error) {
	var out model.TimeEntry
	err := c.do(ctx, http.MethodPost, "/api/time-entries", nil, in, &out)
	return out, err
}

func (c *Client) UpdateTimeEntry(ctx context.Context, entryID int64, in model.TimeEntryInput) (model.TimeEntry, error) {
	var out model.TimeEntry
	err := c.do(ctx, http.MethodPut, "/api/time-entries/"+id(entryID), nil, in, &out)
	return out, err
}

func (c *Client) DeleteTimeEntry(ctx context.Context, entryID int64) error {
	return c.do(ctx, http.MethodDelete, "/api/time-entries/"+id(entryID), nil, nil, nil)
}
