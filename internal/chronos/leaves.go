package chronos

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Tiliavir/chronos-timereg/internal/model"
)

func (c *Client) CreateLeave(ctx context.Context, in model.LeaveInput) (model.LeaveRecord, error) {
	var out model.LeaveRecord
	err := c.do(ctx, http.MethodPost, "/api/leaves", nil, in, &out)
	return out, err
}

// ListLeaves returns the user's leave records dated from..to inclusive,
// canceled ones included.
func (c *Client) ListLeaves(ctx context.Context, userID int64, from, to model.Date) ([]model.LeaveRecord, error) {
	var out []model.LeaveRecord
	err := c.do(ctx, http.MethodGet, "/api/leaves/"+id(userID)+"/fetch", dateRange(from, to), nil, &out)
	return out, err
}

// CancelLeave cancels a leave record on behalf of its owner.
func (c *Client) CancelLeave(ctx context.Context, leaveID, userID int64) error {
	q := url.Values{"userId": {id(userID)}}
	return c.do(ctx, http.MethodPut, "/api/leaves/"+id(leaveID)+"/cancel", q, nil, nil)
}

// SubordinateLeaves returns the leave records of the manager's reports.
func (c *Client) SubordinateLeaves(ctx context.Context, managerID int64) ([]model.LeaveRecord, error) {
	var out []model.LeaveRecord
	err := c.do(ctx, http.MethodGet, "/api/leaves/subordinates/"+id(managerID), nil, nil, &out)
	return out, err
}

// ReviewLeave sets the status of a subordinate's leave record.
func (c *Client) ReviewLeave(ctx context.Context, managerID, leaveID int64, status model.LeaveStatus) error {
	q := url.Values{"newStatus": {string(status)}}
	return c.do(ctx, http.MethodPut, "/api/leaves/subordinates/"+id(managerID)+"/"+id(leaveID), q, nil, nil)
}
