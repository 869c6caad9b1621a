package chronos

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Tiliavir/chronos-timereg/internal/model"
)

// ListHolidays returns the holidays of year. The backend may answer with
// other years as well; those are dropped.
func (c *Client) ListHolidays(ctx context.Context, year int) ([]model.Holiday, error) {
	var all []model.Holiday
	q := url.Values{"year": {strconv.Itoa(year)}}
	if err := c.do(ctx, http.MethodGet, "/api/holidays", q, nil, &all); err != nil {
		return nil, err
	}
	out := make([]model.Holiday, 0, len(all))
	for _, h := range all {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}

func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var out []model.Project
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, nil, &out)
	return out, err
}
