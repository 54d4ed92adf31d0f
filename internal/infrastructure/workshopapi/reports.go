package workshopapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/laser-workshop/workshop-console/internal/core/domain"
)

func (c *Client) DailyReport(ctx context.Context, date string) (*domain.DailyReport, error) {
	q := url.Values{}
	if date != "" {
		q.Set("date", date)
	}
	var r domain.DailyReport
	if err := c.do(ctx, request{method: http.MethodGet, path: "/reports/daily/", query: q}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *Client) MonthlyReport(ctx context.Context, year, month int) (*domain.MonthlyReport, error) {
	q := url.Values{}
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	if month > 0 {
		q.Set("month", strconv.Itoa(month))
	}
	var r domain.MonthlyReport
	if err := c.do(ctx, request{method: http.MethodGet, path: "/reports/monthly/", query: q}, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
