package apiclient

import (
	"context"
	"fmt"

	"RentalNegotiator/internal/models"
)

func (c *Client) CreateReport(ctx context.Context, req models.ReportRequest) (models.ReportCreated, error) {
	var r models.ReportCreated
	err := c.post(ctx, "/report/create", req, &r)
	return r, err
}

func (c *Client) Report(ctx context.Context, id int64) (models.Report, error) {
	var r models.Report
	err := c.get(ctx, fmt.Sprintf("/public/report/%d", id), nil, &r)
	return r, err
}

func (c *Client) PremiumReport(ctx context.Context, id int64) (models.Report, error) {
	var r models.Report
	err := c.get(ctx, fmt.Sprintf("/public/report/premium/%d", id), nil, &r)
	return r, err
}
