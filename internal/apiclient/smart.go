package apiclient

import (
	"context"
	"fmt"

	"RentalNegotiator/internal/models"
)

// 스마트 진단 세션 기록 (/smart-diagnosis/{noise|level|internet}/...)

func (c *Client) StartSmart(ctx context.Context, kind models.MeasurementKind) (models.SmartSession, error) {
	var s models.SmartSession
	err := c.post(ctx, fmt.Sprintf("/smart-diagnosis/%s/start", kind), map[string]string{}, &s)
	return s, err
}

func (c *Client) RealtimeSmart(ctx context.Context, kind models.MeasurementKind, r models.SmartRealtime) error {
	return c.post(ctx, fmt.Sprintf("/smart-diagnosis/%s/realtime", kind), r, nil)
}

func (c *Client) CompleteSmart(ctx context.Context, kind models.MeasurementKind, r models.SmartComplete) error {
	return c.post(ctx, fmt.Sprintf("/smart-diagnosis/%s/complete", kind), r, nil)
}
