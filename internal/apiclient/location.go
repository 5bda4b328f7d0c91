package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"RentalNegotiator/internal/models"
)

func (c *Client) PreviewAddress(ctx context.Context, coord models.Coordinate) (models.AddressPreview, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))

	var p models.AddressPreview
	err := c.get(ctx, "/api/location/preview", q, &p)
	return p, err
}

func (c *Client) VerifyLocation(ctx context.Context, req models.LocationVerifyRequest) (models.LocationVerifyResponse, error) {
	var r models.LocationVerifyResponse
	err := c.post(ctx, "/api/location/verify", req, &r)
	return r, err
}
