package apiclient

import (
	"context"
	"fmt"

	"RentalNegotiator/internal/models"
)

func (c *Client) CurrentMission(ctx context.Context) (models.WeeklyMission, error) {
	var m models.WeeklyMission
	err := c.get(ctx, "/mission/weekly/current", nil, &m)
	return m, err
}

func (c *Client) ParticipateMission(ctx context.Context, missionID int64, answers []models.Answer) error {
	return c.post(ctx, fmt.Sprintf("/mission/weekly/%d/participate", missionID), models.MissionParticipation{Responses: answers}, nil)
}

func (c *Client) MissionResult(ctx context.Context, missionID int64) (models.MissionResult, error) {
	var r models.MissionResult
	err := c.get(ctx, fmt.Sprintf("/mission/weekly/%d/result", missionID), nil, &r)
	return r, err
}
