package apiclient

import (
	"context"
	"net/url"
	"time"

	"RentalNegotiator/internal/models"

	"github.com/patrickmn/go-cache"
)

const marketCacheTTL = 5 * time.Minute

// MarketData 는 같은 (동, 건물 유형) 요청을 5분 동안 캐시한다.
func (c *Client) MarketData(ctx context.Context, dong, buildingType string) (models.MarketData, error) {
	key := dong + "|" + buildingType
	if cached, ok := c.market.Get(key); ok {
		return cached.(models.MarketData), nil
	}

	q := url.Values{}
	q.Set("dong", dong)
	if buildingType != "" {
		q.Set("buildingType", buildingType)
	}
	var m models.MarketData
	if err := c.get(ctx, "/api/v1/market-data", q, &m); err != nil {
		return models.MarketData{}, err
	}
	c.market.Set(key, m, cache.DefaultExpiration)
	return m, nil
}
