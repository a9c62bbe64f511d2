// internal/infra/external/weather.go
package external

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// WeatherClient fetches current conditions for the dashboard weather widget.
type WeatherClient struct {
	insightClient
}

func NewWeatherClient(baseURL, apiKey string) *WeatherClient {
	return &WeatherClient{newInsightClient("weather", baseURL, apiKey)}
}

// Current returns the upstream payload for city as-is.
func (c *WeatherClient) Current(ctx context.Context, city string) (json.RawMessage, error) {
	q := url.Values{}
	if v := strings.TrimSpace(city); v != "" {
		q.Set("city", v)
	}
	return c.getJSON(ctx, "/current", q)
}
