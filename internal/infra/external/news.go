// internal/infra/external/news.go
package external

import (
	"context"
	"encoding/json"
)

// NewsClient fetches agriculture headlines for the dashboard news widget.
type NewsClient struct {
	insightClient
}

func NewNewsClient(baseURL, apiKey string) *NewsClient {
	return &NewsClient{newInsightClient("news", baseURL, apiKey)}
}

func (c *NewsClient) Headlines(ctx context.Context) (json.RawMessage, error) {
	return c.getJSON(ctx, "/headlines", nil)
}
