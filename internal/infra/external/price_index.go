// internal/infra/external/price_index.go
package external

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

// PriceIndexClient fetches government mandi price quotes so farmers can
// benchmark a listing before setting its price.
type PriceIndexClient struct {
	insightClient
}

func NewPriceIndexClient(baseURL, apiKey string) *PriceIndexClient {
	return &PriceIndexClient{newInsightClient("priceindex", baseURL, apiKey)}
}

// Prices returns the upstream quote list, optionally filtered by crop.
func (c *PriceIndexClient) Prices(ctx context.Context, crop string) (json.RawMessage, error) {
	q := url.Values{}
	if v := strings.TrimSpace(crop); v != "" {
		q.Set("crop", v)
	}
	return c.getJSON(ctx, "/prices", q)
}
