// internal/infra/external/advisory.go
package external

import (
	"context"
	"encoding/json"
	"fmt"
)

// AdvisoryClient proxies crop-advisory questions to the AI advisory service.
// Inference stays on the remote side; this is transport only.
type AdvisoryClient struct {
	insightClient
}

func NewAdvisoryClient(baseURL, apiKey string) *AdvisoryClient {
	return &AdvisoryClient{newInsightClient("advisory", baseURL, apiKey)}
}

// Advise forwards the question payload and returns the advisory response
// as-is.
func (c *AdvisoryClient) Advise(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	if len(payload) == 0 || !json.Valid(payload) {
		return nil, fmt.Errorf("advisory payload is not valid JSON")
	}
	return c.postJSON(ctx, "/advise", payload)
}
