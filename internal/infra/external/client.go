// internal/infra/external/client.go
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotConfigured signals that the service base URL is missing; handlers
// degrade the widget instead of failing the page.
var ErrNotConfigured = errors.New("external: service not configured")

// insightClient is the shared HTTP plumbing for the insight services. All of
// them speak JSON and authenticate with a bearer key; responses pass through
// opaquely so upstream schema drift never breaks the API.
type insightClient struct {
	client  *http.Client
	name    string
	baseURL string
	apiKey  string
}

func newInsightClient(name, baseURL, apiKey string) insightClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")

	return insightClient{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		name:    name,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *insightClient) getJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return c.do(req)
}

func (c *insightClient) postJSON(ctx context.Context, path string, body []byte) (json.RawMessage, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

func (c *insightClient) do(req *http.Request) (json.RawMessage, error) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[%s] http request FAILED err=%v", c.name, err)
		return nil, fmt.Errorf("%s request: %w", c.name, err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[%s] request FAILED status=%d body=%s", c.name, resp.StatusCode, string(bodyBytes))
		return nil, fmt.Errorf("%s failed: status=%d", c.name, resp.StatusCode)
	}

	if !json.Valid(bodyBytes) {
		return nil, fmt.Errorf("%s returned invalid JSON", c.name)
	}
	return json.RawMessage(bodyBytes), nil
}
