// internal/adapters/in/http/handler/insights_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"agrimarket/internal/infra/external"
)

// InsightsHandler proxies the dashboard widgets to their external services.
// A missing upstream degrades to 503 so the frontend can show a notice
// instead of an empty page.
//
// Routes:
//   - GET  /api/insights/weather?city=
//   - GET  /api/insights/news
//   - GET  /api/insights/prices?crop=
//   - POST /api/insights/advisory
type InsightsHandler struct {
	weather    *external.WeatherClient
	news       *external.NewsClient
	advisory   *external.AdvisoryClient
	priceIndex *external.PriceIndexClient
}

func NewInsightsHandler(
	weather *external.WeatherClient,
	news *external.NewsClient,
	advisory *external.AdvisoryClient,
	priceIndex *external.PriceIndexClient,
) http.Handler {
	return &InsightsHandler{
		weather:    weather,
		news:       news,
		advisory:   advisory,
		priceIndex: priceIndex,
	}
}

func (h *InsightsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimRight(r.URL.Path, "/")

	switch {
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/insights/weather"):
		h.passthrough(w, func() (json.RawMessage, error) {
			if h.weather == nil {
				return nil, external.ErrNotConfigured
			}
			return h.weather.Current(r.Context(), r.URL.Query().Get("city"))
		})

	case r.Method == http.MethodGet && strings.HasSuffix(path, "/insights/news"):
		h.passthrough(w, func() (json.RawMessage, error) {
			if h.news == nil {
				return nil, external.ErrNotConfigured
			}
			return h.news.Headlines(r.Context())
		})

	case r.Method == http.MethodGet && strings.HasSuffix(path, "/insights/prices"):
		h.passthrough(w, func() (json.RawMessage, error) {
			if h.priceIndex == nil {
				return nil, external.ErrNotConfigured
			}
			return h.priceIndex.Prices(r.Context(), r.URL.Query().Get("crop"))
		})

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/insights/advisory"):
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			writeErr(w, http.StatusBadRequest, "unreadable body")
			return
		}
		h.passthrough(w, func() (json.RawMessage, error) {
			if h.advisory == nil {
				return nil, external.ErrNotConfigured
			}
			return h.advisory.Advise(r.Context(), body)
		})

	default:
		methodNotAllowed(w)
	}
}

func (h *InsightsHandler) passthrough(w http.ResponseWriter, fetch func() (json.RawMessage, error)) {
	payload, err := fetch()
	if err != nil {
		if errors.Is(err, external.ErrNotConfigured) {
			writeErr(w, http.StatusServiceUnavailable, "insight service not configured")
			return
		}
		writeErr(w, http.StatusBadGateway, "insight service unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}
