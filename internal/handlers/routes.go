package handlers

import (
	"net/http"

	"github.com/Brownie44l1/freshness-api/internal/metrics"
)

// Routes wires the endpoints and the middleware chain. m may be nil, in
// which case /metrics is not served.
func (h *Handler) Routes(m *metrics.Metrics, apiKey string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /predict", h.Predict)
	if m != nil {
		mux.Handle("GET /metrics", m.Handler())
	}

	return enableCORS(withRequestID(accessLog(h.logger, m, requireAPIKey(apiKey, mux))))
}
