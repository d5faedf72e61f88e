package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tanamoe/release-bot/db"
	"github.com/tanamoe/release-bot/telemetry"
)

type handlers struct {
	deps Deps
}

// healthz is the liveness probe; it only proves the process serves HTTP.
func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readyz checks the gateway session and, when configured, the database.
func (h *handlers) readyz(w http.ResponseWriter, r *http.Request) {
	checks := []struct {
		name string
		fn   func() error
	}{
		{"gateway", func() error {
			if h.deps.Gateway == nil || !h.deps.Gateway() {
				return errors.New("gateway not connected")
			}
			return nil
		}},
		{"database", func() error {
			if h.deps.Deliveries == nil {
				return nil
			}
			return h.deps.Deliveries.Ping(r.Context())
		}},
	}

	for _, check := range checks {
		if err := check.fn(); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status":       "not_ready",
				"failed_check": check.name,
				"error":        err.Error(),
			})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type statusResponse struct {
	GatewayConnected bool         `json:"gateway_connected"`
	Schedule         string       `json:"schedule"`
	Timezone         string       `json:"timezone"`
	DeliveryLog      bool         `json:"delivery_log"`
	LastDelivery     *db.Delivery `json:"last_delivery"`
}

// status reports scheduler settings and the most recent delivery.
func (h *handlers) status(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		GatewayConnected: h.deps.Gateway != nil && h.deps.Gateway(),
		Schedule:         h.deps.Schedule,
		Timezone:         h.deps.Timezone,
		DeliveryLog:      h.deps.Deliveries != nil,
	}
	if h.deps.Deliveries != nil {
		last, err := h.deps.Deliveries.LastDelivery(r.Context())
		if err != nil {
			telemetry.LoggerWithCorr(r.Context()).Error("status: last delivery", slog.Any("err", err), slog.String("component", "http"))
			http.Error(w, "status unavailable", http.StatusInternalServerError)
			return
		}
		resp.LastDelivery = last
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("failed to encode response", slog.Any("err", err))
	}
}
