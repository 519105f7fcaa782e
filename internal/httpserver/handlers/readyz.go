package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
)

type componentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Timestamp  string                     `json:"timestamp"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports whether the history backend is reachable. A failing backend
// answers 503 so orchestrators stop routing exports here.
func Readyz(d deps.Deps) http.HandlerFunc {
	now := d.TimeNow
	if now == nil {
		now = time.Now
	}

	return func(w http.ResponseWriter, r *http.Request) {
		resp := readyzResponse{
			Ready:      true,
			Timestamp:  now().UTC().Format(time.RFC3339),
			Components: map[string]componentStatus{},
		}

		history := componentStatus{Status: "ok"}
		if d.HistoryPing != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := d.HistoryPing(ctx); err != nil {
				d.Logger.Warn("history backend not ready",
					logger.String("backend", d.HistoryBackend), logger.Error(err))
				history = componentStatus{Status: "error", Error: err.Error()}
				resp.Ready = false
			}
		}
		resp.Components["history_"+d.HistoryBackend] = history

		status := http.StatusOK
		if !resp.Ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp, d)
	}
}
