package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
)

type historyItem struct {
	ID          string              `json:"id"`
	Type        domain.Kind         `json:"type"`
	Label       string              `json:"label"`
	Description string              `json:"description"`
	CreatedAt   time.Time           `json:"createdAt"`
	Form        domain.FormRecord   `json:"form"`
	Style       domain.StyleOptions `json:"style"`
}

type historyResponse struct {
	Entries []historyItem `json:"entries"`
}

func newHistoryItem(e domain.HistoryEntry) historyItem {
	return historyItem{
		ID:          e.ID(),
		Type:        e.Kind(),
		Label:       e.Label(),
		Description: e.Description(),
		CreatedAt:   e.CreatedAt(),
		Form:        domain.EncodeForm(e.Form()),
		Style:       e.Style(),
	}
}

// ListHistory returns the most recent exports, newest first.
func ListHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := d.Controller.History(r.Context())
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "failed to load history", nil, d)
			return
		}

		resp := historyResponse{Entries: make([]historyItem, 0, len(entries))}
		for _, e := range entries {
			resp.Entries = append(resp.Entries, newHistoryItem(e))
		}
		writeJSON(w, http.StatusOK, resp, d)
	}
}

func ClearHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Controller.ClearHistory(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "failed to clear history", nil, d)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// RemoveHistory deletes one entry. Unknown ids are not an error.
func RemoveHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Controller.RemoveHistory(r.Context(), id); err != nil {
			writeError(w, http.StatusServiceUnavailable, "failed to remove history entry", nil, d)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// SelectHistory restores an entry's form and style into the session.
func SelectHistory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		s, err := d.Controller.SelectHistory(id)
		if err != nil {
			d.Logger.Debug("history selection rejected", logger.String("id", id), logger.Error(err))
			writeError(w, statusFor(err), err.Error(), nil, d)
			return
		}
		writeJSON(w, http.StatusOK, newStateResponse(s), d)
	}
}
