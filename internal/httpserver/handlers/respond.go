package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/history"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
	"github.com/MrSnakeDoc/qrgen/internal/render"
	"github.com/MrSnakeDoc/qrgen/internal/session"
)

// maxBodyBytes bounds JSON request bodies. Logo uploads have their own limit.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string             `json:"error"`
	Fields domain.FieldErrors `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any, d deps.Deps) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		d.Logger.Debug("failed to write response", logger.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, fields domain.FieldErrors, d deps.Deps) {
	writeJSON(w, status, errorResponse{Error: msg, Fields: fields}, d)
}

// statusFor maps session, history and render errors to HTTP status codes.
// Anything unrecognized on a history path is a persistence failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrVariantMismatch), errors.Is(err, session.ErrLocked):
		return http.StatusConflict
	case errors.Is(err, session.ErrInvalidPayload),
		errors.Is(err, render.ErrLogoType),
		errors.Is(err, render.ErrLogoTooLarge),
		errors.Is(err, render.ErrLogoDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, render.ErrUnknownFormat):
		return http.StatusBadRequest
	case errors.Is(err, history.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
