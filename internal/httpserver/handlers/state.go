package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/session"
)

type stateResponse struct {
	Type            domain.Kind         `json:"type"`
	Form            domain.FormRecord   `json:"form"`
	Style           domain.StyleOptions `json:"style"`
	Payload         string              `json:"payload"`
	Valid           bool                `json:"valid"`
	Errors          domain.FieldErrors  `json:"errors,omitempty"`
	StyleErrors     domain.FieldErrors  `json:"styleErrors,omitempty"`
	Locked          bool                `json:"locked"`
	DeepLinkMissing bool                `json:"deepLinkMissing"`
	TextLength      int                 `json:"textLength,omitempty"`
	TextTooLong     bool                `json:"textTooLong,omitempty"`
}

func newStateResponse(s session.State) stateResponse {
	return stateResponse{
		Type:            s.Kind,
		Form:            domain.EncodeForm(s.Form),
		Style:           s.Style,
		Payload:         s.Payload.Text,
		Valid:           s.Valid,
		Errors:          s.Errors,
		Locked:          s.Locked,
		DeepLinkMissing: s.DeepLinkMissing,
		TextLength:      s.TextLength,
		TextTooLong:     s.TextTooLong,
	}
}

// State returns the current session snapshot.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newStateResponse(d.Controller.Snapshot()), d)
	}
}

type variantRequest struct {
	Type string `json:"type"`
}

// SwitchVariant activates another form variant, reset to its defaults.
func SwitchVariant(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req variantRequest
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", nil, d)
			return
		}
		kind, err := domain.ParseKind(req.Type)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil, d)
			return
		}

		s, err := d.Controller.SwitchVariant(kind)
		if err != nil {
			writeError(w, statusFor(err), err.Error(), nil, d)
			return
		}
		writeJSON(w, http.StatusOK, newStateResponse(s), d)
	}
}

// EditForm replaces the active form. Field problems come back in the state,
// not as an error status.
func EditForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec domain.FormRecord
		if err := decodeJSON(w, r, &rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", nil, d)
			return
		}
		form, err := rec.Decode()
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil, d)
			return
		}

		s, err := d.Controller.EditForm(form)
		if err != nil {
			writeError(w, statusFor(err), err.Error(), nil, d)
			return
		}
		writeJSON(w, http.StatusOK, newStateResponse(s), d)
	}
}

// DeepLink applies the urlPage query parameter.
func DeepLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		_, present := q["urlPage"]
		s := d.Controller.ApplyDeepLink(q.Get("urlPage"), present)
		writeJSON(w, http.StatusOK, newStateResponse(s), d)
	}
}
