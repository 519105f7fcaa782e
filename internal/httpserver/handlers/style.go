package handlers

import (
	"io"
	"net/http"

	"github.com/MrSnakeDoc/qrgen/internal/domain"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
	"github.com/MrSnakeDoc/qrgen/internal/utils"
)

// UpdateStyle merges a partial style. Rejected fields are listed in
// styleErrors and answered with 422; accepted ones are applied regardless.
func UpdateStyle(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch domain.StylePatch
		if err := decodeJSON(w, r, &patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body", nil, d)
			return
		}

		s, errs := d.Controller.UpdateStyle(patch)
		resp := newStateResponse(s)
		if !errs.Empty() {
			resp.StyleErrors = errs
			writeJSON(w, http.StatusUnprocessableEntity, resp, d)
			return
		}
		writeJSON(w, http.StatusOK, resp, d)
	}
}

// UploadLogo accepts a multipart "file" field or a raw image body.
func UploadLogo(d deps.Deps, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Slack over maxBytes so ProcessLogo sees the real size.
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+64<<10)

		contentType, data, err := readUpload(r)
		if err != nil {
			d.Logger.Debug("failed to read logo upload", logger.Error(err))
			writeError(w, http.StatusBadRequest, "could not read uploaded file", nil, d)
			return
		}

		s, err := d.Controller.SetLogo(contentType, data)
		if err != nil {
			writeError(w, statusFor(err), err.Error(), nil, d)
			return
		}
		writeJSON(w, http.StatusOK, newStateResponse(s), d)
	}
}

func readUpload(r *http.Request) (string, []byte, error) {
	if f, hdr, err := r.FormFile("file"); err == nil {
		defer utils.Close(f)
		data, err := io.ReadAll(f)
		return hdr.Header.Get("Content-Type"), data, err
	}

	data, err := io.ReadAll(r.Body)
	return r.Header.Get("Content-Type"), data, err
}

// ClearLogo removes the embedded logo.
func ClearLogo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newStateResponse(d.Controller.ClearLogo()), d)
	}
}
