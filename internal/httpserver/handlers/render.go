package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/logger"
	"github.com/MrSnakeDoc/qrgen/internal/render"
)

// Headers set on export responses.
const (
	HeaderNotice    = "X-QRGen-Notice"
	HeaderHistoryID = "X-QRGen-History-ID"
)

// Preview renders the current payload inline. Nothing is recorded.
func Preview(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := render.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil, d)
			return
		}

		data, err := d.Controller.Preview(r.Context(), f)
		if err != nil {
			writeError(w, statusFor(err), err.Error(), nil, d)
			return
		}
		writeImage(w, f.ContentType(), data, d)
	}
}

// Export renders the current payload as a download and records it in
// history. A history failure still returns the file, with a notice header.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := render.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error(), nil, d)
			return
		}

		res, err := d.Controller.Export(r.Context(), f)
		if err != nil {
			writeError(w, statusFor(err), err.Error(), nil, d)
			return
		}

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
		if res.Notice != "" {
			w.Header().Set(HeaderNotice, res.Notice)
		} else {
			w.Header().Set(HeaderHistoryID, res.Entry.ID())
		}
		writeImage(w, res.ContentType, res.Data, d)
	}
}

func writeImage(w http.ResponseWriter, contentType string, data []byte, d deps.Deps) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		d.Logger.Debug("failed to write image", logger.Error(err))
	}
}
