package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver/mw"
)

func init() { RegisterAPI(registerExport) }

// Export is the only route that writes to history, so it is the one we throttle.
func registerExport(r chi.Router, d deps.Deps) {
	r.With(mw.RateLimit(mw.RateLimitConfig{
		Burst:             d.ExportBurst,
		RefillPerIPPerMin: d.ExportPerMin,
		MaxEntries:        10000,
		TrustProxy:        d.TrustProxy,
	})).Post("/export", handlers.Export(d))
}
