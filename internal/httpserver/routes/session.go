package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerSession) }

func registerSession(r chi.Router, d deps.Deps) {
	r.Get("/state", handlers.State(d))
	r.Post("/variant", handlers.SwitchVariant(d))
	r.Put("/form", handlers.EditForm(d))
	r.Patch("/style", handlers.UpdateStyle(d))
	r.Post("/style/logo", handlers.UploadLogo(d, d.MaxLogoBytes))
	r.Delete("/style/logo", handlers.ClearLogo(d))
	r.Post("/deeplink", handlers.DeepLink(d))
	r.Get("/preview", handlers.Preview(d))
}
