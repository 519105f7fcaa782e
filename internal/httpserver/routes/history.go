package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/qrgen/internal/httpserver/deps"
	"github.com/MrSnakeDoc/qrgen/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerHistory) }

func registerHistory(r chi.Router, d deps.Deps) {
	r.Get("/history", handlers.ListHistory(d))
	r.Delete("/history", handlers.ClearHistory(d))
	r.Delete("/history/{id}", handlers.RemoveHistory(d))
	r.Post("/history/{id}/select", handlers.SelectHistory(d))
}
