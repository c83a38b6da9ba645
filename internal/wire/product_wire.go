package wire

import (
	"chess-shop/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireProduct(r chi.Router, productHandler *adaptor.ProductHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/categories", productHandler.GetCategories)

	// Moderators and admins also see pending products here
	r.Group(func(r chi.Router) {
		r.Use(g.optional)

		r.Get("/api/products", productHandler.GetProducts)
		r.Get("/api/products/{id}", productHandler.GetProduct)
	})

	// ==================== PROTECTED ROUTES ====================
	// Permissions per category are decided in the service
	r.Group(func(r chi.Router) {
		r.Use(g.auth)

		r.Post("/api/products", productHandler.CreateProduct)
		r.Put("/api/products/{id}/status", productHandler.SetStatus)
		r.Get("/api/moderation/products/pending", productHandler.GetPending)
	})
}
