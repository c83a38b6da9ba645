package wire

import (
	"chess-shop/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, g guards) {
	// ==================== PROTECTED USER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/api/user/profile", userHandler.GetProfile)
		r.Put("/api/user/shipping", userHandler.UpdateShipping)
	})

	// ==================== ADMIN ROUTES ====================
	// AuthSession → Admin
	r.With(g.auth, g.admin).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.GetAllUsers) // ?page=1&per_page=10
		r.Get("/{id}", userHandler.GetUser)
		r.Put("/{id}", userHandler.UpdateUser)
		r.Put("/{id}/roles", userHandler.UpdateRoles) // replaces the whole binding set
		r.Delete("/{id}", userHandler.DeleteUser)
	})
}
