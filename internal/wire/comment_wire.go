package wire

import (
	"chess-shop/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireComment(r chi.Router, commentHandler *adaptor.CommentHandler, g guards) {
	// ==================== PUBLIC ROUTES ====================
	r.With(g.optional).Get("/api/products/{id}/comments", commentHandler.GetProductComments)

	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(g.auth)

		r.Post("/api/products/{id}/comments", commentHandler.CreateComment)
		r.Put("/api/comments/{id}/status", commentHandler.SetStatus)
		r.Delete("/api/comments/{id}", commentHandler.DeleteComment)
		r.Get("/api/moderation/comments/pending", commentHandler.GetPending)
		r.Get("/api/moderation/comments/pending/count", commentHandler.CountPending)
	})
}
