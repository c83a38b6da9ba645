package adaptor

import (
	"net/http"

	"chess-shop/internal/data/entity"
	"chess-shop/internal/dto/request"
	"chess-shop/internal/dto/response"
	"chess-shop/internal/rbac"
	"chess-shop/internal/usecase"
	"chess-shop/pkg/utils"

	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// GetProductComments handles GET /api/products/{id}/comments (public, optional auth)
func (h *CommentHandler) GetProductComments(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.service.ListVisibleComments(r.Context(), rbac.FromContext(r.Context()), productID)
	if err != nil {
		handleServiceError(w, h.log, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, "Comments retrieved successfully", comments)
}

// CreateComment handles POST /api/products/{id}/comments
func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	productID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req request.CreateCommentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	comment, err := h.service.CreateComment(r.Context(), rbac.FromContext(r.Context()), productID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "Comment submitted for moderation", comment)
}

// SetStatus handles PUT /api/comments/{id}/status
func (h *CommentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	commentID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req request.ModerationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.service.SetCommentStatus(r.Context(), rbac.FromContext(r.Context()), commentID, entity.ModerationStatus(req.Status))
	if err != nil {
		handleServiceError(w, h.log, err, "set comment status")
		return
	}

	utils.ResponseSuccess(w, "Comment status updated", nil)
}

// DeleteComment handles DELETE /api/comments/{id}
func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), rbac.FromContext(r.Context()), commentID); err != nil {
		handleServiceError(w, h.log, err, "delete comment")
		return
	}

	utils.ResponseSuccess(w, "Comment deleted successfully", nil)
}

// GetPending handles GET /api/moderation/comments/pending
func (h *CommentHandler) GetPending(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListPendingForModerator(r.Context(), rbac.FromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, err, "list pending comments")
		return
	}

	utils.ResponseSuccess(w, "Pending comments retrieved successfully", comments)
}

// CountPending handles GET /api/moderation/comments/pending/count
func (h *CommentHandler) CountPending(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountPendingForModerator(r.Context(), rbac.FromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.log, err, "count pending comments")
		return
	}

	utils.ResponseSuccess(w, "Pending comments counted", response.PendingCountResponse{Count: count})
}
