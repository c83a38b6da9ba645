package response

import (
	"time"

	"chess-shop/internal/data/entity"
)

type CommentResponse struct {
	ID             string                  `json:"id"`
	Content        string                  `json:"content"`
	ProductID      string                  `json:"product_id"`
	AuthorID       string                  `json:"author_id"`
	AuthorUsername string                  `json:"author_username,omitempty"`
	Status         entity.ModerationStatus `json:"status"`
	CreatedAt      time.Time               `json:"created_at"`
}

type PendingCountResponse struct {
	Count int64 `json:"count"`
}

func CommentToResponse(comment *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:             comment.ID.String(),
		Content:        comment.Content,
		ProductID:      comment.ProductID.String(),
		AuthorID:       comment.AuthorID.String(),
		AuthorUsername: comment.AuthorUsername,
		Status:         comment.Status,
		CreatedAt:      comment.CreatedAt,
	}
}

func CommentsToResponse(comments []*entity.Comment) []CommentResponse {
	resp := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		resp = append(resp, CommentToResponse(c))
	}
	return resp
}
