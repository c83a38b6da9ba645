package request

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=2000"`
}
