package request

type CreateProductRequest struct {
	Name         string  `json:"name" validate:"required,notblank,max=255"`
	Description  string  `json:"description" validate:"max=5000"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
	CategoryName string  `json:"category_name" validate:"required,notblank,max=100"`
}

type ProductListRequest struct {
	PaginatedRequest
	Category string
}

// ModerationRequest carries the target status of a moderation decision.
type ModerationRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING ACCEPTED REJECTED"`
}
