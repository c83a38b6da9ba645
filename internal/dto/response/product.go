package response

import (
	"time"

	"chess-shop/internal/data/entity"
)

type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductResponse exposes both the moderation status and the boolean
// approved flag older clients read.
type ProductResponse struct {
	ID             string                  `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description"`
	Price          float64                 `json:"price"`
	ImageURL       *string                 `json:"image_url,omitempty"`
	CategoryID     string                  `json:"category_id"`
	CategoryName   string                  `json:"category_name"`
	AuthorID       string                  `json:"author_id"`
	AuthorUsername string                  `json:"author_username,omitempty"`
	Status         entity.ModerationStatus `json:"status"`
	Approved       bool                    `json:"approved"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

func CategoryToResponse(category *entity.Category) CategoryResponse {
	return CategoryResponse{
		ID:   category.ID.String(),
		Name: category.Name,
	}
}

func ProductToResponse(product *entity.Product) ProductResponse {
	return ProductResponse{
		ID:             product.ID.String(),
		Name:           product.Name,
		Description:    product.Description,
		Price:          product.Price,
		ImageURL:       product.ImageURL,
		CategoryID:     product.CategoryID.String(),
		CategoryName:   product.CategoryName,
		AuthorID:       product.AuthorID.String(),
		AuthorUsername: product.AuthorUsername,
		Status:         product.Status,
		Approved:       product.Approved(),
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}

func ProductsToResponse(products []*entity.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, ProductToResponse(p))
	}
	return resp
}
