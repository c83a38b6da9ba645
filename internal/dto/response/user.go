package response

import (
	"time"

	"chess-shop/internal/data/entity"
)

type RoleResponse struct {
	Kind       entity.RoleKind `json:"kind"`
	CategoryID *string         `json:"category_id,omitempty"`
}

type ShippingResponse struct {
	Name       *string `json:"name,omitempty"`
	Address    *string `json:"address,omitempty"`
	City       *string `json:"city,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	Country    *string `json:"country,omitempty"`
}

type UserResponse struct {
	ID        string           `json:"id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	IsActive  bool             `json:"is_active"`
	Shipping  ShippingResponse `json:"shipping"`
	Roles     []RoleResponse   `json:"roles"`
	CreatedAt time.Time        `json:"created_at"`
}

func RolesToResponse(roles []*entity.Role) []RoleResponse {
	resp := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		r := RoleResponse{Kind: role.Kind}
		if role.CategoryID != nil {
			id := role.CategoryID.String()
			r.CategoryID = &id
		}
		resp = append(resp, r)
	}
	return resp
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Email:    user.Email,
		IsActive: user.IsActive,
		Shipping: ShippingResponse{
			Name:       user.Shipping.Name,
			Address:    user.Shipping.Address,
			City:       user.Shipping.City,
			PostalCode: user.Shipping.PostalCode,
			Country:    user.Shipping.Country,
		},
		Roles:     RolesToResponse(user.Roles),
		CreatedAt: user.CreatedAt,
	}
}
