package request

import (
	"fmt"

	"chess-shop/internal/data/entity"
	"chess-shop/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

func init() {
	utils.RegisterValidation("rolekind", func(fl validator.FieldLevel) bool {
		return entity.RoleKind(fl.Field().String()).Valid()
	})
}

type UpdateUserRequest struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	IsActive *bool   `json:"is_active,omitempty"`
}

type ShippingRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=255"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postal_code,omitempty" validate:"omitempty,max=20"`
	Country    *string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// RoleBindingRequest names a role kind and, for MODERATOR, its category.
type RoleBindingRequest struct {
	Kind       string  `json:"kind" validate:"required,rolekind"`
	CategoryID *string `json:"category_id,omitempty" validate:"omitempty,uuid"`
}

type UpdateRolesRequest struct {
	Roles []RoleBindingRequest `json:"roles" validate:"required,min=1,dive"`
}

// Bindings converts the request into role bindings. Shape rules such as
// "MODERATOR needs a category" are checked by the caller.
func (r UpdateRolesRequest) Bindings() ([]entity.RoleBinding, error) {
	bindings := make([]entity.RoleBinding, 0, len(r.Roles))
	for _, role := range r.Roles {
		binding := entity.RoleBinding{Kind: entity.RoleKind(role.Kind)}
		if role.CategoryID != nil {
			id, err := uuid.Parse(*role.CategoryID)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid category_id %q", entity.ErrInvalidArgument, *role.CategoryID)
			}
			binding.CategoryID = &id
		}
		bindings = append(bindings, binding)
	}
	return bindings, nil
}
