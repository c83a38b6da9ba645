package rbac

import (
	"chess-shop/internal/data/entity"

	"github.com/google/uuid"
)

// Principal is the caller of a core operation. The zero value is anonymous.
type Principal struct {
	UserID   uuid.UUID
	Username string
	Bindings []entity.RoleBinding
}

// Anonymous is the principal of an unauthenticated request.
var Anonymous = Principal{}

// NewPrincipal builds a principal from a user and the bindings loaded with it.
func NewPrincipal(user *entity.User) Principal {
	return Principal{
		UserID:   user.ID,
		Username: user.Username,
		Bindings: user.Bindings(),
	}
}

func (p Principal) IsAnonymous() bool {
	return p.UserID == uuid.Nil
}

func (p Principal) IsAdmin() bool {
	for _, b := range p.Bindings {
		if b.Kind == entity.RoleAdmin {
			return true
		}
	}
	return false
}

// ModeratedCategories returns the categories of all MODERATOR bindings, deduplicated.
func (p Principal) ModeratedCategories() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var categories []uuid.UUID
	for _, b := range p.Bindings {
		if b.Kind != entity.RoleModerator || b.CategoryID == nil {
			continue
		}
		if _, ok := seen[*b.CategoryID]; ok {
			continue
		}
		seen[*b.CategoryID] = struct{}{}
		categories = append(categories, *b.CategoryID)
	}
	return categories
}
