package rbac

import (
	"chess-shop/internal/data/entity"

	"github.com/google/uuid"
)

// Scopes is the set of categories in which a principal sees unmoderated content.
type Scopes struct {
	all        bool
	categories map[uuid.UUID]struct{}
}

// ScopesFor computes the privileged scopes of a binding set once, so that
// filtering a collection costs one map lookup per entity.
func ScopesFor(bindings []entity.RoleBinding) Scopes {
	s := Scopes{categories: make(map[uuid.UUID]struct{})}
	for _, b := range bindings {
		switch b.Kind {
		case entity.RoleAdmin:
			s.all = true
		case entity.RoleModerator:
			if b.CategoryID != nil {
				s.categories[*b.CategoryID] = struct{}{}
			}
		case entity.RoleUser:
		}
	}
	return s
}

// All reports whether every category is privileged (ADMIN).
func (s Scopes) All() bool {
	return s.all
}

func (s Scopes) Contains(categoryID uuid.UUID) bool {
	if s.all {
		return true
	}
	_, ok := s.categories[categoryID]
	return ok
}

// Categories returns the explicitly privileged categories. Meaningless when All is true.
func (s Scopes) Categories() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.categories))
	for id := range s.categories {
		ids = append(ids, id)
	}
	return ids
}

// CanSee reports whether an entity in the given state is visible under s.
func (s Scopes) CanSee(item entity.Moderatable) bool {
	return item.ModerationStatus() == entity.StatusAccepted || s.Contains(item.ModerationCategory())
}

// Visible returns the items p may see, preserving order.
func Visible[T entity.Moderatable](p Principal, items []T) []T {
	scopes := ScopesFor(p.Bindings)
	visible := make([]T, 0, len(items))
	for _, item := range items {
		if scopes.CanSee(item) {
			visible = append(visible, item)
		}
	}
	return visible
}
