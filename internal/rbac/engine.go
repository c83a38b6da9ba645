// Package rbac decides what a principal may do and see. Everything here is
// pure: no storage access, no logging, no shared state.
package rbac

import (
	"fmt"

	"chess-shop/internal/data/entity"

	"github.com/google/uuid"
)

// Action is an operation gated by the engine. Reading accepted content is
// never gated and has no Action.
type Action string

const (
	ActionCreateProduct   Action = "CREATE_PRODUCT"
	ActionModerateProduct Action = "MODERATE_PRODUCT"
	ActionCreateComment   Action = "CREATE_COMMENT"
	ActionModerateComment Action = "MODERATE_COMMENT"
	ActionViewPending     Action = "VIEW_PENDING"
)

// Actions lists every gated action.
var Actions = []Action{
	ActionCreateProduct,
	ActionModerateProduct,
	ActionCreateComment,
	ActionModerateComment,
	ActionViewPending,
}

// Denial is returned when no binding grants the action in the scope.
type Denial struct {
	Action Action
	Scope  uuid.UUID
}

func (d *Denial) Error() string {
	return fmt.Sprintf("forbidden: %s in category %s", d.Action, d.Scope)
}

func (d *Denial) Unwrap() error {
	return entity.ErrForbidden
}

// Authorize returns nil when any of the bindings grants action in scope,
// and a *Denial otherwise. Permissions are the union over all bindings.
func Authorize(bindings []entity.RoleBinding, action Action, scope uuid.UUID) error {
	if Permits(bindings, action, scope) {
		return nil
	}
	return &Denial{Action: action, Scope: scope}
}

func Permits(bindings []entity.RoleBinding, action Action, scope uuid.UUID) bool {
	for _, b := range bindings {
		if grants(b, action, scope) {
			return true
		}
	}
	return false
}

func grants(b entity.RoleBinding, action Action, scope uuid.UUID) bool {
	switch b.Kind {
	case entity.RoleAdmin:
		return true
	case entity.RoleModerator:
		if b.CategoryID == nil {
			return false
		}
		// Commenting is open to every authenticated role, in every category.
		if action == ActionCreateComment {
			return true
		}
		if *b.CategoryID != scope {
			return false
		}
		switch action {
		case ActionCreateProduct, ActionModerateProduct, ActionModerateComment, ActionViewPending:
			return true
		}
		return false
	case entity.RoleUser:
		return action == ActionCreateComment
	}
	return false
}
