package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// RoleKind is the closed set of role shapes. USER and ADMIN are global,
// MODERATOR is always bound to exactly one category.
type RoleKind string

const (
	RoleUser      RoleKind = "USER"
	RoleModerator RoleKind = "MODERATOR"
	RoleAdmin     RoleKind = "ADMIN"
)

// Valid reports whether k is one of the known kinds.
func (k RoleKind) Valid() bool {
	switch k {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Scoped reports whether bindings of this kind carry a category.
func (k RoleKind) Scoped() bool {
	return k == RoleModerator
}

// Role is a row of the role catalog. One row exists per (Kind, CategoryID).
type Role struct {
	BaseSimple
	Kind       RoleKind   `db:"kind"`
	CategoryID *uuid.UUID `db:"category_id"`
}

func (r *Role) Binding() RoleBinding {
	return RoleBinding{Kind: r.Kind, CategoryID: r.CategoryID}
}

// RoleBinding associates a user with a role kind and, for MODERATOR, a category.
// Build values with UserBinding, AdminBinding or ModeratorBinding.
type RoleBinding struct {
	Kind       RoleKind
	CategoryID *uuid.UUID
}

func UserBinding() RoleBinding {
	return RoleBinding{Kind: RoleUser}
}

func AdminBinding() RoleBinding {
	return RoleBinding{Kind: RoleAdmin}
}

func ModeratorBinding(categoryID uuid.UUID) RoleBinding {
	return RoleBinding{Kind: RoleModerator, CategoryID: &categoryID}
}

// Validate checks the kind/category invariant.
func (b RoleBinding) Validate() error {
	switch b.Kind {
	case RoleModerator:
		if b.CategoryID == nil || *b.CategoryID == uuid.Nil {
			return fmt.Errorf("%w: moderator role requires a category", ErrInvalidArgument)
		}
	case RoleUser, RoleAdmin:
		if b.CategoryID != nil {
			return fmt.Errorf("%w: %s role must not carry a category", ErrInvalidArgument, b.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown role kind %q", ErrInvalidArgument, b.Kind)
	}
	return nil
}

// Key identifies the binding for deduplication.
func (b RoleBinding) Key() string {
	if b.CategoryID == nil {
		return string(b.Kind)
	}
	return string(b.Kind) + ":" + b.CategoryID.String()
}

func (b RoleBinding) String() string {
	return b.Key()
}
