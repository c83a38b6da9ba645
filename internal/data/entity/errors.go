package entity

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrRoleNotResolvable = errors.New("role not resolvable")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrConflict          = errors.New("already exists")
	ErrUnauthenticated   = errors.New("authentication required")
)
