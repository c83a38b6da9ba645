package entity

import (
	"time"

	"github.com/google/uuid"
)

// Base is embedded by soft-deletable rows (users).
type Base struct {
	ID        uuid.UUID  `db:"id"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

func (b Base) Deleted() bool {
	return b.DeletedAt != nil
}

// BaseNoDelete is for mutable rows that are never soft-deleted (products).
type BaseNoDelete struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// BaseSimple is for rows written once: roles, categories, comments, sessions.
type BaseSimple struct {
	ID        uuid.UUID `db:"id"`
	CreatedAt time.Time `db:"created_at"`
}
