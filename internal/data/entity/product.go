package entity

import (
	"github.com/google/uuid"
)

type Product struct {
	BaseNoDelete
	Name        string           `db:"name"`
	Description string           `db:"description"`
	Price       float64          `db:"price"`
	ImageURL    *string          `db:"image_url"`
	CategoryID  uuid.UUID        `db:"category_id"`
	AuthorID    uuid.UUID        `db:"author_id"`
	Status      ModerationStatus `db:"status"`

	// Filled by joins.
	CategoryName   string `db:"category_name"`
	AuthorUsername string `db:"author_username"`
}

// Approved is the boolean view of Status kept for API compatibility.
func (p *Product) Approved() bool {
	return p.Status == StatusAccepted
}

func (p *Product) ModerationCategory() uuid.UUID      { return p.CategoryID }
func (p *Product) ModerationStatus() ModerationStatus { return p.Status }
