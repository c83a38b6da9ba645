package entity

import (
	"github.com/google/uuid"
)

type Comment struct {
	BaseSimple
	Content   string           `db:"content"`
	ProductID uuid.UUID        `db:"product_id"`
	AuthorID  uuid.UUID        `db:"author_id"`
	Status    ModerationStatus `db:"status"`

	// CategoryID is the current category of the parent product, resolved by join.
	CategoryID     uuid.UUID `db:"category_id"`
	AuthorUsername string    `db:"author_username"`
}

func (c *Comment) ModerationCategory() uuid.UUID      { return c.CategoryID }
func (c *Comment) ModerationStatus() ModerationStatus { return c.Status }
