package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item Model
type Item struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `gorm:"type:char(36);not null;index" json:"owner_id"` // Every item has exactly one owner
	Owner       User      `json:"-"`
}

// BeforeCreate assigns a UUID primary key if one is not set.
func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
