package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User Model
type User struct {
	ID             uuid.UUID `gorm:"type:char(36);primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"` // Unique login email
	HashedPassword string    `gorm:"not null" json:"-"`                 // Bcrypt hash, never serialized
	FullName       string    `json:"full_name"`
	IsActive       bool      `gorm:"not null" json:"is_active"`    // Inactive users cannot authenticate
	IsSuperuser    bool      `gorm:"not null" json:"is_superuser"` // Superusers bypass ownership checks
	Items          []Item    `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate assigns a UUID primary key if one is not set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
