package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is an orderable grouping of items, independently access-controlled
// per membership tier. OrderIndex values within the category collection form a
// contiguous run starting at 1; the ordering engine keeps it that way.
// No DB unique constraint on order_index: the two halves of a swap pass through
// an intermediate duplicate inside the transaction.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	DisplayName string    `gorm:"type:varchar(255);not null" json:"display_name"`
	OrderIndex  int       `gorm:"not null;default:0;index" json:"order_index"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CategoryPassword is an optional extra gate on a category. Presence of a row
// means dashboard access additionally requires the password; the hash is bcrypt.
type CategoryPassword struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"category_id"`
	Category     Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;" json:"-"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p *CategoryPassword) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
