package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is a single link/resource record owned by exactly one category and
// deleted with it. OrderIndex is contiguous from 1 among siblings of the same
// category.
type Item struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index" json:"category_id"`
	Category    Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;" json:"-"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Link        string    `gorm:"type:text;not null" json:"link"`
	Description string    `gorm:"type:text" json:"description"`
	OrderIndex  int       `gorm:"not null;default:0;index" json:"order_index"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
