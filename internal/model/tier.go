package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservedAdminTier is the built-in tier name that must never be deleted.
const ReservedAdminTier = "admin"

// MembershipTier represents a named membership level. Tiers are the grouping
// key for category permissions and are referenced by profiles.
type MembershipTier struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"` // machine key, immutable identity
	DisplayName string    `gorm:"type:varchar(255);not null" json:"display_name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (t *MembershipTier) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
