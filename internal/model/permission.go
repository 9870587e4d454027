package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PermissionType selects one of the three grant flags.
type PermissionType string

const (
	PermissionView   PermissionType = "view"
	PermissionEdit   PermissionType = "edit"
	PermissionDelete PermissionType = "delete"
)

func (p PermissionType) Valid() bool {
	switch p {
	case PermissionView, PermissionEdit, PermissionDelete:
		return true
	}
	return false
}

// CategoryPermission is one logical row of the tier/category permission matrix.
// Absence of a row means all three flags are false (default-deny); rows are
// created lazily on first grant, never pre-populated. Flags are plain booleans
// with NOT NULL defaults so absent storage values can never read as anything
// but false.
type CategoryPermission struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	MembershipTierID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_tier_category" json:"membership_tier_id"`
	MembershipTier   MembershipTier `gorm:"foreignKey:MembershipTierID;constraint:OnDelete:CASCADE;" json:"-"`
	CategoryID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_tier_category" json:"category_id"`
	Category         Category       `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE;" json:"-"`
	CanView          bool           `gorm:"not null;default:false" json:"can_view"`
	CanEdit          bool           `gorm:"not null;default:false" json:"can_edit"`
	CanDelete        bool           `gorm:"not null;default:false" json:"can_delete"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (p *CategoryPermission) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Flag returns the stored value of the selected permission flag.
func (p *CategoryPermission) Flag(t PermissionType) bool {
	switch t {
	case PermissionView:
		return p.CanView
	case PermissionEdit:
		return p.CanEdit
	case PermissionDelete:
		return p.CanDelete
	}
	return false
}

// SetFlag sets only the selected flag, leaving the other two untouched.
func (p *CategoryPermission) SetFlag(t PermissionType, value bool) {
	switch t {
	case PermissionView:
		p.CanView = value
	case PermissionEdit:
		p.CanEdit = value
	case PermissionDelete:
		p.CanDelete = value
	}
}
