package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile status lifecycle. pending is the initial state of every application;
// rejected is terminal until the member re-applies.
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusSuspended = "suspended"
)

// ValidStatus reports whether s is one of the four lifecycle states.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusSuspended:
		return true
	}
	return false
}

// Profile is a member's enrollment record. Email is the natural key: there is
// exactly one profile per email, and re-application reuses the existing row.
// UserID stays nil until the first authenticated login binds the identity.
type Profile struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Email            string          `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	DisplayName      string          `gorm:"type:varchar(255)" json:"display_name"`
	Status           string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	MembershipTierID uuid.UUID       `gorm:"type:uuid;not null" json:"membership_tier_id"`
	MembershipTier   *MembershipTier `gorm:"foreignKey:MembershipTierID" json:"membership_tier,omitempty"`
	AppliedAt        time.Time       `gorm:"not null" json:"applied_at"`
	ApprovedAt       *time.Time      `json:"approved_at"`
	UserID           *string         `gorm:"type:varchar(255);index" json:"user_id"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Profile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
