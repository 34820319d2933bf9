package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberRole is an append-only log entry recording a role grant. The member's
// current role is denormalized onto Member.Role; this table is the audit trail.
type MemberRole struct {
	ID         uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	MemberID   uuid.UUID      `json:"member_id" gorm:"type:char(36);not null;index"`
	Role       MemberRoleName `json:"role" gorm:"type:varchar(32);not null"`
	AssignedAt time.Time      `json:"assigned_at"`
	AssignedBy string         `json:"assigned_by" gorm:"size:64"`
	CreatedAt  time.Time      `json:"created_at"`

	// Relations
	Member Member `json:"-" gorm:"foreignKey:MemberID"`
}

// BeforeCreate sets UUID and grant time before creating the record.
func (r *MemberRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.AssignedAt.IsZero() {
		r.AssignedAt = time.Now()
	}
	return nil
}
