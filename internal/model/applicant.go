package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus represents the review state of an application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Applicant is a single membership application attempt for a user.
// The unique index on UserID enforces at most one application per user.
type Applicant struct {
	ID                 uuid.UUID         `json:"id" gorm:"type:char(36);primaryKey"`
	UserID             uuid.UUID         `json:"user_id" gorm:"type:char(36);not null;uniqueIndex"`
	MotivationLetter   string            `json:"motivation_letter" gorm:"type:text;not null"`
	ReferredByMemberID *uuid.UUID        `json:"referred_by_member_id,omitempty" gorm:"type:char(36);index"`
	SpecializationArea string            `json:"specialization_area" gorm:"size:255"`
	ResumeURL          string            `json:"resume_url,omitempty" gorm:"size:512"`
	ProfilePhotoURL    string            `json:"profile_photo_url,omitempty" gorm:"size:512"`
	Status             ApplicationStatus `json:"application_status" gorm:"type:varchar(20);not null;default:'pending';index"`
	TransactionID      string            `json:"transaction_id,omitempty" gorm:"size:64"`
	AppliedAt          time.Time         `json:"applied_at"`
	ReviewedAt         *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	// Relations
	User       User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ReferredBy *Member `json:"referred_by,omitempty" gorm:"foreignKey:ReferredByMemberID"`
}

// BeforeCreate sets UUID and submission time before creating the record.
func (a *Applicant) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now()
	}
	return nil
}
