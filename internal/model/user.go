package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserType classifies a user within the association.
type UserType string

const (
	UserTypeAdmin     UserType = "admin"
	UserTypeMember    UserType = "member"
	UserTypeCustomer  UserType = "customer"
	UserTypeApplicant UserType = "applicant"
)

// UserCategory is the membership category a user applies under.
type UserCategory string

const (
	UserCategoryStudent        UserCategory = "student"
	UserCategoryProfessional   UserCategory = "professional"
	UserCategoryInstitutional  UserCategory = "institutional"
	UserCategoryOrganizational UserCategory = "organizational"
)

// User is the identity record referenced by applicants, members and payments.
type User struct {
	ID           uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	Email        string       `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string       `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	FirstName    string       `json:"first_name" gorm:"size:255;not null"`
	LastName     string       `json:"last_name" gorm:"size:255;not null"`
	UserType     UserType     `json:"user_type" gorm:"type:varchar(20);not null;default:'applicant';index"`
	UserCategory UserCategory `json:"user_category" gorm:"type:varchar(20);not null;default:'student'"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
