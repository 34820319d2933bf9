package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MemberRoleName is the role a member holds within the association.
type MemberRoleName string

const (
	RolePresident MemberRoleName = "President"
	RoleSecretary MemberRoleName = "Secretary"
	RoleCEO       MemberRoleName = "CEO"
	RoleRegular   MemberRoleName = "Regular Member"
)

// Member is the profile created when an application is accepted. MemberCode
// is the human-readable code allocated at promotion time; the unique index
// is the backstop against duplicate allocation.
type Member struct {
	ID              uuid.UUID      `json:"id" gorm:"type:char(36);primaryKey"`
	UserID          uuid.UUID      `json:"user_id" gorm:"type:char(36);not null;uniqueIndex"`
	Bio             string         `json:"bio,omitempty" gorm:"type:text"`
	Skills          []string       `json:"skills,omitempty" gorm:"serializer:json"`
	Interests       []string       `json:"interests,omitempty" gorm:"serializer:json"`
	Specialization  string         `json:"specialization" gorm:"size:255;not null"`
	Address         string         `json:"address,omitempty" gorm:"size:512"`
	SocialLinks     []string       `json:"social_links,omitempty" gorm:"serializer:json"`
	ResumeURL       string         `json:"resume_url,omitempty" gorm:"size:512"`
	ProfilePhotoURL string         `json:"profile_photo_url,omitempty" gorm:"size:512"`
	Role            MemberRoleName `json:"role" gorm:"type:varchar(32);not null;default:'Regular Member'"`
	MemberCode      string         `json:"member_code" gorm:"size:16;uniqueIndex"`
	CardIssued      bool           `json:"card_issued" gorm:"default:false"`
	CardIssuedAt    *time.Time     `json:"card_issued_at,omitempty"`
	CardPDFURL      string         `json:"card_pdf_url,omitempty" gorm:"size:512"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Relations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
