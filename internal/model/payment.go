package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus mirrors the states the payment gateway reports.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusSuccessful PaymentStatus = "SUCCESSFUL"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusExpired    PaymentStatus = "EXPIRED"
)

// Payment records one onboarding-fee payment attempt. ExternalID is the
// caller-supplied idempotency key; the unique index rejects a second open
// with the same key.
type Payment struct {
	ID            uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	UserID        uuid.UUID       `json:"user_id" gorm:"type:char(36);not null;index"`
	ExternalID    string          `json:"external_id" gorm:"size:64;not null;uniqueIndex"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	Currency      string          `json:"currency" gorm:"size:8;not null"`
	Email         string          `json:"email,omitempty" gorm:"size:255"`
	Message       string          `json:"message,omitempty" gorm:"size:255"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'PENDING';index"`
	TransactionID string          `json:"transaction_id,omitempty" gorm:"size:64;index"`
	PaymentMethod string          `json:"payment_method,omitempty" gorm:"size:32"`
	DateInitiated *time.Time      `json:"date_initiated,omitempty"`
	DateConfirmed *time.Time      `json:"date_confirmed,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`

	// Relations
	User User `json:"-" gorm:"foreignKey:UserID"`
}

// BeforeCreate sets UUID before creating the record.
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
