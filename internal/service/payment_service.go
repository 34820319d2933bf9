package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/nkengderick/biotec-api/internal/errors"
	"github.com/nkengderick/biotec-api/internal/fapshi"
	"github.com/nkengderick/biotec-api/internal/metrics"
	"github.com/nkengderick/biotec-api/internal/model"
	"github.com/nkengderick/biotec-api/internal/repository"
)

// PaymentGateway is the slice of the Fapshi client the ledger depends on.
type PaymentGateway interface {
	InitiatePay(ctx context.Context, req fapshi.InitiateRequest) (*fapshi.InitiateResponse, error)
	PaymentStatus(ctx context.Context, transID string) (*fapshi.StatusResponse, error)
	ExpirePay(ctx context.Context, transID string) (*fapshi.StatusResponse, error)
}

// MakePaymentInput carries everything needed to open a payment.
type MakePaymentInput struct {
	ExternalID  string
	UserID      uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Email       string
	Message     string
	RedirectURL string
}

// MakePaymentResult is returned to the caller with the gateway redirect link.
type MakePaymentResult struct {
	Payment       *model.Payment
	Link          string
	TransactionID string
	DateInitiated *time.Time
	Message       string
}

// PaymentService is the payment ledger: it persists payment attempts,
// enforces externalId idempotency and reconciles status with the gateway.
type PaymentService interface {
	MakePayment(ctx context.Context, input MakePaymentInput) (*MakePaymentResult, error)
	VerifyPayment(ctx context.Context, transactionID, externalID string) (*model.Payment, *fapshi.StatusResponse, error)
	ReconcileByTransaction(ctx context.Context, transactionID string) (*model.Payment, error)
	ExpirePayment(ctx context.Context, transactionID, externalID string) (*model.Payment, error)
	PaymentsByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error)
}

type paymentService struct {
	paymentRepo repository.PaymentRepository
	gateway     PaymentGateway
	collector   *metrics.Collector
}

// NewPaymentService creates a new payment service.
func NewPaymentService(paymentRepo repository.PaymentRepository, gateway PaymentGateway, collector *metrics.Collector) PaymentService {
	return &paymentService{
		paymentRepo: paymentRepo,
		gateway:     gateway,
		collector:   collector,
	}
}

// MakePayment opens a payment for the given external ID. The external ID is
// the idempotency key: a second open with the same key fails with
// ErrDuplicatePayment, both at the pre-check and at the unique index.
func (s *paymentService) MakePayment(ctx context.Context, input MakePaymentInput) (*MakePaymentResult, error) {
	existing, err := s.paymentRepo.FindByExternalID(ctx, input.ExternalID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check external id: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicatePayment
	}

	payment := &model.Payment{
		UserID:     input.UserID,
		ExternalID: input.ExternalID,
		Amount:     input.Amount,
		Currency:   input.Currency,
		Email:      input.Email,
		Message:    input.Message,
		Status:     model.PaymentStatusPending,
	}
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		if repository.IsDuplicateEntry(err) {
			return nil, apperrors.ErrDuplicatePayment
		}
		return nil, fmt.Errorf("create payment: %w", err)
	}

	resp, err := s.gateway.InitiatePay(ctx, fapshi.InitiateRequest{
		Amount:      input.Amount.IntPart(),
		Email:       input.Email,
		ExternalID:  input.ExternalID,
		UserID:      input.UserID.String(),
		Message:     input.Message,
		RedirectURL: input.RedirectURL,
	})
	if err != nil {
		// Gateway errors bubble up verbatim; the PENDING record remains
		// so the attempt is visible in the ledger.
		return nil, err
	}

	payment.TransactionID = resp.TransID
	payment.DateInitiated = fapshi.ParseTime(resp.DateInitiated)
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("store transaction id: %w", err)
	}

	s.collector.RecordPaymentInitiated()

	return &MakePaymentResult{
		Payment:       payment,
		Link:          resp.Link,
		TransactionID: resp.TransID,
		DateInitiated: payment.DateInitiated,
		Message:       resp.Message,
	}, nil
}

// VerifyPayment reconciles a payment identified by the joint
// (transactionID, externalID) pair against the gateway's current view.
func (s *paymentService) VerifyPayment(ctx context.Context, transactionID, externalID string) (*model.Payment, *fapshi.StatusResponse, error) {
	payment, err := s.paymentRepo.FindByTransactionAndExternalID(ctx, transactionID, externalID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, apperrors.ErrPaymentNotFound
		}
		return nil, nil, fmt.Errorf("load payment: %w", err)
	}

	resp, err := s.gateway.PaymentStatus(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}

	payment, err = s.applyStatus(ctx, payment, resp)
	if err != nil {
		return nil, nil, err
	}
	return payment, resp, nil
}

// ReconcileByTransaction is the webhook path: the gateway is treated as the
// single source of truth, so the webhook payload is never trusted directly.
// The status is re-fetched and matched to the ledger by the gateway-reported
// external ID.
func (s *paymentService) ReconcileByTransaction(ctx context.Context, transactionID string) (*model.Payment, error) {
	resp, err := s.gateway.PaymentStatus(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.FindByTransactionAndExternalID(ctx, transactionID, resp.ExternalID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("load payment: %w", err)
	}

	return s.applyStatus(ctx, payment, resp)
}

// applyStatus overwrites the stored status from a gateway report, but only
// when the report is newer than what is already recorded. A stale poll
// result arriving after a webhook write (or vice versa) is dropped instead
// of clobbering the fresher state.
func (s *paymentService) applyStatus(ctx context.Context, payment *model.Payment, resp *fapshi.StatusResponse) (*model.Payment, error) {
	confirmed := fapshi.ParseTime(resp.DateConfirmed)
	if payment.DateConfirmed != nil {
		if confirmed == nil || !confirmed.After(*payment.DateConfirmed) {
			return payment, nil
		}
	}

	payment.Status = model.PaymentStatus(resp.Status)
	payment.PaymentMethod = resp.Medium
	if confirmed != nil {
		payment.DateConfirmed = confirmed
	}
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}

	s.collector.RecordReconciliation(resp.Status)
	return payment, nil
}

// ExpirePayment asks the gateway to invalidate a pending transaction and
// records the EXPIRED state.
func (s *paymentService) ExpirePayment(ctx context.Context, transactionID, externalID string) (*model.Payment, error) {
	payment, err := s.paymentRepo.FindByTransactionAndExternalID(ctx, transactionID, externalID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("load payment: %w", err)
	}

	if _, err := s.gateway.ExpirePay(ctx, transactionID); err != nil {
		return nil, err
	}

	payment.Status = model.PaymentStatusExpired
	if err := s.paymentRepo.Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("update payment status: %w", err)
	}
	return payment, nil
}

// PaymentsByUser lists the ledger entries for one user.
func (s *paymentService) PaymentsByUser(ctx context.Context, userID uuid.UUID) ([]model.Payment, error) {
	return s.paymentRepo.ListByUser(ctx, userID)
}
