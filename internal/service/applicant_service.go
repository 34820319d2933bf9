package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/nkengderick/biotec-api/internal/errors"
	"github.com/nkengderick/biotec-api/internal/model"
	"github.com/nkengderick/biotec-api/internal/repository"
)

// ApplyInput carries a membership application submission.
type ApplyInput struct {
	UserID             uuid.UUID
	MotivationLetter   string
	SpecializationArea string
	ReferredByMemberID *uuid.UUID
	ResumeURL          string
	ProfilePhotoURL    string
}

// ApplicantService is the applicant registry: it owns applicant records and
// their pending/approved/rejected transitions.
type ApplicantService interface {
	Apply(ctx context.Context, input ApplyInput) (*model.Applicant, error)
	Accept(ctx context.Context, applicantID uuid.UUID) (*model.Applicant, error)
	Reject(ctx context.Context, applicantID uuid.UUID) (*model.Applicant, error)
	ByID(ctx context.Context, applicantID uuid.UUID) (*model.Applicant, error)
	ByUserID(ctx context.Context, userID uuid.UUID) (*model.Applicant, error)
	All(ctx context.Context) ([]model.Applicant, error)
	AttachTransaction(ctx context.Context, applicantID uuid.UUID, transactionID string) error
}

type applicantService struct {
	applicantRepo repository.ApplicantRepository
	userRepo      repository.UserRepository
	memberRepo    repository.MemberRepository
}

// NewApplicantService creates a new applicant service.
func NewApplicantService(
	applicantRepo repository.ApplicantRepository,
	userRepo repository.UserRepository,
	memberRepo repository.MemberRepository,
) ApplicantService {
	return &applicantService{
		applicantRepo: applicantRepo,
		userRepo:      userRepo,
		memberRepo:    memberRepo,
	}
}

// Apply creates a pending application for a user. The referenced user must
// exist, the user must not already have an application, and a referrer, if
// given, must resolve to a real member.
func (s *applicantService) Apply(ctx context.Context, input ApplyInput) (*model.Applicant, error) {
	if _, err := s.userRepo.FindByID(ctx, input.UserID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}

	existing, err := s.applicantRepo.FindByUserID(ctx, input.UserID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check existing applicant: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateApplicant
	}

	if input.ReferredByMemberID != nil {
		if _, err := s.memberRepo.FindByID(ctx, *input.ReferredByMemberID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.ErrInvalidReferrer
			}
			return nil, fmt.Errorf("load referrer: %w", err)
		}
	}

	applicant := &model.Applicant{
		UserID:             input.UserID,
		MotivationLetter:   input.MotivationLetter,
		SpecializationArea: input.SpecializationArea,
		ReferredByMemberID: input.ReferredByMemberID,
		ResumeURL:          input.ResumeURL,
		ProfilePhotoURL:    input.ProfilePhotoURL,
		Status:             model.ApplicationStatusPending,
	}
	if err := s.applicantRepo.Create(ctx, applicant); err != nil {
		// The unique index on user_id closes the race the pre-check leaves open.
		if repository.IsDuplicateEntry(err) {
			return nil, apperrors.ErrDuplicateApplicant
		}
		return nil, fmt.Errorf("create applicant: %w", err)
	}
	return applicant, nil
}

// Accept marks an application approved. Accepting an already-approved
// application is an idempotent replay; accepting a rejected one is refused.
func (s *applicantService) Accept(ctx context.Context, applicantID uuid.UUID) (*model.Applicant, error) {
	return s.review(ctx, applicantID, model.ApplicationStatusApproved)
}

// Reject marks an application rejected, symmetric to Accept.
func (s *applicantService) Reject(ctx context.Context, applicantID uuid.UUID) (*model.Applicant, error) {
	return s.review(ctx, applicantID, model.ApplicationStatusRejected)
}

func (s *applicantService) review(ctx context.Context, applicantID uuid.UUID, decision model.ApplicationStatus) (*model.Applicant, error) {
	applicant, err := s.applicantRepo.FindByID(ctx, applicantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrApplicantNotFound
		}
		return nil, fmt.Errorf("load applicant: %w", err)
	}

	if applicant.Status == decision {
		return applicant, nil
	}
	if applicant.Status != model.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationClosed
	}

	now := time.Now()
	if err := s.applicantRepo.SetStatus(ctx, applicantID, decision, now); err != nil {
		return nil, fmt.Errorf("set status: %w", err)
	}
	applicant.Status = decision
	applicant.ReviewedAt = &now
	return applicant, nil
}

// ByID loads one application with its user and referrer.
func (s *applicantService) ByID(ctx context.Context, applicantID uuid.UUID) (*model.Applicant, error) {
	applicant, err := s.applicantRepo.FindByID(ctx, applicantID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrApplicantNotFound
		}
		return nil, err
	}
	return applicant, nil
}

// ByUserID loads the application belonging to a user.
func (s *applicantService) ByUserID(ctx context.Context, userID uuid.UUID) (*model.Applicant, error) {
	applicant, err := s.applicantRepo.FindByUserID(ctx, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrApplicantNotFound
		}
		return nil, err
	}
	return applicant, nil
}

// All lists every application, enriched with users and referrers.
func (s *applicantService) All(ctx context.Context) ([]model.Applicant, error) {
	return s.applicantRepo.List(ctx)
}

// AttachTransaction records the gateway transaction opened for this application.
func (s *applicantService) AttachTransaction(ctx context.Context, applicantID uuid.UUID, transactionID string) error {
	return s.applicantRepo.SetTransactionID(ctx, applicantID, transactionID)
}
