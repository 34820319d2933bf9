package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nkengderick/biotec-api/internal/cache"
	apperrors "github.com/nkengderick/biotec-api/internal/errors"
	"github.com/nkengderick/biotec-api/internal/metrics"
	"github.com/nkengderick/biotec-api/internal/model"
	"github.com/nkengderick/biotec-api/internal/notifier"
	"github.com/nkengderick/biotec-api/internal/repository"
)

// MembershipConfig carries the workflow's fixed parameters.
type MembershipConfig struct {
	OnboardingFee      int64
	OnboardingCurrency string
	RedirectURL        string
	TeamEmail          string
}

// ApplyResult is the outcome of a submitted application. Message degrades
// when the confirmation email could not be sent; the application itself is
// still created.
type ApplyResult struct {
	Message       string           `json:"message"`
	Applicant     *model.Applicant `json:"applicant"`
	PaymentLink   string           `json:"payment_link,omitempty"`
	TransactionID string           `json:"transaction_id,omitempty"`
}

// PromotionResult is the outcome of accepting an application.
type PromotionResult struct {
	Message     string            `json:"message"`
	Applicant   *model.Applicant  `json:"applicant"`
	UpdatedUser *model.User       `json:"updated_user"`
	NewMember   *model.Member     `json:"new_member"`
	RoleGrant   *model.MemberRole `json:"role_grant"`
}

// RejectionResult is the outcome of rejecting an application.
type RejectionResult struct {
	Message   string           `json:"message"`
	Applicant *model.Applicant `json:"applicant"`
}

// MembershipService orchestrates the application workflow: submit with an
// onboarding payment, then accept-and-promote or reject. Promotion writes
// run in one transaction; notifications are best-effort and never undo the
// business outcome.
type MembershipService interface {
	Apply(ctx context.Context, input ApplyInput) (*ApplyResult, error)
	AcceptApplication(ctx context.Context, applicantID uuid.UUID) (*PromotionResult, error)
	RejectApplication(ctx context.Context, applicantID uuid.UUID) (*RejectionResult, error)
	Members(ctx context.Context) ([]model.Member, error)
	MemberByID(ctx context.Context, memberID uuid.UUID) (*model.Member, error)
}

type membershipService struct {
	applicants  ApplicantService
	payments    PaymentService
	allocator   *MemberCodeAllocator
	uow         repository.UnitOfWork
	users       repository.UserRepository
	members     repository.MemberRepository
	memberRoles repository.MemberRoleRepository
	sender      notifier.Sender
	collector   *metrics.Collector
	cache       *cache.Client
	cfg         MembershipConfig
}

// NewMembershipService creates the workflow orchestrator.
func NewMembershipService(
	applicants ApplicantService,
	payments PaymentService,
	allocator *MemberCodeAllocator,
	uow repository.UnitOfWork,
	users repository.UserRepository,
	members repository.MemberRepository,
	memberRoles repository.MemberRoleRepository,
	sender notifier.Sender,
	collector *metrics.Collector,
	cacheClient *cache.Client,
	cfg MembershipConfig,
) MembershipService {
	return &membershipService{
		applicants:  applicants,
		payments:    payments,
		allocator:   allocator,
		uow:         uow,
		users:       users,
		members:     members,
		memberRoles: memberRoles,
		sender:      sender,
		collector:   collector,
		cache:       cacheClient,
		cfg:         cfg,
	}
}

// Apply creates the application, opens the onboarding payment and notifies
// the applicant and the team. Payment and notification failures degrade the
// message but do not undo the created application.
func (s *membershipService) Apply(ctx context.Context, input ApplyInput) (*ApplyResult, error) {
	applicant, err := s.applicants.Apply(ctx, input)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	var paymentLink, transactionID string
	payResult, err := s.payments.MakePayment(ctx, MakePaymentInput{
		ExternalID:  applicant.UserID.String(),
		UserID:      applicant.UserID,
		Amount:      decimal.NewFromInt(s.cfg.OnboardingFee),
		Currency:    s.cfg.OnboardingCurrency,
		Email:       user.Email,
		Message:     "Welcome payment for new user",
		RedirectURL: s.cfg.RedirectURL,
	})
	if err != nil {
		log.Printf("payment creation failed for applicant %s: %v", applicant.ID, err)
	} else {
		paymentLink = payResult.Link
		transactionID = payResult.TransactionID
		if err := s.applicants.AttachTransaction(ctx, applicant.ID, transactionID); err != nil {
			log.Printf("store transaction id for applicant %s: %v", applicant.ID, err)
		} else {
			applicant.TransactionID = transactionID
		}
	}

	emailSent := s.notify(ctx, user.Email, "Application Received", "application-confirmation", map[string]interface{}{
		"userName":       user.FirstName,
		"emailTitle":     "Application Received",
		"actionRequired": true,
		"actionUrl":      paymentLink,
		"actionText":     "Complete Your Application With Payment",
		"secondaryInfo":  "We will review your application and get back to you soon.",
	})

	if s.cfg.TeamEmail != "" {
		applicantName := user.FirstName + " " + user.LastName
		s.notify(ctx, s.cfg.TeamEmail,
			"New Application Received: "+applicantName,
			"new-applicant-notification", map[string]interface{}{
				"emailTitle":         "New Application: " + applicantName,
				"applicantName":      applicantName,
				"applicantEmail":     user.Email,
				"specializationArea": input.SpecializationArea,
			})
	}

	message := "Application submitted successfully, and confirmation email sent"
	if !emailSent {
		message = "Application submitted successfully, but confirmation email failed to send"
	}

	return &ApplyResult{
		Message:       message,
		Applicant:     applicant,
		PaymentLink:   paymentLink,
		TransactionID: transactionID,
	}, nil
}

// AcceptApplication promotes an applicant into a member. All writes (user
// type, member, role grant, applicant status) commit in one transaction;
// a failure anywhere rolls everything back. The promotion is idempotent:
// replaying an accept for an already-promoted applicant returns the
// existing member without creating a second one.
func (s *membershipService) AcceptApplication(ctx context.Context, applicantID uuid.UUID) (*PromotionResult, error) {
	applicant, err := s.applicants.ByID(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.members.FindByUserID(ctx, applicant.UserID); err == nil {
		grants, _ := s.memberRoles.ListByMember(ctx, existing.ID)
		var grant *model.MemberRole
		if len(grants) > 0 {
			grant = &grants[0]
		}
		user, _ := s.users.FindByID(ctx, applicant.UserID)
		s.collector.RecordPromotion("replayed")
		return &PromotionResult{
			Message:     "Application already accepted",
			Applicant:   applicant,
			UpdatedUser: user,
			NewMember:   existing,
			RoleGrant:   grant,
		}, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("check existing member: %w", err)
	}

	if applicant.Status == model.ApplicationStatusRejected {
		return nil, apperrors.ErrApplicationClosed
	}

	var (
		user   *model.User
		member *model.Member
		grant  *model.MemberRole
	)
	err = s.uow.Do(ctx, func(ctx context.Context, repos repository.Repos) error {
		var txErr error
		user, txErr = repos.Users.FindByID(ctx, applicant.UserID)
		if txErr != nil {
			if txErr == gorm.ErrRecordNotFound {
				return apperrors.ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", txErr)
		}

		if txErr = repos.Users.UpdateType(ctx, user.ID, model.UserTypeMember); txErr != nil {
			return fmt.Errorf("promote user: %w", txErr)
		}
		user.UserType = model.UserTypeMember

		code, txErr := s.allocator.Allocate(ctx, repos.Counters, user.UserCategory)
		if txErr != nil {
			return txErr
		}

		member = &model.Member{
			UserID:          user.ID,
			Bio:             applicant.MotivationLetter,
			Specialization:  applicant.SpecializationArea,
			ResumeURL:       applicant.ResumeURL,
			ProfilePhotoURL: applicant.ProfilePhotoURL,
			Role:            model.RoleRegular,
			MemberCode:      code,
			CardIssued:      false,
		}
		if txErr = repos.Members.Create(ctx, member); txErr != nil {
			return fmt.Errorf("create member: %w", txErr)
		}

		grant = &model.MemberRole{
			MemberID:   member.ID,
			Role:       model.RoleRegular,
			AssignedBy: "system",
		}
		if txErr = repos.MemberRoles.Create(ctx, grant); txErr != nil {
			return fmt.Errorf("record role grant: %w", txErr)
		}

		now := time.Now()
		if txErr = repos.Applicants.SetStatus(ctx, applicant.ID, model.ApplicationStatusApproved, now); txErr != nil {
			return fmt.Errorf("approve applicant: %w", txErr)
		}
		applicant.Status = model.ApplicationStatusApproved
		applicant.ReviewedAt = &now
		return nil
	})
	if err != nil {
		s.collector.RecordPromotion("failed")
		return nil, err
	}

	s.collector.RecordPromotion("success")
	_ = s.cache.Delete(ctx, membersCacheKey)

	emailSent := s.notify(ctx, user.Email, "Welcome to the Association", "application-accepted", map[string]interface{}{
		"userName":   user.FirstName,
		"emailTitle": "Application Accepted",
		"memberCode": member.MemberCode,
		"role":       string(member.Role),
	})

	message := "Application accepted and member created"
	if !emailSent {
		message = "Application accepted and member created, but notification email failed to send"
	}

	return &PromotionResult{
		Message:     message,
		Applicant:   applicant,
		UpdatedUser: user,
		NewMember:   member,
		RoleGrant:   grant,
	}, nil
}

// RejectApplication marks the application rejected and notifies the
// applicant. The user record is never touched on this path.
func (s *membershipService) RejectApplication(ctx context.Context, applicantID uuid.UUID) (*RejectionResult, error) {
	applicant, err := s.applicants.Reject(ctx, applicantID)
	if err != nil {
		return nil, err
	}

	emailSent := true
	if user, err := s.users.FindByID(ctx, applicant.UserID); err == nil {
		emailSent = s.notify(ctx, user.Email, "Application Update", "application-rejected", map[string]interface{}{
			"userName":      user.FirstName,
			"emailTitle":    "Application Update",
			"secondaryInfo": "Thank you for your interest. You are welcome to apply again in the future.",
		})
	}

	message := "Application rejected"
	if !emailSent {
		message = "Application rejected, but notification email failed to send"
	}
	return &RejectionResult{Message: message, Applicant: applicant}, nil
}

const (
	membersCacheKey = "members:list"
	membersCacheTTL = 5 * time.Minute
)

// Members lists all member profiles through a short-lived cache.
func (s *membershipService) Members(ctx context.Context) ([]model.Member, error) {
	var cached []model.Member
	if s.cache.GetJSON(ctx, membersCacheKey, &cached) {
		return cached, nil
	}

	members, err := s.members.List(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetJSON(ctx, membersCacheKey, members, membersCacheTTL)
	return members, nil
}

// MemberByID loads one member profile.
func (s *membershipService) MemberByID(ctx context.Context, memberID uuid.UUID) (*model.Member, error) {
	member, err := s.members.FindByID(ctx, memberID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

// notify attempts a best-effort email and reports whether it was sent.
func (s *membershipService) notify(ctx context.Context, to, subject, template string, data map[string]interface{}) bool {
	if s.sender == nil || to == "" {
		return false
	}
	if err := s.sender.Send(ctx, to, subject, template, data); err != nil {
		log.Printf("failed to send %s email to %s: %v", template, to, err)
		return false
	}
	return true
}
