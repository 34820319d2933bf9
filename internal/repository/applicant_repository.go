package repository

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nkengderick/biotec-api/internal/model"
)

const mysqlDuplicateEntry = 1062

// ApplicantRepository defines applicant persistence operations.
type ApplicantRepository interface {
	Create(ctx context.Context, applicant *model.Applicant) error
	Update(ctx context.Context, applicant *model.Applicant) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Applicant, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Applicant, error)
	List(ctx context.Context) ([]model.Applicant, error)
	SetStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewedAt time.Time) error
	SetTransactionID(ctx context.Context, id uuid.UUID, transactionID string) error
}

type applicantRepository struct {
	db *gorm.DB
}

// NewApplicantRepository creates a new applicant repository.
func NewApplicantRepository(db *gorm.DB) ApplicantRepository {
	return &applicantRepository{db: db}
}

// Create inserts a new applicant. The unique index on user_id is the real
// guard against two applications racing the pre-check.
func (r *applicantRepository) Create(ctx context.Context, applicant *model.Applicant) error {
	return r.db.WithContext(ctx).Create(applicant).Error
}

// Update saves an existing applicant record.
func (r *applicantRepository) Update(ctx context.Context, applicant *model.Applicant) error {
	return r.db.WithContext(ctx).Save(applicant).Error
}

// FindByID loads an applicant with its user and referring member.
func (r *applicantRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Applicant, error) {
	var applicant model.Applicant
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ReferredBy").
		Where("id = ?", id).First(&applicant).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}

// FindByUserID loads the application for a user, enriched the same way.
func (r *applicantRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Applicant, error) {
	var applicant model.Applicant
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ReferredBy").
		Where("user_id = ?", userID).First(&applicant).Error; err != nil {
		return nil, err
	}
	return &applicant, nil
}

// List returns all applicants, newest first, with users and referrers joined.
func (r *applicantRepository) List(ctx context.Context) ([]model.Applicant, error) {
	var applicants []model.Applicant
	if err := r.db.WithContext(ctx).
		Preload("User").
		Preload("ReferredBy").
		Order("applied_at DESC").
		Find(&applicants).Error; err != nil {
		return nil, err
	}
	return applicants, nil
}

// SetStatus records the review decision and timestamp.
func (r *applicantRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Applicant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_at": reviewedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetTransactionID attaches the gateway transaction to the application.
func (r *applicantRepository) SetTransactionID(ctx context.Context, id uuid.UUID, transactionID string) error {
	return r.db.WithContext(ctx).Model(&model.Applicant{}).
		Where("id = ?", id).
		Update("transaction_id", transactionID).Error
}

// IsDuplicateEntry reports whether err is a MySQL unique-constraint violation.
func IsDuplicateEntry(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry
}
