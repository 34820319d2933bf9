package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "github.com/nkengderick/biotec-api/internal/errors"
	"github.com/nkengderick/biotec-api/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateType(ctx context.Context, id uuid.UUID, userType model.UserType) error {
	args := m.Called(ctx, id, userType)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// MockApplicantRepository is a mock implementation of ApplicantRepository.
type MockApplicantRepository struct {
	mock.Mock
}

func (m *MockApplicantRepository) Create(ctx context.Context, applicant *model.Applicant) error {
	args := m.Called(ctx, applicant)
	return args.Error(0)
}

func (m *MockApplicantRepository) Update(ctx context.Context, applicant *model.Applicant) error {
	args := m.Called(ctx, applicant)
	return args.Error(0)
}

func (m *MockApplicantRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Applicant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Applicant), args.Error(1)
}

func (m *MockApplicantRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Applicant, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Applicant), args.Error(1)
}

func (m *MockApplicantRepository) List(ctx context.Context) ([]model.Applicant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Applicant), args.Error(1)
}

func (m *MockApplicantRepository) SetStatus(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewedAt time.Time) error {
	args := m.Called(ctx, id, status, reviewedAt)
	return args.Error(0)
}

func (m *MockApplicantRepository) SetTransactionID(ctx context.Context, id uuid.UUID, transactionID string) error {
	args := m.Called(ctx, id, transactionID)
	return args.Error(0)
}

// MockMemberRepository is a mock implementation of MemberRepository.
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Create(ctx context.Context, member *model.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) Update(ctx context.Context, member *model.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Member, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Member), args.Error(1)
}

func (m *MockMemberRepository) List(ctx context.Context) ([]model.Member, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Member), args.Error(1)
}

func TestApplicantService_Apply(t *testing.T) {
	userID := uuid.New()
	referrerID := uuid.New()

	tests := []struct {
		name          string
		input         ApplyInput
		setupMock     func(*MockApplicantRepository, *MockUserRepository, *MockMemberRepository)
		expectedError error
	}{
		{
			name: "successful application",
			input: ApplyInput{
				UserID:             userID,
				MotivationLetter:   "I want to join",
				SpecializationArea: "Genomics",
			},
			setupMock: func(mApp *MockApplicantRepository, mUser *MockUserRepository, mMem *MockMemberRepository) {
				mUser.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				mApp.On("FindByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
				mApp.On("Create", mock.Anything, mock.AnythingOfType("*model.Applicant")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "user does not exist",
			input: ApplyInput{
				UserID:             userID,
				MotivationLetter:   "I want to join",
				SpecializationArea: "Genomics",
			},
			setupMock: func(mApp *MockApplicantRepository, mUser *MockUserRepository, mMem *MockMemberRepository) {
				mUser.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name: "duplicate application",
			input: ApplyInput{
				UserID:             userID,
				MotivationLetter:   "I want to join",
				SpecializationArea: "Genomics",
			},
			setupMock: func(mApp *MockApplicantRepository, mUser *MockUserRepository, mMem *MockMemberRepository) {
				mUser.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				mApp.On("FindByUserID", mock.Anything, userID).Return(&model.Applicant{UserID: userID}, nil)
			},
			expectedError: apperrors.ErrDuplicateApplicant,
		},
		{
			name: "referrer does not exist",
			input: ApplyInput{
				UserID:             userID,
				MotivationLetter:   "I want to join",
				SpecializationArea: "Genomics",
				ReferredByMemberID: &referrerID,
			},
			setupMock: func(mApp *MockApplicantRepository, mUser *MockUserRepository, mMem *MockMemberRepository) {
				mUser.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				mApp.On("FindByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
				mMem.On("FindByID", mock.Anything, referrerID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidReferrer,
		},
		{
			name: "valid referrer",
			input: ApplyInput{
				UserID:             userID,
				MotivationLetter:   "I want to join",
				SpecializationArea: "Genomics",
				ReferredByMemberID: &referrerID,
			},
			setupMock: func(mApp *MockApplicantRepository, mUser *MockUserRepository, mMem *MockMemberRepository) {
				mUser.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID}, nil)
				mApp.On("FindByUserID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
				mMem.On("FindByID", mock.Anything, referrerID).Return(&model.Member{ID: referrerID}, nil)
				mApp.On("Create", mock.Anything, mock.AnythingOfType("*model.Applicant")).Return(nil)
			},
			expectedError: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockApp := new(MockApplicantRepository)
			mockUser := new(MockUserRepository)
			mockMem := new(MockMemberRepository)
			tt.setupMock(mockApp, mockUser, mockMem)

			service := NewApplicantService(mockApp, mockUser, mockMem)
			applicant, err := service.Apply(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, applicant)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, applicant)
				assert.Equal(t, model.ApplicationStatusPending, applicant.Status)
				assert.Equal(t, tt.input.UserID, applicant.UserID)
			}

			mockApp.AssertExpectations(t)
			mockUser.AssertExpectations(t)
			mockMem.AssertExpectations(t)
		})
	}
}

func TestApplicantService_Review(t *testing.T) {
	applicantID := uuid.New()

	tests := []struct {
		name          string
		decide        func(ApplicantService) (*model.Applicant, error)
		stored        *model.Applicant
		expectUpdate  bool
		expectedError error
	}{
		{
			name:         "accept pending application",
			decide:       func(s ApplicantService) (*model.Applicant, error) { return s.Accept(context.Background(), applicantID) },
			stored:       &model.Applicant{ID: applicantID, Status: model.ApplicationStatusPending},
			expectUpdate: true,
		},
		{
			name:         "reject pending application",
			decide:       func(s ApplicantService) (*model.Applicant, error) { return s.Reject(context.Background(), applicantID) },
			stored:       &model.Applicant{ID: applicantID, Status: model.ApplicationStatusPending},
			expectUpdate: true,
		},
		{
			name:   "accepting an approved application is a no-op",
			decide: func(s ApplicantService) (*model.Applicant, error) { return s.Accept(context.Background(), applicantID) },
			stored: &model.Applicant{ID: applicantID, Status: model.ApplicationStatusApproved},
		},
		{
			name:   "rejecting a rejected application is a no-op",
			decide: func(s ApplicantService) (*model.Applicant, error) { return s.Reject(context.Background(), applicantID) },
			stored: &model.Applicant{ID: applicantID, Status: model.ApplicationStatusRejected},
		},
		{
			name:          "rejecting an approved application is refused",
			decide:        func(s ApplicantService) (*model.Applicant, error) { return s.Reject(context.Background(), applicantID) },
			stored:        &model.Applicant{ID: applicantID, Status: model.ApplicationStatusApproved},
			expectedError: apperrors.ErrApplicationClosed,
		},
		{
			name:          "accepting a rejected application is refused",
			decide:        func(s ApplicantService) (*model.Applicant, error) { return s.Accept(context.Background(), applicantID) },
			stored:        &model.Applicant{ID: applicantID, Status: model.ApplicationStatusRejected},
			expectedError: apperrors.ErrApplicationClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockApp := new(MockApplicantRepository)
			mockApp.On("FindByID", mock.Anything, applicantID).Return(tt.stored, nil)
			if tt.expectUpdate {
				mockApp.On("SetStatus", mock.Anything, applicantID, mock.AnythingOfType("model.ApplicationStatus"), mock.AnythingOfType("time.Time")).Return(nil)
			}

			service := NewApplicantService(mockApp, new(MockUserRepository), new(MockMemberRepository))
			applicant, err := tt.decide(service)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError, err)
				assert.Nil(t, applicant)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, applicant)
			}

			mockApp.AssertExpectations(t)
		})
	}
}

func TestApplicantService_ApplyNotFound(t *testing.T) {
	applicantID := uuid.New()

	mockApp := new(MockApplicantRepository)
	mockApp.On("FindByID", mock.Anything, applicantID).Return(nil, gorm.ErrRecordNotFound)

	service := NewApplicantService(mockApp, new(MockUserRepository), new(MockMemberRepository))
	_, err := service.Accept(context.Background(), applicantID)

	assert.Equal(t, apperrors.ErrApplicantNotFound, err)
	mockApp.AssertExpectations(t)
}
