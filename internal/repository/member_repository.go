package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nkengderick/biotec-api/internal/model"
)

// MemberRepository defines member persistence operations.
type MemberRepository interface {
	Create(ctx context.Context, member *model.Member) error
	Update(ctx context.Context, member *model.Member) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Member, error)
	List(ctx context.Context) ([]model.Member, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository.
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member record.
func (r *memberRepository) Create(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

// Update updates an existing member record.
func (r *memberRepository) Update(ctx context.Context, member *model.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// FindByID finds a member by ID with its user joined.
func (r *memberRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// FindByUserID finds the member profile belonging to a user.
func (r *memberRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Member, error) {
	var member model.Member
	if err := r.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// List returns all members with their users joined.
func (r *memberRepository) List(ctx context.Context) ([]model.Member, error) {
	var members []model.Member
	if err := r.db.WithContext(ctx).Preload("User").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// MemberRoleRepository defines role-grant log operations.
type MemberRoleRepository interface {
	Create(ctx context.Context, grant *model.MemberRole) error
	ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.MemberRole, error)
}

type memberRoleRepository struct {
	db *gorm.DB
}

// NewMemberRoleRepository creates a new member role repository.
func NewMemberRoleRepository(db *gorm.DB) MemberRoleRepository {
	return &memberRoleRepository{db: db}
}

// Create appends a role grant to the audit log.
func (r *memberRoleRepository) Create(ctx context.Context, grant *model.MemberRole) error {
	return r.db.WithContext(ctx).Create(grant).Error
}

// ListByMember returns role grants for a member, oldest first.
func (r *memberRoleRepository) ListByMember(ctx context.Context, memberID uuid.UUID) ([]model.MemberRole, error) {
	var grants []model.MemberRole
	if err := r.db.WithContext(ctx).
		Where("member_id = ?", memberID).
		Order("assigned_at ASC").
		Find(&grants).Error; err != nil {
		return nil, err
	}
	return grants, nil
}
