package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repos bundles every repository bound to a single database handle. Inside
// UnitOfWork.Do the handle is one transaction, so writes through these
// repositories commit or roll back together.
type Repos struct {
	Users       UserRepository
	Applicants  ApplicantRepository
	Payments    PaymentRepository
	Members     MemberRepository
	MemberRoles MemberRoleRepository
	Counters    CounterRepository
}

// NewRepos constructs the repository bundle over db.
func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Users:       NewUserRepository(db),
		Applicants:  NewApplicantRepository(db),
		Payments:    NewPaymentRepository(db),
		Members:     NewMemberRepository(db),
		MemberRoles: NewMemberRoleRepository(db),
		Counters:    NewCounterRepository(db),
	}
}

// UnitOfWork runs a function against repositories bound to one transaction.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}

type unitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a transaction runner over db.
func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &unitOfWork{db: db}
}

// Do executes fn inside a database transaction.
func (u *unitOfWork) Do(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRepos(tx))
	})
}
