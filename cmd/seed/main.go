package main

import (
	"context"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nkengderick/biotec-api/internal/config"
	"github.com/nkengderick/biotec-api/internal/db"
	"github.com/nkengderick/biotec-api/internal/model"
	"github.com/nkengderick/biotec-api/internal/repository"
	"github.com/nkengderick/biotec-api/internal/service"
)

// Seeds an admin account and a referrer member so a fresh install can
// review applications and accept referred applicants immediately.
func main() {
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Applicant{},
		&model.Payment{},
		&model.Member{},
		&model.MemberRole{},
		&model.MemberCodeCounter{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	ctx := context.Background()
	users := repository.NewUserRepository(gormDB)

	admin, err := seedUser(ctx, users, "admin@biotec.example", "Admin", "User", model.UserTypeAdmin, model.UserCategoryProfessional)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	log.Printf("admin user: %s (%s)", admin.Email, admin.ID)

	founder, err := seedUser(ctx, users, "founder@biotec.example", "Founding", "Member", model.UserTypeMember, model.UserCategoryProfessional)
	if err != nil {
		log.Fatalf("seed founder: %v", err)
	}

	members := repository.NewMemberRepository(gormDB)
	existing, err := members.FindByUserID(ctx, founder.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		log.Fatalf("check founder member: %v", err)
	}
	if existing != nil {
		log.Printf("founder member already exists: %s", existing.MemberCode)
		return
	}

	allocator := service.NewMemberCodeAllocator()
	uow := repository.NewUnitOfWork(gormDB)
	err = uow.Do(ctx, func(ctx context.Context, repos repository.Repos) error {
		code, err := allocator.Allocate(ctx, repos.Counters, founder.UserCategory)
		if err != nil {
			return err
		}
		member := &model.Member{
			UserID:         founder.ID,
			MemberCode:     code,
			Bio:            "Founding member seeded at install time.",
			Specialization: "Biotechnology",
			Role:           model.RoleRegular,
		}
		if err := repos.Members.Create(ctx, member); err != nil {
			return err
		}
		return repos.MemberRoles.Create(ctx, &model.MemberRole{
			MemberID:   member.ID,
			Role:       model.RoleRegular,
			AssignedBy: "seed",
		})
	})
	if err != nil {
		log.Fatalf("seed founder member: %v", err)
	}
	log.Println("seed complete")
}

func seedUser(ctx context.Context, users repository.UserRepository, email, first, last string, userType model.UserType, category model.UserCategory) (*model.User, error) {
	existing, err := users.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return existing, nil
	}
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    first,
		LastName:     last,
		UserType:     userType,
		UserCategory: category,
	}
	if err := users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
