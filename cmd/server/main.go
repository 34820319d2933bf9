package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/nkengderick/biotec-api/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nkengderick/biotec-api/internal/auth"
	"github.com/nkengderick/biotec-api/internal/cache"
	"github.com/nkengderick/biotec-api/internal/config"
	"github.com/nkengderick/biotec-api/internal/db"
	"github.com/nkengderick/biotec-api/internal/fapshi"
	"github.com/nkengderick/biotec-api/internal/handler"
	"github.com/nkengderick/biotec-api/internal/metrics"
	"github.com/nkengderick/biotec-api/internal/model"
	"github.com/nkengderick/biotec-api/internal/notifier"
	"github.com/nkengderick/biotec-api/internal/repository"
	"github.com/nkengderick/biotec-api/internal/router"
	"github.com/nkengderick/biotec-api/internal/service"
)

// @title Biotec Membership API
// @version 1.0
// @description Membership application, onboarding payment and promotion workflow with JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.MemberRole{},
			&model.Member{},
			&model.Applicant{},
			&model.Payment{},
			&model.MemberCodeCounter{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	// Run migrations for all models
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

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	applicantRepo := repository.NewApplicantRepository(gormDB)
	paymentRepo := repository.NewPaymentRepository(gormDB)
	memberRepo := repository.NewMemberRepository(gormDB)
	memberRoleRepo := repository.NewMemberRoleRepository(gormDB)
	uow := repository.NewUnitOfWork(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Gateway, mail and metrics
	gateway := fapshi.NewClient(cfg.FapshiBaseURL, cfg.FapshiAPIUser, cfg.FapshiAPIKey)
	mailSender := notifier.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	paymentService := service.NewPaymentService(paymentRepo, gateway, collector)
	applicantService := service.NewApplicantService(applicantRepo, userRepo, memberRepo)
	allocator := service.NewMemberCodeAllocator()
	membershipService := service.NewMembershipService(
		applicantService,
		paymentService,
		allocator,
		uow,
		userRepo,
		memberRepo,
		memberRoleRepo,
		mailSender,
		collector,
		cacheClient,
		service.MembershipConfig{
			OnboardingFee:      cfg.OnboardingFee,
			OnboardingCurrency: cfg.OnboardingCurrency,
			RedirectURL:        cfg.RedirectURL,
			TeamEmail:          cfg.TeamEmail,
		},
	)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	applicantHandler := handler.NewApplicantHandler(membershipService, applicantService)
	memberHandler := handler.NewMemberHandler(membershipService)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg.OnboardingCurrency, cfg.RedirectURL)
	webhookHandler := handler.NewWebhookHandler(paymentService, collector)

	// Register routes
	router.Register(
		e,
		cfg,
		registry,
		authHandler,
		applicantHandler,
		memberHandler,
		paymentHandler,
		webhookHandler,
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
