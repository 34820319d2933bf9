package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/nkengderick/biotec-api/internal/config"
	"github.com/nkengderick/biotec-api/internal/handler"
	"github.com/nkengderick/biotec-api/internal/metrics"
	"github.com/nkengderick/biotec-api/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	gatherer prometheus.Gatherer,
	authHandler *handler.AuthHandler,
	applicantHandler *handler.ApplicantHandler,
	memberHandler *handler.MemberHandler,
	paymentHandler *handler.PaymentHandler,
	webhookHandler *handler.WebhookHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/metrics", echo.WrapHandler(metrics.Handler(gatherer)))

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/signup", authHandler.SignUp)
	api.POST("/auth/signin", authHandler.SignIn)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)

	// The gateway calls this back without credentials.
	api.POST("/webhook/fapshi", webhookHandler.HandleFapshi)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
	}))

	// Application workflow
	secured.POST("/user-management/apply", applicantHandler.Apply)
	secured.GET("/user-management/applicants/user/:userId", applicantHandler.GetApplicantByUser)

	// Members
	secured.GET("/user-management/members", memberHandler.ListMembers)
	secured.GET("/user-management/members/:memberId", memberHandler.GetMember)

	// Payments
	secured.POST("/payments/make", paymentHandler.MakePayment)
	secured.POST("/payments/verify", paymentHandler.VerifyPayment)
	secured.GET("/payments/user/:userId", paymentHandler.ListUserPayments)

	// Admin-only routes
	admin := secured.Group("", RequireUserType(model.UserTypeAdmin))
	admin.GET("/user-management/applicants", applicantHandler.ListApplicants)
	admin.PUT("/user-management/accept-application/:applicantId", applicantHandler.AcceptApplication)
	admin.PUT("/user-management/reject-application/:applicantId", applicantHandler.RejectApplication)
	admin.POST("/payments/expire", paymentHandler.ExpirePayment)
}

// RequireUserType rejects requests whose token does not carry the given user type.
func RequireUserType(userType model.UserType) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
			}
			got, _ := claims["user_type"].(string)
			if model.UserType(got) != userType {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
