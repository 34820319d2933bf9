package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/nkengderick/biotec-api/internal/errors"
	"github.com/nkengderick/biotec-api/internal/service"
)

// PaymentHandler handles payment ledger endpoints.
type PaymentHandler struct {
	paymentService service.PaymentService
	currency       string
	redirectURL    string
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(paymentService service.PaymentService, currency, redirectURL string) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, currency: currency, redirectURL: redirectURL}
}

// MakePaymentRequest opens a payment with the gateway.
type MakePaymentRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
	Amount     int64  `json:"amount" validate:"required,min=1"`
	UserID     string `json:"user_id" validate:"required,uuid"`
	Email      string `json:"email" validate:"required,email"`
	Message    string `json:"message,omitempty"`
}

// MakePaymentResponse carries the gateway redirect link for the frontend.
type MakePaymentResponse struct {
	Message       string `json:"message"`
	Link          string `json:"link"`
	TransactionID string `json:"transaction_id"`
	DateInitiated string `json:"date_initiated,omitempty"`
}

// VerifyPaymentRequest identifies a payment to reconcile.
type VerifyPaymentRequest struct {
	TransactionID string `json:"transaction_id" validate:"required"`
	ExternalID    string `json:"external_id" validate:"required"`
}

// MakePayment godoc
// @Summary Open a payment with the gateway
// @Tags payments
// @Accept json
// @Produce json
// @Param request body MakePaymentRequest true "Payment data"
// @Success 201 {object} MakePaymentResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /payments/make [post]
func (h *PaymentHandler) MakePayment(c echo.Context) error {
	var req MakePaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user_id",
			Code:  "INVALID_UUID",
		})
	}

	result, err := h.paymentService.MakePayment(c.Request().Context(), service.MakePaymentInput{
		ExternalID:  req.ExternalID,
		UserID:      userID,
		Amount:      decimal.NewFromInt(req.Amount),
		Currency:    h.currency,
		Email:       req.Email,
		Message:     req.Message,
		RedirectURL: h.redirectURL,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	resp := MakePaymentResponse{
		Message:       result.Message,
		Link:          result.Link,
		TransactionID: result.TransactionID,
	}
	if result.DateInitiated != nil {
		resp.DateInitiated = result.DateInitiated.Format("2006-01-02T15:04:05Z07:00")
	}
	return c.JSON(http.StatusCreated, resp)
}

// VerifyPayment godoc
// @Summary Verify the status of an existing payment
// @Tags payments
// @Accept json
// @Produce json
// @Param request body VerifyPaymentRequest true "Payment identifiers"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /payments/verify [post]
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	payment, details, err := h.paymentService.VerifyPayment(c.Request().Context(), req.TransactionID, req.ExternalID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Payment status: " + string(payment.Status),
		"details": details,
	})
}

// ListUserPayments godoc
// @Summary List a user's payment attempts
// @Tags payments
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {array} model.Payment
// @Failure 400 {object} errors.ErrorResponse
// @Router /payments/user/{userId} [get]
func (h *PaymentHandler) ListUserPayments(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}

	payments, err := h.paymentService.PaymentsByUser(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, payments)
}

// ExpirePayment godoc
// @Summary Expire a pending payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyPaymentRequest true "Payment identifiers"
// @Success 200 {object} model.Payment
// @Failure 404 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /payments/expire [post]
func (h *PaymentHandler) ExpirePayment(c echo.Context) error {
	var req VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	payment, err := h.paymentService.ExpirePayment(c.Request().Context(), req.TransactionID, req.ExternalID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, payment)
}
