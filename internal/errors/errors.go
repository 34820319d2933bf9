package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a referenced user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrApplicantNotFound is returned when an applicant is not found.
	ErrApplicantNotFound = errors.New("applicant not found")
	// ErrPaymentNotFound is returned when no payment matches the given identifiers.
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrMemberNotFound is returned when a member is not found.
	ErrMemberNotFound = errors.New("member not found")
	// ErrDuplicateApplicant is returned when a user already has an application.
	ErrDuplicateApplicant = errors.New("applicant with the same user ID already exists")
	// ErrDuplicatePayment is returned when a payment external ID is already used.
	ErrDuplicatePayment = errors.New("payment with this external ID already exists")
	// ErrInvalidReferrer is returned when the referred member does not exist.
	ErrInvalidReferrer = errors.New("referred member does not exist")
	// ErrApplicationClosed is returned when accept/reject would reverse a terminal decision.
	ErrApplicationClosed = errors.New("application already reviewed")
)

// GatewayError carries the payment provider's original error payload so
// callers see exactly what the gateway reported.
type GatewayError struct {
	StatusCode int
	Body       string
}

func (e *GatewayError) Error() string {
	if e.Body != "" {
		return e.Body
	}
	return http.StatusText(e.StatusCode)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var gatewayErr *GatewayError
	if errors.As(err, &gatewayErr) {
		return NewHTTPError(http.StatusBadGateway, gatewayErr.Error(), "GATEWAY_ERROR")
	}

	switch {
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrApplicantNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "APPLICANT_NOT_FOUND")
	case errors.Is(err, ErrPaymentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PAYMENT_NOT_FOUND")
	case errors.Is(err, ErrMemberNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "MEMBER_NOT_FOUND")
	case errors.Is(err, ErrDuplicateApplicant):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_APPLICANT")
	case errors.Is(err, ErrDuplicatePayment):
		return NewHTTPError(http.StatusConflict, err.Error(), "DUPLICATE_PAYMENT")
	case errors.Is(err, ErrApplicationClosed):
		return NewHTTPError(http.StatusConflict, err.Error(), "APPLICATION_CLOSED")
	case errors.Is(err, ErrInvalidReferrer):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_REFERRER")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
