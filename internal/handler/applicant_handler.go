package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nkengderick/biotec-api/internal/errors"
	"github.com/nkengderick/biotec-api/internal/service"
)

// ApplicantHandler handles application workflow endpoints.
type ApplicantHandler struct {
	membership service.MembershipService
	applicants service.ApplicantService
}

// NewApplicantHandler creates a new applicant handler.
func NewApplicantHandler(membership service.MembershipService, applicants service.ApplicantService) *ApplicantHandler {
	return &ApplicantHandler{membership: membership, applicants: applicants}
}

// ApplyRequest represents an application submission.
type ApplyRequest struct {
	UserID             string `json:"user_id" validate:"required,uuid"`
	MotivationLetter   string `json:"motivation_letter" validate:"required"`
	SpecializationArea string `json:"specialization_area" validate:"required"`
	ReferredByMemberID string `json:"referred_by_member_id,omitempty" validate:"omitempty,uuid"`
	ResumeURL          string `json:"resume_url,omitempty" validate:"omitempty,url"`
	ProfilePhotoURL    string `json:"profile_photo_url,omitempty" validate:"omitempty,url"`
}

// Apply godoc
// @Summary Submit a membership application
// @Tags applicants
// @Accept json
// @Produce json
// @Param request body ApplyRequest true "Application data"
// @Success 201 {object} service.ApplyResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user-management/apply [post]
func (h *ApplicantHandler) Apply(c echo.Context) error {
	var req ApplyRequest
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

	input := service.ApplyInput{
		UserID:             userID,
		MotivationLetter:   req.MotivationLetter,
		SpecializationArea: req.SpecializationArea,
		ResumeURL:          req.ResumeURL,
		ProfilePhotoURL:    req.ProfilePhotoURL,
	}
	if req.ReferredByMemberID != "" {
		referrerID, err := uuid.Parse(req.ReferredByMemberID)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "invalid referred_by_member_id",
				Code:  "INVALID_UUID",
			})
		}
		input.ReferredByMemberID = &referrerID
	}

	result, err := h.membership.Apply(c.Request().Context(), input)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, result)
}

// AcceptApplication godoc
// @Summary Accept an application and promote the applicant to member
// @Tags applicants
// @Produce json
// @Security BearerAuth
// @Param applicantId path string true "Applicant ID"
// @Success 200 {object} service.PromotionResult
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user-management/accept-application/{applicantId} [put]
func (h *ApplicantHandler) AcceptApplication(c echo.Context) error {
	applicantID, err := uuid.Parse(c.Param("applicantId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid applicant id",
			Code:  "INVALID_UUID",
		})
	}

	result, err := h.membership.AcceptApplication(c.Request().Context(), applicantID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// RejectApplication godoc
// @Summary Reject an application
// @Tags applicants
// @Produce json
// @Security BearerAuth
// @Param applicantId path string true "Applicant ID"
// @Success 200 {object} service.RejectionResult
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user-management/reject-application/{applicantId} [put]
func (h *ApplicantHandler) RejectApplication(c echo.Context) error {
	applicantID, err := uuid.Parse(c.Param("applicantId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid applicant id",
			Code:  "INVALID_UUID",
		})
	}

	result, err := h.membership.RejectApplication(c.Request().Context(), applicantID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, result)
}

// ListApplicants godoc
// @Summary List all applicants
// @Tags applicants
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Applicant
// @Failure 500 {object} errors.ErrorResponse
// @Router /user-management/applicants [get]
func (h *ApplicantHandler) ListApplicants(c echo.Context) error {
	applicants, err := h.applicants.All(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, applicants)
}

// GetApplicantByUser godoc
// @Summary Get the application submitted by a user
// @Tags applicants
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} model.Applicant
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user-management/applicants/user/{userId} [get]
func (h *ApplicantHandler) GetApplicantByUser(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid user id",
			Code:  "INVALID_UUID",
		})
	}

	applicant, err := h.applicants.ByUserID(c.Request().Context(), userID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, applicant)
}
