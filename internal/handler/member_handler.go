package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nkengderick/biotec-api/internal/errors"
	"github.com/nkengderick/biotec-api/internal/service"
)

// MemberHandler handles member read endpoints.
type MemberHandler struct {
	membership service.MembershipService
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(membership service.MembershipService) *MemberHandler {
	return &MemberHandler{membership: membership}
}

// ListMembers godoc
// @Summary List all members
// @Tags members
// @Produce json
// @Success 200 {array} model.Member
// @Failure 500 {object} errors.ErrorResponse
// @Router /user-management/members [get]
func (h *MemberHandler) ListMembers(c echo.Context) error {
	members, err := h.membership.Members(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, members)
}

// GetMember godoc
// @Summary Get a member profile
// @Tags members
// @Produce json
// @Param memberId path string true "Member ID"
// @Success 200 {object} model.Member
// @Failure 404 {object} errors.ErrorResponse
// @Router /user-management/members/{memberId} [get]
func (h *MemberHandler) GetMember(c echo.Context) error {
	memberID, err := uuid.Parse(c.Param("memberId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid member id",
			Code:  "INVALID_UUID",
		})
	}

	member, err := h.membership.MemberByID(c.Request().Context(), memberID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, member)
}
