package handler

import (
	"github.com/labstack/echo/v4"

	"campusrent/internal/usecase"
	"campusrent/pkg/errors"
	"campusrent/pkg/response"
	"campusrent/pkg/utils"
)

type AdminHandler struct {
	trustUseCase *usecase.TrustUseCase
}

func NewAdminHandler(trustUseCase *usecase.TrustUseCase) *AdminHandler {
	return &AdminHandler{
		trustUseCase: trustUseCase,
	}
}

func (h *AdminHandler) ListReports(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	reports, total, err := h.trustUseCase.ListReports(c.Request().Context(), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reports, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) ListBlockedUsers(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	users, total, err := h.trustUseCase.ListBlockedUsers(c.Request().Context(), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, users, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) UnblockUser(c echo.Context) error {
	userID := c.Param("userId")
	if userID == "" {
		return response.Error(c, errors.BadRequest("User ID is required", nil))
	}

	user, err := h.trustUseCase.Unblock(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
