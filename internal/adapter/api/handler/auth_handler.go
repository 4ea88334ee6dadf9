package handler

import (
	"campusrent/internal/usecase"
	"campusrent/pkg/response"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type sendOtpRequest struct {
	PhoneNumber    string `json:"phone_number" validate:"required,e164"`
	RecaptchaToken string `json:"recaptcha_token" validate:"required"`
}

type confirmOtpRequest struct {
	SessionInfo string `json:"session_info" validate:"required"`
	Code        string `json:"code" validate:"required,len=6"`
}

func (h *AuthHandler) SendOtp(c echo.Context) error {
	var req sendOtpRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	challenge, err := h.authUseCase.SendOtp(c.Request().Context(), req.PhoneNumber, req.RecaptchaToken)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, challenge)
}

func (h *AuthHandler) ConfirmOtp(c echo.Context) error {
	var req confirmOtpRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.ConfirmOtp(c.Request().Context(), req.SessionInfo, req.Code)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *AuthHandler) GetSession(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.authUseCase.GetSession(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
