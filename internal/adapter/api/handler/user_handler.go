package handler

import (
	"io"

	"github.com/labstack/echo/v4"

	"campusrent/internal/usecase"
	"campusrent/pkg/errors"
	"campusrent/pkg/logger"
	"campusrent/pkg/response"
)

const maxIDPhotoSize = 8 * 1024 * 1024

type UserHandler struct {
	verificationUseCase *usecase.VerificationUseCase
	authUseCase         *usecase.AuthUseCase
}

func NewUserHandler(verificationUseCase *usecase.VerificationUseCase, authUseCase *usecase.AuthUseCase) *UserHandler {
	return &UserHandler{
		verificationUseCase: verificationUseCase,
		authUseCase:         authUseCase,
	}
}

// SubmitVerification accepts the captured ID frame as a multipart upload:
// roll_number form field plus an id_photo JPEG.
func (h *UserHandler) SubmitVerification(c echo.Context) error {
	uid := c.Get("uid").(string)

	rollNumber := c.FormValue("roll_number")
	if rollNumber == "" {
		return response.Error(c, errors.BadRequest("roll_number is required", nil))
	}

	fileHeader, err := c.FormFile("id_photo")
	if err != nil {
		return response.Error(c, errors.BadRequest("id_photo is required", err))
	}
	if fileHeader.Size > maxIDPhotoSize {
		return response.Error(c, errors.BadRequest("ID photo exceeds maximum allowed size (8MB)", nil))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded photo", err))
	}
	defer file.Close()

	photo, err := io.ReadAll(file)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded photo", err))
	}

	logger.Debug("Verification attempt by %s with roll %s (%d bytes)", uid, rollNumber, len(photo))

	result, err := h.verificationUseCase.SubmitVerification(c.Request().Context(), uid, rollNumber, photo)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *UserHandler) GetProfile(c echo.Context) error {
	uid := c.Get("uid").(string)

	user, err := h.authUseCase.GetSession(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, user)
}
