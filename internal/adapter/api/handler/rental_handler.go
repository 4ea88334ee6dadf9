package handler

import (
	"context"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"campusrent/internal/usecase"
	"campusrent/pkg/errors"
	"campusrent/pkg/response"
	"campusrent/pkg/utils"
)

const maxItemPhotoSize = 5 * 1024 * 1024

// ItemPhotoStore uploads listing photos to blob storage.
type ItemPhotoStore interface {
	UploadItemPhoto(ctx context.Context, ownerID string, photo io.Reader, contentType string) (string, error)
}

type RentalHandler struct {
	rentalUseCase *usecase.RentalUseCase
	trustUseCase  *usecase.TrustUseCase
	photoStore    ItemPhotoStore
}

func NewRentalHandler(rentalUseCase *usecase.RentalUseCase, trustUseCase *usecase.TrustUseCase, photoStore ItemPhotoStore) *RentalHandler {
	return &RentalHandler{
		rentalUseCase: rentalUseCase,
		trustUseCase:  trustUseCase,
		photoStore:    photoStore,
	}
}

type respondRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

type reportRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// CreateListing accepts multipart form data: item details plus an optional
// photo file that is pushed to blob storage before the rental is written.
func (h *RentalHandler) CreateListing(c echo.Context) error {
	uid := c.Get("uid").(string)

	itemName := c.FormValue("item_name")
	if itemName == "" {
		return response.Error(c, errors.BadRequest("item_name is required", nil))
	}

	price, err := strconv.Atoi(c.FormValue("price_per_hour"))
	if err != nil || price <= 0 {
		return response.Error(c, errors.BadRequest("price_per_hour must be a positive number", err))
	}

	block := c.FormValue("block")
	if block == "" {
		return response.Error(c, errors.BadRequest("block is required", nil))
	}

	icon := c.FormValue("icon")
	if icon == "" {
		icon = "🧮"
	}

	var photoUrl string
	if fileHeader, err := c.FormFile("photo"); err == nil {
		if fileHeader.Size > maxItemPhotoSize {
			return response.Error(c, errors.BadRequest("Item photo exceeds maximum allowed size (5MB)", nil))
		}

		file, err := fileHeader.Open()
		if err != nil {
			return response.Error(c, errors.Internal("Failed to read uploaded photo", err))
		}
		defer file.Close()

		contentType := fileHeader.Header.Get("Content-Type")
		photoUrl, err = h.photoStore.UploadItemPhoto(c.Request().Context(), uid, file, contentType)
		if err != nil {
			return response.Error(c, errors.Internal("Failed to store item photo", err))
		}
	}

	rental, err := h.rentalUseCase.CreateListing(c.Request().Context(), uid, usecase.CreateListingInput{
		ItemName:     itemName,
		PricePerHour: price,
		Block:        block,
		Icon:         icon,
		PhotoUrl:     photoUrl,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, rental)
}

func (h *RentalHandler) BrowseAvailable(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	rentals, total, err := h.rentalUseCase.BrowseAvailable(c.Request().Context(), c.QueryParam("block"), pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, rentals, total, pagination.Page, pagination.PageSize)
}

func (h *RentalHandler) GetRental(c echo.Context) error {
	rental, err := h.rentalUseCase.GetRental(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rental)
}

func (h *RentalHandler) ListIncoming(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	rentals, total, err := h.rentalUseCase.ListIncoming(c.Request().Context(), uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, rentals, total, pagination.Page, pagination.PageSize)
}

func (h *RentalHandler) ListBorrows(c echo.Context) error {
	uid := c.Get("uid").(string)
	pagination := utils.GetPaginationParams(c)

	rentals, total, err := h.rentalUseCase.ListBorrows(c.Request().Context(), uid, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, rentals, total, pagination.Page, pagination.PageSize)
}

func (h *RentalHandler) Request(c echo.Context) error {
	uid := c.Get("uid").(string)

	rental, err := h.rentalUseCase.Request(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rental)
}

func (h *RentalHandler) Respond(c echo.Context) error {
	var req respondRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	rental, err := h.rentalUseCase.Respond(c.Request().Context(), uid, c.Param("id"), req.Decision)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rental)
}

func (h *RentalHandler) MarkReturned(c echo.Context) error {
	uid := c.Get("uid").(string)

	rental, err := h.rentalUseCase.MarkReturned(c.Request().Context(), uid, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, rental)
}

func (h *RentalHandler) Report(c echo.Context) error {
	var req reportRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	uid := c.Get("uid").(string)

	outcome, err := h.trustUseCase.FileReport(c.Request().Context(), uid, c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, outcome)
}
