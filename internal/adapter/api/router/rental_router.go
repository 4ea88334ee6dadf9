package router

import (
	"campusrent/internal/adapter/api/handler"
	"campusrent/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupRentalRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {

	rentalHandler := handler.GetRentalHandler()

	rentals := e.Group("/v1/rentals")
	rentals.Use(authMiddleware.Authenticate)

	rentals.GET("", rentalHandler.BrowseAvailable)
	rentals.POST("", rentalHandler.CreateListing)
	rentals.GET("/:id", rentalHandler.GetRental)
	rentals.POST("/:id/request", rentalHandler.Request)
	rentals.POST("/:id/respond", rentalHandler.Respond)
	rentals.POST("/:id/return", rentalHandler.MarkReturned)
	rentals.POST("/:id/report", rentalHandler.Report)

	// Owner and renter dashboards
	e.GET("/v1/my-listings", rentalHandler.ListIncoming, authMiddleware.Authenticate)
	e.GET("/v1/my-borrows", rentalHandler.ListBorrows, authMiddleware.Authenticate)
}
