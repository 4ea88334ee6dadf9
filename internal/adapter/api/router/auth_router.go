package router

import (
	"campusrent/internal/adapter/api/handler"
	"campusrent/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

// SetupAuthRouter initializes auth routes
func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	authHandler := handler.GetAuthHandler()

	// Public routes
	e.POST("/v1/auth/otp/send", authHandler.SendOtp)
	e.POST("/v1/auth/otp/confirm", authHandler.ConfirmOtp)

	// Protected routes
	protected := e.Group("/v1/auth")
	protected.Use(authMiddleware.Authenticate)

	protected.GET("/session", authHandler.GetSession)
}
