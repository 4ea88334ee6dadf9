package router

import (
	"campusrent/internal/adapter/api/handler"
	"campusrent/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupAdminRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {

	adminHandler := handler.GetAdminHandler()

	// Admin routes - require authentication and admin role
	admin := e.Group("/v1/admin")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.GET("/reports", adminHandler.ListReports)
	admin.GET("/users/blocked", adminHandler.ListBlockedUsers)
	admin.POST("/users/:userId/unblock", adminHandler.UnblockUser)
}
