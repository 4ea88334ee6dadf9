package router

import (
	"campusrent/internal/adapter/api/handler"

	"github.com/labstack/echo/v4"
)

func SetupDevRouter(e *echo.Echo, environment string) {
	if environment != "development" {
		return
	}
	devTokenHandler := handler.GetDevTokenHandler()

	e.POST("/_dev/token", devTokenHandler.GenerateDevToken)
	e.POST("/_dev/firebase-token", devTokenHandler.GenerateFirebaseToken)
}
