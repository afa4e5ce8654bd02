package auth

import (
	"availability-service/modules/auth/controller"
	"availability-service/modules/auth/router"
	"availability-service/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// Init initializes the auth module and registers the token endpoint.
func Init(e *echo.Echo) {
	svc := service.NewAuthService()
	ctrl := controller.NewAuthController(svc)
	router.NewAuthRouter(ctrl).Setup(e)
}
