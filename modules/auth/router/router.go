package router

import (
	"availability-service/modules/auth/controller"

	"github.com/labstack/echo/v4"
)

// AuthRouter handles auth routes
type AuthRouter struct {
	AuthController *controller.AuthController
}

// NewAuthRouter creates a new router
func NewAuthRouter(authController *controller.AuthController) *AuthRouter {
	return &AuthRouter{
		AuthController: authController,
	}
}

// Setup registers the public token endpoint
func (r *AuthRouter) Setup(e *echo.Echo) {
	e.POST("/api/v1/public/auth/token", r.AuthController.IssueToken)
}
