package controller

import (
	"availability-service/core/controller"
	"availability-service/core/errors"
	"availability-service/modules/auth/dto"
	"availability-service/modules/auth/service"

	"github.com/labstack/echo/v4"
)

// AuthController handles token minting
type AuthController struct {
	controller.BaseController
	AuthService service.AuthServiceInterface
}

// NewAuthController creates a new controller
func NewAuthController(svc service.AuthServiceInterface) *AuthController {
	return &AuthController{
		BaseController: controller.NewBaseController(),
		AuthService:    svc,
	}
}

// IssueToken handles POST /public/auth/token
// @Summary Mint a management API token
// @Description Exchange the service API key for a Bearer token used on /private routes
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "API key and client name"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} errors.AppError
// @Router /public/auth/token [post]
func (c *AuthController) IssueToken(ctx echo.Context) error {
	var req dto.TokenRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidRequestData, "Invalid request data")
	}

	result, appErr := c.AuthService.IssueToken(ctx.Request().Context(), &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}
	return c.SuccessResponse(ctx, result, "Token issued successfully")
}
