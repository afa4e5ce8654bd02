package middleware

import (
	"net/http"
	"strings"

	"availability-service/core/constants"
	"availability-service/core/controller"
	"availability-service/core/errors"
	"availability-service/core/logger"
	"availability-service/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

// AuthMiddleware guards the management surface. The public calculated-slots
// endpoint is registered outside of it.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrMissingAuthorizationHeader, "Authorization header is required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(http.StatusUnauthorized,
					errors.ErrInvalidTokenFormat, "Authorization header must be a Bearer token")
			}

			claims, err := utils.ValidateAndParseToken(parts[1])
			if err != nil {
				code := errors.ErrUnauthorized
				msg := "Invalid token"
				if err == utils.ErrTokenExpired {
					code = errors.ErrTokenExpired
					msg = "Token expired"
				}
				logger.Warn("Middleware:AuthMiddleware:Rejected", "error", err, "path", c.Path())
				return controller.NewErrorResponse(http.StatusUnauthorized, code, msg)
			}

			if claims.Scope != constants.ScopeTokenAccess {
				return controller.NewErrorResponse(http.StatusForbidden,
					errors.ErrForbidden, "Token scope does not allow this operation")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}
