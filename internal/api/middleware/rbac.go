package middleware

import (
	"slices"

	"github.com/labstack/echo/v4"

	"github.com/gemach/admin-console/internal/api/handler"
	"github.com/gemach/admin-console/internal/core/domain"
)

// RBAC admits requests whose token role is one of roles. It must run after
// Auth. Denials surface as domain.ErrForbidden so the error handler renders them.
func RBAC(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(handler.CtxRole).(string)
			if !slices.Contains(roles, role) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
