package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/account-service/internal/core/domain"
)

// Require enforces the access policy for a single action. The role comes
// from the claims injected by Auth; a missing role is treated as ANONYMOUS.
func Require(action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role == "" {
				role = string(domain.RoleAnonymous)
			}
			if !domain.Allowed(domain.Role(role), action) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
