package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/account-service/internal/core/domain"
)

// ctxIdentity extracts the authenticated identity injected by the Auth
// middleware. A missing role means the middleware did not run; fail fast
// with 401 before any service call.
func ctxIdentity(c echo.Context) (userID string, role domain.Role, err error) {
	r, _ := c.Get("role").(string)
	if r == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	userID, _ = c.Get("user_id").(string)
	return userID, domain.Role(r), nil
}

// errorStatus maps domain errors to HTTP status codes. Unknown errors map
// to 500; the caller is expected to hide their detail from the client.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// serviceError renders a domain error using the canonical envelope. Internal
// errors are masked with a generic message.
func serviceError(c echo.Context, err error) error {
	status := errorStatus(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	return c.JSON(status, errorResponse{Error: msg})
}
