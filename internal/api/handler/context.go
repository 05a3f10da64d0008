package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Context keys set by middleware.Auth.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// ctxUser extracts the identity injected by the Auth middleware. A missing
// subject means the route was mounted without authentication.
func ctxUser(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(CtxUserID).(string)
	role, _ = c.Get(CtxRole).(string)
	if userID == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return userID, role, nil
}
