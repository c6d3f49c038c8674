package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/pickmeapp/pickme-api/internal/api/middleware"
	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// ctxIdentity extracts the identity installed by the authentication gate and
// performs a fast-fail check before any service call: the user id must be
// present (presence proves the gate resolved an active account).
func ctxIdentity(c echo.Context) (userID, role string, err error) {
	userID, _ = c.Get(middleware.CtxUserID).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	if userID == "" || role == "" {
		return "", "", domain.ErrUnauthenticated
	}
	return userID, role, nil
}
