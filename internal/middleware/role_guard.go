package middleware

import (
	"net/http"

	"buildseason/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// contextに入っているチーム内ロールが roles のどれかか確認する。
func RequireRoles(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxTeamRoleKey).(model.Role)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}

			for _, r := range roles {
				if r == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("forbidden", "forbidden"))
		}
	}
}
