package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"buildseason/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// :teamId のメンバーか確認し、チームIDとロールをcontextに入れる。
// メンバーでないチームは存在しない扱い（404）。
func TeamMemberGuard(members repository.MemberRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_id を取得する
			userID, ok := c.Get(CtxUserIDKey).(string)
			if !ok || userID == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized", "unauthorized"))
			}

			teamID := c.Param("teamId")
			if _, err := uuid.Parse(teamID); err != nil {
				return c.JSON(http.StatusNotFound, errorJSON("team not found", "not_found"))
			}

			role, err := members.FindRole(c.Request().Context(), teamID, userID)
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, errorJSON("team not found", "not_found"))
			}
			if err != nil {
				slog.ErrorContext(c.Request().Context(), "team member lookup failed",
					slog.String("team_id", teamID),
					slog.String("error", err.Error()),
				)
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error", "internal"))
			}

			c.Set(CtxTeamIDKey, teamID)
			c.Set(CtxTeamRoleKey, role)

			return next(c)
		}
	}
}
