package handler

import (
	"log/slog"
	"net/http"

	"buildseason/internal/domain/model"
	"buildseason/internal/middleware"
	"buildseason/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type IDResponse struct {
	ID string `json:"id"`
}

var statusByKind = map[usecase.ErrorKind]int{
	usecase.KindValidation:   http.StatusBadRequest,
	usecase.KindUnauthorized: http.StatusUnauthorized,
	usecase.KindForbidden:    http.StatusForbidden,
	usecase.KindNotFound:     http.StatusNotFound,
	usecase.KindInvalidState: http.StatusConflict,
	usecase.KindStorage:      http.StatusInternalServerError,
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	ctx := c.Request().Context()

	if ae, ok := usecase.AsAppError(err); ok {
		status, known := statusByKind[ae.Kind]
		if !known {
			status = http.StatusInternalServerError
		}
		if status == http.StatusInternalServerError {
			slog.ErrorContext(ctx, "request failed",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
			return c.JSON(status, ErrorResponse{Error: "internal error", Code: string(usecase.KindStorage)})
		}
		return c.JSON(status, ErrorResponse{Error: ae.Message, Code: string(ae.Kind)})
	}

	//500
	slog.ErrorContext(ctx, "unexpected error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error", Code: string(usecase.KindStorage)})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: string(usecase.KindValidation)})
}

// middlewareが入れた値からCallerを組み立てる
func callerFromContext(c echo.Context) (usecase.Caller, bool) {
	userID, ok := c.Get(middleware.CtxUserIDKey).(string)
	if !ok || userID == "" {
		return usecase.Caller{}, false
	}
	teamID, ok := c.Get(middleware.CtxTeamIDKey).(string)
	if !ok || teamID == "" {
		return usecase.Caller{}, false
	}
	role, ok := c.Get(middleware.CtxTeamRoleKey).(model.Role)
	if !ok {
		return usecase.Caller{}, false
	}
	return usecase.Caller{TeamID: teamID, UserID: userID, Role: role}, true
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized", Code: string(usecase.KindUnauthorized)})
}
